package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/asteritime/asteritime/internal/domain/user"
)

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Authenticate against the server and save credentials",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register [username]",
	Short: "Create an account",
	RunE:  runRegister,
	Args:  cobra.MaximumNArgs(1),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget saved credentials",
	RunE:  runLogout,
	Args:  cobra.NoArgs,
}

func init() {
	registerCmd.Flags().String("email", "", "account email address")
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	username, err := promptUsername(args)
	if err != nil {
		return err
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	creds, _ := loadCredentials()
	c := newClient(creds)
	resp, err := c.Login(cmd.Context(), username, password)
	if err != nil {
		return err
	}

	if err := saveCredentials(&credentials{
		ServerURL:    serverURL(creds),
		Username:     resp.User.Username,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}); err != nil {
		return err
	}

	fmt.Printf("Logged in as %s\n", resp.User.Username)
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	username, err := promptUsername(args)
	if err != nil {
		return err
	}
	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		email, err = promptLine("Email: ")
		if err != nil {
			return err
		}
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	creds, _ := loadCredentials()
	c := newClient(creds)
	u, err := c.Register(cmd.Context(), user.CreateRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Account %s created; run `asteritime login` to sign in\n", u.Username)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	creds, err := loadCredentials()
	if err == nil && creds.RefreshToken != "" {
		// Best effort; the local file is removed either way.
		c := newClient(creds)
		c.SetToken(creds.AccessToken)
		if err := c.Logout(cmd.Context(), creds.RefreshToken); err != nil {
			slog.Debug("server-side logout failed", "error", err)
		}
	}
	path, err := credentialsPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func promptUsername(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	return promptLine("Username: ")
}

func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(raw), nil
}
