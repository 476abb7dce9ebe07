package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/asteritime/asteritime/internal/client"
	"github.com/asteritime/asteritime/internal/config"
	"github.com/asteritime/asteritime/internal/resilience"
)

// version is set at build time via ldflags.
var version = "dev"

var timeNow = time.Now

var (
	flagServer string
	flagJSON   bool
)

var rootCmd = &cobra.Command{
	Use:           "asteritime",
	Short:         "Personal time management from the terminal",
	Long:          `asteritime manages tasks across Eisenhower quadrants, keeps their statuses in sync with the clock, and tracks journal entries and Pomodoro focus time against an AsteriTime server.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "server base URL (default from saved credentials, else http://localhost:8080)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
}

// Execute runs the root command.
func Execute() {
	if _, err := rootCmd.ExecuteC(); err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			fmt.Fprintln(os.Stderr, "Error: not logged in or session expired; run `asteritime login`")
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// credentials is what `login` persists under the config dir.
type credentials struct {
	ServerURL    string `json:"serverUrl"`
	Username     string `json:"username"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func credentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "asteritime", "credentials.json"), nil
}

func loadCredentials() (*credentials, error) {
	path, err := credentialsPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &creds, nil
}

func saveCredentials(creds *credentials) error {
	path, err := credentialsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func serverURL(creds *credentials) string {
	if flagServer != "" {
		return flagServer
	}
	if creds != nil && creds.ServerURL != "" {
		return creds.ServerURL
	}
	return "http://localhost:8080"
}

var (
	cliCfgOnce sync.Once
	cliCfg     *config.Config
)

// clientConfig loads the client-side sections of the config file once.
// An unreadable or invalid file falls back to defaults so the CLI keeps
// working; the failure is visible with --verbose.
func clientConfig() *config.Config {
	cliCfgOnce.Do(func() {
		cfg, err := config.LoadClient()
		if err != nil {
			slog.Debug("client config fallback to defaults", "error", err)
			def := config.Defaults()
			cfg = &def
		}
		cliCfg = cfg
	})
	return cliCfg
}

// newClient builds an unauthenticated client, used by login and register.
func newClient(creds *credentials) *client.Client {
	c := client.New(serverURL(creds))
	b := clientConfig().Breaker
	c.SetBreaker(resilience.NewBreaker(b.MaxFailures, b.Timeout))
	return c
}

// authedClient loads saved credentials and returns a client with the access
// token attached. If the access token has expired the refresh token is
// exchanged and the new pair is saved.
func authedClient(ctx context.Context) (*client.Client, error) {
	creds, err := loadCredentials()
	if err != nil {
		return nil, errors.New("not logged in; run `asteritime login`")
	}
	c := newClient(creds)
	c.SetToken(creds.AccessToken)

	// Cheap probe: refresh proactively when the stored access token is
	// rejected, so long-running commands start with a fresh pair.
	if _, err := c.ListCategories(ctx); err != nil {
		var apiErr *client.APIError
		if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
			return c, nil // transport trouble surfaces on the real call
		}
		resp, rerr := c.Refresh(ctx, creds.RefreshToken)
		if rerr != nil {
			return nil, errors.New("session expired; run `asteritime login`")
		}
		creds.AccessToken = resp.AccessToken
		creds.RefreshToken = resp.RefreshToken
		if serr := saveCredentials(creds); serr != nil {
			return nil, serr
		}
	}
	return c, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
