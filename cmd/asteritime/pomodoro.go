package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/asteritime/asteritime/internal/domain/journal"
	"github.com/asteritime/asteritime/internal/domain/wallclock"
)

var pomodoroCmd = &cobra.Command{
	Use:   "pomodoro [minutes]",
	Short: "Run a focus timer and credit the minutes to today's journal",
	Long: `Counts down a focus interval (default 25 minutes) and then posts the
minutes to the server, where they accumulate on today's journal entry.
Interrupting the timer credits nothing.`,
	RunE: runPomodoro,
	Args: cobra.MaximumNArgs(1),
}

func init() {
	rootCmd.AddCommand(pomodoroCmd)
}

func runPomodoro(cmd *cobra.Command, args []string) error {
	minutes := 25
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > 120 {
			return fmt.Errorf("minutes must be a number between 1 and 120")
		}
		minutes = n
	}

	c, err := authedClient(cmd.Context())
	if err != nil {
		return err
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	remaining := time.Duration(minutes) * time.Minute
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	fmt.Printf("Focus for %d minutes\n", minutes)
	for remaining > 0 {
		fmt.Printf("\r%02d:%02d remaining ", int(remaining.Minutes()), int(remaining.Seconds())%60)
		select {
		case <-ticker.C:
			remaining -= time.Second
		case <-interrupt:
			fmt.Println("\nInterrupted; no focus time credited")
			return nil
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		}
	}
	fmt.Println("\rTime's up!              ")

	entry, err := c.AddFocusMinutes(cmd.Context(), journal.FocusRequest{
		Date:         wallclock.DateOf(timeNow()),
		FocusMinutes: minutes,
	})
	if err != nil {
		return fmt.Errorf("credit focus time: %w", err)
	}

	fmt.Printf("Credited %d minutes; today's total is %dm\n", minutes, entry.TotalFocusMinutes)
	return nil
}
