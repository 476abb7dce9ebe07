package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/asteritime/asteritime/internal/domain/task"
	"github.com/asteritime/asteritime/internal/engine"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show today's tasks as kanban and quadrant views",
	Long: `Fetches today's tasks, runs the status evaluator over them, and prints
the kanban board (DELAY and CANCEL share a column) and the Eisenhower
quadrant view (which excludes them).`,
	RunE: runBoard,
	Args: cobra.NoArgs,
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Keep task statuses aligned with the clock",
	Long: `Runs the reconciliation loop: every interval, today's tasks are fetched,
evaluated against the wall clock, and any automatic transitions are written
back to the server. Runs until interrupted.`,
	RunE: runReconcile,
	Args: cobra.NoArgs,
}

func init() {
	boardCmd.Flags().Bool("no-update", false, "render without persisting automatic transitions")
	reconcileCmd.Flags().Duration("interval", engine.DefaultInterval, "reconciliation interval")
	rootCmd.AddCommand(boardCmd, reconcileCmd)
}

func runBoard(cmd *cobra.Command, _ []string) error {
	c, err := authedClient(cmd.Context())
	if err != nil {
		return err
	}

	noUpdate, _ := cmd.Flags().GetBool("no-update")
	eng := engine.New(c)
	if _, err := eng.Refresh(cmd.Context(), !noUpdate); err != nil {
		return err
	}

	if flagJSON {
		return printJSON(map[string]any{
			"board":     eng.Board(),
			"quadrants": eng.Quadrants(),
		})
	}

	printBoard(eng.Board())
	fmt.Println()
	printQuadrants(eng.Quadrants())
	return nil
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	c, err := authedClient(cmd.Context())
	if err != nil {
		return err
	}

	interval, _ := cmd.Flags().GetDuration("interval")
	if !cmd.Flags().Changed("interval") {
		interval = clientConfig().Engine.ReconcileInterval
	}
	eng := engine.New(c, engine.WithInterval(interval))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	stop := eng.Start(ctx)
	defer stop()
	fmt.Printf("Reconciling every %s; press Ctrl+C to stop\n", interval)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	fmt.Println("\nStopped")
	return nil
}

func printBoard(b task.Board) {
	fmt.Println("Kanban")
	printColumn("TODO", b.Todo)
	printColumn("DOING", b.Doing)
	printColumn("DONE", b.Done)
	printColumn("DELAY/CANCEL", b.DelayOrCancel)
}

func printQuadrants(q task.Quadrants) {
	fmt.Println("Quadrants")
	labels := map[int]string{
		1: "I  urgent & important",
		2: "II important, not urgent",
		3: "III urgent, not important",
		4: "IV neither",
	}
	for i := 1; i <= 4; i++ {
		printColumn(labels[i], q[i])
	}
}

func printColumn(label string, tasks []task.Task) {
	fmt.Printf("  %s (%d)\n", label, len(tasks))
	for _, t := range tasks {
		fmt.Printf("    #%d %s\n", t.ID, t.Title)
	}
}
