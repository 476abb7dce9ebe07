package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/asteritime/asteritime/internal/domain"
	"github.com/asteritime/asteritime/internal/domain/task"
	"github.com/asteritime/asteritime/internal/domain/wallclock"
	"github.com/asteritime/asteritime/internal/engine"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	RunE:    runTaskList,
	Args:    cobra.NoArgs,
}

var taskCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a task",
	RunE:  runTaskCreate,
	Args:  cobra.ExactArgs(1),
}

var taskStatusCmd = &cobra.Command{
	Use:   "status <id> <TODO|DOING|DONE|DELAY|CANCEL>",
	Short: "Move a task to another status",
	Long: `Moves a task to another status. The server enforces the two forbidden
moves (TODO straight to DONE, and reopening a DONE task) and stamps actual
start/end times from its clock.`,
	RunE: runTaskStatus,
	Args: cobra.ExactArgs(2),
}

var taskRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	RunE:    runTaskRm,
	Args:    cobra.ExactArgs(1),
}

func init() {
	taskListCmd.Flags().Int("quadrant", 0, "filter by quadrant (1-4)")
	taskListCmd.Flags().String("status", "", "filter by status")
	taskListCmd.Flags().Bool("today", false, "only tasks planned for today")

	taskCreateCmd.Flags().IntP("quadrant", "q", 4, "Eisenhower quadrant (1-4)")
	taskCreateCmd.Flags().String("desc", "", "description")
	taskCreateCmd.Flags().String("start", "", "planned start (YYYY-MM-DDTHH:mm:ss)")
	taskCreateCmd.Flags().String("end", "", "planned end (YYYY-MM-DDTHH:mm:ss)")
	taskCreateCmd.Flags().Int64("category", 0, "category id")
	taskCreateCmd.Flags().Int64("recurrence", 0, "recurrence rule id")

	taskCmd.AddCommand(taskListCmd, taskCreateCmd, taskStatusCmd, taskRmCmd)
	rootCmd.AddCommand(taskCmd)
}

func runTaskList(cmd *cobra.Command, _ []string) error {
	c, err := authedClient(cmd.Context())
	if err != nil {
		return err
	}

	var filter task.Filter
	if q, _ := cmd.Flags().GetInt("quadrant"); q != 0 {
		filter.Quadrant = q
	}
	if s, _ := cmd.Flags().GetString("status"); s != "" {
		filter.Status = task.Status(strings.ToUpper(s))
	}
	if today, _ := cmd.Flags().GetBool("today"); today {
		start, end := wallclock.DayBounds(timeNow())
		filter.StartTime = &start
		filter.EndTime = &end
	}

	tasks, err := c.ListTasks(cmd.Context(), filter)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(tasks)
	}
	printTaskTable(tasks)
	return nil
}

func runTaskCreate(cmd *cobra.Command, args []string) error {
	c, err := authedClient(cmd.Context())
	if err != nil {
		return err
	}

	req := task.CreateRequest{Title: args[0]}
	req.Quadrant, _ = cmd.Flags().GetInt("quadrant")
	req.Description, _ = cmd.Flags().GetString("desc")
	req.CategoryID, _ = cmd.Flags().GetInt64("category")
	req.RecurrenceRuleID, _ = cmd.Flags().GetInt64("recurrence")

	if s, _ := cmd.Flags().GetString("start"); s != "" {
		dt, err := wallclock.ParseDateTime(s)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		req.PlannedStartTime = &dt
	}
	if s, _ := cmd.Flags().GetString("end"); s != "" {
		dt, err := wallclock.ParseDateTime(s)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}
		req.PlannedEndTime = &dt
	}

	t, err := c.CreateTask(cmd.Context(), req)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(t)
	}
	fmt.Printf("Created task #%d %q in quadrant %d\n", t.ID, t.Title, t.Quadrant)
	return nil
}

func runTaskStatus(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid task id %q", args[0])
	}
	status := task.Status(strings.ToUpper(args[1]))
	if !task.ValidStatuses[status] {
		return fmt.Errorf("invalid status %q; one of TODO, DOING, DONE, DELAY, CANCEL", args[1])
	}

	c, err := authedClient(cmd.Context())
	if err != nil {
		return err
	}

	// The transition goes through the engine so a forbidden move is
	// rejected locally, before anything goes over the wire.
	eng := engine.New(c)
	if _, err := eng.Refresh(cmd.Context(), false); err != nil {
		return err
	}
	t, err := eng.RequestTransition(cmd.Context(), id, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("task %d is not in today's task list", id)
		}
		return err
	}

	if flagJSON {
		return printJSON(t)
	}
	fmt.Printf("Task #%d is now %s\n", t.ID, t.Status)
	return nil
}

func runTaskRm(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid task id %q", args[0])
	}

	c, err := authedClient(cmd.Context())
	if err != nil {
		return err
	}
	if err := c.DeleteTask(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("Deleted task #%d\n", id)
	return nil
}

func printTaskTable(tasks []task.Task) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tQ\tTITLE\tPLANNED")
	for _, t := range tasks {
		planned := ""
		if t.PlannedStartTime != nil {
			planned = t.PlannedStartTime.String()
			if t.PlannedEndTime != nil {
				planned += " .. " + t.PlannedEndTime.String()
			}
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", t.ID, t.Status, t.Quadrant, t.Title, planned)
	}
	w.Flush()
}
