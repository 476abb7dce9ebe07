package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/asteritime/asteritime/internal/domain/journal"
	"github.com/asteritime/asteritime/internal/domain/wallclock"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Manage journal entries",
}

var journalAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a journal entry for today (or --date)",
	RunE:  runJournalAdd,
	Args:  cobra.ExactArgs(1),
}

var journalListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List journal entries",
	RunE:    runJournalList,
	Args:    cobra.NoArgs,
}

var journalEvalCmd = &cobra.Command{
	Use:   "eval [text]",
	Short: "Show or set the day's evaluation",
	Long:  "Without arguments prints the evaluation for today (or --date); with text sets it.",
	RunE:  runJournalEval,
	Args:  cobra.MaximumNArgs(1),
}

func init() {
	journalAddCmd.Flags().String("date", "", "entry date (YYYY-MM-DD, default today)")
	journalAddCmd.Flags().String("content", "", "entry body")
	journalAddCmd.Flags().String("mood", "", "mood")
	journalAddCmd.Flags().String("weather", "", "weather")

	journalListCmd.Flags().String("date", "", "only entries on this date (YYYY-MM-DD)")

	journalEvalCmd.Flags().String("date", "", "evaluation date (YYYY-MM-DD, default today)")

	journalCmd.AddCommand(journalAddCmd, journalListCmd, journalEvalCmd)
	rootCmd.AddCommand(journalCmd)
}

func runJournalAdd(cmd *cobra.Command, args []string) error {
	c, err := authedClient(cmd.Context())
	if err != nil {
		return err
	}

	date := wallclock.DateOf(timeNow())
	if s, _ := cmd.Flags().GetString("date"); s != "" {
		date, err = wallclock.ParseDate(s)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}

	req := journal.CreateRequest{Date: date, Title: args[0]}
	req.ContentText, _ = cmd.Flags().GetString("content")
	req.Mood, _ = cmd.Flags().GetString("mood")
	req.Weather, _ = cmd.Flags().GetString("weather")

	e, err := c.CreateEntry(cmd.Context(), req)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(e)
	}
	fmt.Printf("Added entry #%d for %s\n", e.ID, e.Date)
	return nil
}

func runJournalEval(cmd *cobra.Command, args []string) error {
	c, err := authedClient(cmd.Context())
	if err != nil {
		return err
	}

	date := wallclock.DateOf(timeNow())
	if s, _ := cmd.Flags().GetString("date"); s != "" {
		date, err = wallclock.ParseDate(s)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}

	var e *journal.Entry
	if len(args) == 1 {
		e, err = c.SetEvaluation(cmd.Context(), journal.EvaluationRequest{Date: date, Evaluation: args[0]})
	} else {
		e, err = c.Evaluation(cmd.Context(), date)
	}
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(e)
	}
	if e.Evaluation == "" {
		fmt.Printf("No evaluation for %s\n", e.Date)
		return nil
	}
	fmt.Printf("%s: %s\n", e.Date, e.Evaluation)
	return nil
}

func runJournalList(cmd *cobra.Command, _ []string) error {
	c, err := authedClient(cmd.Context())
	if err != nil {
		return err
	}

	var entries []journal.Entry
	if s, _ := cmd.Flags().GetString("date"); s != "" {
		date, err := wallclock.ParseDate(s)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		entries, err = c.EntriesByDate(cmd.Context(), date)
		if err != nil {
			return err
		}
	} else {
		entries, err = c.ListEntries(cmd.Context())
		if err != nil {
			return err
		}
	}

	if flagJSON {
		return printJSON(entries)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tFOCUS\tTITLE")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%dm\t%s\n", e.ID, e.Date, e.TotalFocusMinutes, e.Title)
	}
	w.Flush()
	return nil
}
