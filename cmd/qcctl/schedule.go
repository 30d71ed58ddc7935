package main

import (
	"fmt"
	"net/http"
	"net/url"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type slotView struct {
	ID            string  `json:"id"`
	ScheduledTime string  `json:"scheduled_time"`
	Shift         string  `json:"shift"`
	Status        string  `json:"status"`
	AssignedTo    *string `json:"assigned_operator"`
	Parameter     *struct {
		Code string `json:"code"`
		Name string `json:"name"`
	} `json:"parameter"`
}

func scheduleCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate and inspect control schedules",
	}
	cmd.AddCommand(scheduleGenerateCmd(opts))
	cmd.AddCommand(scheduleShowCmd(opts))
	cmd.AddCommand(scheduleSummaryCmd(opts))
	return cmd
}

func scheduleGenerateCmd(opts *globalOptions) *cobra.Command {
	var date string
	var weekly bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Regenerate a day's slots (tomorrow by default)",
		Long: `Regenerate the control slots of one day. Existing slots of that day,
including completed ones, are replaced.

Examples:
  qcctl schedule generate
  qcctl schedule generate --date 2025-03-03
  qcctl schedule generate --weekly`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, query := "/schedule/generate", url.Values{}
			if weekly {
				path = "/schedule/generate-weekly"
			} else if date != "" {
				query.Set("date", date)
			}
			var res struct {
				Date           string `json:"date"`
				ScheduledCount int    `json:"scheduled_count"`
			}
			if _, err := opts.client().Do(cmd.Context(), http.MethodPost, path, query, nil, &res); err != nil {
				return err
			}
			success(cmd, "%d controls scheduled for %s", res.ScheduledCount, res.Date)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "target date YYYY-MM-DD")
	cmd.Flags().BoolVar(&weekly, "weekly", false, "generate next Monday, including weekly parameters")
	return cmd
}

func scheduleShowCmd(opts *globalOptions) *cobra.Command {
	var date, shift string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "List the slots of a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if date != "" {
				query.Set("date", date)
			}
			if shift != "" {
				query.Set("shift", shift)
			}
			var slots []slotView
			if _, err := opts.client().Do(cmd.Context(), http.MethodGet, "/schedule", query, nil, &slots); err != nil {
				return err
			}
			printSlots(cmd, slots)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date YYYY-MM-DD, today by default")
	cmd.Flags().StringVar(&shift, "shift", "", "A, B or C")
	return cmd
}

func printSlots(cmd *cobra.Command, slots []slotView) {
	if len(slots) == 0 {
		warn(cmd, "no controls")
		return
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tSHIFT\tPARAMETER\tSTATUS\tOPERATOR\tID")
	for _, s := range slots {
		code := "-"
		if s.Parameter != nil {
			code = s.Parameter.Code
		}
		operator := ""
		if s.AssignedTo != nil {
			operator = *s.AssignedTo
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", s.ScheduledTime, s.Shift, code, s.Status, orDash(operator), s.ID)
	}
	w.Flush()
}

func scheduleSummaryCmd(opts *globalOptions) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Count a day's slots by shift and status",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if date != "" {
				query.Set("date", date)
			}
			var sum struct {
				Date     string         `json:"date"`
				Total    int            `json:"total"`
				ByShift  map[string]int `json:"by_shift"`
				ByStatus map[string]int `json:"by_status"`
			}
			if _, err := opts.client().Do(cmd.Context(), http.MethodGet, "/schedule/summary", query, nil, &sum); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d controls\n", sum.Date, sum.Total)
			fmt.Fprintf(out, "  shifts   A=%d B=%d C=%d\n", sum.ByShift["A"], sum.ByShift["B"], sum.ByShift["C"])
			fmt.Fprintf(out, "  status   pending=%d completed=%d overdue=%d skipped=%d\n",
				sum.ByStatus["pending"], sum.ByStatus["completed"], sum.ByStatus["overdue"], sum.ByStatus["skipped"])
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date YYYY-MM-DD, today by default")
	return cmd
}
