package main

import (
	"fmt"
	"net/http"
	"net/url"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func jobsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and trigger automation jobs",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List automation jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			var status struct {
				Status string `json:"status"`
				Jobs   []struct {
					ID        string     `json:"id"`
					Trigger   string     `json:"trigger"`
					NextRun   *time.Time `json:"next_run"`
					LastRun   *time.Time `json:"last_run"`
					LastError string     `json:"last_error"`
					Runs      int64      `json:"runs"`
				} `json:"jobs"`
			}
			if _, err := opts.client().Do(cmd.Context(), http.MethodGet, "/automation/jobs", nil, nil, &status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "runner %s\n", status.Status)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "JOB\tTRIGGER\tNEXT\tLAST\tRUNS\tERROR")
			for _, j := range status.Jobs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", j.ID, j.Trigger, fmtTime(j.NextRun), fmtTime(j.LastRun), j.Runs, orDash(j.LastError))
			}
			return w.Flush()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "trigger ID",
		Short: "Run a job now and wait for it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/automation/jobs/%s/trigger", url.PathEscape(args[0]))
			msg, err := opts.client().Do(cmd.Context(), http.MethodPost, path, nil, nil, nil)
			if err != nil {
				return err
			}
			success(cmd, "%s", msg)
			return nil
		},
	})
	return cmd
}

func fmtTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}
