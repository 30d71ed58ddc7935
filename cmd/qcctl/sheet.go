package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func sheetCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Control sheets and daily statistics",
	}

	var date, shift string
	daily := &cobra.Command{
		Use:   "daily",
		Short: "Print the daily control sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if date != "" {
				query.Set("date", date)
			}
			if shift != "" {
				query.Set("shift", shift)
			}
			var sheet struct {
				Title    string `json:"title"`
				FileName string `json:"file_name"`
				Rows     []struct {
					StageCode      string   `json:"stage_code"`
					ParameterCode  string   `json:"parameter_code"`
					Specification  string   `json:"specification"`
					ScheduledTimes []string `json:"scheduled_times"`
					MeasuredCount  int      `json:"measured_count"`
					NCNumbers      []string `json:"nc_numbers"`
					Status         string   `json:"status"`
				} `json:"rows"`
				Summary struct {
					ConformityRate *float64 `json:"conformity_rate"`
				} `json:"summary"`
			}
			if _, err := opts.client().Do(cmd.Context(), http.MethodGet, "/control-sheets/daily", query, nil, &sheet); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, sheet.Title)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STAGE\tPARAMETER\tSPEC\tDONE\tSTATUS\tNC")
			for _, r := range sheet.Rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%s\t%s\n", r.StageCode, r.ParameterCode, orDash(r.Specification),
					r.MeasuredCount, len(r.ScheduledTimes), r.Status, orDash(strings.Join(r.NCNumbers, " ")))
			}
			w.Flush()
			fmt.Fprintf(out, "conformity rate: %s%%  (%s)\n", fmtFloat(sheet.Summary.ConformityRate), sheet.FileName)
			return nil
		},
	}
	daily.Flags().StringVar(&date, "date", "", "date YYYY-MM-DD, today by default")
	daily.Flags().StringVar(&shift, "shift", "", "A, B or C")
	cmd.AddCommand(daily)

	var dashDate string
	dashboard := &cobra.Command{
		Use:   "dashboard",
		Short: "Print the day's compliance figures per stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if dashDate != "" {
				query.Set("date", dashDate)
			}
			var stats struct {
				Date              string   `json:"date"`
				TotalMeasurements int64    `json:"total_measurements"`
				ComplianceRate    *float64 `json:"compliance_rate"`
				NCCount           int64    `json:"nc_count"`
			}
			if _, err := opts.client().Do(cmd.Context(), http.MethodGet, "/control-sheets/dashboard", query, nil, &stats); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d measurements, compliance %s%%, %d NC\n",
				stats.Date, stats.TotalMeasurements, fmtFloat(stats.ComplianceRate), stats.NCCount)
			return nil
		},
	}
	dashboard.Flags().StringVar(&dashDate, "date", "", "date YYYY-MM-DD, today by default")
	cmd.AddCommand(dashboard)

	var trendEnd string
	trend := &cobra.Command{
		Use:   "trend",
		Short: "Print the daily compliance rate of the last seven days",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if trendEnd != "" {
				query.Set("end", trendEnd)
			}
			var points []struct {
				Date           string   `json:"date"`
				Total          int64    `json:"total"`
				ComplianceRate *float64 `json:"compliance_rate"`
			}
			if _, err := opts.client().Do(cmd.Context(), http.MethodGet, "/control-sheets/trend", query, nil, &points); err != nil {
				return err
			}
			for _, p := range points {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %4d  %s%%\n", p.Date, p.Total, fmtFloat(p.ComplianceRate))
			}
			return nil
		},
	}
	trend.Flags().StringVar(&trendEnd, "end", "", "last day YYYY-MM-DD, today by default")
	cmd.AddCommand(trend)
	return cmd
}
