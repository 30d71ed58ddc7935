package main

import (
	"ceramiqc/client"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

type recordResult struct {
	Success             bool     `json:"success"`
	Status              string   `json:"status"`
	DeviationPercentage *float64 `json:"deviation_percentage"`
	NCNumber            *string  `json:"nc_number"`
	ScheduledControlID  *string  `json:"scheduled_control_id"`
	Violations          []struct {
		Message string `json:"message"`
	} `json:"violations"`
	Error string `json:"error"`
}

// resolveParameter accepts a parameter id or code.
func resolveParameter(ctx context.Context, c *client.QCClient, ref string) (string, error) {
	var params []struct {
		ID   string `json:"id"`
		Code string `json:"code"`
	}
	if _, err := c.Do(ctx, http.MethodGet, "/catalog/parameters", nil, nil, &params); err != nil {
		return "", err
	}
	for _, p := range params {
		if p.ID == ref || strings.EqualFold(p.Code, ref) {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("no active parameter %q", ref)
}

// parseValue keeps numbers numeric and k=v,k=v pairs as a defect map.
func parseValue(raw string) interface{} {
	if strings.Contains(raw, "=") {
		defects := map[string]interface{}{}
		for _, pair := range strings.Split(raw, ",") {
			k, v, _ := strings.Cut(pair, "=")
			defects[strings.TrimSpace(k)] = cast.ToFloat64(strings.TrimSpace(v))
		}
		return defects
	}
	if f, err := cast.ToFloat64E(raw); err == nil {
		return f
	}
	return raw
}

func measureCmd(opts *globalOptions) *cobra.Command {
	var date, clock, shift, format, enamel, notes, slot string
	var conforming string
	cmd := &cobra.Command{
		Use:   "record PARAMETER VALUE",
		Short: "Record a measurement",
		Long: `Record one reading. PARAMETER is a parameter id or code. VALUE is a number,
pass/fail, a category, or defect percentages as grains=12,cracks=0.5.

Examples:
  qcctl record CLAY_HUM_BEFORE 3.4 --operator amine
  qcctl record PRESS_DEFECTS grains=12,cracks=0.5 --format 45x45`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.client()
			id, err := resolveParameter(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			body := map[string]interface{}{
				"parameter_id":         id,
				"value":                parseValue(args[1]),
				"measurement_date":     date,
				"measurement_time":     clock,
				"shift":                shift,
				"format":               format,
				"enamel_type":          enamel,
				"observations":         notes,
				"scheduled_control_id": slot,
			}
			if conforming != "" {
				body["is_conforming"] = cast.ToBool(conforming)
			}
			var res recordResult
			_, err = c.Do(cmd.Context(), http.MethodPost, "/measurements", nil, body, &res)
			if err != nil {
				return err
			}
			printRecordResult(cmd, res)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&date, "date", "", "measurement date YYYY-MM-DD")
	f.StringVar(&clock, "time", "", "measurement time HH:MM")
	f.StringVar(&shift, "shift", "", "A, B or C")
	f.StringVar(&format, "format", "", "tile format, e.g. 45x45")
	f.StringVar(&enamel, "enamel", "", "enamel type")
	f.StringVar(&notes, "notes", "", "observations")
	f.StringVar(&slot, "slot", "", "scheduled control id to complete")
	f.StringVar(&conforming, "conforming", "", "verdict of a categorical reading (true/false)")
	return cmd
}

func printRecordResult(cmd *cobra.Command, res recordResult) {
	switch res.Status {
	case "non_compliant":
		failure(cmd, "non-compliant, NC %s (deviation %s%%)", orDash(derefStr(res.NCNumber)), fmtFloat(res.DeviationPercentage))
		for _, v := range res.Violations {
			fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", v.Message)
		}
	default:
		success(cmd, "%s (deviation %s%%)", res.Status, fmtFloat(res.DeviationPercentage))
	}
	if res.ScheduledControlID != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "  completed control %s\n", *res.ScheduledControlID)
	}
}

func derefStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
