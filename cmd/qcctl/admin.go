package main

import (
	"ceramiqc/service/config"
	"ceramiqc/service/database"
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

func adminCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Catalog, specification and database administration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init-catalog",
		Short: "Seed the default stages and parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			var res struct {
				StagesCreated     int `json:"stages_created"`
				ParametersCreated int `json:"parameters_created"`
			}
			if _, err := opts.client().Do(cmd.Context(), http.MethodPost, "/catalog/initialize", nil, nil, &res); err != nil {
				return err
			}
			success(cmd, "%d stages and %d parameters created", res.StagesCreated, res.ParametersCreated)
			return nil
		},
	})

	var controlType string
	reset := &cobra.Command{
		Use:   "reset-specs",
		Short: "Seed missing default specifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			var res struct {
				Created int `json:"created"`
			}
			body := map[string]string{"control_type": controlType}
			if _, err := opts.client().Do(cmd.Context(), http.MethodPost, "/specifications/reset-defaults", nil, body, &res); err != nil {
				return err
			}
			success(cmd, "%d specifications created", res.Created)
			return nil
		},
	}
	reset.Flags().StringVar(&controlType, "control-type", "", "only this control type")
	cmd.AddCommand(reset)

	var format, enamel string
	resolve := &cobra.Command{
		Use:   "resolve CONTROL_TYPE PARAMETER",
		Short: "Show the specification that applies to a scope",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{"control_type": {args[0]}, "parameter_name": {args[1]}}
			if format != "" {
				query.Set("format_type", format)
			}
			if enamel != "" {
				query.Set("enamel_type", enamel)
			}
			var spec *struct {
				ID          string   `json:"id"`
				FormatType  *string  `json:"format_type"`
				EnamelType  *string  `json:"enamel_type"`
				MinValue    *float64 `json:"min_value"`
				MaxValue    *float64 `json:"max_value"`
				TargetValue *float64 `json:"target_value"`
				Unit        string   `json:"unit"`
			}
			if _, err := opts.client().Do(cmd.Context(), http.MethodGet, "/specifications/resolve", query, nil, &spec); err != nil {
				return err
			}
			if spec == nil {
				warn(cmd, "no specification applies, values are unconstrained")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  min=%s max=%s target=%s %s  (format=%s enamel=%s)\n",
				spec.ID, fmtFloat(spec.MinValue), fmtFloat(spec.MaxValue), fmtFloat(spec.TargetValue), spec.Unit,
				orDash(derefStr(spec.FormatType)), orDash(derefStr(spec.EnamelType)))
			return nil
		},
	}
	resolve.Flags().StringVar(&format, "format", "", "tile format")
	resolve.Flags().StringVar(&enamel, "enamel", "", "enamel type")
	cmd.AddCommand(resolve)

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema using the service configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := database.Open(cfg.Database)
			if err != nil {
				return err
			}
			if err := database.AutoMigrate(db); err != nil {
				return err
			}
			success(cmd, "schema up to date (%s)", cfg.Database.Driver)
			return nil
		},
	})
	return cmd
}
