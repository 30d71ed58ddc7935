// Command qcctl drives the QC service from the shop floor or from scripts.
package main

import (
	"ceramiqc/client"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	server   string
	operator string
	timeout  time.Duration
}

func (o *globalOptions) client() *client.QCClient {
	return client.NewQCClient(client.Config{BaseURL: o.server, Operator: o.operator, Timeout: o.timeout})
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "qcctl",
		Short:         "Ceramic QC service command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	server := os.Getenv("QCCTL_SERVER")
	if server == "" {
		server = "http://localhost:80"
	}
	cmd.PersistentFlags().StringVar(&opts.server, "server", server, "QC service base URL (QCCTL_SERVER)")
	cmd.PersistentFlags().StringVar(&opts.operator, "operator", os.Getenv("QCCTL_OPERATOR"), "operator name sent with every request (QCCTL_OPERATOR)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "request timeout")

	cmd.AddCommand(scheduleCmd(opts))
	cmd.AddCommand(controlsCmd(opts))
	cmd.AddCommand(measureCmd(opts))
	cmd.AddCommand(sheetCmd(opts))
	cmd.AddCommand(adminCmd(opts))
	cmd.AddCommand(jobsCmd(opts))
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func success(cmd *cobra.Command, format string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ "+format+"\n", args...)
}

func warn(cmd *cobra.Command, format string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "! "+format+"\n", args...)
}

func failure(cmd *cobra.Command, format string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(cmd.OutOrStdout(), "✗ "+format+"\n", args...)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func fmtFloat(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *p)
}
