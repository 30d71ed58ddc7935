package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

func controlsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "controls",
		Short: "Work with scheduled control slots",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "overdue",
		Short: "List pending controls whose time has passed",
		RunE: func(cmd *cobra.Command, args []string) error {
			var slots []slotView
			if _, err := opts.client().Do(cmd.Context(), http.MethodGet, "/controls/overdue", nil, nil, &slots); err != nil {
				return err
			}
			printSlots(cmd, slots)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "mark-overdue",
		Short: "Flip overdue pending controls to overdue",
		RunE: func(cmd *cobra.Command, args []string) error {
			var res struct {
				Marked int64 `json:"marked"`
			}
			if _, err := opts.client().Do(cmd.Context(), http.MethodPost, "/controls/overdue/mark", nil, nil, &res); err != nil {
				return err
			}
			success(cmd, "%d controls marked overdue", res.Marked)
			return nil
		},
	})

	var shift string
	pending := &cobra.Command{
		Use:   "pending",
		Short: "Today's pending controls for --operator",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if shift != "" {
				query.Set("shift", shift)
			}
			var slots []slotView
			if _, err := opts.client().Do(cmd.Context(), http.MethodGet, "/controls/pending", query, nil, &slots); err != nil {
				return err
			}
			printSlots(cmd, slots)
			return nil
		},
	}
	pending.Flags().StringVar(&shift, "shift", "", "A, B or C")
	cmd.AddCommand(pending)

	cmd.AddCommand(&cobra.Command{
		Use:   "assign OPERATOR ID...",
		Short: "Assign pending controls to an operator",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var res struct {
				Assigned int64 `json:"assigned"`
			}
			body := map[string]interface{}{"operator_name": args[0], "control_ids": args[1:]}
			if _, err := opts.client().Do(cmd.Context(), http.MethodPost, "/controls/assign", nil, body, &res); err != nil {
				return err
			}
			if res.Assigned < int64(len(args)-1) {
				warn(cmd, "%d of %d controls assigned, the others are not pending", res.Assigned, len(args)-1)
				return nil
			}
			success(cmd, "%d controls assigned to %s", res.Assigned, args[0])
			return nil
		},
	})

	var reason string
	skip := &cobra.Command{
		Use:   "skip ID",
		Short: "Skip a pending control",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/controls/%s/skip", url.PathEscape(args[0]))
			if _, err := opts.client().Do(cmd.Context(), http.MethodPost, path, nil, map[string]string{"reason": reason}, nil); err != nil {
				return err
			}
			success(cmd, "control %s skipped", args[0])
			return nil
		},
	}
	skip.Flags().StringVar(&reason, "reason", "", "why the control was not performed")
	cmd.AddCommand(skip)
	return cmd
}
