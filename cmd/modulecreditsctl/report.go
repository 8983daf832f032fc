package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/dalemusser/modulecredits/internal/app/system/progress"
	"github.com/dalemusser/modulecredits/internal/domain/models"
	"github.com/spf13/cobra"
)

type reportJSON struct {
	PFPoints         int                              `json:"pf_acquired_points"`
	WPFPoints        int                              `json:"wpf_acquired_points"`
	TotalPoints      int                              `json:"total_points"`
	UnassignedPoints int                              `json:"unassigned_points"`
	Presentation     map[string]progress.GroupSummary `json:"presentation"`
	Groups           []progress.GroupProgress         `json:"groups"`
}

func newReportCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print point totals and the pass/fail status of every module group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := opts.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			recs, err := store.All(cmd.Context())
			if err != nil {
				return fmt.Errorf("load records: %w", err)
			}
			rep := progress.Evaluate(recs, models.DefaultGroupRules())

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(reportJSON{
					PFPoints:         rep.PFPoints,
					WPFPoints:        rep.WPFPoints,
					TotalPoints:      rep.TotalPoints,
					UnassignedPoints: rep.UnassignedPoints,
					Presentation:     rep.Presentation(),
					Groups:           rep.Groups,
				})
			}

			fmt.Fprintf(out, "PF points:    %d\n", rep.PFPoints)
			fmt.Fprintf(out, "WPF points:   %d\n", rep.WPFPoints)
			fmt.Fprintf(out, "Total points: %d\n", rep.TotalPoints)
			if rep.UnassignedPoints > 0 {
				fmt.Fprintf(out, "Warning: %d point(s) belong to records without a known module group.\n", rep.UnassignedPoints)
			}
			fmt.Fprintln(out)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "GROUP\tPF\tWPF\tTOTAL\tSTATUS")
			for _, g := range rep.Groups {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", g.Group, g.PFPoints, g.WPFPoints, g.TotalPoints, g.StatusText())
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}
