package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/dalemusser/modulecredits/internal/app/system/inputval"
	"github.com/dalemusser/modulecredits/internal/domain/models"
	"github.com/spf13/cobra"
)

func newListCmd(opts *globalOptions) *cobra.Command {
	var (
		group  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored records, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := opts.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			var recs []models.ModuleRecord
			if g := inputval.NormalizeCode(group); g != "" {
				recs, err = store.FilterByGroup(cmd.Context(), g)
			} else {
				recs, err = store.All(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("list records: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if recs == nil {
					recs = []models.ModuleRecord{}
				}
				return enc.Encode(recs)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SEQ\tDATE\tMODULE\tGROUP\tTYPE\tSEMESTER\tPOINTS")
			for _, r := range recs {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%d\n",
					r.Seq, r.Date, r.ModuleName, r.ModuleGroup, r.CompulsoryElective, r.Semester, r.AcquiredPoints)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d record(s)\n", len(recs))
			return nil
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "Only show records of this module group")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print records as JSON")
	return cmd
}
