package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dalemusser/modulecredits/internal/app/system/csvutil"
	"github.com/dalemusser/modulecredits/internal/app/system/timeouts"
	"github.com/dalemusser/modulecredits/internal/domain/models"
	"github.com/spf13/cobra"
)

// errInvalidRows is returned when the file has rows that fail validation.
var errInvalidRows = errors.New("csv has invalid rows; nothing imported")

func newImportCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import records from a CSV file (all rows or none)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			parsed, err := csvutil.ParseRecordsCSV(f, models.DefaultGroupRules(), csvutil.ParseOptions{MaxRows: csvutil.MaxRows})
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			if parsed.HasErrors() {
				for _, re := range parsed.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "line %d: %s\n", re.Line, re.Reason)
				}
				return fmt.Errorf("%w (%d row(s))", errInvalidRows, len(parsed.Errors))
			}
			if len(parsed.Rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No records found.")
				return nil
			}

			store, closeFn, err := opts.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := timeouts.WithTimeout(cmd.Context(), timeouts.Batch(), nil, "csv import")
			defer cancel()

			saved, err := store.InsertMany(ctx, parsed.Rows)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d record(s).\n", len(saved))
			return nil
		},
	}
}
