package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newClearCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Irreversibly delete every stored record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := opts.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			n, err := store.ClearAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database cleared successfully. %d record(s) removed.\n", n)
			return nil
		},
	}
}
