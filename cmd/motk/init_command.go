package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"motk/internal/entity"
	"motk/internal/store"
)

func newInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the entity sheets and header rows in the backing store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withStore(cmd, func(st *store.Store) error {
				if err := st.Initialize(cmd.Context()); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Initialized %s backing store (%s)\n", cfg.Sheets.Backend, cfg.Sheets.Title)
				for _, schema := range entity.Schemas() {
					fmt.Fprintf(out, "  %s: sheet %q ready\n", schema.Type, schema.Sheet)
				}
				return nil
			})
		},
	}
}
