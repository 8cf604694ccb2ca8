package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"motk/internal/entity"
	"motk/internal/store"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var filterArgs []string
	var sortBy string
	var sortDesc bool
	var limit int
	var offset int

	cmd := &cobra.Command{
		Use:   "list <type>",
		Short: "Query entities with filters, sorting, and pagination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entityType, err := entity.ParseType(args[0])
			if err != nil {
				return err
			}
			schema, err := entity.SchemaFor(entityType)
			if err != nil {
				return err
			}
			filters, err := parseFieldArgs(schema, filterArgs)
			if err != nil {
				return err
			}

			opts := store.QueryOptions{
				Filters:  filters,
				SortBy:   sortBy,
				SortDesc: sortDesc,
				Limit:    limit,
				Offset:   offset,
			}
			return ctx.withStore(cmd, func(st *store.Store) error {
				result := st.Query(cmd.Context(), entityType, opts)
				return renderListResult(ctx, cmd, schema, result)
			})
		},
	}

	cmd.Flags().StringArrayVar(&filterArgs, "filter", nil, "Filter as name=value (repeatable, all must match)")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort by field")
	cmd.Flags().BoolVar(&sortDesc, "desc", false, "Sort descending")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows to return (0 for all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Rows to skip before returning")
	return cmd
}

func renderListResult(ctx *commandContext, cmd *cobra.Command, schema entity.Schema, result store.ListResult) error {
	if ctx.jsonOutput() {
		if err := writeJSON(cmd, result); err != nil {
			return err
		}
		if !result.Success {
			return fmt.Errorf("%s: %s", result.Failure, result.Error)
		}
		return nil
	}

	if !result.Success {
		return fmt.Errorf("%s: %s", result.Failure, result.Error)
	}

	out := cmd.OutOrStdout()
	if len(result.Data) == 0 {
		fmt.Fprintf(out, "No %ss found (total %d)\n", schema.Type, result.Total)
		return nil
	}

	columns := listColumns(schema.Type)
	rows := make([][]string, 0, len(result.Data))
	for _, fields := range result.Data {
		rows = append(rows, listRow(schema, columns, fields))
	}
	fmt.Fprintln(out, renderTable(listHeaderRow(columns), rows, listAlignments(schema, columns)))
	fmt.Fprintf(out, "total %d, offset %d, limit %d\n", result.Total, result.Offset, result.Limit)
	return nil
}
