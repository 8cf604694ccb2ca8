package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"motk/internal/entity"
	"motk/internal/services"
	"motk/internal/store"
)

func newCreateCommand(ctx *commandContext) *cobra.Command {
	var fieldArgs []string

	cmd := &cobra.Command{
		Use:   "create <type>",
		Short: "Create an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, fields, err := parseTypeAndFields(args[0], fieldArgs)
			if err != nil {
				return err
			}
			return ctx.withStore(cmd, func(st *store.Store) error {
				result := st.Create(cmd.Context(), schema.Type, fields)
				return renderResult(ctx, cmd, schema, result)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&fieldArgs, "field", "f", nil, "Field as name=value (repeatable)")
	return cmd
}

func newGetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get <type> <id>",
		Short: "Read an entity by ID",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entityType, err := entity.ParseType(args[0])
			if err != nil {
				return err
			}
			schema, err := entity.SchemaFor(entityType)
			if err != nil {
				return err
			}
			return ctx.withStore(cmd, func(st *store.Store) error {
				result := st.Read(cmd.Context(), entityType, args[1])
				return renderResult(ctx, cmd, schema, result)
			})
		},
	}
}

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	var fieldArgs []string
	var force bool

	cmd := &cobra.Command{
		Use:   "update <type> <id>",
		Short: "Update entity fields with conflict detection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, updates, err := parseTypeAndFields(args[0], fieldArgs)
			if err != nil {
				return err
			}
			if len(updates) == 0 {
				return fmt.Errorf("no fields to update (use --field name=value)")
			}
			return ctx.withStore(cmd, func(st *store.Store) error {
				result := st.Update(cmd.Context(), schema.Type, args[1], updates, force)
				return renderResult(ctx, cmd, schema, result)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&fieldArgs, "field", "f", nil, "Field as name=value (repeatable)")
	cmd.Flags().BoolVar(&force, "force", false, "Write even when the cell changed since it was read")
	return cmd
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <type> <id>",
		Short: "Delete an entity unless other entities still reference it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entityType, err := entity.ParseType(args[0])
			if err != nil {
				return err
			}
			schema, err := entity.SchemaFor(entityType)
			if err != nil {
				return err
			}
			return ctx.withStore(cmd, func(st *store.Store) error {
				result := st.Delete(cmd.Context(), entityType, args[1])
				if result.Success && !ctx.jsonOutput() {
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", entityType, args[1])
					return nil
				}
				return renderResult(ctx, cmd, schema, result)
			})
		},
	}
}

func newLinkCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "link <sourceType> <sourceId> <field> <targetId>",
		Short: "Point a link field at another entity",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceType, err := entity.ParseType(args[0])
			if err != nil {
				return err
			}
			schema, err := entity.SchemaFor(sourceType)
			if err != nil {
				return err
			}
			return ctx.withStore(cmd, func(st *store.Store) error {
				result := st.Link(cmd.Context(), sourceType, args[1], args[2], args[3])
				return renderResult(ctx, cmd, schema, result)
			})
		},
	}
}

func parseTypeAndFields(typeArg string, fieldArgs []string) (entity.Schema, entity.Fields, error) {
	entityType, err := entity.ParseType(typeArg)
	if err != nil {
		return entity.Schema{}, nil, err
	}
	schema, err := entity.SchemaFor(entityType)
	if err != nil {
		return entity.Schema{}, nil, err
	}
	fields, err := parseFieldArgs(schema, fieldArgs)
	if err != nil {
		return entity.Schema{}, nil, err
	}
	return schema, fields, nil
}

// renderResult prints one operation result and converts failures into a
// nonzero exit. Table mode prints the entity as Field/Value rows; JSON mode
// emits the whole structured result.
func renderResult(ctx *commandContext, cmd *cobra.Command, schema entity.Schema, result store.OperationResult) error {
	if ctx.jsonOutput() {
		if err := writeJSON(cmd, result); err != nil {
			return err
		}
		if !result.Success {
			return resultError(result)
		}
		return nil
	}

	out := cmd.OutOrStdout()
	if result.Success {
		fmt.Fprintln(out, renderTable(
			[]string{"Field", "Value"},
			entityFieldRows(schema, result.Data),
			[]columnAlignment{alignLeft, alignLeft},
		))
		return nil
	}

	switch result.Failure {
	case services.FailureConflict:
		fmt.Fprintln(out, "Update rejected: another writer changed the entity first")
		fmt.Fprintln(out, renderTable(
			[]string{"Field", "Believed", "Current", "Attempted"},
			conflictRows(result.Conflicts),
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
		))
		fmt.Fprintln(out, "Re-fetch the entity to accept the current values, or retry with --force to overwrite.")
	case services.FailureConstraint:
		fmt.Fprintln(out, "Delete refused: other entities still reference this one")
		for _, violation := range constraintViolations(result.Error) {
			fmt.Fprintf(out, "  - %s\n", violation)
		}
	}
	return resultError(result)
}

func resultError(result store.OperationResult) error {
	return fmt.Errorf("%s: %s", result.Failure, result.Error)
}

// constraintViolations extracts the per-relationship violation messages from
// a constraint failure message.
func constraintViolations(message string) []string {
	if idx := strings.LastIndex(message, "delete: "); idx >= 0 {
		message = message[idx+len("delete: "):]
	}
	parts := strings.Split(message, "; ")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
