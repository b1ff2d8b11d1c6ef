package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	clia "github.com/example/plank/internal/adapters/cli"
	"github.com/example/plank/internal/wire"
)

// RollbackCmd returns the rollback command
func RollbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollback",
		Short: "Roll records back to previous states",
		Long:  "List previous states and restore records from them, fully or per field",
	}
	addNamespaceFlag(cmd)
	addAuthorFlag(cmd)

	cmd.AddCommand(rollbackStatesCmd())
	cmd.AddCommand(rollbackToCmd())
	cmd.AddCommand(rollbackFieldsCmd())
	cmd.AddCommand(rollbackHistoryCmd())
	cmd.AddCommand(rollbackCancelCmd())

	return cmd
}

func rollbackAdapter() *clia.RollbackAdapter {
	return clia.NewRollbackAdapter(wire.RollbackService(), os.Stdout)
}

func rollbackStatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "states [record-id]",
		Short: "List the previous states a record can be rolled back to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rollbackAdapter().States(context.Background(), resolveNamespace(cmd), args[0])
		},
	}
}

func rollbackToCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "to [record-id] [state-id]",
		Short: "Restore every field of a record from a previous state",
		Long: `Restore every field of a record from a previous state.

Conflicts between the current record and the snapshot are detected first.
A blocking conflict (parent relationship changed) leaves the record
untouched and records the rollback with status conflict; advisory
conflicts are reported the same way without blocking a later retry.

Examples:
  plank rollback to user-authentication PS-2f1c...
  plank rollback to user-authentication PS-2f1c... --reason "bad merge"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rollbackAdapter().RollbackTo(context.Background(),
				resolveNamespace(cmd), args[0], args[1], reason, resolveAuthor(cmd))
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Reason recorded with the rollback")

	return cmd
}

func rollbackFieldsCmd() *cobra.Command {
	var (
		fields []string
		reason string
	)

	cmd := &cobra.Command{
		Use:   "fields [record-id] [state-id]",
		Short: "Restore only the named fields from a previous state",
		Long: `Restore only the named fields of a record from a previous state.
Conflict detection is scoped to the selected fields.

Valid fields: title, description, status, parentId, tags, blockedBy,
planningDocPath, planningDocSection, scope.

Examples:
  plank rollback fields user-authentication PS-2f1c... --fields title,description`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rollbackAdapter().RollbackFields(context.Background(),
				resolveNamespace(cmd), args[0], args[1], fields, reason, resolveAuthor(cmd))
		},
	}

	cmd.Flags().StringSliceVarP(&fields, "fields", "f", nil, "Fields to restore (comma separated)")
	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Reason recorded with the rollback")
	cmd.MarkFlagRequired("fields")

	return cmd
}

func rollbackHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [record-id]",
		Short: "List past rollbacks for a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rollbackAdapter().History(context.Background(), resolveNamespace(cmd), args[0])
		},
	}
}

func rollbackCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel [rollback-id]",
		Short: "Cancel a pending or conflicted rollback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rollbackAdapter().Cancel(context.Background(), resolveNamespace(cmd), args[0])
		},
	}
}
