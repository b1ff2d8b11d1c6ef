package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	clia "github.com/example/plank/internal/adapters/cli"
	"github.com/example/plank/internal/wire"
)

// ScopeCmd returns the scope command
func ScopeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scope",
		Short: "Manage record scopes",
		Long:  "Assign, check, and enforce per-record abstraction scopes",
	}
	addNamespaceFlag(cmd)
	addAuthorFlag(cmd)

	cmd.AddCommand(scopeAssignCmd())
	cmd.AddCommand(scopeCheckCmd())
	cmd.AddCommand(scopeEnforceCmd())

	return cmd
}

func scopeAdapter() *clia.ScopeAdapter {
	return clia.NewScopeAdapter(wire.ScopeService(), os.Stdout)
}

func scopeAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign [record-id]",
		Short: "Assign a scope to a record that has none",
		Long: `Assign a scope to a record: inherited from the parent when one
exists, the tier default otherwise. A record that already carries a scope
is left unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return scopeAdapter().Assign(context.Background(), resolveNamespace(cmd), args[0])
		},
	}
}

func scopeCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [record-id]",
		Short: "Validate a record's scope without modifying it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return scopeAdapter().Check(context.Background(), resolveNamespace(cmd), args[0])
		},
	}
}

func scopeEnforceCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "enforce [record-id]",
		Short: "Enforce a record's scope",
		Long: `Enforce a record's scope in one of three modes:

  strict  reject the record when violations exist; nothing is persisted
  warn    report violations; the record is left unchanged
  auto    redact forbidden description spans and persist the result

Examples:
  plank scope enforce user-authentication
  plank scope enforce user-authentication --mode strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := mode
			if m == "" {
				m = wire.Config().EnforcementMode
			}
			return scopeAdapter().Enforce(context.Background(),
				resolveNamespace(cmd), args[0], m, resolveAuthor(cmd))
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Enforcement mode: strict, warn, or auto (default from config)")

	return cmd
}
