package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	clia "github.com/example/plank/internal/adapters/cli"
	"github.com/example/plank/internal/parse"
	"github.com/example/plank/internal/wire"
)

// RecordCmd returns the record command
func RecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Manage planning records",
		Long:  "Create, list, and manage planning records in the feature -> phase -> session -> task hierarchy",
	}
	addNamespaceFlag(cmd)
	addAuthorFlag(cmd)

	cmd.AddCommand(recordCreateCmd())
	cmd.AddCommand(recordShowCmd())
	cmd.AddCommand(recordListCmd())
	cmd.AddCommand(recordChildrenCmd())
	cmd.AddCommand(recordProgressCmd())
	cmd.AddCommand(recordStatusCmd())
	cmd.AddCommand(recordHistoryCmd())

	return cmd
}

func recordAdapter() *clia.RecordAdapter {
	return clia.NewRecordAdapter(wire.RecordService(), os.Stdout)
}

func recordCreateCmd() *cobra.Command {
	var (
		id           string
		tier         string
		description  string
		status       string
		priority     string
		parentID     string
		tags         []string
		dependencies []string
	)

	cmd := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a new record",
		Long: `Create a planning record at a tier of the hierarchy.

A feature has no parent; every other tier requires a parent exactly one
tier above it. The record's scope is assigned on creation: inherited from
the parent when one exists, the tier default otherwise.

Examples:
  plank record create "User authentication" --tier feature
  plank record create "Design review" --tier phase --parent user-authentication`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			components := parse.ParsedComponents{
				Title:        args[0],
				Tier:         tier,
				Description:  description,
				Status:       status,
				Priority:     priority,
				Tags:         tags,
				Dependencies: dependencies,
				ParentID:     parentID,
			}
			return recordAdapter().Create(context.Background(),
				resolveNamespace(cmd), id, resolveAuthor(cmd), components)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Explicit record ID (default: derived from the title)")
	cmd.Flags().StringVarP(&tier, "tier", "t", "", "Record tier (feature, phase, session, task)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Record description")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Initial status (default: pending)")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority (low, medium, high, critical)")
	cmd.Flags().StringVarP(&parentID, "parent", "p", "", "Parent record ID")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Tags (comma separated)")
	cmd.Flags().StringSliceVar(&dependencies, "blocked-by", nil, "IDs of records blocking this one")
	cmd.MarkFlagRequired("tier")

	return cmd
}

func recordShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [record-id]",
		Short: "Show record details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return recordAdapter().Show(context.Background(), resolveNamespace(cmd), args[0])
		},
	}
}

func recordListCmd() *cobra.Command {
	var tier, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return recordAdapter().List(context.Background(), resolveNamespace(cmd), tier, status)
		},
	}

	cmd.Flags().StringVarP(&tier, "tier", "t", "", "Filter by tier")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status")

	return cmd
}

func recordChildrenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "children [record-id]",
		Short: "List the direct children of a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return recordAdapter().Children(context.Background(), resolveNamespace(cmd), args[0])
		},
	}
}

func recordProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress [record-id]",
		Short: "Show aggregated child status counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return recordAdapter().Progress(context.Background(), resolveNamespace(cmd), args[0])
		},
	}
}

func recordStatusCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "status [record-id] [status]",
		Short: "Transition a record's status",
		Long: `Transition a record's status.

cancelled is terminal. A completed record can only move back to
in_progress (reopen); every other transition between live statuses is
allowed.

Examples:
  plank record status user-authentication in_progress
  plank record status design-review cancelled --reason "superseded"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return recordAdapter().SetStatus(context.Background(),
				resolveNamespace(cmd), args[0], args[1], reason, resolveAuthor(cmd))
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Reason recorded in the change log")

	return cmd
}

func recordHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [record-id]",
		Short: "Show the change log entries for a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return recordAdapter().History(context.Background(), resolveNamespace(cmd), args[0])
		},
	}
}
