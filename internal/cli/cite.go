package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	clia "github.com/example/plank/internal/adapters/cli"
	"github.com/example/plank/internal/ports/primary"
	"github.com/example/plank/internal/wire"
)

// CiteCmd returns the cite command
func CiteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cite",
		Short: "Manage audit citations",
		Long:  "Create, query, review, and dismiss citations linking change log entries to records",
	}
	addNamespaceFlag(cmd)

	cmd.AddCommand(citeCreateCmd())
	cmd.AddCommand(citeListCmd())
	cmd.AddCommand(citeQueryCmd())
	cmd.AddCommand(citeReviewCmd())
	cmd.AddCommand(citeDismissCmd())

	return cmd
}

func citationAdapter() *clia.CitationAdapter {
	return clia.NewCitationAdapter(wire.CitationService(), os.Stdout)
}

func citeCreateCmd() *cobra.Command {
	var (
		citationType string
		contexts     []string
		priority     string
		reason       string
		impact       string
	)

	cmd := &cobra.Command{
		Use:   "create [record-id] [change-log-id]",
		Short: "Create a citation on a record",
		Long: `Create a citation linking a change log entry to a record.

Valid types: status_change, description_change, parent_change,
planning_doc_change, propagation_change, conflict_detected,
rollback_applied.

Examples:
  plank cite create user-authentication 2f1c... --type status_change
  plank cite create user-authentication 2f1c... --type conflict_detected --priority high --context rollback`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return citationAdapter().Create(context.Background(), primary.CreateCitationRequest{
				Namespace:   resolveNamespace(cmd),
				RecordID:    args[0],
				ChangeLogID: args[1],
				Type:        citationType,
				Context:     contexts,
				Priority:    priority,
				Reason:      reason,
				Impact:      impact,
			})
		},
	}

	cmd.Flags().StringVarP(&citationType, "type", "t", "", "Citation type")
	cmd.Flags().StringSliceVarP(&contexts, "context", "c", nil, "Context tags (comma separated)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority: low, medium, high, critical (default: medium)")
	cmd.Flags().StringVar(&reason, "reason", "", "Why the citation was created")
	cmd.Flags().StringVar(&impact, "impact", "", "Expected impact")
	cmd.MarkFlagRequired("type")

	return cmd
}

func citeListCmd() *cobra.Command {
	var contextTag string

	cmd := &cobra.Command{
		Use:   "list [record-id]",
		Short: "List citations for a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return citationAdapter().List(context.Background(),
				resolveNamespace(cmd), args[0], contextTag)
		},
	}

	cmd.Flags().StringVarP(&contextTag, "context", "c", "", "Only citations carrying this context tag")

	return cmd
}

func citeQueryCmd() *cobra.Command {
	var q primary.CitationQuery

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query citations across a namespace",
		Long: `Query citations; every supplied filter must match.

Examples:
  plank cite query --type conflict_detected --unreviewed
  plank cite query --record user-authentication --priority high`,
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Namespace = resolveNamespace(cmd)
			return citationAdapter().Query(context.Background(), q)
		},
	}

	cmd.Flags().StringVar(&q.RecordID, "record", "", "Filter by record ID")
	cmd.Flags().StringVar(&q.ChangeLogID, "change", "", "Filter by change log entry ID")
	cmd.Flags().StringVarP(&q.Type, "type", "t", "", "Filter by citation type")
	cmd.Flags().StringVarP(&q.Priority, "priority", "p", "", "Filter by priority")
	cmd.Flags().StringVarP(&q.Context, "context", "c", "", "Filter by context tag")
	cmd.Flags().BoolVarP(&q.Unreviewed, "unreviewed", "u", false, "Only citations neither reviewed nor dismissed")

	return cmd
}

func citeReviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review [record-id] [citation-id]",
		Short: "Mark a citation reviewed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return citationAdapter().Review(context.Background(),
				resolveNamespace(cmd), args[0], args[1])
		},
	}
}

func citeDismissCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss [record-id] [citation-id]",
		Short: "Dismiss a citation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return citationAdapter().Dismiss(context.Background(),
				resolveNamespace(cmd), args[0], args[1])
		},
	}
}
