package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/plank/internal/models"
	"github.com/example/plank/internal/wire"
)

// LogCmd returns the log command
func LogCmd() *cobra.Command {
	var (
		recordID string
		tail     int
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the change log",
		Long:  "Show the append-only change log for a namespace (audit trail)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			ns := resolveNamespace(cmd)

			var (
				entries []*models.ChangeLogEntry
				err     error
			)
			if recordID != "" {
				entries, err = wire.RecordService().GetHistory(ctx, ns, recordID)
			} else {
				entries, err = wire.RecordService().GetLog(ctx, ns)
			}
			if err != nil {
				return fmt.Errorf("failed to read change log: %w", err)
			}

			if tail > 0 && len(entries) > tail {
				entries = entries[len(entries)-tail:]
			}

			if len(entries) == 0 {
				fmt.Println("Change log is empty")
				return nil
			}

			fmt.Printf("\n%-16s %-17s %-25s %-12s %s\n", "TIME", "TYPE", "RECORD", "AUTHOR", "ID")
			fmt.Println("────────────────────────────────────────────────────────────────────────────────────────")
			for _, e := range entries {
				marker := ""
				if e.Provisional {
					marker = " [provisional]"
				}
				fmt.Printf("%-16s %-17s %-25s %-12s %s%s\n",
					e.Timestamp.Format("2006-01-02 15:04"), e.ChangeType, e.RecordID, e.Author, e.ID, marker)
				if e.Reason != "" {
					fmt.Printf("  reason: %s\n", e.Reason)
				}
			}
			fmt.Println()
			return nil
		},
	}

	addNamespaceFlag(cmd)
	cmd.Flags().StringVarP(&recordID, "record", "r", "", "Only entries for this record")
	cmd.Flags().IntVar(&tail, "tail", 0, "Show only the last N entries")

	return cmd
}
