package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/plank/internal/models"
	"github.com/example/plank/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show a namespace overview",
		Long: `Display an overview of the namespace: record counts per tier and
per status, plus the in-progress features.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			ns := resolveNamespace(cmd)

			records, err := wire.RecordService().ListRecords(ctx, ns)
			if err != nil {
				return fmt.Errorf("failed to list records: %w", err)
			}

			fmt.Printf("Namespace: %s\n\n", ns)
			if len(records) == 0 {
				fmt.Println("No records yet.")
				fmt.Println()
				fmt.Println("Create your first feature:")
				fmt.Println("  plank record create \"My first feature\" --tier feature")
				return nil
			}

			tiers := map[models.Tier]int{}
			statuses := map[string]int{}
			var active []*models.Record
			for _, r := range records {
				tiers[r.Tier]++
				statuses[r.Status]++
				if r.Tier == models.TierFeature && r.Status == models.StatusInProgress {
					active = append(active, r)
				}
			}

			fmt.Printf("Records: %d\n", len(records))
			for _, t := range []models.Tier{models.TierFeature, models.TierPhase, models.TierSession, models.TierTask} {
				if tiers[t] > 0 {
					fmt.Printf("  %-8s %d\n", t, tiers[t])
				}
			}
			fmt.Println()
			fmt.Println("By status:")
			for _, s := range []string{models.StatusPending, models.StatusInProgress, models.StatusCompleted, models.StatusBlocked, models.StatusCancelled} {
				if statuses[s] > 0 {
					fmt.Printf("  %-12s %d\n", s, statuses[s])
				}
			}

			if len(active) > 0 {
				fmt.Println()
				fmt.Println("In progress:")
				for _, r := range active {
					fmt.Printf("  - %s: %s\n", r.ID, r.Title)
				}
			}
			fmt.Println()
			return nil
		},
	}

	addNamespaceFlag(cmd)

	return cmd
}
