package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/plank/internal/config"
	"github.com/example/plank/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var (
		namespace string
		author    string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the plank database and config",
		Long:  `Initialize the plank database with the required schema and write .plank/config.yaml in the current directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, err := db.DefaultPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			fmt.Printf("Initializing plank database at %s\n", dbPath)

			d, err := db.Open(dbPath)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer d.Close()

			fmt.Println("✓ Database initialized successfully")

			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			cfg := config.LoadOrDefault(cwd)
			if namespace != "" {
				cfg.Namespace = namespace
			}
			if author != "" {
				cfg.Author = author
			}
			if err := config.Save(cwd, cfg); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			fmt.Println("✓ Config written to .plank/config.yaml")
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  plank record create \"My first feature\" --tier feature")
			fmt.Println("  plank status")

			return nil
		},
	}

	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "Default namespace written to the config")
	cmd.Flags().StringVar(&author, "author", "", "Default author written to the config")

	return cmd
}
