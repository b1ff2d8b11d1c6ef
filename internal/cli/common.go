// Package cli defines the cobra command tree. Commands resolve flags and
// defaults, then delegate to the presentation adapters in
// internal/adapters/cli, which in turn call the application services.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/example/plank/internal/wire"
)

// addNamespaceFlag registers the shared --namespace flag.
func addNamespaceFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("namespace", "n", "", "Record namespace (default from config, else \"default\")")
}

// resolveNamespace returns the namespace for a command invocation:
// flag, then config, then "default".
func resolveNamespace(cmd *cobra.Command) string {
	if ns, _ := cmd.Flags().GetString("namespace"); ns != "" {
		return ns
	}
	if cfg := wire.Config(); cfg.Namespace != "" {
		return cfg.Namespace
	}
	return "default"
}

// addAuthorFlag registers the shared --author flag.
func addAuthorFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().String("author", "", "Author recorded in the change log (default from config, else $USER)")
}

// resolveAuthor returns the author for a command invocation:
// flag, then config, then $USER.
func resolveAuthor(cmd *cobra.Command) string {
	if author, _ := cmd.Flags().GetString("author"); author != "" {
		return author
	}
	if cfg := wire.Config(); cfg.Author != "" {
		return cfg.Author
	}
	return os.Getenv("USER")
}
