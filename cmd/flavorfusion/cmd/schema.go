package cmd

import (
	"fmt"

	"github.com/nfrund/flavorfusion/internal/gateway/surreal"
	"github.com/spf13/cobra"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the SurrealQL schema used by the self-hosted backend",
		Long: `Print the SurrealQL that prepares a database for BACKEND_KIND=surreal.

Example:
  flavorfusion schema | surreal import --conn ws://localhost:8000 --ns app --db app /dev/stdin`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), surreal.Schema)
		},
	}
}
