// Command importer loads the species and collection spreadsheets into the
// database without running the API, and tests coordinate strings.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "importer",
		Short: "Seed tracker data tools",
		Long: `Load the species and collection spreadsheets into the database,
or check how a raw coordinate string is parsed.`,
		SilenceUsage: true,
	}
	root.AddCommand(newLoadCmd(), newCoordsCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
