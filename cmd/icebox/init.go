// The init command: create a new storage file with the fridge schema.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coldchain/icebox/internal/sqlite"
)

var initCmd = &cobra.Command{
	Use:   "init <storage-file>",
	Short: "Create a storage file with the fridge schema",
	Long: `Init creates a new storage file containing the products, fridge_contents,
and favourites tables. It refuses to overwrite an existing file. Serve
never creates schema; run init once before the first serve.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := sqlite.Create(cfg, args[0])
		if err != nil {
			return err
		}
		if err := store.Close(); err != nil {
			return err
		}
		fmt.Printf("initialized %s\n", args[0])
		return nil
	},
}
