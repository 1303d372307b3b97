// Command dinehub is the DineHub CLI: serve the API, manage the database
// schema, seed demo data, and inspect routes.
//
//	dinehub serve            # start the HTTP server
//	dinehub migrate          # run pending migrations
//	dinehub migrate:rollback # rollback last batch
//	dinehub migrate:status   # show migration status
//	dinehub seed             # run seeders
//	dinehub route:list       # list API routes
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import migrations and seeders so their init() funcs register them.
	_ "github.com/rsharan/dinehub/database/migrations"
	_ "github.com/rsharan/dinehub/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dinehub",
	Short: "DineHub — restaurant ordering platform",
	Long:  "DineHub is a multi-tenant restaurant ordering platform. Use this CLI to run the API server and manage its database.",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
}
