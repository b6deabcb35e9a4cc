package main

import (
	"encoding/json"
	"io"
	"text/tabwriter"

	"github.com/hyperengineering/shopfront/internal/catalog"
	"github.com/hyperengineering/shopfront/internal/config"
	"github.com/spf13/cobra"
)

var (
	catalogPathOverride string
	catalogJSONOutput   bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the product catalog",
	Long:  "List and inspect catalog products without running the server.",
}

func init() {
	catalogCmd.PersistentFlags().StringVar(&catalogPathOverride, "db", "",
		"Catalog database path (overrides config and SHOPFRONT_DB_PATH)")
	catalogCmd.PersistentFlags().BoolVar(&catalogJSONOutput, "json", false,
		"Output in JSON format")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogInfoCmd)
}

// resolveCatalogSource opens the catalog database with optional --db override.
func resolveCatalogSource() (*catalog.SQLiteSource, error) {
	path := catalogPathOverride
	if path == "" {
		dbCfg, err := config.LoadDatabaseConfig()
		if err != nil {
			return nil, err
		}
		path = dbCfg.Path
	}

	return catalog.OpenSQLite(path)
}

// printJSON marshals v to JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTabWriter returns a configured tabwriter for aligned columns.
func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
