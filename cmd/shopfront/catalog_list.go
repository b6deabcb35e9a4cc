package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyperengineering/shopfront/internal/catalog"
	"github.com/spf13/cobra"
)

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all catalog products",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	src, err := resolveCatalogSource()
	if err != nil {
		return err
	}
	defer src.Close()

	cat, err := catalog.LoadFrom(ctx, src)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	products := cat.Products()

	if catalogJSONOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"products": products,
			"total":    len(products),
		})
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tTAGS")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t$%.2f\t%s\n",
			p.ID,
			p.Name,
			p.Category,
			p.Price,
			strings.Join(p.Tags, ","),
		)
	}
	w.Flush()

	return nil
}
