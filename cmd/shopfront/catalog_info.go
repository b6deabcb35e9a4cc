package main

import (
	"context"
	"fmt"

	"github.com/hyperengineering/shopfront/internal/catalog"
	"github.com/hyperengineering/shopfront/internal/types"
	"github.com/spf13/cobra"
)

var catalogInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show catalog summary statistics",
	Args:  cobra.NoArgs,
	RunE:  runCatalogInfo,
}

func runCatalogInfo(cmd *cobra.Command, args []string) error {
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

	byCategory := make(map[types.Category]int)
	var totalValue float64
	for _, p := range products {
		byCategory[p.Category]++
		totalValue += p.Price
	}

	if catalogJSONOutput {
		categories := make(map[string]int, len(byCategory))
		for c, n := range byCategory {
			categories[string(c)] = n
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"products":    len(products),
			"categories":  categories,
			"total_value": totalValue,
		})
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintf(w, "Products:\t%d\n", len(products))
	fmt.Fprintf(w, "Total value:\t$%.2f\n", totalValue)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "CATEGORY\tCOUNT")
	for _, c := range types.Categories() {
		if byCategory[c] > 0 {
			fmt.Fprintf(w, "%s\t%d\n", c, byCategory[c])
		}
	}
	w.Flush()

	return nil
}
