// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppogorze/notion-game-tracker-steamgriddb/internal/provider"
	"github.com/ppogorze/notion-game-tracker-steamgriddb/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <kind> <text>...",
	Short: "Search an external catalog for candidates",
	Long: `Search queries the catalog serving the given kind (game, anime, book,
vinyl) and prints ranked candidates. Book results are locale-ranked:
matches in the preferred language sort first, covers break ties.

A failed provider call prints a warning and an empty list; search never
aborts the session.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("by", "any", "query interpretation: any, title, author, isbn, label, combined")
	searchCmd.Flags().String("provider", "", "query a specific provider instead of the kind default")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}

	cfg := sessionConfig()
	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}

	p, err := pickProvider(cmd, registry, kind)
	if err != nil {
		return err
	}

	by, _ := cmd.Flags().GetString("by")
	query := types.CatalogQuery{
		Text:   strings.Join(args[1:], " "),
		Kind:   types.QueryKind(by),
		Locale: cfg.Providers.Locale,
	}

	results, err := p.Search(cmd.Context(), query)
	if err != nil {
		if errors.Is(err, types.ErrStoreAuth) || errors.Is(err, types.ErrValidation) {
			return err
		}
		fmt.Fprintf(os.Stderr, "warning: %s search failed: %v\n", p.Name(), err)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatCandidates(p.Name(), results, jsonOutput)
}

func pickProvider(cmd *cobra.Command, registry *provider.Registry, kind types.MediaKind) (provider.Provider, error) {
	name, _ := cmd.Flags().GetString("provider")
	if name != "" {
		return registry.Get(name)
	}
	return registry.ForKind(kind)
}

func formatCandidates(providerName string, results []types.CandidateSummary, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-3s  %-14s  %-6s  %-5s  %s\n", "#", "ID", "Year", "Cover", "Title")
	for i, r := range results {
		year := ""
		if r.Year != 0 {
			year = fmt.Sprintf("%d", r.Year)
		}
		cover := ""
		if r.HasCover {
			cover = "yes"
		}
		fmt.Fprintf(os.Stdout, "%-3d  %-14s  %-6s  %-5s  %s\n", i+1, r.ProviderID, year, cover, r.DisplayTitle)
	}
	fmt.Fprintf(os.Stdout, "\n%d result(s) from %s\n", len(results), providerName)
	return nil
}
