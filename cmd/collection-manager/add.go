// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppogorze/notion-game-tracker-steamgriddb/internal/notion"
	"github.com/ppogorze/notion-game-tracker-steamgriddb/pkg/types"
)

var addCmd = &cobra.Command{
	Use:   "add <kind> <text>...",
	Short: "Resolve a title and write it to the library",
	Long: `Add runs the full pipeline for one record: search the catalog, pick a
candidate, hydrate its details, verify its artwork, and create a typed
page in the library database.

By default the top-ranked candidate is taken; --pick selects another,
--id skips the search and hydrates a known provider id directly.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().String("by", "any", "query interpretation: any, title, author, isbn, label, combined")
	addCmd.Flags().String("id", "", "provider id to hydrate directly, skipping the search")
	addCmd.Flags().Int("pick", 1, "1-based rank of the candidate to add")
	addCmd.Flags().String("status", "", `initial status ("no status" clears the field)`)

	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}

	cfg := sessionConfig()
	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	p, err := registry.ForKind(kind)
	if err != nil {
		return err
	}
	store, err := storeClient(cfg, kind)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	id, _ := cmd.Flags().GetString("id")
	if id == "" {
		by, _ := cmd.Flags().GetString("by")
		query := types.CatalogQuery{
			Text:   strings.Join(args[1:], " "),
			Kind:   types.QueryKind(by),
			Locale: cfg.Providers.Locale,
		}
		results, err := p.Search(ctx, query)
		if err != nil {
			if errors.Is(err, types.ErrStoreAuth) || errors.Is(err, types.ErrValidation) {
				return err
			}
			fmt.Fprintf(os.Stderr, "warning: %s search failed: %v\n", p.Name(), err)
		}
		if len(results) == 0 {
			return fmt.Errorf("%w: no candidates for %q", types.ErrNotFound, query.Text)
		}
		pick, _ := cmd.Flags().GetInt("pick")
		if pick < 1 || pick > len(results) {
			return fmt.Errorf("%w: pick %d out of range (1-%d)", types.ErrValidation, pick, len(results))
		}
		chosen := results[pick-1]
		fmt.Fprintf(os.Stdout, "adding %s (%s)\n", chosen.DisplayTitle, chosen.ProviderID)
		id = chosen.ProviderID
	}

	item, err := p.Detail(ctx, id)
	if err != nil {
		return err
	}
	if status, _ := cmd.Flags().GetString("status"); status != "" {
		item.SetExtra("status", types.TextScalar(status))
	}

	props, err := notion.ToStoreProperties(item, notion.SchemaFor(kind))
	if err != nil {
		return err
	}
	page, err := store.CreatePage(ctx, props, item.CoverURL, item.IconURL)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "created %s\n", item.Title)
	if page.URL != "" {
		fmt.Fprintln(os.Stdout, page.URL)
	}
	if item.CoverURL == "" {
		fmt.Fprintln(os.Stderr, "warning: no usable cover found")
	}
	return nil
}
