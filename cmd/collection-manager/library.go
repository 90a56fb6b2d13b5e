// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppogorze/notion-game-tracker-steamgriddb/internal/notion"
	"github.com/ppogorze/notion-game-tracker-steamgriddb/pkg/types"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage records already in the library",
	Long: `Library reads and edits the typed pages of a collection database.
Listing is forward-only: each page of results prints the cursor for the
next call, and going back means starting over from the first page.`,
}

var libraryListCmd = &cobra.Command{
	Use:   "list <kind>",
	Short: "List one page of the collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryList,
}

var libraryFindCmd = &cobra.Command{
	Use:   "find <kind> <text>...",
	Short: "Find records whose title contains the text",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runLibraryFind,
}

var libraryShowCmd = &cobra.Command{
	Use:   "show <kind> <page-id>",
	Short: "Show one record in full",
	Args:  cobra.ExactArgs(2),
	RunE:  runLibraryShow,
}

var libraryEditCmd = &cobra.Command{
	Use:   "edit <kind> <page-id>",
	Short: "Update chosen fields of a record",
	Long: `Edit patches only the fields named with --set; everything else on the
page keeps its value. Setting status to "no status" clears the field.`,
	Args: cobra.ExactArgs(2),
	RunE: runLibraryEdit,
}

var libraryRemoveCmd = &cobra.Command{
	Use:   "remove <kind> <page-id>",
	Short: "Archive a record",
	Args:  cobra.ExactArgs(2),
	RunE:  runLibraryRemove,
}

func init() {
	libraryListCmd.Flags().Int("limit", 0, "page size (default: store page size)")
	libraryListCmd.Flags().String("cursor", "", "cursor from the previous page")
	libraryListCmd.Flags().String("sort", "", "property to sort by (default: title)")
	libraryListCmd.Flags().Bool("desc", false, "sort descending")
	libraryListCmd.Flags().Bool("json", false, "output results as JSON")

	libraryFindCmd.Flags().Bool("json", false, "output results as JSON")

	libraryEditCmd.Flags().StringArray("set", nil, "field=value to change (repeatable)")
	libraryEditCmd.Flags().String("cover", "", "replace the cover image URL")
	libraryEditCmd.Flags().String("icon", "", "replace the icon image URL")

	libraryCmd.AddCommand(libraryListCmd, libraryFindCmd, libraryShowCmd, libraryEditCmd, libraryRemoveCmd)
	rootCmd.AddCommand(libraryCmd)
}

func libraryClient(arg string) (*notion.Client, types.MediaKind, error) {
	kind, err := parseKind(arg)
	if err != nil {
		return nil, "", err
	}
	store, err := storeClient(sessionConfig(), kind)
	if err != nil {
		return nil, "", err
	}
	return store, kind, nil
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	store, kind, err := libraryClient(args[0])
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	cursor, _ := cmd.Flags().GetString("cursor")

	var sortSpec *types.SortSpec
	if prop, _ := cmd.Flags().GetString("sort"); prop != "" {
		desc, _ := cmd.Flags().GetBool("desc")
		sortSpec = &types.SortSpec{Property: prop, Descending: desc}
	}

	pages, next, err := store.ListPage(cmd.Context(), limit, types.Cursor(cursor), sortSpec)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if err := formatPages(pages, kind, jsonOutput); err != nil {
		return err
	}
	if next != "" {
		fmt.Fprintf(os.Stdout, "\nnext page: --cursor %s\n", next)
	}
	return nil
}

func runLibraryFind(cmd *cobra.Command, args []string) error {
	store, kind, err := libraryClient(args[0])
	if err != nil {
		return err
	}

	pages, err := store.SearchByTitle(cmd.Context(), strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatPages(pages, kind, jsonOutput)
}

func runLibraryShow(cmd *cobra.Command, args []string) error {
	store, kind, err := libraryClient(args[0])
	if err != nil {
		return err
	}

	page, err := store.RetrievePage(cmd.Context(), args[1])
	if err != nil {
		return err
	}

	item := notion.FromStorePage(page, notion.SchemaFor(kind))
	fmt.Fprintf(os.Stdout, "%s\n", item.Title)
	if item.Year != 0 {
		fmt.Fprintf(os.Stdout, "  year: %d\n", item.Year)
	}
	if len(item.Creators) > 0 {
		fmt.Fprintf(os.Stdout, "  creators: %s\n", strings.Join(item.Creators, ", "))
	}
	if item.Description != "" {
		fmt.Fprintf(os.Stdout, "  description: %s\n", item.Description)
	}
	fields := make([]string, 0, len(item.Extra))
	for field := range item.Extra {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(os.Stdout, "  %s: %s\n", field, scalarDisplay(item.Extra[field]))
	}
	if item.CoverURL != "" {
		fmt.Fprintf(os.Stdout, "  cover: %s\n", item.CoverURL)
	}
	if page.URL != "" {
		fmt.Fprintf(os.Stdout, "  url: %s\n", page.URL)
	}
	return nil
}

func runLibraryEdit(cmd *cobra.Command, args []string) error {
	store, kind, err := libraryClient(args[0])
	if err != nil {
		return err
	}

	sets, _ := cmd.Flags().GetStringArray("set")
	coverURL, _ := cmd.Flags().GetString("cover")
	iconURL, _ := cmd.Flags().GetString("icon")
	if len(sets) == 0 && coverURL == "" && iconURL == "" {
		return fmt.Errorf("%w: nothing to change (use --set field=value)", types.ErrValidation)
	}

	item, changed, err := parseEdits(sets)
	if err != nil {
		return err
	}

	props := notion.ToChangedProperties(item, notion.SchemaFor(kind), changed)
	if len(props) == 0 && coverURL == "" && iconURL == "" {
		return fmt.Errorf("%w: no editable field among %v", types.ErrValidation, changed)
	}

	if _, err := store.UpdatePage(cmd.Context(), args[1], props, coverURL, iconURL); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, "updated")
	return nil
}

func runLibraryRemove(cmd *cobra.Command, args []string) error {
	store, _, err := libraryClient(args[0])
	if err != nil {
		return err
	}
	if err := store.ArchivePage(cmd.Context(), args[1]); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, "archived")
	return nil
}

// parseEdits turns field=value pairs into a sparse record plus the list
// of changed logical fields.
func parseEdits(sets []string) (*types.NormalizedItem, []string, error) {
	item := &types.NormalizedItem{}
	changed := make([]string, 0, len(sets))
	for _, set := range sets {
		field, value, ok := strings.Cut(set, "=")
		if !ok {
			return nil, nil, fmt.Errorf("%w: malformed --set %q (want field=value)", types.ErrValidation, set)
		}
		field = strings.TrimSpace(field)
		value = strings.TrimSpace(value)

		switch field {
		case notion.FieldTitle:
			item.Title = value
		case notion.FieldYear:
			year, err := strconv.Atoi(value)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: year %q is not a number", types.ErrValidation, value)
			}
			item.Year = year
		case notion.FieldDescription:
			item.Description = value
		case notion.FieldCreators:
			item.Creators = splitTrim(value)
		default:
			item.SetExtra(field, types.TextScalar(value))
		}
		changed = append(changed, field)
	}
	return item, changed, nil
}

func splitTrim(value string) []string {
	var parts []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func formatPages(pages []types.StoredPage, kind types.MediaKind, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pages)
	}

	if len(pages) == 0 {
		fmt.Println("No records found.")
		return nil
	}

	schema := notion.SchemaFor(kind)
	fmt.Fprintf(os.Stdout, "%-34s  %-6s  %s\n", "ID", "Year", "Title")
	for _, page := range pages {
		item := notion.FromStorePage(&page, schema)
		year := ""
		if item.Year != 0 {
			year = fmt.Sprintf("%d", item.Year)
		}
		fmt.Fprintf(os.Stdout, "%-34s  %-6s  %s\n", page.ID, year, item.Title)
	}
	return nil
}

func scalarDisplay(s types.Scalar) string {
	switch s.Kind {
	case types.ScalarNumber:
		return strconv.FormatFloat(s.Number, 'f', -1, 64)
	case types.ScalarList:
		return strings.Join(s.List, ", ")
	default:
		return s.Text
	}
}
