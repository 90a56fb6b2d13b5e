// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppogorze/notion-game-tracker-steamgriddb/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export <kind>",
	Short: "Snapshot a collection into a local sqlite database",
	Long: `Export walks every page of a collection and writes the records into a
local sqlite database, plus a YAML summary next to it. Reruns upsert:
the snapshot converges on the current library state.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("db", "library.db", "snapshot database path")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	store, err := storeClient(sessionConfig(), kind)
	if err != nil {
		return err
	}

	dbPath, _ := cmd.Flags().GetString("db")
	snap, err := export.NewSnapshot(dbPath)
	if err != nil {
		return err
	}
	defer snap.Close()

	summary, err := snap.Export(cmd.Context(), store, kind, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d record(s) failed to export", summary.Failed)
	}
	return nil
}
