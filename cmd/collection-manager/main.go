// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the collection-manager CLI.
// Subcommands cover the pipeline stages: search catalogs, add records to
// the library, manage and export the library.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppogorze/notion-game-tracker-steamgriddb/internal/assets"
	"github.com/ppogorze/notion-game-tracker-steamgriddb/internal/notion"
	"github.com/ppogorze/notion-game-tracker-steamgriddb/internal/provider"
	"github.com/ppogorze/notion-game-tracker-steamgriddb/internal/secrets"
	"github.com/ppogorze/notion-game-tracker-steamgriddb/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the secret value
// for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the collection-manager CLI.
var rootCmd = &cobra.Command{
	Use:   "collection-manager",
	Short: "Track games, anime, books, and vinyl in a Notion library",
	Long: `collection-manager resolves media titles against external catalogs
(SteamGridDB, Jikan/MyAnimeList, Open Library, Google Books, Discogs),
normalizes what they return, and stores the records as typed pages in
Notion databases.

Each stage is a subcommand: search queries a catalog, add hydrates a hit
and writes it to the library, library manages existing records, export
snapshots a collection into a local sqlite file.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./collection-manager.yaml or ~/.config/collection-manager/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("collection-manager")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "collection-manager"))
		}
	}

	viper.SetEnvPrefix("COLLECTION_MANAGER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// sessionConfig materializes viper settings and secrets into one
// immutable config value. Components receive this, never viper.
func sessionConfig() types.SessionConfig {
	timeout := viper.GetDuration("http.timeout")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	userAgent := viper.GetString("http.user_agent")
	if userAgent == "" {
		userAgent = "collection-manager/" + version
	}
	httpCfg := types.HTTPConfig{Timeout: timeout, UserAgent: userAgent}

	locale := "pol"
	if viper.IsSet("providers.locale") {
		locale = viper.GetString("providers.locale")
	}

	databases := make(map[types.MediaKind]string)
	for kind, ref := range viper.GetStringMapString("store.databases") {
		databases[types.MediaKind(kind)] = ref
	}

	return types.SessionConfig{
		Providers: types.ProviderConfig{
			HTTPConfig:       httpCfg,
			Locale:           locale,
			DiscogsToken:     secretDefault("discogs-token", viper.GetString("providers.discogs_token")),
			SteamGridDBKey:   secretDefault("steamgriddb-api-key", viper.GetString("providers.steamgriddb_api_key")),
			TranslationsFile: viper.GetString("providers.translations_file"),
		},
		Store: types.StoreConfig{
			HTTPConfig: httpCfg,
			Token:      secretDefault("notion-token", viper.GetString("store.token")),
			Databases:  databases,
			PageSize:   viper.GetInt("store.page_size"),
		},
	}
}

// newRegistry builds the full provider set from the session config.
func newRegistry(cfg types.SessionConfig) (*provider.Registry, error) {
	client := &http.Client{Timeout: cfg.Providers.Timeout}

	localizer := provider.DefaultPolish()
	if cfg.Providers.TranslationsFile != "" {
		var err error
		localizer, err = provider.LoadLocalizer(cfg.Providers.TranslationsFile)
		if err != nil {
			return nil, err
		}
	}

	plainProber := &assets.Prober{Client: client, UserAgent: cfg.Providers.UserAgent}
	cutoffProber := &assets.Prober{Client: client, UserAgent: cfg.Providers.UserAgent, MinBytes: assets.PlaceholderCutoff}

	return provider.NewRegistry(
		&provider.SteamGridDB{Client: client, Prober: plainProber, APIKey: cfg.Providers.SteamGridDBKey, UserAgent: cfg.Providers.UserAgent},
		&provider.Jikan{Client: client, Prober: plainProber, UserAgent: cfg.Providers.UserAgent},
		&provider.OpenLibrary{Client: client, Prober: cutoffProber, Localizer: localizer, UserAgent: cfg.Providers.UserAgent},
		&provider.GoogleBooks{Client: client, Prober: plainProber, Localizer: localizer, UserAgent: cfg.Providers.UserAgent},
		&provider.Discogs{Client: client, Prober: plainProber, Token: cfg.Providers.DiscogsToken, UserAgent: cfg.Providers.UserAgent},
	), nil
}

// storeClient builds the store client for one collection kind.
func storeClient(cfg types.SessionConfig, kind types.MediaKind) (*notion.Client, error) {
	ref, ok := cfg.Store.Databases[kind]
	if !ok || ref == "" {
		return nil, fmt.Errorf("%w: no database configured for kind %q (set store.databases.%s)", types.ErrValidation, kind, kind)
	}
	client := &http.Client{Timeout: cfg.Store.Timeout}
	return notion.NewClient(client, cfg.Store, ref)
}

// parseKind validates a collection kind argument.
func parseKind(arg string) (types.MediaKind, error) {
	switch kind := types.MediaKind(arg); kind {
	case types.MediaGame, types.MediaAnime, types.MediaBook, types.MediaVinyl:
		return kind, nil
	}
	return "", fmt.Errorf("%w: unknown kind %q (want game, anime, book, or vinyl)", types.ErrValidation, arg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
