package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skivault/trailmask/internal/utils"
	"github.com/skivault/trailmask/pkg/catalog"
	"github.com/skivault/trailmask/pkg/record"
	"github.com/skivault/trailmask/pkg/redact"
)

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Build the consolidated resort index",
		Long: `Scans every resort folder in the library, emits one catalog entry per
folder with a metadata record, and writes the consolidated JSON index.
Folders without a record are skipped with a warning.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			store := record.NewStore(cfg.Library.Root, redact.New())
			folders, err := utils.ListResortFolders(cfg.Library.Root)
			if err != nil {
				return err
			}

			entries, warnings := catalog.Build(store, folders)
			slog.Info("Catalog built", "entries", len(entries), "warnings", len(warnings))

			path := output
			if path == "" {
				path = filepath.Join(cfg.Library.Root, cfg.Catalog.IndexFile)
			}
			if err := catalog.WriteIndex(path, entries); err != nil {
				return fmt.Errorf("failed to write catalog index: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d entries to %s (%d warnings)\n", len(entries), path, len(warnings))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "index file path (default <library>/catalog.json)")
	return cmd
}
