package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/skivault/trailmask/internal/utils"
	"github.com/skivault/trailmask/pkg/record"
	"github.com/skivault/trailmask/pkg/redact"
)

func newRenderCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [folder...]",
		Short: "Regenerate redacted images from stored boxes",
		Long: `Re-renders the redacted copy of each resort's trail map from its source
image and persisted redaction boxes. With no arguments every folder in the
library is processed. Rendering is deterministic, so re-running it on an
unchanged library rewrites identical images.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			fill, err := cfg.ParseFillColor()
			if err != nil {
				return err
			}
			store := record.NewStore(cfg.Library.Root, redact.NewWithFill(fill))
			store.SetSaveOptions(redact.SaveOptions{Quality: cfg.Redact.Quality, Lossless: cfg.Redact.Lossless})

			folders := args
			if len(folders) == 0 {
				folders, err = utils.ListResortFolders(cfg.Library.Root)
				if err != nil {
					return err
				}
			}

			rendered, skipped := 0, 0
			for _, folder := range folders {
				if !store.HasMetadata(folder) {
					slog.Debug("No metadata, skipping", "folder", folder)
					skipped++
					continue
				}
				if err := store.Render(folder); err != nil {
					if errors.Is(err, record.ErrSourceImageMissing) {
						slog.Warn("No source image", "folder", folder)
						skipped++
						continue
					}
					if errors.Is(err, record.ErrRecordLoad) {
						slog.Warn("Unreadable metadata", "folder", folder, "error", err)
						skipped++
						continue
					}
					return fmt.Errorf("render %s: %w", folder, err)
				}
				slog.Debug("Rendered", "folder", folder)
				rendered++
			}

			fmt.Fprintf(cmd.OutOrStdout(), "rendered %d folders, skipped %d\n", rendered, skipped)
			return nil
		},
	}

	return cmd
}
