package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skivault/trailmask/internal/utils"
	"github.com/skivault/trailmask/pkg/record"
	"github.com/skivault/trailmask/pkg/redact"
	"github.com/skivault/trailmask/pkg/vocab"
)

func newVocabCmd(opts *rootOptions) *cobra.Command {
	var writeCache bool

	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Rebuild and print the field vocabularies",
		Long: `Rescans every metadata record in the library and prints the vocabulary
learned for each dropdown field, including the per-country region sets.
With --cache the result is also written to the vocabulary cache file.`,
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

			index := vocab.New()
			index.Rebuild(store, folders)

			out := cmd.OutOrStdout()
			for _, field := range []string{vocab.FieldCountry, vocab.FieldParentCompany, vocab.FieldContinent} {
				fmt.Fprintf(out, "%s:\n", field)
				for _, v := range index.ValuesFor(field) {
					fmt.Fprintf(out, "  %s\n", v)
				}
			}
			for _, country := range index.ValuesFor(vocab.FieldCountry) {
				regions := index.RegionsFor(country)
				if len(regions) == 0 {
					continue
				}
				fmt.Fprintf(out, "regions (%s):\n", country)
				for _, r := range regions {
					fmt.Fprintf(out, "  %s\n", r)
				}
			}

			if writeCache {
				path := filepath.Join(cfg.Library.Root, cfg.Library.VocabCache)
				if err := index.SaveCache(path); err != nil {
					return err
				}
				fmt.Fprintf(out, "cache written to %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&writeCache, "cache", false, "write the vocabulary cache file")
	return cmd
}
