package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/skivault/trailmask/internal/config"
)

type rootOptions struct {
	library    string
	configFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "trailmask",
		Short: "Annotate and redact scanned ski trail maps",
		Long: `Trailmask maintains a library of scanned ski trail maps: per-resort
redaction boxes and metadata, regenerated redacted images, and the
consolidated catalog consumed by the game application.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.library, "library", "l", "", "library root directory (default from config)")
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file path")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newCatalogCmd(opts))
	cmd.AddCommand(newRenderCmd(opts))
	cmd.AddCommand(newVocabCmd(opts))

	return cmd
}

// loadConfig resolves the effective configuration: defaults, overridden by
// a config file when one exists, overridden by the --library flag.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg := config.Default()

	path := o.configFile
	if path == "" {
		path = config.GetConfigPath()
	}
	if _, err := os.Stat(path); err == nil {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if o.configFile != "" {
		// An explicitly named config file must exist
		return nil, err
	}

	if o.library != "" {
		cfg.Library.Root = o.library
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
