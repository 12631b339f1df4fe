package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"schoolapi/internal/model"
)

var (
	outDir    string
	verbosity int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "apischema",
		Short: "Export JSON schemas of the public API types",
		Long:  `apischema writes one <Type>.schema.json file per public API type into the output directory.`,
		RunE:  run,
	}

	rootCmd.Flags().StringVarP(&outDir, "out", "o", "schema", "Directory to write schema files into (created if missing)")
	rootCmd.Flags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v debug)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	level := zerolog.InfoLevel
	if verbosity > 0 {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	paths, err := model.WriteSchemas(outDir)
	for _, p := range paths {
		log.Debug().Str("path", p).Msg("schema written")
	}
	if err != nil {
		return err
	}

	log.Info().Int("count", len(paths)).Str("dir", outDir).Msg("schemas exported")
	return nil
}
