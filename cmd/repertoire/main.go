package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/corentings/repertoire/internal/config"
	"github.com/corentings/repertoire/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string
	corpusArgs []string

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "repertoire",
	Short: "Drill chess opening lines from PGN files",
	Long: `repertoire plays one side of an opening line drawn at random from your
PGN files and asks you to find the replies of the other side.

Variations in the PGN become separate lines. Run without a subcommand to
start training on the configured corpus, or on the built-in one.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if len(corpusArgs) > 0 {
			cfg.Corpus = corpusArgs
		}
		logger, err = logging.New(cfg.Log.Level, cfg.Log.File, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runTrain,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Configuration file")
	rootCmd.PersistentFlags().StringSliceVar(&corpusArgs, "corpus", nil, "PGN files or directories (overrides the config)")

	trainCmd.Flags().Bool("watch", false, "Reload the corpus when its files change")
	trainCmd.Flags().String("svg", "", "Write a board snapshot to this SVG file after every move")

	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(linesCmd)
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
