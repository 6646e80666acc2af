package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"imaginarium/internal/config"
	"imaginarium/internal/logging"
	"imaginarium/internal/ontology"
	"imaginarium/internal/parser"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "imag",
	Short: "imaginarium - constraint-based procedural content generator",
	Long: `imaginarium compiles an ontology authored in a restricted subset of
English into a Boolean constraint problem and invents models that satisfy
every stated rule, with English descriptions of each individual.

Run without arguments to start the interactive authoring session.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.DebugMode = true
			cfg.Logging.Level = "debug"
		}
		if err := logging.Configure(cfg.Logging.Dir, cfg.Logging.DebugMode,
			cfg.Logging.Level, cfg.Logging.Disabled); err != nil {
			return err
		}

		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepl(cmd, args)
	},
}

// newSession builds an ontology plus parser and loads the definitions
// directory. Load errors are collected and reported, not fatal.
func newSession() (*ontology.Ontology, *parser.Parser) {
	ont := ontology.New()
	ont.DefinitionsDir = cfg.Definitions.Dir
	p := parser.New(ont)
	if errs := p.LoadDefinitions(true); len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintf(os.Stderr, "load: %v\n", err)
		}
		logger.Warn("definition load errors", zap.Int("count", len(errs)))
	}
	return ont, p
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "imaginarium.yaml", "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(archiveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
