package cmd

import (
	"fmt"
	"os"

	"docquiz/internal/config"
	"docquiz/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quizgen",
	Short: "Generate multiple-choice quizzes from PDF and DOCX documents",
	Long: `quizgen extracts the text of a PDF or DOCX document, asks a language model
for multiple-choice questions about it and validates every question.

Run a single document with "quizgen generate" or start the HTTP API with "quizgen serve".`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the configuration and initializes the logger on stderr.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigFile(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logger.Level = "debug"
	}
	loggerCfg := cfg.Logger
	loggerCfg.Output = "stderr"
	if err := logger.Initialize(loggerCfg); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logger:", err)
		return nil, err
	}
	return cfg, nil
}
