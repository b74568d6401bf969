// Package main is the fingerml command-line interface.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hed1ad/fingerml/pkg/config"
)

var (
	cfgFile       string
	inputPath     string
	outputPath    string
	contamination float64
	maxSamples    int
	nTrees        int
	verbose       bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fingerml",
	Short: "Fingerprint anomaly model training",
	Long: `fingerml builds an isolation-forest anomaly model over fixed-length
fingerprint vectors extracted from JSONL records, and calibrates an
operational score threshold from the training score distribution.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file path")
	rootCmd.PersistentFlags().StringVar(&inputPath, "input", "", "training data path (JSONL)")
	rootCmd.PersistentFlags().StringVar(&outputPath, "output", "", "model artifact output path")
	rootCmd.PersistentFlags().IntVar(&maxSamples, "max-samples", 0, "maximum input records to examine")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(statsCmd)
}

// loadConfig merges the optional config file with flag overrides and
// validates the result.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return config.Config{}, err
		}
	}

	if inputPath != "" {
		cfg.InputPath = inputPath
	}
	if outputPath != "" {
		cfg.OutputPath = outputPath
	}
	if contamination != 0 {
		cfg.Contamination = contamination
	}
	if maxSamples != 0 {
		cfg.MaxSamples = maxSamples
	}
	if nTrees != 0 {
		cfg.NEstimators = nTrees
	}
	if metadataPath != "" {
		cfg.MetadataPath = metadataPath
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger returns a development logger when verbose is set, a
// production logger otherwise.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
