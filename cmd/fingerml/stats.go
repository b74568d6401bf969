package main

import (
	"github.com/spf13/cobra"

	"github.com/hed1ad/fingerml/pkg/pipeline"
)

var metadataPath string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Recompute normalization statistics and merge into model metadata",
	Long: `Compute per-dimension mean and std vectors over the training data and
merge them into an existing model metadata file, leaving every other field
untouched. The metadata must have been created by a prior training run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		log, err := newLogger()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		return pipeline.UpdateStats(cfg, log)
	},
}

func init() {
	statsCmd.Flags().StringVar(&metadataPath, "metadata", "", "metadata file path (default: output path with .json extension)")
}
