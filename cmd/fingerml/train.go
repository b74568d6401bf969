package main

import (
	"github.com/spf13/cobra"

	"github.com/hed1ad/fingerml/pkg/pipeline"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train an anomaly model and calibrate its score threshold",
	Long: `Load fingerprints from the input JSONL file, train an isolation forest,
calibrate a threshold from the training score distribution, and export the
model artifact together with its metadata.`,
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

		_, _, err = pipeline.Train(cfg, log)
		return err
	},
}

func init() {
	trainCmd.Flags().Float64Var(&contamination, "contamination", 0, "expected proportion of anomalies, in (0, 0.5)")
	trainCmd.Flags().IntVar(&nTrees, "trees", 0, "isolation forest ensemble size")
}
