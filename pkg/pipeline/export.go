package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hed1ad/fingerml/pkg/detectors"
	"github.com/hed1ad/fingerml/pkg/model"
)

// Export persists the model artifact to outputPath and its metadata to
// the sibling .json path, creating the destination directory if needed.
// The two writes are independent: a crash between them can leave an
// artifact without matching metadata or vice versa, so consumers must
// treat the pair as valid only when both files are present.
func Export(det detectors.Detector, meta model.Metadata, outputPath string) (string, string, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", "", fmt.Errorf("create output dir: %w", err)
	}

	blob, err := det.Save()
	if err != nil {
		return "", "", fmt.Errorf("serialize model: %w", err)
	}
	if err := os.WriteFile(outputPath, blob, 0o644); err != nil {
		return "", "", fmt.Errorf("write model: %w", err)
	}

	metaPath := model.SiblingPath(outputPath)
	if err := meta.Save(metaPath); err != nil {
		return "", "", err
	}

	return outputPath, metaPath, nil
}
