package azure

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// LocalArchive stores report PDFs on the local filesystem. It is used when
// no blob storage account is configured.
type LocalArchive struct {
	dir    string
	logger *zap.Logger
}

// NewLocalArchive creates a local archive rooted at dir
func NewLocalArchive(dir string, logger *zap.Logger) (*LocalArchive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	return &LocalArchive{
		dir:    dir,
		logger: logger,
	}, nil
}

// UploadReport writes a report PDF to the archive directory
func (a *LocalArchive) UploadReport(ctx context.Context, filename string, data []byte) (string, error) {
	// Guard against path traversal in the filename
	name := filepath.Base(filename)
	path := filepath.Join(a.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		a.logger.Error("failed to write report to local archive",
			zap.String("path", path),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	a.logger.Info("report archived locally",
		zap.String("path", path),
		zap.Int("size_bytes", len(data)),
	)

	return name, nil
}

// DownloadReport reads a report PDF from the archive directory
func (a *LocalArchive) DownloadReport(ctx context.Context, blobName string) ([]byte, error) {
	path := filepath.Join(a.dir, filepath.Base(blobName))

	data, err := os.ReadFile(path)
	if err != nil {
		a.logger.Error("failed to read report from local archive",
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	return data, nil
}
