package azure

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// MockReportArchive is an in-memory implementation of ReportArchive for testing
type MockReportArchive struct {
	Storage map[string][]byte
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewMockReportArchive creates a new mock report archive
func NewMockReportArchive(logger *zap.Logger) *MockReportArchive {
	return &MockReportArchive{
		Storage: make(map[string][]byte),
		logger:  logger,
	}
}

// UploadReport stores a report PDF in memory
func (c *MockReportArchive) UploadReport(ctx context.Context, filename string, data []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	blobName := fmt.Sprintf("reports/%s", filename)
	c.Storage[blobName] = bytes.Clone(data)

	if c.logger != nil {
		c.logger.Info("mock: report uploaded",
			zap.String("blob_name", blobName),
			zap.Int("size_bytes", len(data)),
		)
	}

	return blobName, nil
}

// DownloadReport reads a report PDF from in-memory storage
func (c *MockReportArchive) DownloadReport(ctx context.Context, blobName string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, exists := c.Storage[blobName]
	if !exists {
		return nil, fmt.Errorf("blob not found: %s", blobName)
	}

	if c.logger != nil {
		c.logger.Info("mock: report downloaded",
			zap.String("blob_name", blobName),
			zap.Int("size_bytes", len(data)),
		)
	}

	return bytes.Clone(data), nil
}

// Clear removes all data from in-memory storage
func (c *MockReportArchive) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Storage = make(map[string][]byte)
}

// ListBlobs returns all blob names in storage
func (c *MockReportArchive) ListBlobs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	blobs := make([]string, 0, len(c.Storage))
	for name := range c.Storage {
		blobs = append(blobs, name)
	}

	return blobs
}
