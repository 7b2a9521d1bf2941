package azure

import (
	"context"
)

// ReportArchive defines the interface for report archival storage.
// This interface allows for easier testing with mock implementations
// and for a local-disk fallback when no storage account is configured.
type ReportArchive interface {
	UploadReport(ctx context.Context, filename string, data []byte) (string, error)
	DownloadReport(ctx context.Context, blobName string) ([]byte, error)
}

// Ensure implementations satisfy the ReportArchive interface
var (
	_ ReportArchive = (*BlobStorageClient)(nil)
	_ ReportArchive = (*LocalArchive)(nil)
	_ ReportArchive = (*MockReportArchive)(nil)
)
