package azure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMockReportArchive_RoundTrip(t *testing.T) {
	mock := NewMockReportArchive(zap.NewNop())
	ctx := context.Background()

	blobName, err := mock.UploadReport(ctx, "weekly-2026-08-24.pdf", []byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	assert.Equal(t, "reports/weekly-2026-08-24.pdf", blobName)

	data, err := mock.DownloadReport(ctx, blobName)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 fake"), data)
}

func TestMockReportArchive_NotFound(t *testing.T) {
	mock := NewMockReportArchive(zap.NewNop())

	_, err := mock.DownloadReport(context.Background(), "reports/missing.pdf")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "blob not found")
}

func TestLocalArchive_RoundTrip(t *testing.T) {
	archive, err := NewLocalArchive(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()

	name, err := archive.UploadReport(ctx, "weekly-2026-08-24.pdf", []byte("pdf bytes"))
	require.NoError(t, err)
	assert.Equal(t, "weekly-2026-08-24.pdf", name)

	data, err := archive.DownloadReport(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), data)
}

func TestLocalArchive_StripsPathComponents(t *testing.T) {
	dir := t.TempDir()
	archive, err := NewLocalArchive(dir, zap.NewNop())
	require.NoError(t, err)

	name, err := archive.UploadReport(context.Background(), "../../etc/evil.pdf", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "evil.pdf", name)
}

func TestNewBlobStorageClient_RequiresCredentials(t *testing.T) {
	_, err := NewBlobStorageClient("", "", "", zap.NewNop())
	assert.Error(t, err)
}
