package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Antirender/moodpeek1/internal/azure"
	"github.com/Antirender/moodpeek1/internal/pdf"
	"github.com/Antirender/moodpeek1/internal/repository"
	"github.com/Antirender/moodpeek1/pkg/model"
)

// MockReportStore is a mock implementation of ReportStore
type MockReportStore struct {
	mock.Mock
}

func (m *MockReportStore) SaveReport(ctx context.Context, report *model.ReportRecord) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportStore) GetReportByID(ctx context.Context, reportID string) (*model.ReportRecord, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReportRecord), args.Error(1)
}

func (m *MockReportStore) ListReports(ctx context.Context) ([]model.ReportRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReportRecord), args.Error(1)
}

func reportServiceFixture(t *testing.T) (*ReportService, *MockReportStore, *azure.MockReportArchive) {
	t.Helper()

	entryRepo := new(MockEntryRepository)
	entryRepo.On("FindRange", mock.Anything, mock.Anything, mock.Anything).
		Return([]model.MoodEntry{
			{Date: insightsWeekStart, Mood: model.MoodHappy, Tags: []string{"exercise"}},
			{Date: insightsWeekStart.AddDate(0, 0, 2), Mood: model.MoodCalm, Tags: []string{"exercise"}},
		}, nil)

	insights := NewInsightsService(entryRepo, nil, nil, zap.NewNop())
	archive := azure.NewMockReportArchive(zap.NewNop())
	store := new(MockReportStore)

	svc := NewReportService(insights, pdf.NewPDFGenerator(zap.NewNop()), archive, store, zap.NewNop())
	return svc, store, archive
}

func TestReportService_GenerateWeekly(t *testing.T) {
	svc, store, archive := reportServiceFixture(t)

	store.On("SaveReport", mock.Anything, mock.MatchedBy(func(r *model.ReportRecord) bool {
		return r.WeekStart.Equal(insightsWeekStart) && r.FilePath == "reports/weekly-2026-08-24.pdf"
	})).Return(nil)

	record, err := svc.GenerateWeekly(context.Background(), "2026-08-24")

	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "reports/weekly-2026-08-24.pdf", record.FilePath)

	// The archived bytes are a real PDF
	data, err := archive.DownloadReport(context.Background(), record.FilePath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))

	store.AssertExpectations(t)
}

func TestReportService_GenerateWeekly_InvalidStart(t *testing.T) {
	svc, _, _ := reportServiceFixture(t)

	_, err := svc.GenerateWeekly(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReportService_GetReport(t *testing.T) {
	svc, store, archive := reportServiceFixture(t)

	_, err := archive.UploadReport(context.Background(), "weekly-2026-08-24.pdf", []byte("%PDF-1.4 stub"))
	require.NoError(t, err)

	record := &model.ReportRecord{
		ID:          "report-1",
		WeekStart:   insightsWeekStart,
		WeekEnd:     insightsWeekStart.AddDate(0, 0, 7),
		FilePath:    "reports/weekly-2026-08-24.pdf",
		GeneratedAt: time.Now(),
	}
	store.On("GetReportByID", mock.Anything, "report-1").Return(record, nil)

	got, data, err := svc.GetReport(context.Background(), "report-1")

	require.NoError(t, err)
	assert.Equal(t, "report-1", got.ID)
	assert.Equal(t, []byte("%PDF-1.4 stub"), data)
}

func TestReportService_GetReport_NotFound(t *testing.T) {
	svc, store, _ := reportServiceFixture(t)

	store.On("GetReportByID", mock.Anything, "missing").Return(nil, repository.ErrReportNotFound)

	_, _, err := svc.GetReport(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrReportNotFound)
}
