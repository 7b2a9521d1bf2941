package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Antirender/moodpeek1/internal/azure"
	"github.com/Antirender/moodpeek1/pkg/model"
)

// ReportStore persists report records
type ReportStore interface {
	SaveReport(ctx context.Context, report *model.ReportRecord) error
	GetReportByID(ctx context.Context, reportID string) (*model.ReportRecord, error)
	ListReports(ctx context.Context) ([]model.ReportRecord, error)
}

// WeeklyReportComputer produces the analytic report for a week
type WeeklyReportComputer interface {
	ComputeWeeklyReport(ctx context.Context, start string) (*model.WeeklyReport, error)
}

// ReportGenerator renders a weekly report as PDF bytes
type ReportGenerator interface {
	Generate(report *model.WeeklyReport) ([]byte, error)
}

// ReportService turns weekly insights into archived PDF reports
type ReportService struct {
	insights  WeeklyReportComputer
	generator ReportGenerator
	archive   azure.ReportArchive
	store     ReportStore
	logger    *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	insights WeeklyReportComputer,
	generator ReportGenerator,
	archive azure.ReportArchive,
	store ReportStore,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		insights:  insights,
		generator: generator,
		archive:   archive,
		store:     store,
		logger:    logger,
	}
}

// GenerateWeekly computes the weekly report for the given start date, renders
// it as a PDF, archives the file, and records it.
func (s *ReportService) GenerateWeekly(ctx context.Context, start string) (*model.ReportRecord, error) {
	s.logger.Info("generating weekly report", zap.String("start", start))

	report, err := s.insights.ComputeWeeklyReport(ctx, start)
	if err != nil {
		return nil, err
	}

	pdfBytes, err := s.generator.Generate(report)
	if err != nil {
		return nil, fmt.Errorf("failed to render report PDF: %w", err)
	}

	filename := fmt.Sprintf("weekly-%s.pdf", report.Period.Start.Format("2006-01-02"))
	filePath, err := s.archive.UploadReport(ctx, filename, pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to archive report: %w", err)
	}

	now := time.Now()
	record := &model.ReportRecord{
		ID:          uuid.New().String(),
		WeekStart:   report.Period.Start,
		WeekEnd:     report.Period.End,
		FilePath:    filePath,
		GeneratedAt: now,
		CreatedAt:   now,
	}

	if err := s.store.SaveReport(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save report record: %w", err)
	}

	s.logger.Info("weekly report generated",
		zap.String("report_id", record.ID),
		zap.String("file_path", record.FilePath),
		zap.Int("size_bytes", len(pdfBytes)),
	)

	return record, nil
}

// GetReport retrieves a report record and its PDF bytes
func (s *ReportService) GetReport(ctx context.Context, reportID string) (*model.ReportRecord, []byte, error) {
	record, err := s.store.GetReportByID(ctx, reportID)
	if err != nil {
		return nil, nil, err
	}

	pdfBytes, err := s.archive.DownloadReport(ctx, record.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch archived report: %w", err)
	}

	return record, pdfBytes, nil
}

// ListReports returns all generated report records, newest first
func (s *ReportService) ListReports(ctx context.Context) ([]model.ReportRecord, error) {
	return s.store.ListReports(ctx)
}
