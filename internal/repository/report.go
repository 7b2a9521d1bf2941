package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Antirender/moodpeek1/pkg/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrReportNotFound is returned when no report record matches the lookup.
var ErrReportNotFound = errors.New("report not found")

// ReportRepository tracks generated PDF report records.
type ReportRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(db *pgxpool.Pool, logger *zap.Logger) *ReportRepository {
	return &ReportRepository{
		db:     db,
		logger: logger,
	}
}

// SaveReport persists a report record.
func (r *ReportRepository) SaveReport(ctx context.Context, report *model.ReportRecord) error {
	query := `
		INSERT INTO reports (id, week_start, week_end, file_path, generated_at, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`

	_, err := r.db.Exec(ctx, query,
		report.ID,
		report.WeekStart,
		report.WeekEnd,
		report.FilePath,
		report.GeneratedAt,
	)

	if err != nil {
		r.logger.Error("failed to save report record",
			zap.Error(err),
			zap.String("report_id", report.ID),
		)
		return fmt.Errorf("failed to save report record: %w", err)
	}

	return nil
}

// GetReportByID retrieves a report record.
func (r *ReportRepository) GetReportByID(ctx context.Context, reportID string) (*model.ReportRecord, error) {
	query := `
		SELECT id, week_start, week_end, file_path, generated_at, created_at
		FROM reports
		WHERE id = $1
	`

	var report model.ReportRecord
	err := r.db.QueryRow(ctx, query, reportID).Scan(
		&report.ID,
		&report.WeekStart,
		&report.WeekEnd,
		&report.FilePath,
		&report.GeneratedAt,
		&report.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		r.logger.Error("failed to get report record", zap.Error(err), zap.String("report_id", reportID))
		return nil, fmt.Errorf("failed to get report record: %w", err)
	}

	return &report, nil
}

// ListReports retrieves all report records, newest first.
func (r *ReportRepository) ListReports(ctx context.Context) ([]model.ReportRecord, error) {
	query := `
		SELECT id, week_start, week_end, file_path, generated_at, created_at
		FROM reports
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("failed to list report records", zap.Error(err))
		return nil, fmt.Errorf("failed to list report records: %w", err)
	}
	defer rows.Close()

	var reports []model.ReportRecord
	for rows.Next() {
		var report model.ReportRecord
		err := rows.Scan(
			&report.ID,
			&report.WeekStart,
			&report.WeekEnd,
			&report.FilePath,
			&report.GeneratedAt,
			&report.CreatedAt,
		)
		if err != nil {
			r.logger.Error("failed to scan report record", zap.Error(err))
			continue
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating report records", zap.Error(err))
		return nil, fmt.Errorf("error iterating report records: %w", err)
	}

	return reports, nil
}
