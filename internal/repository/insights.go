package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrSummaryNotFound is returned when no summary exists for the week.
var ErrSummaryNotFound = errors.New("weekly summary not found")

// WeeklySummary is the compact cached form of a computed weekly report. It is
// opportunistic state only; the report is always recomputed from raw entries.
type WeeklySummary struct {
	WeekStart    time.Time `json:"week_start"`
	TotalEntries int       `json:"total_entries"`
	AverageScore float64   `json:"average_score"`
	Trend        string    `json:"trend"`
	Grade        string    `json:"grade"`
	ComputedAt   time.Time `json:"computed_at"`
}

// InsightsRepository manages cached weekly summaries.
type InsightsRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewInsightsRepository creates a new InsightsRepository.
func NewInsightsRepository(db *pgxpool.Pool, logger *zap.Logger) *InsightsRepository {
	return &InsightsRepository{
		db:     db,
		logger: logger,
	}
}

// UpsertWeeklySummary writes the summary for its week, replacing any previous
// one. The operation is idempotent per week start.
func (r *InsightsRepository) UpsertWeeklySummary(ctx context.Context, summary *WeeklySummary) error {
	query := `
		INSERT INTO weekly_summaries (week_start, total_entries, average_score, trend, grade, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (week_start) DO UPDATE
		SET total_entries = EXCLUDED.total_entries,
		    average_score = EXCLUDED.average_score,
		    trend         = EXCLUDED.trend,
		    grade         = EXCLUDED.grade,
		    computed_at   = EXCLUDED.computed_at
	`

	_, err := r.db.Exec(ctx, query,
		summary.WeekStart,
		summary.TotalEntries,
		summary.AverageScore,
		summary.Trend,
		summary.Grade,
		summary.ComputedAt,
	)

	if err != nil {
		r.logger.Error("failed to upsert weekly summary",
			zap.Error(err),
			zap.Time("week_start", summary.WeekStart),
		)
		return fmt.Errorf("failed to upsert weekly summary: %w", err)
	}

	return nil
}

// GetWeeklySummary retrieves the cached summary for a week start.
func (r *InsightsRepository) GetWeeklySummary(ctx context.Context, weekStart time.Time) (*WeeklySummary, error) {
	query := `
		SELECT week_start, total_entries, average_score, trend, grade, computed_at
		FROM weekly_summaries
		WHERE week_start = $1
	`

	var summary WeeklySummary
	err := r.db.QueryRow(ctx, query, weekStart).Scan(
		&summary.WeekStart,
		&summary.TotalEntries,
		&summary.AverageScore,
		&summary.Trend,
		&summary.Grade,
		&summary.ComputedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSummaryNotFound
		}
		r.logger.Error("failed to get weekly summary",
			zap.Error(err),
			zap.Time("week_start", weekStart),
		)
		return nil, fmt.Errorf("failed to get weekly summary: %w", err)
	}

	return &summary, nil
}
