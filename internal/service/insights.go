package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Antirender/moodpeek1/internal/repository"
	"github.com/Antirender/moodpeek1/pkg/model"
)

// ErrInvalidStartDate marks a malformed weekly window start
var ErrInvalidStartDate = fmt.Errorf("%w: invalid start date", ErrValidation)

const (
	trendDeadZone = 0.3

	correlationMinOccurrences = 2
	correlationThreshold      = 0.5
	correlationListCap        = 4

	minTips = 2
)

// EntryRangeReader loads raw entries in a half-open date window
type EntryRangeReader interface {
	FindRange(ctx context.Context, from, to time.Time) ([]model.MoodEntry, error)
}

// SummaryStore persists compact weekly summaries
type SummaryStore interface {
	UpsertWeeklySummary(ctx context.Context, summary *repository.WeeklySummary) error
}

// TipProvider phrases one extra tip from a plain-text week summary
type TipProvider interface {
	WeeklyTip(ctx context.Context, weekSummary string) (string, error)
}

// InsightsService computes weekly analytic reports from raw mood entries.
// Reports are recomputed on every request; the persisted summary is only an
// opportunistic cache and never read back in place of recomputation.
type InsightsService struct {
	entries    EntryRangeReader
	summaries  SummaryStore
	tips       TipProvider
	logger     *zap.Logger
	now        func() time.Time
	tipTimeout time.Duration
}

// NewInsightsService creates a new InsightsService. summaries and tips may be
// nil; both are optional enrichments.
func NewInsightsService(entries EntryRangeReader, summaries SummaryStore, tips TipProvider, logger *zap.Logger) *InsightsService {
	return &InsightsService{
		entries:    entries,
		summaries:  summaries,
		tips:       tips,
		logger:     logger,
		now:        time.Now,
		tipTimeout: 5 * time.Second,
	}
}

// ComputeWeeklyReport builds the report for the 7-day window starting at the
// given date. An empty start defaults to the current week's Monday.
func (s *InsightsService) ComputeWeeklyReport(ctx context.Context, start string) (*model.WeeklyReport, error) {
	weekStart, err := s.resolveWeekStart(start)
	if err != nil {
		return nil, err
	}
	weekEnd := weekStart.AddDate(0, 0, 7)

	s.logger.Info("computing weekly report",
		zap.Time("week_start", weekStart),
		zap.Time("week_end", weekEnd),
	)

	entries, err := s.entries.FindRange(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for week: %w", err)
	}

	report := &model.WeeklyReport{
		Period: model.ReportPeriod{
			Start:        weekStart,
			End:          weekEnd,
			TotalEntries: len(entries),
		},
		MoodDistribution: moodDistribution(entries),
	}

	if len(entries) == 0 {
		report.MoodScore = model.MoodScoreSummary{
			Trend: model.TrendStable,
			Grade: gradeFor(0),
		}
		report.Tips = []string{"No entries this week yet. Log how today felt and your report will fill in."}
		s.persistSummary(ctx, weekStart, report)
		return report, nil
	}

	average := meanScore(entries)

	// Previous week feeds the trend; absence means stable.
	previous, err := s.entries.FindRange(ctx, weekStart.AddDate(0, 0, -7), weekStart)
	if err != nil {
		s.logger.Warn("failed to load previous week, treating trend as stable", zap.Error(err))
		previous = nil
	}

	report.MoodScore = scoreSummary(average, previous)
	report.DayPatterns = dayPatterns(entries)
	report.Correlations = tagCorrelations(entries, average)
	report.Tips = s.buildTips(report)

	if extra := s.aiTip(ctx, report); extra != "" {
		report.Tips = append(report.Tips, extra)
	}

	s.persistSummary(ctx, weekStart, report)

	return report, nil
}

// resolveWeekStart parses and normalizes the window start to local midnight
func (s *InsightsService) resolveWeekStart(start string) (time.Time, error) {
	start = strings.TrimSpace(start)
	if start == "" {
		return startOfWeek(s.now()), nil
	}

	if t, err := time.ParseInLocation("2006-01-02", start, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, start); err == nil {
		local := t.Local()
		return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local), nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidStartDate, start)
}

// startOfWeek returns the most recent Monday at local midnight
func startOfWeek(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(midnight.Weekday()) - int(time.Monday) + 7) % 7
	return midnight.AddDate(0, 0, -offset)
}

func meanScore(entries []model.MoodEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	var sum float64
	for _, entry := range entries {
		sum += entry.Mood.Score()
	}
	return sum / float64(len(entries))
}

func moodDistribution(entries []model.MoodEntry) map[model.Mood]int {
	distribution := make(map[model.Mood]int)
	for _, entry := range entries {
		distribution[entry.Mood]++
	}
	return distribution
}

// scoreSummary classifies the week-over-week trend with a dead zone so small
// fluctuations do not flap the classification.
func scoreSummary(average float64, previous []model.MoodEntry) model.MoodScoreSummary {
	summary := model.MoodScoreSummary{
		Average: average,
		Trend:   model.TrendStable,
		Grade:   gradeFor(average),
	}

	if len(previous) == 0 {
		return summary
	}

	prevAverage := meanScore(previous)
	summary.PreviousAverage = &prevAverage
	summary.Delta = average - prevAverage

	switch {
	case summary.Delta > trendDeadZone:
		summary.Trend = model.TrendImproved
	case summary.Delta < -trendDeadZone:
		summary.Trend = model.TrendWorsened
	}

	return summary
}

func gradeFor(average float64) string {
	switch {
	case average >= 1.5:
		return "A"
	case average >= 0.5:
		return "B"
	case average >= -0.5:
		return "C"
	case average >= -1.5:
		return "D"
	default:
		return "F"
	}
}

// dayPatterns computes per-weekday means and picks the best and worst days.
// Ties keep the first-encountered day.
func dayPatterns(entries []model.MoodEntry) model.DayPatterns {
	type bucket struct {
		sum   float64
		count int
	}

	buckets := make(map[time.Weekday]*bucket)
	var order []time.Weekday
	for _, entry := range entries {
		day := entry.Date.Weekday()
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
			order = append(order, day)
		}
		b.sum += entry.Mood.Score()
		b.count++
	}

	patterns := model.DayPatterns{}
	for _, day := range order {
		b := buckets[day]
		score := model.DayScore{
			Weekday: day,
			Average: b.sum / float64(b.count),
			Entries: b.count,
		}
		patterns.PerDay = append(patterns.PerDay, score)
	}

	for i := range patterns.PerDay {
		day := &patterns.PerDay[i]
		if patterns.Best == nil || day.Average > patterns.Best.Average {
			patterns.Best = day
		}
		if patterns.Worst == nil || day.Average < patterns.Worst.Average {
			patterns.Worst = day
		}
	}

	return patterns
}

// tagCorrelations ranks tags by their mean mood score. Tags below the
// occurrence floor are skipped; thresholds are inclusive on both sides.
func tagCorrelations(entries []model.MoodEntry, _ float64) model.Correlations {
	type bucket struct {
		sum   float64
		count int
	}

	buckets := make(map[string]*bucket)
	var order []string
	for _, entry := range entries {
		seen := make(map[string]struct{}, len(entry.Tags))
		for _, tag := range entry.Tags {
			// A tag counts once per entry even if repeated on it
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			b, ok := buckets[tag]
			if !ok {
				b = &bucket{}
				buckets[tag] = b
				order = append(order, tag)
			}
			b.sum += entry.Mood.Score()
			b.count++
		}
	}

	var correlations model.Correlations
	for _, tag := range order {
		b := buckets[tag]
		if b.count < correlationMinOccurrences {
			continue
		}
		average := b.sum / float64(b.count)
		corr := model.TagCorrelation{Tag: tag, Average: average, Entries: b.count}
		switch {
		case average >= correlationThreshold:
			correlations.Positive = append(correlations.Positive, corr)
		case average <= -correlationThreshold:
			correlations.Negative = append(correlations.Negative, corr)
		}
	}

	sort.SliceStable(correlations.Positive, func(i, j int) bool {
		return correlations.Positive[i].Average > correlations.Positive[j].Average
	})
	sort.SliceStable(correlations.Negative, func(i, j int) bool {
		return correlations.Negative[i].Average < correlations.Negative[j].Average
	})

	if len(correlations.Positive) > correlationListCap {
		correlations.Positive = correlations.Positive[:correlationListCap]
	}
	if len(correlations.Negative) > correlationListCap {
		correlations.Negative = correlations.Negative[:correlationListCap]
	}

	return correlations
}

// buildTips derives free-text suggestions and guarantees at least two
func (s *InsightsService) buildTips(report *model.WeeklyReport) []string {
	var tips []string

	if len(report.Correlations.Positive) > 0 {
		top := report.Correlations.Positive[0]
		tips = append(tips, fmt.Sprintf(
			"Entries tagged #%s averaged %.1f this week. More of that seems to help.",
			top.Tag, top.Average,
		))
	}

	if len(report.Correlations.Negative) > 0 {
		bottom := report.Correlations.Negative[0]
		tips = append(tips, fmt.Sprintf(
			"Days tagged #%s averaged %.1f. Worth noticing what makes those days heavy.",
			bottom.Tag, bottom.Average,
		))
	}

	average := report.MoodScore.Average
	switch {
	case report.MoodScore.Trend == model.TrendImproved:
		tips = append(tips, "Your week trended up compared to the last one. Keep doing what worked.")
	case report.MoodScore.Trend == model.TrendWorsened && average < 0:
		tips = append(tips, "A rougher week than the last one. Be gentle with yourself and lean on what usually helps.")
	case report.MoodScore.Trend == model.TrendStable && average >= -0.5 && average <= 0.5:
		tips = append(tips, "A steady, middle-of-the-road week. Try one small new thing and see how it lands.")
	}

	generic := []string{
		"Logging a short note with each entry makes next week's report more useful.",
		"Tagging entries with what you did helps surface what lifts or drags your mood.",
	}
	for _, tip := range generic {
		if len(tips) >= minTips {
			break
		}
		tips = append(tips, tip)
	}

	return tips
}

// aiTip asks the optional tip provider for one extra phrased tip. Any failure
// leaves the deterministic tips standing alone.
func (s *InsightsService) aiTip(ctx context.Context, report *model.WeeklyReport) string {
	if s.tips == nil {
		return ""
	}

	tipCtx, cancel := context.WithTimeout(ctx, s.tipTimeout)
	defer cancel()

	summary := fmt.Sprintf(
		"Week starting %s: %d entries, average mood score %.2f (grade %s, trend %s).",
		report.Period.Start.Format("2006-01-02"),
		report.Period.TotalEntries,
		report.MoodScore.Average,
		report.MoodScore.Grade,
		report.MoodScore.Trend,
	)
	if len(report.Correlations.Positive) > 0 {
		summary += fmt.Sprintf(" Best tag: %s.", report.Correlations.Positive[0].Tag)
	}
	if len(report.Correlations.Negative) > 0 {
		summary += fmt.Sprintf(" Worst tag: %s.", report.Correlations.Negative[0].Tag)
	}

	tip, err := s.tips.WeeklyTip(tipCtx, summary)
	if err != nil {
		s.logger.Warn("AI tip generation failed", zap.Error(err))
		return ""
	}

	return tip
}

// persistSummary caches a compact summary of the computed report. Failures
// are logged and never surfaced; recomputation always takes precedence.
func (s *InsightsService) persistSummary(ctx context.Context, weekStart time.Time, report *model.WeeklyReport) {
	if s.summaries == nil {
		return
	}

	summary := &repository.WeeklySummary{
		WeekStart:    weekStart,
		TotalEntries: report.Period.TotalEntries,
		AverageScore: report.MoodScore.Average,
		Trend:        string(report.MoodScore.Trend),
		Grade:        report.MoodScore.Grade,
		ComputedAt:   s.now(),
	}

	if err := s.summaries.UpsertWeeklySummary(ctx, summary); err != nil {
		s.logger.Warn("failed to upsert weekly summary",
			zap.Time("week_start", weekStart),
			zap.Error(err),
		)
	}
}
