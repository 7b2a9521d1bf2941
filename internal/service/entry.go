package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Antirender/moodpeek1/pkg/model"
)

// ErrValidation marks input errors that should surface as 400-class responses.
var ErrValidation = errors.New("validation error")

const maxNoteLength = 2000

// EntryRepositoryInterface defines the interface for mood entry data access
type EntryRepositoryInterface interface {
	Create(ctx context.Context, entry *model.MoodEntry) error
	GetByID(ctx context.Context, id string) (*model.MoodEntry, error)
	GetByDate(ctx context.Context, date time.Time) (*model.MoodEntry, error)
	List(ctx context.Context) ([]model.MoodEntry, error)
	FindRange(ctx context.Context, from, to time.Time) ([]model.MoodEntry, error)
	Update(ctx context.Context, entry *model.MoodEntry) error
	Delete(ctx context.Context, id string) error
}

// WeatherProvider fetches current conditions for a city
type WeatherProvider interface {
	Current(ctx context.Context, city string) (*model.WeatherSnapshot, error)
}

// EntryService manages mood entry validation, enrichment, and persistence
type EntryService struct {
	repo    EntryRepositoryInterface
	weather WeatherProvider
	logger  *zap.Logger
}

// NewEntryService creates a new EntryService
func NewEntryService(repo EntryRepositoryInterface, weather WeatherProvider, logger *zap.Logger) *EntryService {
	return &EntryService{
		repo:    repo,
		weather: weather,
		logger:  logger,
	}
}

// CreateEntryInput carries the fields accepted when creating an entry
type CreateEntryInput struct {
	Date    string
	Mood    string
	City    *string
	Tags    []string
	Note    *string
	Weather *model.WeatherSnapshot
}

// UpdateEntryInput carries the fields accepted when updating an entry. Nil
// fields are left unchanged.
type UpdateEntryInput struct {
	Date *string
	Mood *string
	City *string
	Tags []string
	Note *string
}

// CreateEntry validates input, enriches it with a weather snapshot when a
// city is present, and persists the entry.
func (s *EntryService) CreateEntry(ctx context.Context, input CreateEntryInput) (*model.MoodEntry, error) {
	s.logger.Info("creating mood entry",
		zap.String("date", input.Date),
		zap.String("mood", input.Mood),
	)

	date, err := parseEntryDate(input.Date)
	if err != nil {
		return nil, err
	}

	mood := model.Mood(strings.ToLower(strings.TrimSpace(input.Mood)))
	if !mood.Valid() {
		return nil, fmt.Errorf("%w: unknown mood %q", ErrValidation, input.Mood)
	}

	city := normalizeCity(input.City)
	note, err := validateNote(input.Note)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entry := &model.MoodEntry{
		ID:        uuid.New().String(),
		Date:      date,
		Mood:      mood,
		City:      city,
		Tags:      NormalizeTags(input.Tags),
		Note:      note,
		Weather:   input.Weather,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Enrich with current conditions when the caller did not supply a
	// snapshot. Weather failure never fails entry creation.
	if entry.Weather == nil && city != nil {
		entry.Weather = s.fetchWeather(ctx, *city)
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("mood entry created",
		zap.String("entry_id", entry.ID),
		zap.Time("date", entry.Date),
	)

	return entry, nil
}

// GetEntry retrieves one entry by id
func (s *EntryService) GetEntry(ctx context.Context, id string) (*model.MoodEntry, error) {
	return s.repo.GetByID(ctx, id)
}

// ListEntries retrieves all entries, newest first
func (s *EntryService) ListEntries(ctx context.Context) ([]model.MoodEntry, error) {
	return s.repo.List(ctx)
}

// UpdateEntry applies a partial update to an existing entry. A city change
// refreshes the weather snapshot best-effort.
func (s *EntryService) UpdateEntry(ctx context.Context, id string, input UpdateEntryInput) (*model.MoodEntry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Date != nil {
		date, err := parseEntryDate(*input.Date)
		if err != nil {
			return nil, err
		}
		entry.Date = date
	}

	if input.Mood != nil {
		mood := model.Mood(strings.ToLower(strings.TrimSpace(*input.Mood)))
		if !mood.Valid() {
			return nil, fmt.Errorf("%w: unknown mood %q", ErrValidation, *input.Mood)
		}
		entry.Mood = mood
	}

	if input.Tags != nil {
		entry.Tags = NormalizeTags(input.Tags)
	}

	if input.Note != nil {
		note, err := validateNote(input.Note)
		if err != nil {
			return nil, err
		}
		entry.Note = note
	}

	if input.City != nil {
		city := normalizeCity(input.City)
		cityChanged := (entry.City == nil && city != nil) ||
			(entry.City != nil && city == nil) ||
			(entry.City != nil && city != nil && *entry.City != *city)

		entry.City = city
		if cityChanged {
			if city != nil {
				entry.Weather = s.fetchWeather(ctx, *city)
			} else {
				entry.Weather = nil
			}
		}
	}

	entry.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("mood entry updated", zap.String("entry_id", entry.ID))

	return entry, nil
}

// DeleteEntry removes an entry by id
func (s *EntryService) DeleteEntry(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("mood entry deleted", zap.String("entry_id", id))
	return nil
}

// fetchWeather retrieves a snapshot for a city and degrades to nil on error
func (s *EntryService) fetchWeather(ctx context.Context, city string) *model.WeatherSnapshot {
	if s.weather == nil {
		return nil
	}

	snapshot, err := s.weather.Current(ctx, city)
	if err != nil {
		s.logger.Warn("weather enrichment failed",
			zap.String("city", city),
			zap.Error(err),
		)
		return nil
	}

	return snapshot
}

// NormalizeTags lowercases, trims, and deduplicates tags preserving order
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		normalized := strings.ToLower(strings.TrimSpace(tag))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// parseEntryDate accepts YYYY-MM-DD or a full RFC 3339 timestamp and
// truncates to the calendar date.
func parseEntryDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrValidation)
	}

	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrValidation, raw)
}

func normalizeCity(city *string) *string {
	if city == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*city)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func validateNote(note *string) (*string, error) {
	if note == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > maxNoteLength {
		return nil, fmt.Errorf("%w: note exceeds %d characters", ErrValidation, maxNoteLength)
	}
	return &trimmed, nil
}
