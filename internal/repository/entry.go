package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Antirender/moodpeek1/internal/security"
	"github.com/Antirender/moodpeek1/pkg/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrDuplicateDate is returned when an entry already exists for the calendar
// date being written.
var ErrDuplicateDate = errors.New("an entry already exists for this date")

// ErrEntryNotFound is returned when no entry matches the lookup.
var ErrEntryNotFound = errors.New("entry not found")

// EntryRepository manages mood entry persistence. When an Encryptor is
// supplied, the note field is encrypted at rest.
type EntryRepository struct {
	db        *pgxpool.Pool
	encryptor *security.Encryptor
	logger    *zap.Logger
}

// NewEntryRepository creates a new EntryRepository. encryptor may be nil.
func NewEntryRepository(db *pgxpool.Pool, encryptor *security.Encryptor, logger *zap.Logger) *EntryRepository {
	return &EntryRepository{
		db:        db,
		encryptor: encryptor,
		logger:    logger,
	}
}

// Create inserts a new mood entry. The unique index on entry_date enforces the
// one-entry-per-day invariant; violations surface as ErrDuplicateDate.
func (r *EntryRepository) Create(ctx context.Context, entry *model.MoodEntry) error {
	note, err := r.encodeNote(entry.Note)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO mood_entries (
			id, entry_date, mood, city, tags, note,
			weather_temp_c, weather_humidity, weather_condition,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`

	var temp *float64
	var humidity *int
	var condition *string
	if entry.Weather != nil {
		temp = &entry.Weather.TemperatureC
		humidity = &entry.Weather.Humidity
		condition = &entry.Weather.Condition
	}

	_, err = r.db.Exec(ctx, query,
		entry.ID,
		entry.Date,
		entry.Mood,
		entry.City,
		entry.Tags,
		note,
		temp,
		humidity,
		condition,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateDate
		}
		r.logger.Error("failed to create mood entry",
			zap.Error(err),
			zap.String("entry_id", entry.ID),
		)
		return fmt.Errorf("failed to create mood entry: %w", err)
	}

	return nil
}

// GetByID retrieves one entry.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*model.MoodEntry, error) {
	row := r.db.QueryRow(ctx, selectEntryColumns+` FROM mood_entries WHERE id = $1`, id)
	entry, err := r.scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		r.logger.Error("failed to get mood entry", zap.Error(err), zap.String("entry_id", id))
		return nil, fmt.Errorf("failed to get mood entry: %w", err)
	}
	return entry, nil
}

// GetByDate retrieves the entry for a calendar date, if any.
func (r *EntryRepository) GetByDate(ctx context.Context, date time.Time) (*model.MoodEntry, error) {
	row := r.db.QueryRow(ctx, selectEntryColumns+` FROM mood_entries WHERE entry_date = $1`, date)
	entry, err := r.scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		r.logger.Error("failed to get mood entry by date", zap.Error(err), zap.Time("date", date))
		return nil, fmt.Errorf("failed to get mood entry by date: %w", err)
	}
	return entry, nil
}

// List retrieves all entries ordered by date descending.
func (r *EntryRepository) List(ctx context.Context) ([]model.MoodEntry, error) {
	rows, err := r.db.Query(ctx, selectEntryColumns+` FROM mood_entries ORDER BY entry_date DESC`)
	if err != nil {
		r.logger.Error("failed to list mood entries", zap.Error(err))
		return nil, fmt.Errorf("failed to list mood entries: %w", err)
	}
	defer rows.Close()

	return r.collectEntries(rows)
}

// FindRange retrieves entries with from <= entry_date < to, ordered by date
// ascending.
func (r *EntryRepository) FindRange(ctx context.Context, from, to time.Time) ([]model.MoodEntry, error) {
	rows, err := r.db.Query(ctx,
		selectEntryColumns+` FROM mood_entries WHERE entry_date >= $1 AND entry_date < $2 ORDER BY entry_date ASC`,
		from, to,
	)
	if err != nil {
		r.logger.Error("failed to query mood entries in range",
			zap.Error(err),
			zap.Time("from", from),
			zap.Time("to", to),
		)
		return nil, fmt.Errorf("failed to query mood entries in range: %w", err)
	}
	defer rows.Close()

	return r.collectEntries(rows)
}

// Update rewrites an existing entry. A date change that collides with another
// entry surfaces as ErrDuplicateDate.
func (r *EntryRepository) Update(ctx context.Context, entry *model.MoodEntry) error {
	note, err := r.encodeNote(entry.Note)
	if err != nil {
		return err
	}

	query := `
		UPDATE mood_entries
		SET entry_date = $1, mood = $2, city = $3, tags = $4, note = $5,
		    weather_temp_c = $6, weather_humidity = $7, weather_condition = $8,
		    updated_at = NOW()
		WHERE id = $9
	`

	var temp *float64
	var humidity *int
	var condition *string
	if entry.Weather != nil {
		temp = &entry.Weather.TemperatureC
		humidity = &entry.Weather.Humidity
		condition = &entry.Weather.Condition
	}

	result, err := r.db.Exec(ctx, query,
		entry.Date,
		entry.Mood,
		entry.City,
		entry.Tags,
		note,
		temp,
		humidity,
		condition,
		entry.ID,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateDate
		}
		r.logger.Error("failed to update mood entry",
			zap.Error(err),
			zap.String("entry_id", entry.ID),
		)
		return fmt.Errorf("failed to update mood entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// Delete removes an entry.
func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM mood_entries WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("failed to delete mood entry", zap.Error(err), zap.String("entry_id", id))
		return fmt.Errorf("failed to delete mood entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrEntryNotFound
	}

	return nil
}

const selectEntryColumns = `
	SELECT id, entry_date, mood, city, tags, note,
	       weather_temp_c, weather_humidity, weather_condition,
	       created_at, updated_at
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *EntryRepository) scanEntry(row rowScanner) (*model.MoodEntry, error) {
	var entry model.MoodEntry
	var note *string
	var temp *float64
	var humidity *int
	var condition *string

	err := row.Scan(
		&entry.ID,
		&entry.Date,
		&entry.Mood,
		&entry.City,
		&entry.Tags,
		&note,
		&temp,
		&humidity,
		&condition,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Note, err = r.decodeNote(note)
	if err != nil {
		return nil, err
	}

	if temp != nil && humidity != nil && condition != nil {
		entry.Weather = &model.WeatherSnapshot{
			TemperatureC: *temp,
			Humidity:     *humidity,
			Condition:    *condition,
		}
	}

	return &entry, nil
}

func (r *EntryRepository) collectEntries(rows pgx.Rows) ([]model.MoodEntry, error) {
	var entries []model.MoodEntry
	for rows.Next() {
		entry, err := r.scanEntry(rows)
		if err != nil {
			r.logger.Error("failed to scan mood entry", zap.Error(err))
			continue
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating mood entries", zap.Error(err))
		return nil, fmt.Errorf("error iterating mood entries: %w", err)
	}

	return entries, nil
}

func (r *EntryRepository) encodeNote(note *string) (*string, error) {
	if note == nil || r.encryptor == nil {
		return note, nil
	}
	encrypted, err := r.encryptor.Encrypt(*note)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt note: %w", err)
	}
	return &encrypted, nil
}

func (r *EntryRepository) decodeNote(note *string) (*string, error) {
	if note == nil || r.encryptor == nil {
		return note, nil
	}
	decrypted, err := r.encryptor.Decrypt(*note)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt note: %w", err)
	}
	return &decrypted, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
