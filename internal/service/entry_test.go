package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Antirender/moodpeek1/internal/repository"
	"github.com/Antirender/moodpeek1/pkg/model"
)

// MockEntryRepository is a mock implementation of EntryRepositoryInterface
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Create(ctx context.Context, entry *model.MoodEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id string) (*model.MoodEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MoodEntry), args.Error(1)
}

func (m *MockEntryRepository) GetByDate(ctx context.Context, date time.Time) (*model.MoodEntry, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MoodEntry), args.Error(1)
}

func (m *MockEntryRepository) List(ctx context.Context) ([]model.MoodEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MoodEntry), args.Error(1)
}

func (m *MockEntryRepository) FindRange(ctx context.Context, from, to time.Time) ([]model.MoodEntry, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MoodEntry), args.Error(1)
}

func (m *MockEntryRepository) Update(ctx context.Context, entry *model.MoodEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockWeatherProvider is a mock implementation of WeatherProvider
type MockWeatherProvider struct {
	mock.Mock
}

func (m *MockWeatherProvider) Current(ctx context.Context, city string) (*model.WeatherSnapshot, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WeatherSnapshot), args.Error(1)
}

func TestEntryService_CreateEntry_Success(t *testing.T) {
	repo := new(MockEntryRepository)
	weather := new(MockWeatherProvider)
	svc := NewEntryService(repo, weather, zap.NewNop())

	city := "Toronto"
	weather.On("Current", mock.Anything, "Toronto").Return(&model.WeatherSnapshot{
		TemperatureC: 21.5,
		Humidity:     60,
		Condition:    "clear",
	}, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.MoodEntry")).Return(nil)

	entry, err := svc.CreateEntry(context.Background(), CreateEntryInput{
		Date: "2026-08-27",
		Mood: "Happy",
		City: &city,
		Tags: []string{"Exercise", " exercise ", "Friends"},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, model.MoodHappy, entry.Mood)
	assert.Equal(t, []string{"exercise", "friends"}, entry.Tags)
	require.NotNil(t, entry.Weather)
	assert.Equal(t, "clear", entry.Weather.Condition)

	repo.AssertExpectations(t)
	weather.AssertExpectations(t)
}

func TestEntryService_CreateEntry_WeatherFailureNonFatal(t *testing.T) {
	repo := new(MockEntryRepository)
	weather := new(MockWeatherProvider)
	svc := NewEntryService(repo, weather, zap.NewNop())

	city := "Atlantis"
	weather.On("Current", mock.Anything, "Atlantis").Return(nil, errors.New("geocoding failed"))
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.MoodEntry")).Return(nil)

	entry, err := svc.CreateEntry(context.Background(), CreateEntryInput{
		Date: "2026-08-27",
		Mood: "calm",
		City: &city,
	})

	require.NoError(t, err)
	assert.Nil(t, entry.Weather)
}

func TestEntryService_CreateEntry_ValidationErrors(t *testing.T) {
	repo := new(MockEntryRepository)
	svc := NewEntryService(repo, nil, zap.NewNop())

	tests := []struct {
		name  string
		input CreateEntryInput
	}{
		{"missing date", CreateEntryInput{Mood: "happy"}},
		{"bad date format", CreateEntryInput{Date: "27/08/2026", Mood: "happy"}},
		{"unknown mood", CreateEntryInput{Date: "2026-08-27", Mood: "ecstatic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateEntry(context.Background(), tt.input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	repo.AssertNotCalled(t, "Create")
}

func TestEntryService_CreateEntry_DuplicateDatePassesThrough(t *testing.T) {
	repo := new(MockEntryRepository)
	svc := NewEntryService(repo, nil, zap.NewNop())

	repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateDate)

	_, err := svc.CreateEntry(context.Background(), CreateEntryInput{
		Date: "2026-08-27",
		Mood: "neutral",
	})

	assert.ErrorIs(t, err, repository.ErrDuplicateDate)
}

func TestEntryService_UpdateEntry_PartialUpdate(t *testing.T) {
	repo := new(MockEntryRepository)
	svc := NewEntryService(repo, nil, zap.NewNop())

	note := "old note"
	existing := &model.MoodEntry{
		ID:   "entry-1",
		Date: time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC),
		Mood: model.MoodSad,
		Note: &note,
		Tags: []string{"commute"},
	}

	repo.On("GetByID", mock.Anything, "entry-1").Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*model.MoodEntry")).Return(nil)

	newMood := "happy"
	updated, err := svc.UpdateEntry(context.Background(), "entry-1", UpdateEntryInput{
		Mood: &newMood,
	})

	require.NoError(t, err)
	assert.Equal(t, model.MoodHappy, updated.Mood)
	// Untouched fields survive
	assert.Equal(t, []string{"commute"}, updated.Tags)
	require.NotNil(t, updated.Note)
	assert.Equal(t, "old note", *updated.Note)
}

func TestEntryService_UpdateEntry_CityChangeRefreshesWeather(t *testing.T) {
	repo := new(MockEntryRepository)
	weather := new(MockWeatherProvider)
	svc := NewEntryService(repo, weather, zap.NewNop())

	oldCity := "Toronto"
	existing := &model.MoodEntry{
		ID:      "entry-1",
		Date:    time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC),
		Mood:    model.MoodCalm,
		City:    &oldCity,
		Weather: &model.WeatherSnapshot{Condition: "rain"},
	}

	repo.On("GetByID", mock.Anything, "entry-1").Return(existing, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)
	weather.On("Current", mock.Anything, "Lisbon").Return(&model.WeatherSnapshot{Condition: "clear"}, nil)

	newCity := "Lisbon"
	updated, err := svc.UpdateEntry(context.Background(), "entry-1", UpdateEntryInput{City: &newCity})

	require.NoError(t, err)
	require.NotNil(t, updated.Weather)
	assert.Equal(t, "clear", updated.Weather.Condition)
	weather.AssertExpectations(t)
}

func TestEntryService_DeleteEntry_NotFound(t *testing.T) {
	repo := new(MockEntryRepository)
	svc := NewEntryService(repo, nil, zap.NewNop())

	repo.On("Delete", mock.Anything, "missing").Return(repository.ErrEntryNotFound)

	err := svc.DeleteEntry(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrEntryNotFound)
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, nil},
		{"dedup and lowercase", []string{"Run", "run", " RUN "}, []string{"run"}},
		{"drops empties", []string{"", "  ", "walk"}, []string{"walk"}},
		{"preserves order", []string{"b", "a", "b"}, []string{"b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTags(tt.in))
		})
	}
}
