package model

import "time"

// Mood is one of the five tracked mood states.
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodCalm     Mood = "calm"
	MoodNeutral  Mood = "neutral"
	MoodSad      Mood = "sad"
	MoodStressed Mood = "stressed"
)

// Moods lists every valid mood value.
var Moods = []Mood{MoodHappy, MoodCalm, MoodNeutral, MoodSad, MoodStressed}

// Valid reports whether m is one of the five tracked moods.
func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodCalm, MoodNeutral, MoodSad, MoodStressed:
		return true
	}
	return false
}

// Score maps a mood onto the -2..+2 scale used for aggregation.
func (m Mood) Score() float64 {
	switch m {
	case MoodHappy:
		return 2
	case MoodCalm:
		return 1
	case MoodSad:
		return -1
	case MoodStressed:
		return -2
	default:
		return 0
	}
}

// WeatherSnapshot captures the conditions at the time an entry was created.
type WeatherSnapshot struct {
	TemperatureC float64 `json:"temperature_c"`
	Humidity     int     `json:"humidity"`
	Condition    string  `json:"condition"`
}

// MoodEntry is one user-submitted mood record. At most one entry exists per
// calendar date.
type MoodEntry struct {
	ID        string           `json:"id"`
	Date      time.Time        `json:"date"`
	Mood      Mood             `json:"mood"`
	City      *string          `json:"city,omitempty"`
	Tags      []string         `json:"tags,omitempty"`
	Note      *string          `json:"note,omitempty"`
	Weather   *WeatherSnapshot `json:"weather,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// ImageSource identifies where a resolved image came from.
type ImageSource string

const (
	ImageSourceProvider    ImageSource = "provider"
	ImageSourceSeed        ImageSource = "seed"
	ImageSourcePlaceholder ImageSource = "placeholder"
	ImageSourceDisk        ImageSource = "disk"
)

// CachedImage is a resolved image reference. Key is a pure function of
// (query, width, height); identical inputs always address the same slot.
type CachedImage struct {
	Key     string      `json:"key"`
	URL     string      `json:"url"`
	Source  ImageSource `json:"source"`
	SavedAt time.Time   `json:"saved_at"`
}

// Trend classifies the week-over-week movement of the average mood score.
type Trend string

const (
	TrendImproved Trend = "improved"
	TrendStable   Trend = "stable"
	TrendWorsened Trend = "worsened"
)

// ReportPeriod describes the window a weekly report covers.
type ReportPeriod struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	TotalEntries int       `json:"total_entries"`
}

// MoodScoreSummary holds the score aggregates for a weekly report.
type MoodScoreSummary struct {
	Average         float64  `json:"average"`
	PreviousAverage *float64 `json:"previous_average,omitempty"`
	Trend           Trend    `json:"trend"`
	Delta           float64  `json:"delta"`
	Grade           string   `json:"grade"`
}

// DayScore is the mean mood score for a single day of the week.
type DayScore struct {
	Weekday time.Weekday `json:"weekday"`
	Average float64      `json:"average"`
	Entries int          `json:"entries"`
}

// DayPatterns surfaces the best and worst performing days in the window.
type DayPatterns struct {
	Best   *DayScore  `json:"best,omitempty"`
	Worst  *DayScore  `json:"worst,omitempty"`
	PerDay []DayScore `json:"per_day"`
}

// TagCorrelation is the mean mood score of entries bearing a tag.
type TagCorrelation struct {
	Tag     string  `json:"tag"`
	Average float64 `json:"average"`
	Entries int     `json:"entries"`
}

// Correlations holds ranked positive and negative tag contributors.
type Correlations struct {
	Positive []TagCorrelation `json:"positive"`
	Negative []TagCorrelation `json:"negative"`
}

// WeeklyReport is the derived analytic report for one week. It is recomputed
// from raw entries on every request; the persisted summary is only a cache.
type WeeklyReport struct {
	Period           ReportPeriod     `json:"period"`
	MoodScore        MoodScoreSummary `json:"mood_score"`
	MoodDistribution map[Mood]int     `json:"mood_distribution"`
	DayPatterns      DayPatterns      `json:"day_patterns"`
	Correlations     Correlations     `json:"correlations"`
	Tips             []string         `json:"tips"`
}

// ReportRecord tracks a generated PDF report.
type ReportRecord struct {
	ID          string    `json:"id"`
	WeekStart   time.Time `json:"week_start"`
	WeekEnd     time.Time `json:"week_end"`
	FilePath    string    `json:"file_path"`
	GeneratedAt time.Time `json:"generated_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// ErrorResponse is the JSON error shape returned by every endpoint.
type ErrorResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Details *string `json:"details,omitempty"`
}
