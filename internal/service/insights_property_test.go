package service

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/Antirender/moodpeek1/pkg/model"
)

func genMood() gopter.Gen {
	return gen.OneConstOf(model.MoodHappy, model.MoodCalm, model.MoodNeutral, model.MoodSad, model.MoodStressed)
}

func genWeekEntries() gopter.Gen {
	return gen.SliceOf(gopter.CombineGens(
		gen.IntRange(0, 6),
		genMood(),
		gen.SliceOf(gen.OneConstOf("exercise", "work", "friends", "sleep", "deadline")),
	).Map(func(values []interface{}) model.MoodEntry {
		return model.MoodEntry{
			Date: insightsWeekStart.AddDate(0, 0, values[0].(int)),
			Mood: values[1].(model.Mood),
			Tags: values[2].([]string),
		}
	}))
}

func reportFor(entries []model.MoodEntry) *model.WeeklyReport {
	repo := new(MockEntryRepository)
	repo.On("FindRange", mock.Anything, insightsWeekStart, insightsWeekStart.AddDate(0, 0, 7)).
		Return(entries, nil)
	repo.On("FindRange", mock.Anything, insightsWeekStart.AddDate(0, 0, -7), insightsWeekStart).
		Return([]model.MoodEntry{}, nil)

	svc := NewInsightsService(repo, nil, nil, zap.NewNop())
	report, err := svc.ComputeWeeklyReport(context.Background(), "2026-08-24")
	if err != nil {
		return nil
	}
	return report
}

// Average mood score always stays on the -2..+2 scale and the grade follows
// the score thresholds.
func TestProperty_AverageBoundsAndGradeConsistency(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("average in [-2,2] and grade matches thresholds", prop.ForAll(
		func(entries []model.MoodEntry) bool {
			report := reportFor(entries)
			if report == nil {
				return false
			}

			avg := report.MoodScore.Average
			if avg < -2 || avg > 2 {
				return false
			}

			return report.MoodScore.Grade == gradeFor(avg)
		},
		genWeekEntries(),
	))

	properties.TestingRun(t)
}

// The mood distribution partitions the window: per-mood counts sum to the
// report's total entry count.
func TestProperty_DistributionPartitionsEntries(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("distribution counts sum to total", prop.ForAll(
		func(entries []model.MoodEntry) bool {
			report := reportFor(entries)
			if report == nil {
				return false
			}

			total := 0
			for _, count := range report.MoodDistribution {
				total += count
			}

			return total == len(entries) && report.Period.TotalEntries == len(entries)
		},
		genWeekEntries(),
	))

	properties.TestingRun(t)
}

// Every non-empty report carries at least two tips.
func TestProperty_TipFloorForNonEmptyWeeks(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("non-empty weeks get at least two tips", prop.ForAll(
		func(entries []model.MoodEntry) bool {
			report := reportFor(entries)
			if report == nil {
				return false
			}

			if len(entries) == 0 {
				return len(report.Tips) >= 1
			}
			return len(report.Tips) >= 2
		},
		genWeekEntries(),
	))

	properties.TestingRun(t)
}

// Correlated tags always meet the occurrence floor and the two lists are
// ranked strongest-first.
func TestProperty_CorrelationFloorAndOrdering(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("correlations respect occurrence floor and ordering", prop.ForAll(
		func(entries []model.MoodEntry) bool {
			report := reportFor(entries)
			if report == nil {
				return false
			}

			occurrences := make(map[string]int)
			for _, entry := range entries {
				seen := make(map[string]struct{})
				for _, tag := range entry.Tags {
					if _, dup := seen[tag]; dup {
						continue
					}
					seen[tag] = struct{}{}
					occurrences[tag]++
				}
			}

			for i, corr := range report.Correlations.Positive {
				if occurrences[corr.Tag] < correlationMinOccurrences {
					return false
				}
				if corr.Average < correlationThreshold {
					return false
				}
				if i > 0 && report.Correlations.Positive[i-1].Average < corr.Average {
					return false
				}
			}

			for i, corr := range report.Correlations.Negative {
				if occurrences[corr.Tag] < correlationMinOccurrences {
					return false
				}
				if corr.Average > -correlationThreshold {
					return false
				}
				if i > 0 && report.Correlations.Negative[i-1].Average > corr.Average {
					return false
				}
			}

			return true
		},
		genWeekEntries(),
	))

	properties.TestingRun(t)
}
