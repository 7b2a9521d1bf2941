package pdf

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/Antirender/moodpeek1/pkg/model"
)

// PDFGenerator renders weekly mood reports
type PDFGenerator struct {
	logger *zap.Logger
}

// NewPDFGenerator creates a new PDFGenerator
func NewPDFGenerator(logger *zap.Logger) *PDFGenerator {
	return &PDFGenerator{
		logger: logger,
	}
}

// Generate creates a PDF document from a weekly report
func (g *PDFGenerator) Generate(report *model.WeeklyReport) ([]byte, error) {
	g.logger.Info("generating PDF report",
		zap.Time("week_start", report.Period.Start),
		zap.Int("total_entries", report.Period.TotalEntries),
	)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	pdf.AddPage()

	g.addTitle(pdf, report.Period)
	g.addMoodScore(pdf, report.MoodScore)
	g.addMoodDistribution(pdf, report.MoodDistribution, report.Period.TotalEntries)
	g.addDayPatterns(pdf, report.DayPatterns)
	g.addCorrelations(pdf, report.Correlations)
	g.addTips(pdf, report.Tips)

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("PDF report generated successfully",
		zap.Int("size_bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

// addTitle adds the report title and header information
func (g *PDFGenerator) addTitle(pdf *gofpdf.Fpdf, period model.ReportPeriod) {
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, "Weekly Mood Report", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Week: %s to %s",
		period.Start.Format("2006-01-02"),
		period.End.AddDate(0, 0, -1).Format("2006-01-02")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Entries: %d", period.TotalEntries), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(10)
}

// addSectionHeader adds a section header
func (g *PDFGenerator) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
	pdf.SetFont("Arial", "", 10)
}

// addMoodScore adds the score summary section
func (g *PDFGenerator) addMoodScore(pdf *gofpdf.Fpdf, score model.MoodScoreSummary) {
	g.addSectionHeader(pdf, "Mood Score")

	pdf.CellFormat(0, 6, fmt.Sprintf("Average score: %.2f", score.Average), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Grade: %s", score.Grade), "", 1, "L", false, 0, "")

	if score.PreviousAverage != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Previous week: %.2f", *score.PreviousAverage), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("Trend: %s (%+.2f)", score.Trend, score.Delta), "", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(0, 6, fmt.Sprintf("Trend: %s (no previous week)", score.Trend), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

// addMoodDistribution adds the per-mood entry counts
func (g *PDFGenerator) addMoodDistribution(pdf *gofpdf.Fpdf, distribution map[model.Mood]int, total int) {
	g.addSectionHeader(pdf, "Mood Distribution")

	if total == 0 {
		pdf.CellFormat(0, 8, "No entries recorded during this week.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, mood := range model.Moods {
		count := distribution[mood]
		if count == 0 {
			continue
		}
		share := float64(count) / float64(total) * 100
		pdf.CellFormat(0, 6, fmt.Sprintf("%s: %d (%.0f%%)", mood, count, share), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

// addDayPatterns adds the best/worst day section
func (g *PDFGenerator) addDayPatterns(pdf *gofpdf.Fpdf, patterns model.DayPatterns) {
	g.addSectionHeader(pdf, "Day Patterns")

	if len(patterns.PerDay) == 0 {
		pdf.CellFormat(0, 8, "Not enough entries to detect day patterns.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	if patterns.Best != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Best day: %s (%.2f over %d entries)",
			patterns.Best.Weekday, patterns.Best.Average, patterns.Best.Entries), "", 1, "L", false, 0, "")
	}
	if patterns.Worst != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Worst day: %s (%.2f over %d entries)",
			patterns.Worst.Weekday, patterns.Worst.Average, patterns.Worst.Entries), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Per day:", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)

	for _, day := range patterns.PerDay {
		pdf.CellFormat(0, 5, fmt.Sprintf("  %s: %.2f (%d entries)",
			day.Weekday, day.Average, day.Entries), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

// addCorrelations adds the tag correlation section
func (g *PDFGenerator) addCorrelations(pdf *gofpdf.Fpdf, correlations model.Correlations) {
	g.addSectionHeader(pdf, "Tag Correlations")

	if len(correlations.Positive) == 0 && len(correlations.Negative) == 0 {
		pdf.CellFormat(0, 8, "No tags appeared often enough to correlate.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	if len(correlations.Positive) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Lifted your mood:", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, tag := range sortedByTag(correlations.Positive) {
			pdf.CellFormat(0, 5, fmt.Sprintf("  #%s: %+.2f (%d entries)", tag.Tag, tag.Average, tag.Entries), "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}

	if len(correlations.Negative) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Weighed on your mood:", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, tag := range sortedByTag(correlations.Negative) {
			pdf.CellFormat(0, 5, fmt.Sprintf("  #%s: %+.2f (%d entries)", tag.Tag, tag.Average, tag.Entries), "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(5)
}

// addTips adds the tips section
func (g *PDFGenerator) addTips(pdf *gofpdf.Fpdf, tips []string) {
	g.addSectionHeader(pdf, "Tips")

	if len(tips) == 0 {
		pdf.CellFormat(0, 8, "No tips for this week.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, tip := range tips {
		pdf.MultiCell(0, 5, fmt.Sprintf("- %s", tip), "", "L", false)
		pdf.Ln(1)
	}
	pdf.Ln(5)
}

// sortedByTag returns a copy ordered alphabetically for stable output
func sortedByTag(tags []model.TagCorrelation) []model.TagCorrelation {
	out := make([]model.TagCorrelation, len(tags))
	copy(out, tags)
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}
