package images

import "strings"

// Candidate is one provider search result with the metadata used for safety
// filtering and scoring.
type Candidate struct {
	ID             string
	Description    string
	AltDescription string
	Tags           []string
	Topics         []string
	Likes          int
	Sponsored      bool
	Width          int
	Height         int
	RawURL         string
}

// blockedTerms is the fixed blocklist applied to candidate metadata. Any match
// blocks the candidate outright; the pipeline prefers no image over an unsafe
// one.
var blockedTerms = []string{
	"nsfw",
	"nude",
	"nudity",
	"naked",
	"erotic",
	"lingerie",
	"underwear",
	"bikini",
	"cleavage",
	"sensual",
}

// preferredTopics earn a scoring bonus; they match the decorative themes the
// application actually requests.
var preferredTopics = []string{
	"nature",
	"landscape",
	"travel",
	"architecture",
	"wallpapers",
	"textures-patterns",
}

// SafetyFilter rejects unsafe provider results and scores the rest.
type SafetyFilter struct{}

// NewSafetyFilter creates a SafetyFilter.
func NewSafetyFilter() *SafetyFilter {
	return &SafetyFilter{}
}

// IsBlocked reports whether any textual metadata of the candidate matches the
// blocklist, case-insensitively.
func (f *SafetyFilter) IsBlocked(c Candidate) bool {
	fields := make([]string, 0, 2+len(c.Tags)+len(c.Topics))
	fields = append(fields, c.Description, c.AltDescription)
	fields = append(fields, c.Tags...)
	fields = append(fields, c.Topics...)

	for _, field := range fields {
		lower := strings.ToLower(field)
		for _, term := range blockedTerms {
			if strings.Contains(lower, term) {
				return true
			}
		}
	}
	return false
}

// Score rates a non-blocked candidate for the requested dimensions. Higher is
// better. Components: a capped popularity signal, a bonus per preferred topic,
// a penalty for sponsored results, and a resolution-similarity bonus.
func (f *SafetyFilter) Score(c Candidate, targetW, targetH int) float64 {
	score := 0.0

	// Popularity, capped so a single viral photo cannot dominate.
	likes := c.Likes
	if likes > 100 {
		likes = 100
	}
	score += float64(likes) / 100.0 * 2.0

	for _, topic := range c.Topics {
		lower := strings.ToLower(topic)
		for _, preferred := range preferredTopics {
			if lower == preferred {
				score += 1.5
			}
		}
	}

	if c.Sponsored {
		score -= 3.0
	}

	score += dimensionSimilarity(c.Width, c.Height, targetW, targetH) * 2.0

	return score
}

// dimensionSimilarity is the product of min/max ratios of widths and heights,
// 1.0 for an exact match and approaching 0 for wildly different shapes.
func dimensionSimilarity(w, h, targetW, targetH int) float64 {
	if w <= 0 || h <= 0 || targetW <= 0 || targetH <= 0 {
		return 0
	}
	return ratio(w, targetW) * ratio(h, targetH)
}

func ratio(a, b int) float64 {
	if a > b {
		a, b = b, a
	}
	return float64(a) / float64(b)
}

// pickBest returns the highest scoring non-blocked candidate, or false when
// every candidate is blocked. Ties keep the earlier provider result.
func (f *SafetyFilter) pickBest(candidates []Candidate, targetW, targetH int) (Candidate, bool) {
	var best Candidate
	bestScore := 0.0
	found := false

	for _, c := range candidates {
		if f.IsBlocked(c) {
			continue
		}
		s := f.Score(c, targetW, targetH)
		if !found || s > bestScore {
			best = c
			bestScore = s
			found = true
		}
	}

	return best, found
}
