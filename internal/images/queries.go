package images

import (
	"fmt"
	"strings"
)

// moodThemes maps each mood onto evocative search phrases tried against the
// provider when no explicit query is given (and as enrichment when one is).
var moodThemes = map[string][]string{
	"happy": {
		"sunrise golden hour",
		"sunlit meadow flowers",
		"warm morning light",
	},
	"calm": {
		"calm lake at dawn",
		"misty forest morning",
		"quiet beach sunrise",
	},
	"neutral": {
		"minimal landscape",
		"open field horizon",
	},
	"sad": {
		"rain on window",
		"overcast coastline",
		"fog over rolling hills",
	},
	"stressed": {
		"storm clouds over mountains",
		"moody mountain peaks",
		"dramatic dark sky",
	},
}

// safeWeatherConditions are the condition labels allowed to contribute search
// queries; anything else is ignored.
var safeWeatherConditions = map[string]string{
	"clear":        "clear blue sky",
	"clouds":       "soft clouds sky",
	"rain":         "gentle rain landscape",
	"drizzle":      "light rain street",
	"thunderstorm": "distant storm landscape",
	"snow":         "snowy landscape",
	"mist":         "misty valley",
}

// genericQueries are always appended last so the provider chain has safe
// fallbacks before giving up on search entirely.
var genericQueries = []string{
	"landscape photography",
	"minimal architecture",
	"abstract nature",
}

// buildQueries assembles the ordered, deduplicated candidate query list for a
// resolution request.
func buildQueries(query, city, mood, weather string) []string {
	var queries []string

	if q := strings.TrimSpace(query); q != "" {
		queries = append(queries, q)
	}

	city = strings.TrimSpace(city)
	mood = strings.ToLower(strings.TrimSpace(mood))

	if city != "" {
		queries = append(queries,
			fmt.Sprintf("%s skyline", city),
			fmt.Sprintf("%s cityscape", city),
			fmt.Sprintf("%s landmark", city),
		)
		if themes, ok := moodThemes[mood]; ok {
			queries = append(queries, fmt.Sprintf("%s %s", city, themes[0]))
		}
	}

	if themes, ok := moodThemes[mood]; ok {
		queries = append(queries, themes...)
	}

	if q, ok := safeWeatherConditions[strings.ToLower(strings.TrimSpace(weather))]; ok {
		queries = append(queries, q)
	}

	queries = append(queries, genericQueries...)

	return dedupeQueries(queries)
}

// dedupeQueries removes duplicates (after normalization) preserving order.
func dedupeQueries(queries []string) []string {
	seen := make(map[string]struct{}, len(queries))
	out := queries[:0]
	for _, q := range queries {
		norm := normalizeQuery(q)
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, q)
	}
	return out
}
