// Package packing produces categorized packing lists for a trip. A
// configured text-generation backend personalizes the list; without one,
// or when generation fails or parses empty, deterministic rules take
// over. The generator never returns an error: total failure yields a
// fixed minimal list.
package packing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripscout/tripscout/internal/clients/gemini"
	"github.com/tripscout/tripscout/internal/domain"
	"github.com/tripscout/tripscout/internal/modules/weather"
)

// Generator builds packing suggestions from weather insights
type Generator struct {
	gen gemini.Generator
	log zerolog.Logger
}

// New creates a packing generator. gen may be nil; the rule-based path
// then serves every request.
func New(gen gemini.Generator, log zerolog.Logger) *Generator {
	return &Generator{
		gen: gen,
		log: log.With().Str("component", "packing").Logger(),
	}
}

// Generate produces a categorized packing list for the trip window
func (g *Generator) Generate(
	ctx context.Context,
	destination string,
	startDate, endDate time.Time,
	weatherDays []domain.WeatherDay,
	activities []string,
) domain.PackingList {
	insights := weather.ExtractInsights(weatherDays)

	if g.gen != nil {
		list, err := g.generateEnriched(ctx, destination, startDate, endDate, insights, activities)
		if err == nil {
			return list
		}
		g.log.Warn().Err(err).Msg("Enriched packing generation failed, using rules")
	}

	list := RuleBased(insights, activities)
	if list.Empty() {
		return Minimal()
	}
	return list
}

const promptTemplate = `Generate a comprehensive packing list for a trip to %s from %s to %s.

Weather conditions during the trip:
- Lowest temperature: %.0f°F
- Highest temperature: %.0f°F
- Average temperature: %.1f°F
- Days with precipitation: %d
- Predominant condition: %s

Planned activities: %s

Provide packing suggestions organized into these categories:
1. Clothing
2. Accessories
3. Toiletries
4. Documents
5. Electronics
6. Miscellaneous

Format each category as a bullet list. Be specific and practical.`

func (g *Generator) generateEnriched(
	ctx context.Context,
	destination string,
	startDate, endDate time.Time,
	insights domain.WeatherInsights,
	activities []string,
) (domain.PackingList, error) {
	activitiesStr := "sightseeing, dining, and relaxation"
	if len(activities) > 0 {
		activitiesStr = strings.Join(activities, ", ")
	}

	prompt := fmt.Sprintf(promptTemplate,
		destination,
		startDate.Format("2006-01-02"), endDate.Format("2006-01-02"),
		insights.MinTemp, insights.MaxTemp, insights.AvgTemp,
		insights.PrecipitationDays, insights.PredominantCondition,
		activitiesStr,
	)

	out, err := g.gen.Generate(ctx, prompt)
	if err != nil {
		return domain.PackingList{}, fmt.Errorf("generation failed: %w", err)
	}

	list := ParseCategorized(out)
	if list.Empty() {
		return domain.PackingList{}, fmt.Errorf("generation output had no parseable items")
	}
	return list, nil
}

// Minimal returns the fixed fallback list used when everything else
// fails upstream.
func Minimal() domain.PackingList {
	return domain.PackingList{
		Clothing:      []string{"T-shirts", "Pants/jeans", "Underwear", "Socks", "Pajamas", "Light jacket"},
		Accessories:   []string{"Sunglasses", "Hat", "Umbrella"},
		Toiletries:    []string{"Toothbrush", "Toothpaste", "Shampoo", "Deodorant", "Sunscreen"},
		Documents:     []string{"Passport", "ID", "Credit cards", "Insurance information"},
		Electronics:   []string{"Phone", "Charger", "Camera", "Adapters"},
		Miscellaneous: []string{"Medications", "Books/e-reader", "Travel pillow"},
	}
}
