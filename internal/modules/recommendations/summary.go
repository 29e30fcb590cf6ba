package recommendations

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/tripscout/tripscout/internal/domain"
)

// Reference trip price for the "cheaper/more expensive than average"
// phrasing in summaries, in whole currency units.
const referenceTripPrice = 1000.0

// summarize produces a one-paragraph summary. The deterministic template
// always succeeds; a configured backend may replace it with richer text.
func (e *Engine) summarize(ctx context.Context, rec domain.Recommendation) string {
	fallback := buildSummary(rec)

	if e.gen == nil {
		return fallback
	}

	prompt := fmt.Sprintf(
		"Write a short, enthusiastic two-sentence travel deal summary for this trip:\n"+
			"Flight: %s %s, %d minutes, %d layovers, $%.2f\n"+
			"Hotel: %s in %s, %.1f stars, $%.2f per night for %d nights\n"+
			"Total price: $%.2f\n"+
			"Do not invent details beyond those given.",
		rec.Flight.Airline, rec.Flight.FlightNumber,
		rec.Flight.DurationMinutes, rec.Flight.Layovers, rec.Flight.Price,
		rec.Hotel.Name, rec.Hotel.Location, rec.Hotel.RatingOrDefault(),
		rec.Hotel.PricePerNight, rec.Nights,
		rec.TotalPrice,
	)

	out, err := e.gen.Generate(ctx, prompt)
	if err != nil {
		e.log.Warn().Err(err).Str("recommendation_id", rec.ID).Msg("Summary generation failed, using template")
		return fallback
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return fallback
	}
	return out
}

// buildSummary renders the deterministic summary template
func buildSummary(rec domain.Recommendation) string {
	diffPercent := (referenceTripPrice - rec.TotalPrice) / referenceTripPrice * 100

	var priceText string
	if diffPercent > 0 {
		priceText = fmt.Sprintf("%.0f%% cheaper than average", diffPercent)
	} else {
		priceText = fmt.Sprintf("%.0f%% more expensive than average", math.Abs(diffPercent))
	}

	var weatherText string
	switch {
	case rec.Scores.WeatherScore > 0.8:
		weatherText = "excellent weather"
	case rec.Scores.WeatherScore > 0.6:
		weatherText = "good weather"
	default:
		weatherText = "acceptable weather"
	}

	hours := rec.Flight.DurationMinutes / 60
	minutes := rec.Flight.DurationMinutes % 60

	var convenienceText string
	switch {
	case rec.Scores.ConvenienceScore > 0.8:
		convenienceText = fmt.Sprintf("convenient %dh %dm non-stop flight", hours, minutes)
	case rec.Scores.ConvenienceScore > 0.6:
		convenienceText = fmt.Sprintf("reasonable %dh %dm flight", hours, minutes)
	default:
		convenienceText = fmt.Sprintf("%dh %dm flight with %d layover(s)", hours, minutes, rec.Flight.Layovers)
	}

	return fmt.Sprintf(
		"This %s deal features a %s with %s and a stay at the %.1f-star %s in %s. You can expect %s during your trip.",
		priceText, convenienceText, rec.Flight.Airline,
		rec.Hotel.RatingOrDefault(), rec.Hotel.Name, rec.Hotel.Location,
		weatherText,
	)
}
