// Package recommendations ranks flight+hotel pairings for a completed
// search. Scoring is deterministic; a configured text-generation backend
// only rewrites the human-readable summary, never the scores.
package recommendations

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tripscout/tripscout/internal/clients/gemini"
	"github.com/tripscout/tripscout/internal/domain"
	"github.com/tripscout/tripscout/internal/modules/packing"
	"github.com/tripscout/tripscout/internal/modules/weather"
)

// Candidate pool caps. The pairing space is quadratic, so both axes are
// truncated before pairing and the pool is capped overall.
const (
	maxFlightsConsidered = 10
	maxHotelsConsidered  = 10
	maxCandidates        = 20
	maxRecommendations   = 5
)

// Engine scores and ranks trip candidates
type Engine struct {
	gen gemini.Generator
	log zerolog.Logger
}

// New creates a recommendation engine. gen may be nil; summaries then
// come from the deterministic template only.
func New(gen gemini.Generator, log zerolog.Logger) *Engine {
	return &Engine{
		gen: gen,
		log: log.With().Str("component", "recommendations").Logger(),
	}
}

type candidate struct {
	flight domain.Flight
	hotel  domain.Hotel
	scores domain.ScoreBreakdown
}

// Generate produces the top ranked recommendations for a search.
// Returns an empty slice when any of the flight, hotel, or weather sets
// is empty; there is nothing meaningful to pair or score without all
// three.
func (e *Engine) Generate(
	ctx context.Context,
	search domain.SearchRequest,
	flights []domain.Flight,
	hotels []domain.Hotel,
	weatherDays []domain.WeatherDay,
) []domain.Recommendation {
	if len(flights) == 0 || len(hotels) == 0 || len(weatherDays) == 0 {
		e.log.Debug().Str("search_id", search.ID).Msg("Missing flights, hotels, or weather, skipping recommendations")
		return []domain.Recommendation{}
	}

	weatherScores := dailyWeatherScores(weatherDays)
	candidates := e.buildCandidates(flights, hotels, weatherScores)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].scores.TotalScore > candidates[j].scores.TotalScore
	})
	if len(candidates) > maxRecommendations {
		candidates = candidates[:maxRecommendations]
	}

	recs := make([]domain.Recommendation, 0, len(candidates))
	for _, c := range candidates {
		rec := domain.Recommendation{
			ID:         uuid.New().String(),
			SearchID:   search.ID,
			Flight:     c.flight,
			Hotel:      c.hotel,
			Scores:     c.scores,
			TotalPrice: totalPrice(c.flight, c.hotel),
			Currency:   c.flight.Currency,
			Nights:     c.flight.Nights(),
			CreatedAt:  time.Now().UTC(),
		}

		rec.PackingSuggestions = packFor(search, c, weatherDays)
		rec.Summary = e.summarize(ctx, rec)

		recs = append(recs, rec)
	}

	e.log.Info().
		Str("search_id", search.ID).
		Int("flights", len(flights)).
		Int("hotels", len(hotels)).
		Int("recommendations", len(recs)).
		Msg("Recommendations generated")

	return recs
}

// buildCandidates pairs the leading flights and hotels and scores each
// pair, stopping at the pool cap.
func (e *Engine) buildCandidates(
	flights []domain.Flight,
	hotels []domain.Hotel,
	weatherScores map[string]float64,
) []candidate {
	if len(flights) > maxFlightsConsidered {
		flights = flights[:maxFlightsConsidered]
	}
	if len(hotels) > maxHotelsConsidered {
		hotels = hotels[:maxHotelsConsidered]
	}

	candidates := make([]candidate, 0, maxCandidates)
	for _, f := range flights {
		for _, h := range hotels {
			if len(candidates) >= maxCandidates {
				return candidates
			}
			candidates = append(candidates, candidate{
				flight: f,
				hotel:  h,
				scores: scoreCandidate(f, h, weatherScores),
			})
		}
	}
	return candidates
}

// packFor produces packing suggestions for one candidate from the
// forecast days that fall inside its travel window. Always the
// deterministic rule path; per-candidate lists never touch the
// generation backend.
func packFor(search domain.SearchRequest, c candidate, weatherDays []domain.WeatherDay) domain.PackingList {
	window := windowDays(weatherDays, c.flight.DepartureTime, c.flight.ArrivalTime)

	var activities []string
	if v := search.Preference("activities", ""); v != "" {
		activities = []string{v}
	}

	list := packing.RuleBased(weather.ExtractInsights(window), activities)
	if list.Empty() {
		return packing.Minimal()
	}
	return list
}

func windowDays(days []domain.WeatherDay, start, end time.Time) []domain.WeatherDay {
	startDay := start.Format("2006-01-02")
	endDay := end.Format("2006-01-02")

	var out []domain.WeatherDay
	for _, d := range days {
		date := d.Date.Format("2006-01-02")
		if date >= startDay && date <= endDay {
			out = append(out, d)
		}
	}
	return out
}
