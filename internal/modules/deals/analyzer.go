// Package deals flags statistically cheap flights and hotels, analyzes
// historical price trends, and produces booking-time advice. Everything
// here is a pure function of its inputs.
package deals

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tripscout/tripscout/internal/domain"
	"github.com/tripscout/tripscout/pkg/formulas"
)

// An item is a deal when it sits at least this far below its peer mean
const dealThresholdPercent = 15.0

// At most this many deals are kept per item type
const maxDealsPerType = 3

// Analyzer detects deals and price trends
type Analyzer struct {
	log zerolog.Logger
}

// New creates a deal analyzer
func New(log zerolog.Logger) *Analyzer {
	return &Analyzer{log: log.With().Str("component", "deals").Logger()}
}

// FindBestDeals analyzes flights and hotels independently and returns
// the combined deal list, flights first.
func (a *Analyzer) FindBestDeals(flights []domain.Flight, hotels []domain.Hotel) []domain.Deal {
	deals := append(a.flightDeals(flights), a.hotelDeals(hotels)...)

	a.log.Debug().
		Int("flights", len(flights)).
		Int("hotels", len(hotels)).
		Int("deals", len(deals)).
		Msg("Deal analysis complete")

	return deals
}

// flightDeals flags flights priced well below the batch mean
func (a *Analyzer) flightDeals(flights []domain.Flight) []domain.Deal {
	if len(flights) == 0 {
		return []domain.Deal{}
	}

	prices := make([]float64, len(flights))
	for i, f := range flights {
		prices[i] = f.Price
	}
	avg := formulas.Mean(prices)

	var deals []domain.Deal
	for i := range flights {
		f := flights[i]
		savings := formulas.PercentBelow(avg, f.Price)
		if savings < dealThresholdPercent {
			continue
		}
		deals = append(deals, domain.Deal{
			Type:           domain.DealFlight,
			Flight:         &f,
			SavingsPercent: formulas.Round2(savings),
			SavingsAmount:  formulas.Round2(avg - f.Price),
			AvgPrice:       formulas.Round2(avg),
			Explanation: fmt.Sprintf("%.1f%% below the average price of $%.2f for this route",
				savings, avg),
		})
	}

	return topDeals(deals)
}

// hotelDeals flags hotels priced well below the mean of their star
// bucket. Comparing a hostel against a five-star average would flag
// everything cheap, so hotels only compete within their own tier.
func (a *Analyzer) hotelDeals(hotels []domain.Hotel) []domain.Deal {
	if len(hotels) == 0 {
		return []domain.Deal{}
	}

	buckets := make(map[int][]float64)
	for _, h := range hotels {
		star := int(math.Round(h.RatingOrDefault()))
		buckets[star] = append(buckets[star], h.PricePerNight)
	}

	var deals []domain.Deal
	for i := range hotels {
		h := hotels[i]
		star := int(math.Round(h.RatingOrDefault()))
		avg := formulas.Mean(buckets[star])

		savings := formulas.PercentBelow(avg, h.PricePerNight)
		if savings < dealThresholdPercent {
			continue
		}
		deals = append(deals, domain.Deal{
			Type:           domain.DealHotel,
			Hotel:          &h,
			SavingsPercent: formulas.Round2(savings),
			SavingsAmount:  formulas.Round2(avg - h.PricePerNight),
			AvgPrice:       formulas.Round2(avg),
			Explanation: fmt.Sprintf("%.1f%% below the average nightly rate of $%.2f for %d-star hotels",
				savings, avg, star),
		})
	}

	return topDeals(deals)
}

// topDeals sorts by savings percent descending and truncates
func topDeals(deals []domain.Deal) []domain.Deal {
	if deals == nil {
		return []domain.Deal{}
	}
	sort.SliceStable(deals, func(i, j int) bool {
		return deals[i].SavingsPercent > deals[j].SavingsPercent
	})
	if len(deals) > maxDealsPerType {
		deals = deals[:maxDealsPerType]
	}
	return deals
}
