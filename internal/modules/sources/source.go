// Package sources implements the retrieval sources for the four travel
// domains. Every source shares the same fetch contract: given Params it
// returns normalized records or an error the orchestrator observes.
//
// Sources carry a shared Bright Data client injected at construction.
// Without an API key the client runs in sample mode and every source
// serves its deterministic catalog, which keeps the whole pipeline
// exercisable offline.
package sources

import (
	"context"
	"time"

	"github.com/tripscout/tripscout/internal/domain"
)

// Params carries the retrieval parameters shared by all source domains
type Params struct {
	Origin      string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Adults      int
	Children    int
	Rooms       int
	CabinClass  string
	MaxPrice    *float64
	Site        string // source website selector, per-domain default when empty
}

// Guests returns the total traveler count
func (p Params) Guests() int {
	return p.Adults + p.Children
}

// FlightSource fetches flight records
type FlightSource interface {
	FetchFlights(ctx context.Context, p Params) ([]domain.Flight, error)
}

// HotelSource fetches hotel records
type HotelSource interface {
	FetchHotels(ctx context.Context, p Params) ([]domain.Hotel, error)
}

// WeatherSource fetches a daily forecast for the stay window
type WeatherSource interface {
	FetchWeather(ctx context.Context, p Params) ([]domain.WeatherDay, error)
}

// EventSource fetches local events during the stay window
type EventSource interface {
	FetchEvents(ctx context.Context, p Params) ([]domain.Event, error)
}
