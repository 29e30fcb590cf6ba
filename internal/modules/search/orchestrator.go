// Package search owns the search lifecycle: it accepts a search request,
// fans out to the four retrieval sources concurrently, persists the
// normalized records, runs the recommendation engine, and drives the
// search's status to a terminal state.
package search

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tripscout/tripscout/internal/domain"
	"github.com/tripscout/tripscout/internal/events"
	"github.com/tripscout/tripscout/internal/modules/recommendations"
	"github.com/tripscout/tripscout/internal/modules/sources"
)

// Sources bundles the four retrieval source handles
type Sources struct {
	Flights sources.FlightSource
	Hotels  sources.HotelSource
	Weather sources.WeatherSource
	Events  sources.EventSource
}

// Orchestrator coordinates one search run end to end
type Orchestrator struct {
	repo          Repository
	src           Sources
	engine        *recommendations.Engine
	bus           *events.Bus
	sourceTimeout time.Duration
	log           zerolog.Logger
}

// NewOrchestrator creates a search orchestrator
func NewOrchestrator(
	repo Repository,
	src Sources,
	engine *recommendations.Engine,
	bus *events.Bus,
	sourceTimeout time.Duration,
	log zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		repo:          repo,
		src:           src,
		engine:        engine,
		bus:           bus,
		sourceTimeout: sourceTimeout,
		log:           log.With().Str("component", "orchestrator").Logger(),
	}
}

// Launch runs a search in the background, detached from the caller. The
// caller returns immediately; progress is observable via the search
// status and the event bus.
func (o *Orchestrator) Launch(search domain.SearchRequest) {
	go func() {
		if err := o.Run(context.Background(), search); err != nil {
			o.log.Error().Err(err).Str("search_id", search.ID).Msg("Search run failed")
		}
	}()
}

// Run executes one search synchronously: fetch, persist, score. The
// four source fetches run concurrently, each under its own timeout. Any
// source failure fails the whole search; no partial results are
// persisted.
func (o *Orchestrator) Run(ctx context.Context, search domain.SearchRequest) error {
	o.log.Info().
		Str("search_id", search.ID).
		Str("origin", search.Origin).
		Str("destination", search.Destination).
		Msg("Search started")
	o.bus.Emit(events.SearchStarted, search.ID, map[string]interface{}{
		"origin":      search.Origin,
		"destination": search.Destination,
	})

	results, err := o.fetchAll(ctx, search)
	if err != nil {
		return o.fail(search.ID, err)
	}

	o.normalize(search.ID, &results)

	if err := o.persist(results); err != nil {
		return o.fail(search.ID, err)
	}

	recs := o.engine.Generate(ctx, search, results.flights, results.hotels, results.weather)
	if err := o.repo.SaveRecommendations(recs); err != nil {
		return o.fail(search.ID, fmt.Errorf("failed to save recommendations: %w", err))
	}

	if err := o.repo.UpdateSearchStatus(search.ID, domain.SearchCompleted, ""); err != nil {
		return o.fail(search.ID, fmt.Errorf("failed to mark search completed: %w", err))
	}

	o.log.Info().
		Str("search_id", search.ID).
		Int("flights", len(results.flights)).
		Int("hotels", len(results.hotels)).
		Int("weather_days", len(results.weather)).
		Int("events", len(results.events)).
		Int("recommendations", len(recs)).
		Msg("Search completed")
	o.bus.Emit(events.SearchCompleted, search.ID, map[string]interface{}{
		"recommendations": len(recs),
	})
	return nil
}

type fetchResults struct {
	flights []domain.Flight
	hotels  []domain.Hotel
	weather []domain.WeatherDay
	events  []domain.Event
}

// fetchAll runs the four source fetches concurrently and joins them.
// The first error observed fails the batch. Per-domain site selectors
// and the price cap come from the request's preference map.
func (o *Orchestrator) fetchAll(ctx context.Context, search domain.SearchRequest) (fetchResults, error) {
	params := sources.Params{
		Origin:      search.Origin,
		Destination: search.Destination,
		StartDate:   search.DepartureDate,
		EndDate:     search.ReturnDate,
		Adults:      search.Adults,
		Children:    search.Children,
		CabinClass:  search.Preference("cabin_class", ""),
	}
	if v := search.Preference("max_price", ""); v != "" {
		if maxPrice, err := strconv.ParseFloat(v, 64); err == nil {
			params.MaxPrice = &maxPrice
		}
	}

	flightParams := params
	flightParams.Site = search.Preference("flight_source", "")
	hotelParams := params
	hotelParams.Site = search.Preference("hotel_source", "")
	weatherParams := params
	weatherParams.Site = search.Preference("weather_source", "")
	eventParams := params
	eventParams.Site = search.Preference("event_source", "")

	var results fetchResults
	errs := make([]error, 4)

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		results.flights, errs[0] = o.fetchFlights(ctx, search.ID, flightParams)
	}()
	go func() {
		defer wg.Done()
		results.hotels, errs[1] = o.fetchHotels(ctx, search.ID, hotelParams)
	}()
	go func() {
		defer wg.Done()
		results.weather, errs[2] = o.fetchWeather(ctx, search.ID, weatherParams)
	}()
	go func() {
		defer wg.Done()
		results.events, errs[3] = o.fetchEvents(ctx, search.ID, eventParams)
	}()

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return fetchResults{}, err
		}
	}
	return results, nil
}

func (o *Orchestrator) fetchFlights(ctx context.Context, searchID string, p sources.Params) ([]domain.Flight, error) {
	ctx, cancel := context.WithTimeout(ctx, o.sourceTimeout)
	defer cancel()

	flights, err := o.src.Flights.FetchFlights(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("flight retrieval failed: %w", err)
	}
	o.sourceFetched(searchID, "flights", len(flights))
	return flights, nil
}

func (o *Orchestrator) fetchHotels(ctx context.Context, searchID string, p sources.Params) ([]domain.Hotel, error) {
	ctx, cancel := context.WithTimeout(ctx, o.sourceTimeout)
	defer cancel()

	hotels, err := o.src.Hotels.FetchHotels(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("hotel retrieval failed: %w", err)
	}
	o.sourceFetched(searchID, "hotels", len(hotels))
	return hotels, nil
}

func (o *Orchestrator) fetchWeather(ctx context.Context, searchID string, p sources.Params) ([]domain.WeatherDay, error) {
	ctx, cancel := context.WithTimeout(ctx, o.sourceTimeout)
	defer cancel()

	days, err := o.src.Weather.FetchWeather(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("weather retrieval failed: %w", err)
	}
	o.sourceFetched(searchID, "weather", len(days))
	return days, nil
}

func (o *Orchestrator) fetchEvents(ctx context.Context, searchID string, p sources.Params) ([]domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, o.sourceTimeout)
	defer cancel()

	evts, err := o.src.Events.FetchEvents(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("event retrieval failed: %w", err)
	}
	o.sourceFetched(searchID, "events", len(evts))
	return evts, nil
}

func (o *Orchestrator) sourceFetched(searchID, source string, count int) {
	o.log.Debug().
		Str("search_id", searchID).
		Str("source", source).
		Int("count", count).
		Msg("Source fetch complete")
	o.bus.Emit(events.SourceFetched, searchID, map[string]interface{}{
		"source": source,
		"count":  count,
	})
}

// normalize stamps identifiers and the owning search onto every record
func (o *Orchestrator) normalize(searchID string, r *fetchResults) {
	for i := range r.flights {
		if r.flights[i].ID == "" {
			r.flights[i].ID = uuid.New().String()
		}
		r.flights[i].SearchID = searchID
	}
	for i := range r.hotels {
		if r.hotels[i].ID == "" {
			r.hotels[i].ID = uuid.New().String()
		}
		r.hotels[i].SearchID = searchID
	}
	for i := range r.weather {
		if r.weather[i].ID == "" {
			r.weather[i].ID = uuid.New().String()
		}
		r.weather[i].SearchID = searchID
	}
	for i := range r.events {
		if r.events[i].ID == "" {
			r.events[i].ID = uuid.New().String()
		}
		r.events[i].SearchID = searchID
	}
}

// persist writes all fetched records, strictly after the join
func (o *Orchestrator) persist(r fetchResults) error {
	if err := o.repo.SaveFlights(r.flights); err != nil {
		return fmt.Errorf("failed to save flights: %w", err)
	}
	if err := o.repo.SaveHotels(r.hotels); err != nil {
		return fmt.Errorf("failed to save hotels: %w", err)
	}
	if err := o.repo.SaveWeatherDays(r.weather); err != nil {
		return fmt.Errorf("failed to save weather: %w", err)
	}
	if err := o.repo.SaveEvents(r.events); err != nil {
		return fmt.Errorf("failed to save events: %w", err)
	}
	return nil
}

// fail drives the search to its failed terminal state
func (o *Orchestrator) fail(searchID string, cause error) error {
	o.log.Error().Err(cause).Str("search_id", searchID).Msg("Search failed")

	if err := o.repo.UpdateSearchStatus(searchID, domain.SearchFailed, cause.Error()); err != nil {
		o.log.Error().Err(err).Str("search_id", searchID).Msg("Failed to record failure status")
	}
	o.bus.Emit(events.SearchFailed, searchID, map[string]interface{}{
		"error": cause.Error(),
	})
	return cause
}
