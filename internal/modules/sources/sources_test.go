package sources

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripscout/tripscout/internal/clients/brightdata"
	"github.com/tripscout/tripscout/pkg/logger"
)

func testParams() Params {
	start, _ := time.Parse("2006-01-02", "2026-09-01")
	end, _ := time.Parse("2006-01-02", "2026-09-05")
	return Params{
		Origin:      "JFK",
		Destination: "Barcelona",
		StartDate:   start,
		EndDate:     end,
		Adults:      2,
	}
}

func testClient(t *testing.T) *brightdata.Client {
	t.Helper()
	// no API key keeps the client in sample mode
	return brightdata.New("", "", logger.New(logger.Config{Level: "error"}))
}

func TestFetchFlights_UnknownSiteReturnsEmpty(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	src := NewFlights(testClient(t), log)

	p := testParams()
	p.Site = "kayak"

	flights, err := src.FetchFlights(context.Background(), p)
	require.NoError(t, err)
	assert.Empty(t, flights)
}

func TestFetchHotels_UnknownSiteReturnsEmpty(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	src := NewHotels(testClient(t), log)

	p := testParams()
	p.Site = "hostelworld"

	hotels, err := src.FetchHotels(context.Background(), p)
	require.NoError(t, err)
	assert.Empty(t, hotels)
}

func TestFetchWeather_UnknownSiteReturnsEmpty(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	src := NewWeather(testClient(t), log)

	p := testParams()
	p.Site = "wunderground"

	days, err := src.FetchWeather(context.Background(), p)
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestFetchEvents_UnknownSiteReturnsEmpty(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	src := NewEvents(testClient(t), log)

	p := testParams()
	p.Site = "ticketmaster"

	evts, err := src.FetchEvents(context.Background(), p)
	require.NoError(t, err)
	assert.Empty(t, evts)
}

func TestFetchFlights_SiteSelectorTagsRecords(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	src := NewFlights(testClient(t), log)

	p := testParams()
	p.Site = "expedia"

	flights, err := src.FetchFlights(context.Background(), p)
	require.NoError(t, err)
	require.NotEmpty(t, flights)
	for _, f := range flights {
		assert.Equal(t, "expedia", f.SourceWebsite)
	}
}

func TestFetchHotels_DefaultSiteAndPriceCeiling(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	src := NewHotels(testClient(t), log)

	maxPrice := 130.0
	p := testParams()
	p.MaxPrice = &maxPrice

	hotels, err := src.FetchHotels(context.Background(), p)
	require.NoError(t, err)
	require.NotEmpty(t, hotels)
	for _, h := range hotels {
		assert.Equal(t, "booking", h.SourceWebsite)
		assert.LessOrEqual(t, h.PricePerNight, maxPrice)
	}
}
