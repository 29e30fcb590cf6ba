package deals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripscout/tripscout/internal/domain"
	"github.com/tripscout/tripscout/pkg/logger"
)

func testAnalyzer() *Analyzer {
	return New(logger.New(logger.Config{Level: "error"}))
}

func flightsWithPrices(prices ...float64) []domain.Flight {
	flights := make([]domain.Flight, len(prices))
	for i, p := range prices {
		flights[i] = domain.Flight{Airline: "Delta", Price: p, Currency: domain.CurrencyUSD}
	}
	return flights
}

func hotelWith(name string, pricePerNight, rating float64) domain.Hotel {
	return domain.Hotel{Name: name, PricePerNight: pricePerNight, Rating: &rating}
}

func TestFindBestDeals_FlightThresholdBoundary(t *testing.T) {
	a := testAnalyzer()

	// mean 1000; 850 sits exactly 15% below, 860 only 14%
	flagged := a.FindBestDeals(flightsWithPrices(850, 900, 1100, 1150), nil)
	require.Len(t, flagged, 1)
	assert.Equal(t, domain.DealFlight, flagged[0].Type)
	assert.InDelta(t, 850, flagged[0].Flight.Price, 1e-9)
	assert.InDelta(t, 15.0, flagged[0].SavingsPercent, 1e-9)

	notFlagged := a.FindBestDeals(flightsWithPrices(860, 900, 1100, 1140), nil)
	assert.Empty(t, notFlagged)
}

func TestFindBestDeals_SyntheticBatchFlagsCheapFlight(t *testing.T) {
	a := testAnalyzer()

	deals := a.FindBestDeals(flightsWithPrices(300, 350, 375, 410, 286, 450), nil)

	require.Len(t, deals, 1)
	assert.InDelta(t, 286, deals[0].Flight.Price, 1e-9)
	assert.Greater(t, deals[0].SavingsPercent, 15.0)
	assert.NotEmpty(t, deals[0].Explanation)
}

func TestFindBestDeals_TopThreeBySavings(t *testing.T) {
	a := testAnalyzer()

	// mean 1000, four flights more than 15% below it
	deals := a.FindBestDeals(flightsWithPrices(100, 200, 300, 400, 2500, 2500), nil)

	require.Len(t, deals, maxDealsPerType)
	assert.InDelta(t, 100, deals[0].Flight.Price, 1e-9)
	assert.InDelta(t, 200, deals[1].Flight.Price, 1e-9)
	assert.InDelta(t, 300, deals[2].Flight.Price, 1e-9)
}

func TestFindBestDeals_HotelsBucketedByStars(t *testing.T) {
	a := testAnalyzer()

	hotels := []domain.Hotel{
		// 4-star bucket, mean 200; the 100 hotel is 50% below
		hotelWith("Bargain Four", 100, 4.0),
		hotelWith("Standard Four", 250, 4.2),
		hotelWith("Pricey Four", 250, 3.8),
		// 2-star bucket, mean 60; 55 is only 8% below, no deal
		hotelWith("Budget A", 55, 2.0),
		hotelWith("Budget B", 65, 2.1),
	}

	deals := a.FindBestDeals(nil, hotels)

	require.Len(t, deals, 1)
	assert.Equal(t, domain.DealHotel, deals[0].Type)
	assert.Equal(t, "Bargain Four", deals[0].Hotel.Name)
	assert.Contains(t, deals[0].Explanation, "4-star")
}

func TestFindBestDeals_EmptyInputs(t *testing.T) {
	a := testAnalyzer()
	assert.Empty(t, a.FindBestDeals(nil, nil))
}

func pricePoints(start time.Time, prices ...float64) []domain.PricePoint {
	points := make([]domain.PricePoint, len(prices))
	for i, p := range prices {
		points[i] = domain.PricePoint{Date: start.AddDate(0, 0, i), Price: p}
	}
	return points
}

func TestAnalyzePriceTrends_TooFewPoints(t *testing.T) {
	a := testAnalyzer()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	report := a.AnalyzePriceTrends(pricePoints(start, 100, 110))

	assert.Equal(t, TrendUnknown, report.Direction)
	assert.Zero(t, report.Confidence)
	assert.Equal(t, 2, report.DataPoints)
}

func TestAnalyzePriceTrends_MonotonicIncrease(t *testing.T) {
	a := testAnalyzer()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	report := a.AnalyzePriceTrends(pricePoints(start, 100, 110, 120, 130, 140, 150))

	assert.Equal(t, TrendIncreasing, report.Direction)
	assert.Equal(t, 0.8, report.Confidence)
	assert.NotEmpty(t, report.Smoothed)
}

func TestAnalyzePriceTrends_MonotonicDecrease(t *testing.T) {
	a := testAnalyzer()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	report := a.AnalyzePriceTrends(pricePoints(start, 150, 140, 130, 120, 110, 100))

	assert.Equal(t, TrendDecreasing, report.Direction)
	assert.Equal(t, 0.8, report.Confidence)
}

func TestAnalyzePriceTrends_FlatStepDilutesConfidence(t *testing.T) {
	a := testAnalyzer()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// diffs [0, +10]: the flat step breaks full consistency and counts
	// in the denominator, so the rising majority is 1 of 2
	report := a.AnalyzePriceTrends(pricePoints(start, 100, 100, 110))

	assert.Equal(t, TrendIncreasing, report.Direction)
	assert.Equal(t, 0.5, report.Confidence)
}

func TestAnalyzePriceTrends_AllFlatHasZeroMajority(t *testing.T) {
	a := testAnalyzer()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	report := a.AnalyzePriceTrends(pricePoints(start, 100, 100, 100, 100))

	assert.Equal(t, TrendStable, report.Direction)
	assert.Equal(t, 0.0, report.Confidence)
}

func TestAnalyzePriceTrends_StableWithinBand(t *testing.T) {
	a := testAnalyzer()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	report := a.AnalyzePriceTrends(pricePoints(start, 100, 102, 98, 101, 99, 100))

	assert.Equal(t, TrendStable, report.Direction)
	assert.Less(t, report.Confidence, 0.8)
}

func TestAnalyzePriceTrends_UnsortedInputIsSortedByDate(t *testing.T) {
	a := testAnalyzer()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// newest first; sorted by date the series rises
	points := []domain.PricePoint{
		{Date: base.AddDate(0, 0, 5), Price: 150},
		{Date: base, Price: 100},
		{Date: base.AddDate(0, 0, 3), Price: 130},
		{Date: base.AddDate(0, 0, 1), Price: 110},
		{Date: base.AddDate(0, 0, 4), Price: 140},
		{Date: base.AddDate(0, 0, 2), Price: 120},
	}

	report := a.AnalyzePriceTrends(points)

	assert.Equal(t, TrendIncreasing, report.Direction)
	assert.Equal(t, 0.8, report.Confidence)
}

func TestPredictOptimalBookingTime_Buckets(t *testing.T) {
	a := testAnalyzer()
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		daysOut    int
		wantFlight string
		wantHotel  string
	}{
		{"far out", 120, "price alert", "promotions"},
		{"sweet spot", 45, "optimal booking window", "lock in"},
		{"rising", 20, "climbing", "tightening"},
		{"last minute", 5, "Last-minute", "last-minute deals"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			advice := a.PredictOptimalBookingTime("Rome", now.AddDate(0, 0, tt.daysOut), now)

			assert.Equal(t, tt.daysOut, advice.DaysUntilDeparture)
			assert.Contains(t, advice.FlightAdvice, tt.wantFlight)
			assert.Contains(t, advice.HotelAdvice, tt.wantHotel)
		})
	}
}

func TestPredictOptimalBookingTime_SeasonalNotes(t *testing.T) {
	a := testAnalyzer()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	summer := a.PredictOptimalBookingTime("Long Beach Island", now.AddDate(0, 0, 40), now)
	require.Len(t, summer.Notes, 1)
	assert.Contains(t, summer.Notes[0], "Beach destinations")

	winterNow := time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC)
	ski := a.PredictOptimalBookingTime("Aspen Ski Resort", winterNow.AddDate(0, 0, 30), winterNow)
	require.Len(t, ski.Notes, 1)
	assert.Contains(t, ski.Notes[0], "Ski destinations")

	none := a.PredictOptimalBookingTime("Rome", now.AddDate(0, 0, 40), now)
	assert.Empty(t, none.Notes)
}
