package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tripscout/tripscout/internal/domain"
)

func day(high, low, precip float64, condition string) domain.WeatherDay {
	return domain.WeatherDay{
		Date:                time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		TemperatureHigh:     high,
		TemperatureLow:      low,
		PrecipitationChance: precip,
		Condition:           condition,
	}
}

func TestExtractInsights_EmptyInputDefaults(t *testing.T) {
	insights := ExtractInsights(nil)

	assert.Equal(t, 60.0, insights.MinTemp)
	assert.Equal(t, 75.0, insights.MaxTemp)
	assert.Equal(t, 68.0, insights.AvgTemp)
	assert.Equal(t, 0, insights.PrecipitationDays)
	assert.Equal(t, "Unknown", insights.PredominantCondition)
}

func TestExtractInsights_PoolsHighsAndLows(t *testing.T) {
	insights := ExtractInsights([]domain.WeatherDay{
		day(80, 60, 0, "Sunny"),
		day(70, 50, 0, "Sunny"),
	})

	assert.Equal(t, 50.0, insights.MinTemp)
	assert.Equal(t, 80.0, insights.MaxTemp)
	assert.InDelta(t, 65.0, insights.AvgTemp, 1e-9)
}

func TestExtractInsights_PrecipitationThresholdIsStrict(t *testing.T) {
	insights := ExtractInsights([]domain.WeatherDay{
		day(75, 60, 30, "Cloudy"),     // exactly 30 does not count
		day(75, 60, 30.1, "Cloudy"),   // just above does
		day(75, 60, 80, "Light Rain"), // clearly wet
	})

	assert.Equal(t, 2, insights.PrecipitationDays)
}

func TestExtractInsights_PredominantConditionTieBreak(t *testing.T) {
	// Two conditions with equal counts: first encountered wins
	insights := ExtractInsights([]domain.WeatherDay{
		day(75, 60, 0, "Cloudy"),
		day(75, 60, 0, "Sunny"),
		day(75, 60, 0, "Sunny"),
		day(75, 60, 0, "Cloudy"),
	})

	assert.Equal(t, "Cloudy", insights.PredominantCondition)
}

func TestExtractInsights_ModeCondition(t *testing.T) {
	insights := ExtractInsights([]domain.WeatherDay{
		day(75, 60, 0, "Sunny"),
		day(75, 60, 0, "Cloudy"),
		day(75, 60, 0, "Cloudy"),
	})

	assert.Equal(t, "Cloudy", insights.PredominantCondition)
}
