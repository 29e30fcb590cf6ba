// Package weather reduces a forecast time series into the summary
// statistics used by scoring and packing logic.
package weather

import (
	"github.com/tripscout/tripscout/internal/domain"
	"github.com/tripscout/tripscout/pkg/formulas"
)

// Days with a precipitation chance above this count as wet days
const precipitationThreshold = 30

// Defaults returned when no forecast data is available
var defaultInsights = domain.WeatherInsights{
	MinTemp:              60,
	MaxTemp:              75,
	AvgTemp:              68,
	PrecipitationDays:    0,
	PredominantCondition: "Unknown",
}

// ExtractInsights summarizes a weather time series. The input order does
// not matter; the predominant condition breaks ties by first encounter.
func ExtractInsights(days []domain.WeatherDay) domain.WeatherInsights {
	if len(days) == 0 {
		return defaultInsights
	}

	// Highs and lows share one pool so min/max/avg span the full range
	temps := make([]float64, 0, len(days)*2)
	precipitationDays := 0
	counts := make(map[string]int, len(days))
	order := make([]string, 0, len(days))

	for _, day := range days {
		temps = append(temps, day.TemperatureHigh, day.TemperatureLow)

		if day.PrecipitationChance > precipitationThreshold {
			precipitationDays++
		}

		if _, seen := counts[day.Condition]; !seen {
			order = append(order, day.Condition)
		}
		counts[day.Condition]++
	}

	minTemp, maxTemp := temps[0], temps[0]
	for _, t := range temps[1:] {
		if t < minTemp {
			minTemp = t
		}
		if t > maxTemp {
			maxTemp = t
		}
	}

	predominant := order[0]
	for _, cond := range order[1:] {
		if counts[cond] > counts[predominant] {
			predominant = cond
		}
	}

	return domain.WeatherInsights{
		MinTemp:              minTemp,
		MaxTemp:              maxTemp,
		AvgTemp:              formulas.Mean(temps),
		PrecipitationDays:    precipitationDays,
		PredominantCondition: predominant,
	}
}
