package recommendations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tripscout/tripscout/internal/domain"
)

func TestPriceScore_Bounds(t *testing.T) {
	assert.Equal(t, 1.0, priceScore(100))
	assert.Equal(t, 0.0, priceScore(2000))
	assert.Equal(t, 1.0, priceScore(50), "prices below the band saturate at 1")
	assert.Equal(t, 0.0, priceScore(5000), "prices above the band saturate at 0")
	assert.InDelta(t, 0.5, priceScore(1050), 1e-9)
}

func TestDayWeatherScore_IdealDayIsPerfect(t *testing.T) {
	day := domain.WeatherDay{TemperatureHigh: 77, PrecipitationChance: 0, Condition: "Sunny"}
	assert.Equal(t, 1.0, dayWeatherScore(day))
}

func TestDayWeatherScore_TemperatureDecay(t *testing.T) {
	// 20 degrees below the band loses half the penalty span
	day := domain.WeatherDay{TemperatureHigh: 50, PrecipitationChance: 0, Condition: "Sunny"}
	assert.InDelta(t, tempSubWeight*0.5+precipSubWeight+conditionSubWeight, dayWeatherScore(day), 1e-9)

	// far outside the band the temperature term bottoms out at the floor
	freezing := domain.WeatherDay{TemperatureHigh: 0, PrecipitationChance: 0, Condition: "Sunny"}
	assert.InDelta(t, tempSubWeight*tempScoreFloor+precipSubWeight+conditionSubWeight, dayWeatherScore(freezing), 1e-9)
}

func TestDayWeatherScore_Conditions(t *testing.T) {
	base := domain.WeatherDay{TemperatureHigh: 75, PrecipitationChance: 0}

	clear := base
	clear.Condition = "Clear"
	cloudy := base
	cloudy.Condition = "Cloudy"
	storm := base
	storm.Condition = "Thunderstorm"

	assert.Greater(t, dayWeatherScore(clear), dayWeatherScore(cloudy))
	assert.Greater(t, dayWeatherScore(cloudy), dayWeatherScore(storm))
}

func TestConvenienceScore_NonStopBeatsLayovers(t *testing.T) {
	hotel := domain.Hotel{}

	nonstop := domain.Flight{DurationMinutes: 180, Layovers: 0}
	oneStop := domain.Flight{DurationMinutes: 180, Layovers: 1}
	twoStop := domain.Flight{DurationMinutes: 180, Layovers: 2}

	assert.Greater(t, convenienceScore(nonstop, hotel), convenienceScore(oneStop, hotel))
	assert.Greater(t, convenienceScore(oneStop, hotel), convenienceScore(twoStop, hotel))
}

func TestConvenienceScore_DurationCapped(t *testing.T) {
	hotel := domain.Hotel{}
	long := domain.Flight{DurationMinutes: 600}
	longer := domain.Flight{DurationMinutes: 1200}

	assert.Equal(t, convenienceScore(long, hotel), convenienceScore(longer, hotel))
}

func TestWindowWeatherScore_NoOverlapUsesDefault(t *testing.T) {
	day := func(d string) time.Time {
		ts, _ := time.Parse("2006-01-02", d)
		return ts
	}
	scores := dailyWeatherScores([]domain.WeatherDay{
		{Date: day("2026-09-01"), TemperatureHigh: 77, Condition: "Sunny"},
	})

	got := windowWeatherScore(scores, day("2026-10-01"), day("2026-10-05"))
	assert.Equal(t, noWeatherDefault, got)
}

func TestScoreCandidate_AllScoresInUnitInterval(t *testing.T) {
	day := func(d string) time.Time {
		ts, _ := time.Parse("2006-01-02", d)
		return ts
	}
	weatherScores := dailyWeatherScores([]domain.WeatherDay{
		{Date: day("2026-09-01"), TemperatureHigh: 95, PrecipitationChance: 80, Condition: "Thunderstorm"},
		{Date: day("2026-09-02"), TemperatureHigh: 40, PrecipitationChance: 10, Condition: "Cloudy"},
	})

	flights := []domain.Flight{
		{Price: 50, DurationMinutes: 60, Layovers: 0, DepartureTime: day("2026-09-01"), ArrivalTime: day("2026-09-03")},
		{Price: 3000, DurationMinutes: 900, Layovers: 3, DepartureTime: day("2026-09-01"), ArrivalTime: day("2026-09-03")},
	}
	rating := 5.0
	hotels := []domain.Hotel{
		{PricePerNight: 20, Rating: &rating},
		{PricePerNight: 900},
	}

	for _, f := range flights {
		for _, h := range hotels {
			s := scoreCandidate(f, h, weatherScores)
			for name, v := range map[string]float64{
				"price":       s.PriceScore,
				"weather":     s.WeatherScore,
				"convenience": s.ConvenienceScore,
				"total":       s.TotalScore,
			} {
				assert.GreaterOrEqual(t, v, 0.0, name)
				assert.LessOrEqual(t, v, 1.0, name)
			}
		}
	}
}
