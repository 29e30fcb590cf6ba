package packing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripscout/tripscout/internal/domain"
	"github.com/tripscout/tripscout/pkg/logger"
)

func TestRuleBased_ColdWeatherIncludesWinterLayer(t *testing.T) {
	list := RuleBased(domain.WeatherInsights{MinTemp: 40, MaxTemp: 55}, nil)

	assert.Contains(t, list.Clothing, "Winter coat")
	assert.Contains(t, list.Accessories, "Gloves")
	assert.Contains(t, list.Accessories, "Scarf")
}

func TestRuleBased_MildWeatherGetsLightJacket(t *testing.T) {
	list := RuleBased(domain.WeatherInsights{MinTemp: 55, MaxTemp: 70}, nil)

	assert.Contains(t, list.Clothing, "Light jacket")
	assert.NotContains(t, list.Clothing, "Winter coat")
}

func TestRuleBased_HotWeatherAdditions(t *testing.T) {
	list := RuleBased(domain.WeatherInsights{MinTemp: 70, MaxTemp: 90}, nil)

	assert.Contains(t, list.Clothing, "Shorts")
	assert.Contains(t, list.Accessories, "Sunglasses")
	assert.Contains(t, list.Toiletries, "Sunscreen")
}

func TestRuleBased_RainGear(t *testing.T) {
	tests := []struct {
		name            string
		precipDays      int
		wantUmbrella    bool
		wantWaterproofs bool
	}{
		{"dry trip", 0, false, false},
		{"some rain", 2, true, false},
		{"mostly wet", 5, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := RuleBased(domain.WeatherInsights{MinTemp: 60, MaxTemp: 70, PrecipitationDays: tt.precipDays}, nil)

			if tt.wantUmbrella {
				assert.Contains(t, list.Accessories, "Umbrella")
			} else {
				assert.NotContains(t, list.Accessories, "Umbrella")
			}
			if tt.wantWaterproofs {
				assert.Contains(t, list.Clothing, "Waterproof shoes")
			} else {
				assert.NotContains(t, list.Clothing, "Waterproof shoes")
			}
		})
	}
}

func TestRuleBased_ActivityItems(t *testing.T) {
	list := RuleBased(domain.WeatherInsights{MinTemp: 70, MaxTemp: 80},
		[]string{"Beach day", "some hiking", "a business meeting"})

	assert.Contains(t, list.Clothing, "Swimsuit")
	assert.Contains(t, list.Accessories, "Hiking boots")
	assert.Contains(t, list.Clothing, "Business attire")
}

func TestParseCategorized(t *testing.T) {
	text := `Here is your packing list.

1. Clothing:
- T-shirts
- Jeans
• Light jacket

Accessories:
- Sunglasses

Misc:
- Snacks

random line without a bullet
`
	list := ParseCategorized(text)

	assert.Equal(t, []string{"T-shirts", "Jeans", "Light jacket"}, list.Clothing)
	assert.Equal(t, []string{"Sunglasses"}, list.Accessories)
	assert.Equal(t, []string{"Snacks"}, list.Miscellaneous)
	assert.Empty(t, list.Documents)
}

func TestParseCategorized_MalformedOutputIsEmpty(t *testing.T) {
	list := ParseCategorized("I could not produce a packing list today, sorry.")
	assert.True(t, list.Empty())
}

type fakeGenerator struct {
	out string
	err error
}

func (f fakeGenerator) Generate(_ context.Context, _ string) (string, error) {
	return f.out, f.err
}

func TestGenerate_NoBackendUsesRules(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	g := New(nil, log)

	list := g.Generate(context.Background(), "Oslo",
		time.Now(), time.Now().AddDate(0, 0, 4),
		[]domain.WeatherDay{{TemperatureHigh: 45, TemperatureLow: 40, Condition: "Cloudy"}}, nil)

	// min temp 40 puts the trip in the winter band
	assert.Contains(t, list.Clothing, "Winter coat")
}

func TestGenerate_BackendFailureFallsBack(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	g := New(fakeGenerator{err: fmt.Errorf("backend down")}, log)

	list := g.Generate(context.Background(), "Lisbon",
		time.Now(), time.Now().AddDate(0, 0, 3),
		[]domain.WeatherDay{{TemperatureHigh: 80, TemperatureLow: 70, Condition: "Sunny"}}, nil)

	require.False(t, list.Empty())
	assert.Contains(t, list.Clothing, "T-shirts")
}

func TestGenerate_BackendOutputReplacesRules(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	g := New(fakeGenerator{out: "Clothing:\n- Linen shirts\nDocuments:\n- Passport"}, log)

	list := g.Generate(context.Background(), "Lisbon",
		time.Now(), time.Now().AddDate(0, 0, 3),
		[]domain.WeatherDay{{TemperatureHigh: 80, TemperatureLow: 70, Condition: "Sunny"}}, nil)

	assert.Equal(t, []string{"Linen shirts"}, list.Clothing)
	assert.Equal(t, []string{"Passport"}, list.Documents)
}

func TestGenerate_UnparseableBackendOutputFallsBack(t *testing.T) {
	log := logger.New(logger.Config{Level: "error"})
	g := New(fakeGenerator{out: "no sections here"}, log)

	list := g.Generate(context.Background(), "Lisbon",
		time.Now(), time.Now().AddDate(0, 0, 3),
		[]domain.WeatherDay{{TemperatureHigh: 80, TemperatureLow: 70, Condition: "Sunny"}}, nil)

	assert.Contains(t, list.Clothing, "T-shirts")
}
