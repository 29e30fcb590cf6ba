package packing

import (
	"strings"

	"github.com/tripscout/tripscout/internal/domain"
)

// Temperature bands for the rule-based clothing layers, in °F
const (
	coldBand = 50
	mildBand = 65
	hotBand  = 75
)

// Waterproof shoes join the list beyond this many wet days
const heavyRainDays = 3

// RuleBased builds a packing list from weather insights and activities.
// Deterministic and always available.
func RuleBased(insights domain.WeatherInsights, activities []string) domain.PackingList {
	list := domain.PackingList{
		Clothing:      []string{"Underwear", "Socks", "Pajamas"},
		Accessories:   []string{},
		Toiletries:    []string{"Toothbrush", "Toothpaste", "Shampoo", "Conditioner", "Body wash", "Deodorant"},
		Documents:     []string{"Passport", "Travel insurance", "Boarding passes", "Hotel reservations"},
		Electronics:   []string{"Phone", "Charger", "Power bank"},
		Miscellaneous: []string{"Medications", "Hand sanitizer"},
	}

	switch {
	case insights.MinTemp < coldBand:
		list.Clothing = append(list.Clothing, "Winter coat", "Sweaters", "Long-sleeve shirts", "Warm socks", "Jeans/pants")
		list.Accessories = append(list.Accessories, "Gloves", "Scarf", "Winter hat")
	case insights.MinTemp < mildBand:
		list.Clothing = append(list.Clothing, "Light jacket", "Long-sleeve shirts", "Sweatshirts", "Jeans/pants")
		list.Accessories = append(list.Accessories, "Light scarf")
	default:
		list.Clothing = append(list.Clothing, "T-shirts", "Light shirts")
	}

	if insights.MaxTemp > hotBand {
		list.Clothing = append(list.Clothing, "Shorts", "T-shirts", "Light clothing")
		list.Accessories = append(list.Accessories, "Sunglasses", "Hat")
		list.Toiletries = append(list.Toiletries, "Sunscreen")
	}

	if insights.PrecipitationDays > 0 {
		list.Accessories = append(list.Accessories, "Umbrella", "Rain jacket")
		if insights.PrecipitationDays > heavyRainDays {
			list.Clothing = append(list.Clothing, "Waterproof shoes")
		}
	}

	applyActivities(&list, activities)
	return list
}

func applyActivities(list *domain.PackingList, activities []string) {
	if len(activities) == 0 {
		return
	}
	joined := strings.ToLower(strings.Join(activities, " "))

	if strings.Contains(joined, "beach") || strings.Contains(joined, "swimming") {
		list.Clothing = append(list.Clothing, "Swimsuit", "Beach cover-up")
		list.Accessories = append(list.Accessories, "Beach towel", "Flip flops")
	}
	if strings.Contains(joined, "hiking") || strings.Contains(joined, "trekking") {
		list.Clothing = append(list.Clothing, "Hiking pants", "Moisture-wicking shirts")
		list.Accessories = append(list.Accessories, "Hiking boots", "Backpack", "Water bottle")
	}
	if strings.Contains(joined, "business") || strings.Contains(joined, "meeting") {
		list.Clothing = append(list.Clothing, "Business attire", "Formal shoes")
		list.Accessories = append(list.Accessories, "Portfolio/briefcase")
	}
}
