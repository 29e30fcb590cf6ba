package recommendations

import (
	"time"

	"github.com/tripscout/tripscout/internal/domain"
	"github.com/tripscout/tripscout/pkg/formulas"
)

// Score weights. Fixed constants, treated as configuration.
const (
	priceWeight       = 0.4
	weatherWeight     = 0.4
	convenienceWeight = 0.2

	durationSubWeight = 0.4
	layoverSubWeight  = 0.3
	ratingSubWeight   = 0.3

	tempSubWeight      = 0.4
	precipSubWeight    = 0.4
	conditionSubWeight = 0.2
)

// Price scoring saturates outside this band, in whole currency units
const (
	priceBandLow  = 100.0
	priceBandHigh = 2000.0
)

// Flight duration cap for the duration sub-score, in minutes
const maxScoredDuration = 600.0

// Ideal temperature band, °F. Outside the band the score decays to a
// floor of 0.5 at 40 degrees of deviation.
const (
	idealTempLow     = 70.0
	idealTempHigh    = 85.0
	tempPenaltySpan  = 40.0
	tempScoreFloor   = 0.5
	noWeatherDefault = 0.5
)

// totalPrice is the flight fare plus the hotel rate over the stay
func totalPrice(flight domain.Flight, hotel domain.Hotel) float64 {
	return flight.Price + hotel.PricePerNight*float64(flight.Nights())
}

// priceScore maps total price into [0,1], higher for cheaper trips
func priceScore(total float64) float64 {
	return 1 - formulas.Clamp01((total-priceBandLow)/(priceBandHigh-priceBandLow))
}

// convenienceScore blends flight duration, layovers, and hotel rating
func convenienceScore(flight domain.Flight, hotel domain.Hotel) float64 {
	duration := float64(flight.DurationMinutes)
	if duration > maxScoredDuration {
		duration = maxScoredDuration
	}
	durationScore := 1 - duration/maxScoredDuration

	var layoverScore float64
	switch {
	case flight.Layovers == 0:
		layoverScore = 1.0
	case flight.Layovers == 1:
		layoverScore = 0.7
	default:
		layoverScore = 0.4
	}

	ratingScore := hotel.RatingOrDefault() / 5.0

	return durationSubWeight*durationScore +
		layoverSubWeight*layoverScore +
		ratingSubWeight*ratingScore
}

var goodConditions = map[string]bool{
	"Sunny":         true,
	"Clear":         true,
	"Partly Cloudy": true,
}

var neutralConditions = map[string]bool{
	"Cloudy": true,
}

// dayWeatherScore scores a single forecast day in [0,1]
func dayWeatherScore(day domain.WeatherDay) float64 {
	var tempScore float64
	high := day.TemperatureHigh
	if high >= idealTempLow && high <= idealTempHigh {
		tempScore = 1.0
	} else {
		var diff float64
		if high < idealTempLow {
			diff = idealTempLow - high
		} else {
			diff = high - idealTempHigh
		}
		tempScore = 1.0 - diff/tempPenaltySpan
		if tempScore < tempScoreFloor {
			tempScore = tempScoreFloor
		}
	}

	precipScore := 1.0 - day.PrecipitationChance/100.0

	var conditionScore float64
	switch {
	case goodConditions[day.Condition]:
		conditionScore = 1.0
	case neutralConditions[day.Condition]:
		conditionScore = 0.7
	default:
		conditionScore = 0.3
	}

	return tempSubWeight*tempScore + precipSubWeight*precipScore + conditionSubWeight*conditionScore
}

// dailyWeatherScores indexes per-day scores by calendar date
func dailyWeatherScores(days []domain.WeatherDay) map[string]float64 {
	scores := make(map[string]float64, len(days))
	for _, day := range days {
		scores[day.Date.Format("2006-01-02")] = dayWeatherScore(day)
	}
	return scores
}

// windowWeatherScore averages the daily scores over [start, end]
// inclusive. Windows with no forecast overlap score the neutral default.
func windowWeatherScore(scores map[string]float64, start, end time.Time) float64 {
	startDay := start.Format("2006-01-02")
	endDay := end.Format("2006-01-02")

	var sum float64
	var n int
	for date, score := range scores {
		if date >= startDay && date <= endDay {
			sum += score
			n++
		}
	}
	if n == 0 {
		return noWeatherDefault
	}
	return sum / float64(n)
}

// scoreCandidate produces the full breakdown for one flight+hotel pair
func scoreCandidate(flight domain.Flight, hotel domain.Hotel, weatherScores map[string]float64) domain.ScoreBreakdown {
	price := priceScore(totalPrice(flight, hotel))
	weather := windowWeatherScore(weatherScores, flight.DepartureTime, flight.ArrivalTime)
	convenience := convenienceScore(flight, hotel)

	return domain.ScoreBreakdown{
		PriceScore:       formulas.Round3(price),
		WeatherScore:     formulas.Round3(weather),
		ConvenienceScore: formulas.Round3(convenience),
		TotalScore:       formulas.Round3(priceWeight*price + weatherWeight*weather + convenienceWeight*convenience),
	}
}
