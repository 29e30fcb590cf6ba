package deals

import (
	"strings"
	"time"
)

// BookingAdvice is a deterministic booking-time recommendation
type BookingAdvice struct {
	DaysUntilDeparture int      `json:"days_until_departure"`
	FlightAdvice       string   `json:"flight_advice"`
	HotelAdvice        string   `json:"hotel_advice"`
	Notes              []string `json:"notes,omitempty"`
}

// Flight booking windows, in days before departure
const (
	flightEarlyWindow = 90
	flightSweetSpot   = 31
	flightRisingZone  = 15
)

// Hotel booking windows, in days before check-in
const (
	hotelEarlyWindow = 60
	hotelSweetSpot   = 31
	hotelRisingZone  = 8
)

// PredictOptimalBookingTime produces booking advice from a lookup table
// keyed on days until departure, with destination-season adjustments.
// Pure heuristic, no learned model.
func (a *Analyzer) PredictOptimalBookingTime(destination string, departureDate time.Time, now time.Time) BookingAdvice {
	days := int(departureDate.Sub(now).Hours() / 24)

	advice := BookingAdvice{
		DaysUntilDeparture: days,
		FlightAdvice:       flightBookingAdvice(days),
		HotelAdvice:        hotelBookingAdvice(days),
	}

	advice.Notes = seasonalNotes(destination, departureDate.Month())
	return advice
}

func flightBookingAdvice(days int) string {
	switch {
	case days > flightEarlyWindow:
		return "Flight prices are typically stable this far out. Set a price alert and monitor for drops."
	case days >= flightSweetSpot:
		return "You are in the optimal booking window for flights. Book now for the best fares."
	case days >= flightRisingZone:
		return "Flight prices usually start climbing in this window. Book soon to avoid increases."
	default:
		return "Last-minute territory. Flight prices are likely at their highest; book immediately if the trip is fixed."
	}
}

func hotelBookingAdvice(days int) string {
	switch {
	case days > hotelEarlyWindow:
		return "Hotel rates rarely move this early. Watch for promotions and free-cancellation rates."
	case days >= hotelSweetSpot:
		return "Good window to lock in hotel rates, especially refundable ones."
	case days >= hotelRisingZone:
		return "Hotel availability starts tightening now. Book soon for the best selection."
	default:
		return "Hotels may still offer last-minute deals on unsold rooms, but selection will be limited."
	}
}

// seasonalNotes appends destination-keyword warnings for peak seasons
func seasonalNotes(destination string, month time.Month) []string {
	lower := strings.ToLower(destination)
	var notes []string

	beachSeason := month >= time.March && month <= time.August
	if beachSeason && (strings.Contains(lower, "beach") || strings.Contains(lower, "island")) {
		notes = append(notes, "Beach destinations peak in spring and summer. Book accommodations well in advance.")
	}

	skiSeason := month == time.December || month == time.January || month == time.February
	if skiSeason && (strings.Contains(lower, "ski") || strings.Contains(lower, "mountain")) {
		notes = append(notes, "Ski destinations peak in winter. Lift passes and lodging sell out early.")
	}

	return notes
}
