package search

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tripscout/tripscout/internal/database"
	"github.com/tripscout/tripscout/internal/domain"
)

// Repository is the persistence surface the orchestrator and handlers
// depend on. The sqlite implementation below is the only production one;
// tests substitute fakes.
type Repository interface {
	CreateSearch(search domain.SearchRequest) error
	GetSearch(id string) (domain.SearchRequest, error)
	ListSearches(limit int) ([]domain.SearchRequest, error)
	DeleteSearch(id string) error
	UpdateSearchStatus(id string, status domain.SearchStatus, errMsg string) error

	SaveFlights(flights []domain.Flight) error
	SaveHotels(hotels []domain.Hotel) error
	SaveWeatherDays(days []domain.WeatherDay) error
	SaveEvents(events []domain.Event) error
	SaveRecommendations(recs []domain.Recommendation) error

	GetFlights(searchID string) ([]domain.Flight, error)
	GetHotels(searchID string) ([]domain.Hotel, error)
	GetWeatherDays(searchID string) ([]domain.WeatherDay, error)
	GetEvents(searchID string) ([]domain.Event, error)
	GetRecommendations(searchID string) ([]domain.Recommendation, error)

	DeleteSearchesBefore(cutoff time.Time) (int64, error)
}

// SQLiteRepository persists search data in sqlite. Opaque maps and
// lists travel as msgpack BLOBs.
type SQLiteRepository struct {
	db *database.DB
}

// NewRepository creates a sqlite-backed repository
func NewRepository(db *database.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func packBlob(v interface{}) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return msgpack.Marshal(v)
}

func unpackBlob(data []byte, out interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return msgpack.Unmarshal(data, out)
}

// CreateSearch inserts a new search in processing state
func (r *SQLiteRepository) CreateSearch(search domain.SearchRequest) error {
	prefs, err := packBlob(search.Preferences)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO searches (id, origin, destination, departure_date, return_date,
			adults, children, preferences, status, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		search.ID, search.Origin, search.Destination,
		search.DepartureDate.Format(time.RFC3339), search.ReturnDate.Format(time.RFC3339),
		search.Adults, search.Children, prefs,
		string(search.Status), search.ErrorMessage, search.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert search: %w", err)
	}
	return nil
}

// GetSearch loads one search by id
func (r *SQLiteRepository) GetSearch(id string) (domain.SearchRequest, error) {
	row := r.db.QueryRow(`
		SELECT id, origin, destination, departure_date, return_date,
			adults, children, preferences, status, error_message, created_at
		FROM searches WHERE id = ?`, id)
	return scanSearch(row)
}

// ListSearches returns the most recent searches
func (r *SQLiteRepository) ListSearches(limit int) ([]domain.SearchRequest, error) {
	rows, err := r.db.Query(`
		SELECT id, origin, destination, departure_date, return_date,
			adults, children, preferences, status, error_message, created_at
		FROM searches ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list searches: %w", err)
	}
	defer rows.Close()

	var searches []domain.SearchRequest
	for rows.Next() {
		s, err := scanSearch(rows)
		if err != nil {
			return nil, err
		}
		searches = append(searches, s)
	}
	return searches, rows.Err()
}

// DeleteSearch removes a search; child rows cascade
func (r *SQLiteRepository) DeleteSearch(id string) error {
	res, err := r.db.Exec(`DELETE FROM searches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete search: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateSearchStatus transitions a search to a terminal state
func (r *SQLiteRepository) UpdateSearchStatus(id string, status domain.SearchStatus, errMsg string) error {
	_, err := r.db.Exec(`UPDATE searches SET status = ?, error_message = ? WHERE id = ?`,
		string(status), errMsg, id)
	if err != nil {
		return fmt.Errorf("failed to update search status: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSearch(row rowScanner) (domain.SearchRequest, error) {
	var s domain.SearchRequest
	var departure, ret, created string
	var prefs []byte
	var errMsg sql.NullString

	err := row.Scan(&s.ID, &s.Origin, &s.Destination, &departure, &ret,
		&s.Adults, &s.Children, &prefs, &s.Status, &errMsg, &created)
	if err != nil {
		return domain.SearchRequest{}, err
	}

	if s.DepartureDate, err = time.Parse(time.RFC3339, departure); err != nil {
		return domain.SearchRequest{}, fmt.Errorf("bad departure date: %w", err)
	}
	if s.ReturnDate, err = time.Parse(time.RFC3339, ret); err != nil {
		return domain.SearchRequest{}, fmt.Errorf("bad return date: %w", err)
	}
	if s.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return domain.SearchRequest{}, fmt.Errorf("bad created_at: %w", err)
	}
	if err := unpackBlob(prefs, &s.Preferences); err != nil {
		return domain.SearchRequest{}, fmt.Errorf("failed to decode preferences: %w", err)
	}
	s.ErrorMessage = errMsg.String
	return s, nil
}

// SaveFlights inserts flight records in one transaction
func (r *SQLiteRepository) SaveFlights(flights []domain.Flight) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, f := range flights {
		details, err := packBlob(f.Details)
		if err != nil {
			return fmt.Errorf("failed to encode flight details: %w", err)
		}
		_, err = tx.Exec(`
			INSERT INTO flights (id, search_id, airline, flight_number, origin, destination,
				departure_time, arrival_time, duration_minutes, layovers, price, currency,
				source_website, source_url, details)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.ID, f.SearchID, f.Airline, f.FlightNumber, f.Origin, f.Destination,
			f.DepartureTime.Format(time.RFC3339), f.ArrivalTime.Format(time.RFC3339),
			f.DurationMinutes, f.Layovers, f.Price, string(f.Currency),
			f.SourceWebsite, f.SourceURL, details,
		)
		if err != nil {
			return fmt.Errorf("failed to insert flight: %w", err)
		}
	}
	return tx.Commit()
}

// SaveHotels inserts hotel records in one transaction
func (r *SQLiteRepository) SaveHotels(hotels []domain.Hotel) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, h := range hotels {
		details, err := packBlob(h.Details)
		if err != nil {
			return fmt.Errorf("failed to encode hotel details: %w", err)
		}
		amenities, err := packBlob(h.Amenities)
		if err != nil {
			return fmt.Errorf("failed to encode amenities: %w", err)
		}
		_, err = tx.Exec(`
			INSERT INTO hotels (id, search_id, name, location, latitude, longitude,
				price_per_night, total_price, currency, rating, amenities, description,
				image_url, source_website, source_url, details)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			h.ID, h.SearchID, h.Name, h.Location, h.Latitude, h.Longitude,
			h.PricePerNight, h.TotalPrice, string(h.Currency), h.Rating, amenities,
			h.Description, h.ImageURL, h.SourceWebsite, h.SourceURL, details,
		)
		if err != nil {
			return fmt.Errorf("failed to insert hotel: %w", err)
		}
	}
	return tx.Commit()
}

// SaveWeatherDays inserts forecast records in one transaction
func (r *SQLiteRepository) SaveWeatherDays(days []domain.WeatherDay) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, d := range days {
		details, err := packBlob(d.Details)
		if err != nil {
			return fmt.Errorf("failed to encode weather details: %w", err)
		}
		_, err = tx.Exec(`
			INSERT INTO weather_days (id, search_id, location, date, temperature_high,
				temperature_low, condition, precipitation_chance, humidity, wind_speed,
				source_website, details)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			d.ID, d.SearchID, d.Location, d.Date.Format("2006-01-02"),
			d.TemperatureHigh, d.TemperatureLow, d.Condition, d.PrecipitationChance,
			d.Humidity, d.WindSpeed, d.SourceWebsite, details,
		)
		if err != nil {
			return fmt.Errorf("failed to insert weather day: %w", err)
		}
	}
	return tx.Commit()
}

// SaveEvents inserts event records in one transaction
func (r *SQLiteRepository) SaveEvents(events []domain.Event) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		details, err := packBlob(e.Details)
		if err != nil {
			return fmt.Errorf("failed to encode event details: %w", err)
		}
		_, err = tx.Exec(`
			INSERT INTO events (id, search_id, name, date, location, description,
				category, price, currency, booking_url, image_url, source_website, details)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.SearchID, e.Name, e.Date.Format(time.RFC3339), e.Location,
			e.Description, e.Category, e.Price, string(e.Currency),
			e.BookingURL, e.ImageURL, e.SourceWebsite, details,
		)
		if err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
	}
	return tx.Commit()
}

// SaveRecommendations inserts ranked recommendations in one transaction
func (r *SQLiteRepository) SaveRecommendations(recs []domain.Recommendation) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, rec := range recs {
		packing, err := packBlob(rec.PackingSuggestions)
		if err != nil {
			return fmt.Errorf("failed to encode packing suggestions: %w", err)
		}
		_, err = tx.Exec(`
			INSERT INTO recommendations (id, search_id, flight_id, hotel_id,
				price_score, weather_score, convenience_score, total_score,
				total_price, currency, nights, packing_suggestions, summary, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.SearchID, rec.Flight.ID, rec.Hotel.ID,
			rec.Scores.PriceScore, rec.Scores.WeatherScore, rec.Scores.ConvenienceScore,
			rec.Scores.TotalScore, rec.TotalPrice, string(rec.Currency), rec.Nights,
			packing, rec.Summary, rec.CreatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to insert recommendation: %w", err)
		}
	}
	return tx.Commit()
}

// GetFlights loads all flights for a search
func (r *SQLiteRepository) GetFlights(searchID string) ([]domain.Flight, error) {
	rows, err := r.db.Query(`
		SELECT id, search_id, airline, flight_number, origin, destination,
			departure_time, arrival_time, duration_minutes, layovers, price, currency,
			source_website, source_url, details
		FROM flights WHERE search_id = ?`, searchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query flights: %w", err)
	}
	defer rows.Close()

	var flights []domain.Flight
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func scanFlight(row rowScanner) (domain.Flight, error) {
	var f domain.Flight
	var departure, arrival string
	var details []byte

	err := row.Scan(&f.ID, &f.SearchID, &f.Airline, &f.FlightNumber, &f.Origin,
		&f.Destination, &departure, &arrival, &f.DurationMinutes, &f.Layovers,
		&f.Price, &f.Currency, &f.SourceWebsite, &f.SourceURL, &details)
	if err != nil {
		return domain.Flight{}, err
	}
	if f.DepartureTime, err = time.Parse(time.RFC3339, departure); err != nil {
		return domain.Flight{}, fmt.Errorf("bad departure time: %w", err)
	}
	if f.ArrivalTime, err = time.Parse(time.RFC3339, arrival); err != nil {
		return domain.Flight{}, fmt.Errorf("bad arrival time: %w", err)
	}
	if err := unpackBlob(details, &f.Details); err != nil {
		return domain.Flight{}, fmt.Errorf("failed to decode flight details: %w", err)
	}
	return f, nil
}

// GetHotels loads all hotels for a search
func (r *SQLiteRepository) GetHotels(searchID string) ([]domain.Hotel, error) {
	rows, err := r.db.Query(`
		SELECT id, search_id, name, location, latitude, longitude, price_per_night,
			total_price, currency, rating, amenities, description, image_url,
			source_website, source_url, details
		FROM hotels WHERE search_id = ?`, searchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query hotels: %w", err)
	}
	defer rows.Close()

	var hotels []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		hotels = append(hotels, h)
	}
	return hotels, rows.Err()
}

func scanHotel(row rowScanner) (domain.Hotel, error) {
	var h domain.Hotel
	var amenities, details []byte

	err := row.Scan(&h.ID, &h.SearchID, &h.Name, &h.Location, &h.Latitude,
		&h.Longitude, &h.PricePerNight, &h.TotalPrice, &h.Currency, &h.Rating,
		&amenities, &h.Description, &h.ImageURL, &h.SourceWebsite, &h.SourceURL, &details)
	if err != nil {
		return domain.Hotel{}, err
	}
	if err := unpackBlob(amenities, &h.Amenities); err != nil {
		return domain.Hotel{}, fmt.Errorf("failed to decode amenities: %w", err)
	}
	if err := unpackBlob(details, &h.Details); err != nil {
		return domain.Hotel{}, fmt.Errorf("failed to decode hotel details: %w", err)
	}
	return h, nil
}

// GetWeatherDays loads the forecast for a search
func (r *SQLiteRepository) GetWeatherDays(searchID string) ([]domain.WeatherDay, error) {
	rows, err := r.db.Query(`
		SELECT id, search_id, location, date, temperature_high, temperature_low,
			condition, precipitation_chance, humidity, wind_speed, source_website, details
		FROM weather_days WHERE search_id = ? ORDER BY date`, searchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query weather: %w", err)
	}
	defer rows.Close()

	var days []domain.WeatherDay
	for rows.Next() {
		var d domain.WeatherDay
		var date string
		var details []byte
		err := rows.Scan(&d.ID, &d.SearchID, &d.Location, &date, &d.TemperatureHigh,
			&d.TemperatureLow, &d.Condition, &d.PrecipitationChance, &d.Humidity,
			&d.WindSpeed, &d.SourceWebsite, &details)
		if err != nil {
			return nil, err
		}
		if d.Date, err = time.Parse("2006-01-02", date); err != nil {
			return nil, fmt.Errorf("bad weather date: %w", err)
		}
		if err := unpackBlob(details, &d.Details); err != nil {
			return nil, fmt.Errorf("failed to decode weather details: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// GetEvents loads all events for a search
func (r *SQLiteRepository) GetEvents(searchID string) ([]domain.Event, error) {
	rows, err := r.db.Query(`
		SELECT id, search_id, name, date, location, description, category,
			price, currency, booking_url, image_url, source_website, details
		FROM events WHERE search_id = ?`, searchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		var date string
		var details []byte
		err := rows.Scan(&e.ID, &e.SearchID, &e.Name, &date, &e.Location,
			&e.Description, &e.Category, &e.Price, &e.Currency,
			&e.BookingURL, &e.ImageURL, &e.SourceWebsite, &details)
		if err != nil {
			return nil, err
		}
		if e.Date, err = time.Parse(time.RFC3339, date); err != nil {
			return nil, fmt.Errorf("bad event date: %w", err)
		}
		if err := unpackBlob(details, &e.Details); err != nil {
			return nil, fmt.Errorf("failed to decode event details: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetRecommendations loads ranked recommendations with their flight and
// hotel records joined back in.
func (r *SQLiteRepository) GetRecommendations(searchID string) ([]domain.Recommendation, error) {
	rows, err := r.db.Query(`
		SELECT id, search_id, flight_id, hotel_id, price_score, weather_score,
			convenience_score, total_score, total_price, currency, nights,
			packing_suggestions, summary, created_at
		FROM recommendations WHERE search_id = ? ORDER BY total_score DESC`, searchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	type recRow struct {
		rec      domain.Recommendation
		flightID string
		hotelID  string
	}

	var recRows []recRow
	for rows.Next() {
		var rr recRow
		var packing []byte
		var created string
		err := rows.Scan(&rr.rec.ID, &rr.rec.SearchID, &rr.flightID, &rr.hotelID,
			&rr.rec.Scores.PriceScore, &rr.rec.Scores.WeatherScore,
			&rr.rec.Scores.ConvenienceScore, &rr.rec.Scores.TotalScore,
			&rr.rec.TotalPrice, &rr.rec.Currency, &rr.rec.Nights,
			&packing, &rr.rec.Summary, &created)
		if err != nil {
			return nil, err
		}
		if rr.rec.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("bad created_at: %w", err)
		}
		if err := unpackBlob(packing, &rr.rec.PackingSuggestions); err != nil {
			return nil, fmt.Errorf("failed to decode packing suggestions: %w", err)
		}
		recRows = append(recRows, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	flights, err := r.GetFlights(searchID)
	if err != nil {
		return nil, err
	}
	hotels, err := r.GetHotels(searchID)
	if err != nil {
		return nil, err
	}

	flightByID := make(map[string]domain.Flight, len(flights))
	for _, f := range flights {
		flightByID[f.ID] = f
	}
	hotelByID := make(map[string]domain.Hotel, len(hotels))
	for _, h := range hotels {
		hotelByID[h.ID] = h
	}

	recs := make([]domain.Recommendation, 0, len(recRows))
	for _, rr := range recRows {
		rr.rec.Flight = flightByID[rr.flightID]
		rr.rec.Hotel = hotelByID[rr.hotelID]
		recs = append(recs, rr.rec)
	}
	return recs, nil
}

// DeleteSearchesBefore purges searches created before the cutoff.
// Child rows cascade. Returns the number of searches removed.
func (r *SQLiteRepository) DeleteSearchesBefore(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM searches WHERE created_at < ?`,
		cutoff.Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to purge old searches: %w", err)
	}
	return res.RowsAffected()
}
