package domain

import "time"

// Currency represents a currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// SearchStatus represents the lifecycle state of a search
type SearchStatus string

const (
	SearchProcessing SearchStatus = "processing"
	SearchCompleted  SearchStatus = "completed"
	SearchFailed     SearchStatus = "failed"
)

// SearchRequest holds the parameters of a travel search.
// Immutable once submitted.
type SearchRequest struct {
	ID            string            `json:"id"`
	Origin        string            `json:"origin"`
	Destination   string            `json:"destination"`
	DepartureDate time.Time         `json:"departure_date"`
	ReturnDate    time.Time         `json:"return_date"`
	Adults        int               `json:"adults"`
	Children      int               `json:"children"`
	Preferences   map[string]string `json:"preferences,omitempty"`
	Status        SearchStatus      `json:"status"`
	ErrorMessage  string            `json:"error_message,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// Guests returns the total traveler count
func (s SearchRequest) Guests() int {
	return s.Adults + s.Children
}

// Preference returns a preference value or the given default
func (s SearchRequest) Preference(key, def string) string {
	if v, ok := s.Preferences[key]; ok && v != "" {
		return v
	}
	return def
}

// Flight is a normalized flight record from a retrieval source
type Flight struct {
	ID              string                 `json:"id"`
	SearchID        string                 `json:"search_id"`
	Airline         string                 `json:"airline"`
	FlightNumber    string                 `json:"flight_number"`
	Origin          string                 `json:"origin"`
	Destination     string                 `json:"destination"`
	DepartureTime   time.Time              `json:"departure_time"`
	ArrivalTime     time.Time              `json:"arrival_time"`
	DurationMinutes int                    `json:"duration_minutes"`
	Layovers        int                    `json:"layovers"`
	Price           float64                `json:"price"`
	Currency        Currency               `json:"currency"`
	SourceWebsite   string                 `json:"source_website"`
	SourceURL       string                 `json:"source_url,omitempty"`
	Details         map[string]interface{} `json:"details,omitempty"`
}

// Nights computes hotel nights implied by the flight window.
// Same-day windows still count as one night.
func (f Flight) Nights() int {
	nights := int(f.ArrivalTime.Sub(f.DepartureTime).Hours() / 24)
	if nights < 1 {
		return 1
	}
	return nights
}

// Hotel is a normalized hotel record from a retrieval source
type Hotel struct {
	ID            string                 `json:"id"`
	SearchID      string                 `json:"search_id"`
	Name          string                 `json:"name"`
	Location      string                 `json:"location"`
	Latitude      float64                `json:"latitude,omitempty"`
	Longitude     float64                `json:"longitude,omitempty"`
	PricePerNight float64                `json:"price_per_night"`
	TotalPrice    float64                `json:"total_price,omitempty"`
	Currency      Currency               `json:"currency"`
	Rating        *float64               `json:"rating,omitempty"`
	Amenities     []string               `json:"amenities,omitempty"`
	Description   string                 `json:"description,omitempty"`
	ImageURL      string                 `json:"image_url,omitempty"`
	SourceWebsite string                 `json:"source_website"`
	SourceURL     string                 `json:"source_url,omitempty"`
	Details       map[string]interface{} `json:"details,omitempty"`
}

// DefaultHotelRating is assumed when a source omits the rating
const DefaultHotelRating = 3.0

// RatingOrDefault returns the reported rating, or the default when missing
func (h Hotel) RatingOrDefault() float64 {
	if h.Rating == nil {
		return DefaultHotelRating
	}
	return *h.Rating
}

// WeatherDay is one day of a weather forecast time series
type WeatherDay struct {
	ID                  string                 `json:"id"`
	SearchID            string                 `json:"search_id"`
	Location            string                 `json:"location"`
	Date                time.Time              `json:"date"`
	TemperatureHigh     float64                `json:"temperature_high"`
	TemperatureLow      float64                `json:"temperature_low"`
	Condition           string                 `json:"condition"`
	PrecipitationChance float64                `json:"precipitation_chance"`
	Humidity            float64                `json:"humidity,omitempty"`
	WindSpeed           float64                `json:"wind_speed,omitempty"`
	SourceWebsite       string                 `json:"source_website"`
	Details             map[string]interface{} `json:"details,omitempty"`
}

// Event is a normalized local event record
type Event struct {
	ID            string                 `json:"id"`
	SearchID      string                 `json:"search_id"`
	Name          string                 `json:"name"`
	Date          time.Time              `json:"date"`
	Location      string                 `json:"location"`
	Description   string                 `json:"description,omitempty"`
	Category      string                 `json:"category,omitempty"`
	Price         float64                `json:"price"`
	Currency      Currency               `json:"currency"`
	BookingURL    string                 `json:"booking_url,omitempty"`
	ImageURL      string                 `json:"image_url,omitempty"`
	SourceWebsite string                 `json:"source_website"`
	Details       map[string]interface{} `json:"details,omitempty"`
}

// WeatherInsights summarizes a weather time series for scoring and packing
type WeatherInsights struct {
	MinTemp              float64 `json:"min_temp"`
	MaxTemp              float64 `json:"max_temp"`
	AvgTemp              float64 `json:"avg_temp"`
	PrecipitationDays    int     `json:"precipitation_days"`
	PredominantCondition string  `json:"predominant_condition"`
}

// PackingList holds categorized packing suggestions
type PackingList struct {
	Clothing      []string `json:"clothing"`
	Accessories   []string `json:"accessories"`
	Toiletries    []string `json:"toiletries"`
	Documents     []string `json:"documents"`
	Electronics   []string `json:"electronics"`
	Miscellaneous []string `json:"miscellaneous"`
}

// Empty reports whether the list holds no items in any category
func (p PackingList) Empty() bool {
	return len(p.Clothing) == 0 && len(p.Accessories) == 0 &&
		len(p.Toiletries) == 0 && len(p.Documents) == 0 &&
		len(p.Electronics) == 0 && len(p.Miscellaneous) == 0
}

// ScoreBreakdown holds the per-criterion scores of a recommendation.
// All values are in [0, 1].
type ScoreBreakdown struct {
	PriceScore       float64 `json:"price_score"`
	WeatherScore     float64 `json:"weather_score"`
	ConvenienceScore float64 `json:"convenience_score"`
	TotalScore       float64 `json:"total_score"`
}

// Recommendation is a scored flight+hotel pairing
type Recommendation struct {
	ID                 string         `json:"id"`
	SearchID           string         `json:"search_id"`
	Flight             Flight         `json:"flight"`
	Hotel              Hotel          `json:"hotel"`
	Scores             ScoreBreakdown `json:"scores"`
	TotalPrice         float64        `json:"total_price"`
	Currency           Currency       `json:"currency"`
	Nights             int            `json:"nights"`
	PackingSuggestions PackingList    `json:"packing_suggestions"`
	Summary            string         `json:"summary"`
	CreatedAt          time.Time      `json:"created_at"`
}

// DealType distinguishes flight and hotel deals
type DealType string

const (
	DealFlight DealType = "flight"
	DealHotel  DealType = "hotel"
)

// Deal flags an item priced well below its peer group
type Deal struct {
	Type           DealType `json:"type"`
	Flight         *Flight  `json:"flight,omitempty"`
	Hotel          *Hotel   `json:"hotel,omitempty"`
	SavingsPercent float64  `json:"savings_percent"`
	SavingsAmount  float64  `json:"savings_amount"`
	AvgPrice       float64  `json:"avg_price"`
	Explanation    string   `json:"explanation"`
}

// PricePoint is one observation in a historical price series
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}
