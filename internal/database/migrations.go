package database

import "fmt"

// schema holds the full DDL. Tables are created idempotently; the opaque
// details maps are stored as msgpack BLOBs.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS searches (
		id TEXT PRIMARY KEY,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		departure_date TEXT NOT NULL,
		return_date TEXT NOT NULL,
		adults INTEGER NOT NULL DEFAULT 1,
		children INTEGER NOT NULL DEFAULT 0,
		preferences BLOB,
		status TEXT NOT NULL DEFAULT 'processing',
		error_message TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS flights (
		id TEXT PRIMARY KEY,
		search_id TEXT NOT NULL REFERENCES searches(id) ON DELETE CASCADE,
		airline TEXT NOT NULL,
		flight_number TEXT,
		origin TEXT,
		destination TEXT,
		departure_time TIMESTAMP,
		arrival_time TIMESTAMP,
		duration_minutes INTEGER,
		layovers INTEGER NOT NULL DEFAULT 0,
		price REAL NOT NULL,
		currency TEXT NOT NULL DEFAULT 'USD',
		source_website TEXT,
		source_url TEXT,
		details BLOB
	)`,
	`CREATE TABLE IF NOT EXISTS hotels (
		id TEXT PRIMARY KEY,
		search_id TEXT NOT NULL REFERENCES searches(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		location TEXT,
		latitude REAL,
		longitude REAL,
		price_per_night REAL NOT NULL,
		total_price REAL,
		currency TEXT NOT NULL DEFAULT 'USD',
		rating REAL,
		amenities BLOB,
		description TEXT,
		image_url TEXT,
		source_website TEXT,
		source_url TEXT,
		details BLOB
	)`,
	`CREATE TABLE IF NOT EXISTS weather_days (
		id TEXT PRIMARY KEY,
		search_id TEXT NOT NULL REFERENCES searches(id) ON DELETE CASCADE,
		location TEXT,
		date TEXT NOT NULL,
		temperature_high REAL,
		temperature_low REAL,
		condition TEXT,
		precipitation_chance REAL,
		humidity REAL,
		wind_speed REAL,
		source_website TEXT,
		details BLOB
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		search_id TEXT NOT NULL REFERENCES searches(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		date TEXT,
		location TEXT,
		description TEXT,
		category TEXT,
		price REAL,
		currency TEXT NOT NULL DEFAULT 'USD',
		booking_url TEXT,
		image_url TEXT,
		source_website TEXT,
		details BLOB
	)`,
	`CREATE TABLE IF NOT EXISTS recommendations (
		id TEXT PRIMARY KEY,
		search_id TEXT NOT NULL REFERENCES searches(id) ON DELETE CASCADE,
		flight_id TEXT NOT NULL REFERENCES flights(id),
		hotel_id TEXT NOT NULL REFERENCES hotels(id),
		price_score REAL NOT NULL,
		weather_score REAL NOT NULL,
		convenience_score REAL NOT NULL,
		total_score REAL NOT NULL,
		total_price REAL NOT NULL,
		currency TEXT NOT NULL DEFAULT 'USD',
		nights INTEGER NOT NULL,
		packing_suggestions BLOB,
		summary TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_flights_search ON flights(search_id)`,
	`CREATE INDEX IF NOT EXISTS idx_hotels_search ON hotels(search_id)`,
	`CREATE INDEX IF NOT EXISTS idx_weather_search ON weather_days(search_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_search ON events(search_id)`,
	`CREATE INDEX IF NOT EXISTS idx_recommendations_search ON recommendations(search_id)`,
	`CREATE INDEX IF NOT EXISTS idx_searches_created ON searches(created_at)`,
}

// Migrate applies the schema
func (db *DB) Migrate() error {
	for _, stmt := range schema {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
