package search

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tripscout/tripscout/internal/domain"
	"github.com/tripscout/tripscout/internal/modules/deals"
	"github.com/tripscout/tripscout/internal/modules/packing"
)

// Handler exposes the search lifecycle and its derived reports over HTTP
type Handler struct {
	repo     Repository
	orch     *Orchestrator
	analyzer *deals.Analyzer
	packer   *packing.Generator
	log      zerolog.Logger
}

// NewHandler creates the search HTTP handler
func NewHandler(repo Repository, orch *Orchestrator, analyzer *deals.Analyzer, packer *packing.Generator, log zerolog.Logger) *Handler {
	return &Handler{
		repo:     repo,
		orch:     orch,
		analyzer: analyzer,
		packer:   packer,
		log:      log.With().Str("component", "search-api").Logger(),
	}
}

// RegisterRoutes mounts the search routes on the router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/search", h.createSearch)
	r.Get("/api/searches", h.listSearches)
	r.Get("/api/search/{id}", h.getSearch)
	r.Delete("/api/search/{id}", h.deleteSearch)
	r.Get("/api/search/{id}/recommendations", h.getRecommendations)
	r.Get("/api/search/{id}/deals", h.getDeals)
	r.Get("/api/search/{id}/booking-advice", h.getBookingAdvice)
	r.Get("/api/search/{id}/packing", h.getPacking)
	r.Post("/api/trends", h.analyzeTrends)
}

type createSearchRequest struct {
	Origin        string            `json:"origin"`
	Destination   string            `json:"destination"`
	DepartureDate string            `json:"departure_date"`
	ReturnDate    string            `json:"return_date"`
	Adults        int               `json:"adults"`
	Children      int               `json:"children"`
	Preferences   map[string]string `json:"preferences,omitempty"`
}

// createSearch accepts a search request and launches retrieval in the
// background. The response carries only the identifier and the initial
// processing status.
func (h *Handler) createSearch(w http.ResponseWriter, r *http.Request) {
	var req createSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Origin == "" || req.Destination == "" {
		h.respondError(w, http.StatusBadRequest, "origin and destination are required")
		return
	}

	departure, err := time.Parse("2006-01-02", req.DepartureDate)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "departure_date must be YYYY-MM-DD")
		return
	}
	ret, err := time.Parse("2006-01-02", req.ReturnDate)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "return_date must be YYYY-MM-DD")
		return
	}
	if ret.Before(departure) {
		h.respondError(w, http.StatusBadRequest, "return_date must not precede departure_date")
		return
	}

	adults := req.Adults
	if adults <= 0 {
		adults = 1
	}

	search := domain.SearchRequest{
		ID:            uuid.New().String(),
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: departure,
		ReturnDate:    ret,
		Adults:        adults,
		Children:      req.Children,
		Preferences:   req.Preferences,
		Status:        domain.SearchProcessing,
		CreatedAt:     time.Now().UTC(),
	}

	if err := h.repo.CreateSearch(search); err != nil {
		h.log.Error().Err(err).Msg("Failed to create search")
		h.respondError(w, http.StatusInternalServerError, "failed to create search")
		return
	}

	h.orch.Launch(search)

	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"id":     search.ID,
		"status": search.Status,
	})
}

func (h *Handler) listSearches(w http.ResponseWriter, r *http.Request) {
	searches, err := h.repo.ListSearches(50)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list searches")
		h.respondError(w, http.StatusInternalServerError, "failed to list searches")
		return
	}
	if searches == nil {
		searches = []domain.SearchRequest{}
	}
	h.respondJSON(w, http.StatusOK, searches)
}

// getSearch returns the search, its records, and its recommendations
func (h *Handler) getSearch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	search, err := h.repo.GetSearch(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.respondError(w, http.StatusNotFound, "search not found")
			return
		}
		h.log.Error().Err(err).Str("search_id", id).Msg("Failed to load search")
		h.respondError(w, http.StatusInternalServerError, "failed to load search")
		return
	}

	flights, err := h.repo.GetFlights(id)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to load flights")
		return
	}
	hotels, err := h.repo.GetHotels(id)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to load hotels")
		return
	}
	weather, err := h.repo.GetWeatherDays(id)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to load weather")
		return
	}
	evts, err := h.repo.GetEvents(id)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to load events")
		return
	}
	recs, err := h.repo.GetRecommendations(id)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to load recommendations")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"search":          search,
		"flights":         flights,
		"hotels":          hotels,
		"weather":         weather,
		"events":          evts,
		"recommendations": recs,
	})
}

func (h *Handler) deleteSearch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.DeleteSearch(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.respondError(w, http.StatusNotFound, "search not found")
			return
		}
		h.log.Error().Err(err).Str("search_id", id).Msg("Failed to delete search")
		h.respondError(w, http.StatusInternalServerError, "failed to delete search")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getRecommendations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	recs, err := h.repo.GetRecommendations(id)
	if err != nil {
		h.log.Error().Err(err).Str("search_id", id).Msg("Failed to load recommendations")
		h.respondError(w, http.StatusInternalServerError, "failed to load recommendations")
		return
	}
	if recs == nil {
		recs = []domain.Recommendation{}
	}
	h.respondJSON(w, http.StatusOK, recs)
}

// getDeals runs the deal analyzer over the search's stored records
func (h *Handler) getDeals(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	flights, err := h.repo.GetFlights(id)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to load flights")
		return
	}
	hotels, err := h.repo.GetHotels(id)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to load hotels")
		return
	}

	h.respondJSON(w, http.StatusOK, h.analyzer.FindBestDeals(flights, hotels))
}

func (h *Handler) getBookingAdvice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	search, err := h.repo.GetSearch(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.respondError(w, http.StatusNotFound, "search not found")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "failed to load search")
		return
	}

	advice := h.analyzer.PredictOptimalBookingTime(search.Destination, search.DepartureDate, time.Now().UTC())
	h.respondJSON(w, http.StatusOK, advice)
}

// getPacking produces a packing list for the whole trip window. This is
// the enriched path: a configured generation backend personalizes the
// list, with the rule-based path as fallback.
func (h *Handler) getPacking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	search, err := h.repo.GetSearch(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.respondError(w, http.StatusNotFound, "search not found")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "failed to load search")
		return
	}
	weather, err := h.repo.GetWeatherDays(id)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to load weather")
		return
	}

	var activities []string
	if v := search.Preference("activities", ""); v != "" {
		activities = []string{v}
	}

	list := h.packer.Generate(r.Context(), search.Destination,
		search.DepartureDate, search.ReturnDate, weather, activities)
	h.respondJSON(w, http.StatusOK, list)
}

type trendsRequest struct {
	History []domain.PricePoint `json:"history"`
}

// analyzeTrends classifies a caller-supplied historical price series
func (h *Handler) analyzeTrends(w http.ResponseWriter, r *http.Request) {
	var req trendsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.respondJSON(w, http.StatusOK, h.analyzer.AnalyzePriceTrends(req.History))
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondJSON(w, status, map[string]string{"error": msg})
}
