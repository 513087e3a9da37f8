package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/triplog/server/internal/models"
	"github.com/triplog/server/internal/repository"
)

// TripHandler handles trip CRUD endpoints
type TripHandler struct {
	repo repository.TripRepo
}

// NewTripHandler creates a new TripHandler
func NewTripHandler(repo repository.TripRepo) *TripHandler {
	return &TripHandler{repo: repo}
}

// Add saves a new trip
func (h *TripHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req models.TripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Trip == nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	trip, err := models.NewTrip(req.Trip.Name)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	trip.PhotoInOne = req.Trip.PhotoInOne
	trip.From = req.Trip.From
	trip.To = req.Trip.To
	if req.Trip.Steps != nil {
		trip.Steps = req.Trip.Steps
	}

	if err := h.repo.Add(r.Context(), trip); err != nil {
		log.Printf("Error saving trip: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	h.respondJSON(w, http.StatusOK, trip)
}

// List returns every trip
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	trips, err := h.repo.GetAll(r.Context())
	if err != nil {
		log.Printf("Error getting trips: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	h.respondJSON(w, http.StatusOK, trips)
}

// GetByID returns a single trip by ID
func (h *TripHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tripId")

	trip, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		log.Printf("Error getting trip: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	if trip == nil {
		h.respondError(w, http.StatusNotFound, "Trip not found.")
		return
	}

	h.respondJSON(w, http.StatusOK, trip)
}

// Update replaces a trip
func (h *TripHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tripId")

	var req models.TripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Trip == nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	trip := req.Trip
	trip.ID = id

	if err := h.repo.Update(r.Context(), trip); err != nil {
		if err == models.ErrTripNotFound {
			h.respondError(w, http.StatusNotFound, "Trip not found.")
			return
		}
		log.Printf("Error updating trip: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	h.respondJSON(w, http.StatusOK, trip)
}

// Delete removes a trip by ID
func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tripId")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if err == models.ErrTripNotFound {
			h.respondError(w, http.StatusNotFound, "Trip not found.")
			return
		}
		log.Printf("Error deleting trip: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	h.respondJSON(w, http.StatusOK, "Successfully deleted trip!")
}

func (h *TripHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *TripHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, models.ErrorResponse{Error: message})
}
