package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/triplog/server/internal/models"
	"github.com/triplog/server/internal/repository"
)

// TeamHandler handles team CRUD endpoints
type TeamHandler struct {
	repo repository.TeamRepo
}

// NewTeamHandler creates a new TeamHandler
func NewTeamHandler(repo repository.TeamRepo) *TeamHandler {
	return &TeamHandler{repo: repo}
}

// Add saves a new team
func (h *TeamHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req models.TeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Team == nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	team, err := models.NewTeam(req.Team.Color, req.Team.Name, req.Team.Member)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.Add(r.Context(), team); err != nil {
		log.Printf("Error saving team: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	h.respondJSON(w, http.StatusOK, team)
}

// List returns every team
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	teams, err := h.repo.GetAll(r.Context())
	if err != nil {
		log.Printf("Error getting teams: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	h.respondJSON(w, http.StatusOK, teams)
}

// GetByID returns a single team by ID
func (h *TeamHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "teamId")

	team, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		log.Printf("Error getting team: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	if team == nil {
		h.respondError(w, http.StatusNotFound, "Team not found.")
		return
	}

	h.respondJSON(w, http.StatusOK, team)
}

// Update replaces a team
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "teamId")

	var req models.TeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Team == nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	team := req.Team
	team.ID = id

	if err := h.repo.Update(r.Context(), team); err != nil {
		if err == models.ErrTeamNotFound {
			h.respondError(w, http.StatusNotFound, "Team not found.")
			return
		}
		log.Printf("Error updating team: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	h.respondJSON(w, http.StatusOK, team)
}

// Delete removes a team by ID
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "teamId")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if err == models.ErrTeamNotFound {
			h.respondError(w, http.StatusNotFound, "Team not found.")
			return
		}
		log.Printf("Error deleting team: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	h.respondJSON(w, http.StatusOK, models.DeleteTeamResult{Message: "Successfully deleted team!"})
}

func (h *TeamHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *TeamHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, models.ErrorResponse{Error: message})
}
