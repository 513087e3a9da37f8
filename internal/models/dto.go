package models

import "time"

// TeamRequest wraps a team the way the client sends it
type TeamRequest struct {
	Team *Team `json:"team"`
}

// TripRequest wraps a trip the way the client sends it
type TripRequest struct {
	Trip *Trip `json:"trip"`
}

// DeleteTeamResult is returned after deleting a team
type DeleteTeamResult struct {
	Message string `json:"message"`
}

// HealthResponse is returned by health check
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse is returned on errors
type ErrorResponse struct {
	Error string `json:"error"`
}
