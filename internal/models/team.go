package models

import (
	"strings"

	"github.com/google/uuid"
)

// Team represents a group of travellers referenced by trip substeps
type Team struct {
	ID     string   `json:"id"`
	Color  string   `json:"color"`
	Name   string   `json:"name"`
	Member []string `json:"member"`
}

// NewTeam creates a new Team with a generated ID
func NewTeam(color, name string, member []string) (*Team, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyTeamName
	}

	if member == nil {
		member = []string{}
	}

	return &Team{
		ID:     uuid.New().String(),
		Color:  color,
		Name:   name,
		Member: member,
	}, nil
}

// Errors
type TeamError struct {
	Message string
}

func (e TeamError) Error() string {
	return e.Message
}

var (
	ErrEmptyTeamName = TeamError{"team name cannot be empty"}
	ErrTeamNotFound  = TeamError{"team not found"}
)
