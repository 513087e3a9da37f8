package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Trip represents a journey composed of steps, each with transportations
// and photo-carrying substeps
type Trip struct {
	ID         string    `json:"id"`
	PhotoInOne string    `json:"photoInOne"`
	Name       string    `json:"name"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	Steps      []Step    `json:"steps"`
}

// Step is one leg of a trip
type Step struct {
	ID              int              `json:"id"`
	Name            string           `json:"name"`
	From            time.Time        `json:"from"`
	To              time.Time        `json:"to"`
	Transportations []Transportation `json:"transportations"`
	Substeps        []Substep        `json:"substeps"`
}

// Transportation describes how a step was travelled
type Transportation struct {
	TransportType string `json:"transportType"`
	Comment       string `json:"comment"`
}

// Substep is a point of interest within a step. Photo and PhotoMin hold the
// paths produced by the upload pipeline; Team references a Team by id.
type Substep struct {
	Name     string     `json:"name"`
	Comment  string     `json:"comment"`
	UUID     string     `json:"uuid"`
	Photo    string     `json:"photo"`
	PhotoMin string     `json:"photoMin"`
	Date     *time.Time `json:"date"`
	Team     string     `json:"team"`
	Place    string     `json:"place"`
	Lat      *float64   `json:"lat"`
	Long     *float64   `json:"long"`
}

// NewTrip creates a new Trip with a generated ID
func NewTrip(name string) (*Trip, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyTripName
	}

	return &Trip{
		ID:    uuid.New().String(),
		Name:  name,
		Steps: []Step{},
	}, nil
}

// Errors
type TripError struct {
	Message string
}

func (e TripError) Error() string {
	return e.Message
}

var (
	ErrEmptyTripName = TripError{"trip name cannot be empty"}
	ErrTripNotFound  = TripError{"trip not found"}
)
