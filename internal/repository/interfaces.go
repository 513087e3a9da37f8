package repository

import (
	"context"

	"github.com/triplog/server/internal/models"
)

// TeamRepo defines the interface for team persistence operations
type TeamRepo interface {
	Add(ctx context.Context, team *models.Team) error
	GetAll(ctx context.Context) ([]*models.Team, error)
	GetByID(ctx context.Context, id string) (*models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id string) error
}

// TripRepo defines the interface for trip persistence operations
type TripRepo interface {
	Add(ctx context.Context, trip *models.Trip) error
	GetAll(ctx context.Context) ([]*models.Trip, error)
	GetByID(ctx context.Context, id string) (*models.Trip, error)
	Update(ctx context.Context, trip *models.Trip) error
	Delete(ctx context.Context, id string) error
}
