package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/triplog/server/internal/models"
)

// TripRepositoryPostgres handles trip persistence on PostgreSQL
type TripRepositoryPostgres struct {
	db *sql.DB
}

// NewTripRepositoryPostgres creates a new TripRepositoryPostgres
func NewTripRepositoryPostgres(db *sql.DB) *TripRepositoryPostgres {
	return &TripRepositoryPostgres{db: db}
}

// Add stores a new trip
func (r *TripRepositoryPostgres) Add(ctx context.Context, trip *models.Trip) error {
	doc, err := json.Marshal(trip)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO trips (id, document) VALUES ($1, $2)`,
		trip.ID, string(doc),
	)
	return err
}

// GetAll retrieves every trip
func (r *TripRepositoryPostgres) GetAll(ctx context.Context) ([]*models.Trip, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, document FROM trips ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := []*models.Trip{}
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// GetByID retrieves a trip by its ID; nil if not found
func (r *TripRepositoryPostgres) GetByID(ctx context.Context, id string) (*models.Trip, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, document FROM trips WHERE id = $1`, id)

	trip, err := scanTrip(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return trip, nil
}

// Update replaces an existing trip document
func (r *TripRepositoryPostgres) Update(ctx context.Context, trip *models.Trip) error {
	doc, err := json.Marshal(trip)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE trips SET document = $1, updated_at = NOW() WHERE id = $2`,
		string(doc), trip.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrTripNotFound
	}
	return nil
}

// Delete removes a trip by its ID
func (r *TripRepositoryPostgres) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrTripNotFound
	}
	return nil
}
