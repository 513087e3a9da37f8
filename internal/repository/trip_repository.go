package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/triplog/server/internal/models"
)

// TripRepository handles trip persistence on SQLite
type TripRepository struct {
	db *sql.DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{db: db}
}

// Add stores a new trip
func (r *TripRepository) Add(ctx context.Context, trip *models.Trip) error {
	doc, err := json.Marshal(trip)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO trips (id, document) VALUES (?, ?)`,
		trip.ID, string(doc),
	)
	return err
}

// GetAll retrieves every trip
func (r *TripRepository) GetAll(ctx context.Context) ([]*models.Trip, error) {
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
func (r *TripRepository) GetByID(ctx context.Context, id string) (*models.Trip, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, document FROM trips WHERE id = ?`, id)

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
func (r *TripRepository) Update(ctx context.Context, trip *models.Trip) error {
	doc, err := json.Marshal(trip)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE trips SET document = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
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
func (r *TripRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, id)
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

func scanTrip(row scanner) (*models.Trip, error) {
	var id, doc string
	if err := row.Scan(&id, &doc); err != nil {
		return nil, err
	}

	var trip models.Trip
	if err := json.Unmarshal([]byte(doc), &trip); err != nil {
		return nil, err
	}
	trip.ID = id
	return &trip, nil
}
