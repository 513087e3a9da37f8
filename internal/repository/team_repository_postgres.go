package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/triplog/server/internal/models"
)

// TeamRepositoryPostgres handles team persistence on PostgreSQL
type TeamRepositoryPostgres struct {
	db *sql.DB
}

// NewTeamRepositoryPostgres creates a new TeamRepositoryPostgres
func NewTeamRepositoryPostgres(db *sql.DB) *TeamRepositoryPostgres {
	return &TeamRepositoryPostgres{db: db}
}

// Add stores a new team
func (r *TeamRepositoryPostgres) Add(ctx context.Context, team *models.Team) error {
	doc, err := json.Marshal(team)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO teams (id, document) VALUES ($1, $2)`,
		team.ID, string(doc),
	)
	return err
}

// GetAll retrieves every team
func (r *TeamRepositoryPostgres) GetAll(ctx context.Context) ([]*models.Team, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, document FROM teams ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []*models.Team{}
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}

	return teams, rows.Err()
}

// GetByID retrieves a team by its ID; nil if not found
func (r *TeamRepositoryPostgres) GetByID(ctx context.Context, id string) (*models.Team, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, document FROM teams WHERE id = $1`, id)

	team, err := scanTeam(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return team, nil
}

// Update replaces an existing team document
func (r *TeamRepositoryPostgres) Update(ctx context.Context, team *models.Team) error {
	doc, err := json.Marshal(team)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE teams SET document = $1, updated_at = NOW() WHERE id = $2`,
		string(doc), team.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrTeamNotFound
	}
	return nil
}

// Delete removes a team by its ID
func (r *TeamRepositoryPostgres) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrTeamNotFound
	}
	return nil
}
