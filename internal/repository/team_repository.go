package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/triplog/server/internal/models"
)

// TeamRepository handles team persistence on SQLite
type TeamRepository struct {
	db *sql.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *sql.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Add stores a new team
func (r *TeamRepository) Add(ctx context.Context, team *models.Team) error {
	doc, err := json.Marshal(team)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO teams (id, document) VALUES (?, ?)`,
		team.ID, string(doc),
	)
	return err
}

// GetAll retrieves every team
func (r *TeamRepository) GetAll(ctx context.Context) ([]*models.Team, error) {
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
func (r *TeamRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, document FROM teams WHERE id = ?`, id)

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
func (r *TeamRepository) Update(ctx context.Context, team *models.Team) error {
	doc, err := json.Marshal(team)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE teams SET document = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
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
func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
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

// scanner covers both sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTeam(row scanner) (*models.Team, error) {
	var id, doc string
	if err := row.Scan(&id, &doc); err != nil {
		return nil, err
	}

	var team models.Team
	if err := json.Unmarshal([]byte(doc), &team); err != nil {
		return nil, err
	}
	team.ID = id
	return &team, nil
}
