package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triplog/server/internal/models"
	"github.com/triplog/server/internal/repository"
)

func setupTeamRouter(t *testing.T) chi.Router {
	t.Helper()

	db, err := repository.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	handler := NewTeamHandler(repository.NewTeamRepository(db))

	r := chi.NewRouter()
	r.Route("/team", func(r chi.Router) {
		r.Get("/", handler.List)
		r.Post("/", handler.Add)
		r.Get("/{teamId}", handler.GetByID)
		r.Put("/{teamId}", handler.Update)
		r.Delete("/{teamId}", handler.Delete)
	})
	return r
}

func postTeam(t *testing.T, router chi.Router, team models.Team) models.Team {
	t.Helper()

	body, err := json.Marshal(models.TeamRequest{Team: &team})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/team/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created models.Team
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	return created
}

func TestTeamHandler_Add(t *testing.T) {
	t.Run("creates a team with a generated id", func(t *testing.T) {
		router := setupTeamRouter(t)

		created := postTeam(t, router, models.Team{
			Color:  "#ff0000",
			Name:   "The Reds",
			Member: []string{"Ana", "Bob"},
		})

		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "The Reds", created.Name)
		assert.Equal(t, "#ff0000", created.Color)
		assert.Equal(t, []string{"Ana", "Bob"}, created.Member)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		router := setupTeamRouter(t)

		body, err := json.Marshal(models.TeamRequest{Team: &models.Team{Name: "  "}})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/team/", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a body without a team wrapper", func(t *testing.T) {
		router := setupTeamRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/team/", bytes.NewReader([]byte(`{}`)))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTeamHandler_List(t *testing.T) {
	t.Run("empty database lists an empty array", func(t *testing.T) {
		router := setupTeamRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/team/", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("lists every stored team", func(t *testing.T) {
		router := setupTeamRouter(t)

		postTeam(t, router, models.Team{Name: "One"})
		postTeam(t, router, models.Team{Name: "Two"})

		req := httptest.NewRequest(http.MethodGet, "/team/", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var teams []models.Team
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &teams))
		assert.Len(t, teams, 2)
	})
}

func TestTeamHandler_GetByID(t *testing.T) {
	t.Run("returns the stored team", func(t *testing.T) {
		router := setupTeamRouter(t)
		created := postTeam(t, router, models.Team{Name: "The Reds", Color: "#ff0000"})

		req := httptest.NewRequest(http.MethodGet, "/team/"+created.ID, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got models.Team
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "The Reds", got.Name)
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		router := setupTeamRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/team/nope", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTeamHandler_Update(t *testing.T) {
	t.Run("replaces the stored document", func(t *testing.T) {
		router := setupTeamRouter(t)
		created := postTeam(t, router, models.Team{Name: "Old Name"})

		update := models.TeamRequest{Team: &models.Team{Name: "New Name", Color: "#00ff00"}}
		body, err := json.Marshal(update)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPut, "/team/"+created.ID, bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		req = httptest.NewRequest(http.MethodGet, "/team/"+created.ID, nil)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var got models.Team
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "New Name", got.Name)
		assert.Equal(t, "#00ff00", got.Color)
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		router := setupTeamRouter(t)

		body, err := json.Marshal(models.TeamRequest{Team: &models.Team{Name: "X"}})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPut, "/team/nope", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTeamHandler_Delete(t *testing.T) {
	t.Run("removes the team", func(t *testing.T) {
		router := setupTeamRouter(t)
		created := postTeam(t, router, models.Team{Name: "Doomed"})

		req := httptest.NewRequest(http.MethodDelete, "/team/"+created.ID, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Successfully deleted team!"}`, rec.Body.String())

		req = httptest.NewRequest(http.MethodGet, "/team/"+created.ID, nil)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		router := setupTeamRouter(t)

		req := httptest.NewRequest(http.MethodDelete, "/team/nope", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
