package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triplog/server/internal/models"
	"github.com/triplog/server/internal/repository"
)

func setupTripRouter(t *testing.T) chi.Router {
	t.Helper()

	db, err := repository.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	handler := NewTripHandler(repository.NewTripRepository(db))

	r := chi.NewRouter()
	r.Route("/trip", func(r chi.Router) {
		r.Get("/", handler.List)
		r.Post("/", handler.Add)
		r.Get("/{tripId}", handler.GetByID)
		r.Put("/{tripId}", handler.Update)
		r.Delete("/{tripId}", handler.Delete)
	})
	return r
}

func postTrip(t *testing.T, router chi.Router, trip models.Trip) models.Trip {
	t.Helper()

	body, err := json.Marshal(models.TripRequest{Trip: &trip})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/trip/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created models.Trip
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	return created
}

func TestTripHandler_Add(t *testing.T) {
	t.Run("creates a trip with a generated id", func(t *testing.T) {
		router := setupTripRouter(t)

		from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)

		created := postTrip(t, router, models.Trip{
			Name: "Summer in Norway",
			From: from,
			To:   to,
			Steps: []models.Step{
				{
					ID:   1,
					Name: "Oslo",
					Transportations: []models.Transportation{
						{TransportType: "plane", Comment: "red-eye"},
					},
					Substeps: []models.Substep{
						{Name: "Opera house", UUID: "abc-123", Place: "Oslo"},
					},
				},
			},
		})

		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Summer in Norway", created.Name)
		assert.True(t, created.From.Equal(from))
		require.Len(t, created.Steps, 1)
		require.Len(t, created.Steps[0].Substeps, 1)
		assert.Equal(t, "abc-123", created.Steps[0].Substeps[0].UUID)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		router := setupTripRouter(t)

		body, err := json.Marshal(models.TripRequest{Trip: &models.Trip{Name: ""}})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/trip/", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTripHandler_GetByID(t *testing.T) {
	t.Run("round-trips the full document", func(t *testing.T) {
		router := setupTripRouter(t)

		date := time.Date(2025, 7, 3, 14, 30, 0, 0, time.UTC)
		lat, long := 59.9075, 10.7531
		created := postTrip(t, router, models.Trip{
			Name: "Summer in Norway",
			Steps: []models.Step{
				{
					ID:   1,
					Name: "Oslo",
					Substeps: []models.Substep{
						{
							Name:     "Opera house",
							UUID:     "abc-123",
							Photo:    "1/abc-123/opera.jpg",
							PhotoMin: "1/abc-123/opera-min.jpg",
							Date:     &date,
							Lat:      &lat,
							Long:     &long,
						},
					},
				},
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/trip/"+created.ID, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got models.Trip
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got.Steps, 1)
		require.Len(t, got.Steps[0].Substeps, 1)

		sub := got.Steps[0].Substeps[0]
		assert.Equal(t, "1/abc-123/opera.jpg", sub.Photo)
		assert.Equal(t, "1/abc-123/opera-min.jpg", sub.PhotoMin)
		require.NotNil(t, sub.Date)
		assert.True(t, sub.Date.Equal(date))
		require.NotNil(t, sub.Lat)
		assert.Equal(t, lat, *sub.Lat)
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		router := setupTripRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/trip/nope", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTripHandler_Update(t *testing.T) {
	t.Run("replaces the stored document", func(t *testing.T) {
		router := setupTripRouter(t)
		created := postTrip(t, router, models.Trip{Name: "Draft"})

		update := models.TripRequest{Trip: &models.Trip{
			Name:  "Final",
			Steps: []models.Step{{ID: 1, Name: "Bergen"}},
		}}
		body, err := json.Marshal(update)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPut, "/trip/"+created.ID, bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		req = httptest.NewRequest(http.MethodGet, "/trip/"+created.ID, nil)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var got models.Trip
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Final", got.Name)
		require.Len(t, got.Steps, 1)
		assert.Equal(t, "Bergen", got.Steps[0].Name)
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		router := setupTripRouter(t)

		body, err := json.Marshal(models.TripRequest{Trip: &models.Trip{Name: "X"}})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPut, "/trip/nope", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTripHandler_Delete(t *testing.T) {
	t.Run("removes the trip and returns a plain message", func(t *testing.T) {
		router := setupTripRouter(t)
		created := postTrip(t, router, models.Trip{Name: "Doomed"})

		req := httptest.NewRequest(http.MethodDelete, "/trip/"+created.ID, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `"Successfully deleted trip!"`, rec.Body.String())

		req = httptest.NewRequest(http.MethodGet, "/trip/"+created.ID, nil)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		router := setupTripRouter(t)

		req := httptest.NewRequest(http.MethodDelete, "/trip/nope", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
