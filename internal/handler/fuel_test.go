package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvaldes/gastracker/internal/domain"
)

// ---- POST /fuel/snapshot -----------------------------------------------------

func TestRecordSnapshot_201(t *testing.T) {
	svc := &mockFuelServicer{
		record: func(_ context.Context, userID int64, fuelLiters float64) (domain.FuelSnapshot, error) {
			assert.Equal(t, testUserID, userID)
			assert.Equal(t, 45.5, fuelLiters)
			return domain.FuelSnapshot{
				ID: 1, UserID: userID, FuelLiters: fuelLiters,
				RecordedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			}, nil
		},
	}

	body := jsonBody(t, map[string]any{"fuelLiters": 45.5})
	req := httptest.NewRequest(http.MethodPost, "/fuel/snapshot", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newHTTPHandler(nil, svc, nil, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestRecordSnapshot_400_Missing(t *testing.T) {
	svc := &mockFuelServicer{}

	req := httptest.NewRequest(http.MethodPost, "/fuel/snapshot", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(nil, svc, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"validation"`)
}

func TestRecordSnapshot_400_OverCap(t *testing.T) {
	svc := &mockFuelServicer{}

	body := jsonBody(t, map[string]any{"fuelLiters": 250.0})
	req := httptest.NewRequest(http.MethodPost, "/fuel/snapshot", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newHTTPHandler(nil, svc, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at most 200")
}

func TestRecordSnapshot_400_Negative(t *testing.T) {
	svc := &mockFuelServicer{
		record: func(_ context.Context, _ int64, _ float64) (domain.FuelSnapshot, error) {
			return domain.FuelSnapshot{}, fmt.Errorf("%w: validation error: fuel level must be a non-negative number", domain.ErrValidation)
		},
	}

	body := jsonBody(t, map[string]any{"fuelLiters": -1.0})
	req := httptest.NewRequest(http.MethodPost, "/fuel/snapshot", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newHTTPHandler(nil, svc, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "non-negative")
}

// ---- GET /fuel/stats ---------------------------------------------------------

func TestGetStats_200(t *testing.T) {
	svc := &mockStatsServicer{
		stats: func(_ context.Context, userID int64) (domain.FuelStats, error) {
			assert.Equal(t, testUserID, userID)
			return domain.FuelStats{
				CurrentFuelLiters: ptr(30),
				AvgLitersPer100Km: ptr(5),
				AvgKmPerDay:       ptr(500),
				ProjectedRangeKm:  ptr(600),
				ProjectedDaysLeft: ptr(1.2),
				Samples:           2,
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/fuel/stats", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(nil, nil, svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp domain.FuelStats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.AvgLitersPer100Km)
	assert.InDelta(t, 5, *resp.AvgLitersPer100Km, 1e-9)
	assert.Equal(t, 2, resp.Samples)
}

func TestGetStats_200_NullFields(t *testing.T) {
	svc := &mockStatsServicer{
		stats: func(_ context.Context, _ int64) (domain.FuelStats, error) {
			return domain.FuelStats{Samples: 0}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/fuel/stats", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(nil, nil, svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"avgLitersPer100Km":null`)
	assert.Contains(t, rec.Body.String(), `"samples":0`)
}
