package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peteCoder/seashore-mf-be/internal/calculator"
	"github.com/peteCoder/seashore-mf-be/internal/config"
	"github.com/peteCoder/seashore-mf-be/internal/service"
)

func testHandler() *LoanHandler {
	engine := calculator.NewEngine(calculator.DefaultRateTable())
	cfg := &config.Config{
		Business: config.BusinessConfig{
			MinPrincipal:     "1000.00",
			ScheduleCacheTTL: "24h",
		},
	}
	svc := service.NewLoanService(nil, nil, engine, nil, cfg)
	return NewLoanHandler(svc)
}

func TestRatesEndpoint(t *testing.T) {
	handler := testHandler()

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/rates/{frequency}", handler.Rates).Methods("GET")

	t.Run("returns tiers for a known frequency", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/rates/monthly", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Success bool `json:"success"`
			Data    []struct {
				Range       string `json:"range"`
				MonthlyRate string `json:"monthly_rate"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
		require.Len(t, body.Data, 4)
		assert.Equal(t, "1-3", body.Data[0].Range)
		assert.Equal(t, "8.0%", body.Data[0].MonthlyRate)
	})

	t.Run("rejects an unknown frequency", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/rates/hourly", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestApplyValidation(t *testing.T) {
	handler := testHandler()

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/loans", handler.Apply).Methods("POST")

	t.Run("rejects a malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/loans", bytes.NewBufferString("{not json"))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects an unsupported frequency before any work", func(t *testing.T) {
		payload := map[string]interface{}{
			"client_id":           "8b7f5f64-5717-4562-b3fc-2c963f66afa6",
			"client_level":        "gold",
			"branch_id":           "9c8f5f64-5717-4562-b3fc-2c963f66afa6",
			"created_by":          "7a6f5f64-5717-4562-b3fc-2c963f66afa6",
			"principal_amount":    "50000",
			"repayment_frequency": "hourly",
			"duration_value":      10,
			"purpose":             "inventory",
			"guarantor_name":      "Ade Bello",
			"guarantor_phone":     "+2348012345678",
		}
		body, err := json.Marshal(payload)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/loans", bytes.NewBuffer(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
