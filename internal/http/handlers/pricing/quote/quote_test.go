package quote

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/carrydrop/internal/config"
)

func TestQuoteHandler(t *testing.T) {
	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), config.Pricing{BaseRate: 2500, MinPrice: 2500, MaxPrice: 55000})

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantPrice  float64
		wantError  string
	}{
		{name: "standard default items", query: "service_type=STANDARD", wantStatus: http.StatusOK, wantPrice: 2500},
		{name: "express lower case", query: "service_type=express&items=2", wantStatus: http.StatusOK, wantPrice: 7500},
		{name: "premium three items", query: "service_type=PREMIUM&items=3", wantStatus: http.StatusOK, wantPrice: 16500},
		{name: "clamped to max", query: "service_type=PREMIUM&items=20", wantStatus: http.StatusOK, wantPrice: 55000},
		{name: "unknown tier", query: "service_type=VIP", wantStatus: http.StatusBadRequest, wantError: "unknown service type"},
		{name: "zero items", query: "service_type=STANDARD&items=0", wantStatus: http.StatusBadRequest, wantError: "items must be at least 1"},
		{name: "bad items", query: "service_type=STANDARD&items=two", wantStatus: http.StatusBadRequest, wantError: "items must be an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pricing/quote?"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, resp["error"])
				return
			}
			data := resp["data"].(map[string]any)
			assert.Equal(t, tt.wantPrice, data["price"])
		})
	}
}
