package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/bayzero91/Cut-optimization/internal/api"
	"github.com/bayzero91/Cut-optimization/internal/packer"
	"github.com/bayzero91/Cut-optimization/internal/storage"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	store := storage.NewMemoryStorage()
	p := packer.New()
	handler := api.NewHandler(p, store)
	logger := zaptest.NewLogger(t)
	return api.NewRouter(handler, logger)
}

func performRequest(t *testing.T, handler http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIntegrationFlow(t *testing.T) {
	handler := newRouter(t)

	rec := performRequest(t, handler, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	updatePayload := map[string]any{"stockLength": 6000, "cutWidth": 2}
	payload, _ := json.Marshal(updatePayload)
	rec = performRequest(t, handler, http.MethodPut, "/api/settings", payload, map[string]string{"Content-Type": "application/json"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from settings update, got %d", rec.Code)
	}

	optimizePayload := map[string]any{
		"demands": []map[string]any{
			{"length": 1480, "quantity": 10},
			{"length": 748, "quantity": 6},
		},
	}
	body, _ := json.Marshal(optimizePayload)
	rec = performRequest(t, handler, http.MethodPost, "/api/optimize", body, map[string]string{"Content-Type": "application/json"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from optimize, got %d", rec.Code)
	}

	var response struct {
		StockLength float64 `json:"stockLength"`
		Rods        []struct {
			UsedLength float64 `json:"usedLength"`
			Leftover   float64 `json:"leftover"`
		} `json:"rods"`
		TotalRods  int `json:"totalRods"`
		TotalParts int `json:"totalParts"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.StockLength != 6000 {
		t.Fatalf("expected stock length 6000, got %v", response.StockLength)
	}
	if response.TotalParts != 16 {
		t.Fatalf("expected 16 parts placed, got %d", response.TotalParts)
	}
	if response.TotalRods == 0 || len(response.Rods) != response.TotalRods {
		t.Fatalf("inconsistent rod count: totalRods=%d rows=%d", response.TotalRods, len(response.Rods))
	}
	for i, rod := range response.Rods {
		if rod.UsedLength+rod.Leftover != 6000 {
			t.Fatalf("rod %d: used %v + leftover %v does not equal stock length", i+1, rod.UsedLength, rod.Leftover)
		}
	}

	rec = performRequest(t, handler, http.MethodPost, "/api/optimize/pdf", body, map[string]string{"Content-Type": "application/json"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from PDF export, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("expected application/pdf, got %s", got)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected PDF payload from export endpoint")
	}
}
