package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bayzero91/Cut-optimization/internal/export"
	"github.com/bayzero91/Cut-optimization/internal/packer"
	"github.com/bayzero91/Cut-optimization/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler wires packer and storage dependencies into HTTP handlers.
type Handler struct {
	packer  packer.Packer
	storage storage.Storage

	clock func() time.Time

	mu                sync.RWMutex
	settingsUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(p packer.Packer, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		packer:  p,
		storage: store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.settingsUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	_ = r
	settings, err := h.storage.GetSettings()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := settingsResponse{
		StockLength: settings.StockLength,
		CutWidth:    settings.CutWidth,
		UpdatedAt:   h.currentSettingsUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	settings := storage.Settings{
		StockLength: req.StockLength,
		CutWidth:    req.CutWidth,
	}
	if err := h.storage.SetSettings(settings); err != nil {
		if errors.Is(err, storage.ErrInvalidSettings) {
			writeError(w, http.StatusBadRequest, "Invalid settings", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markSettingsUpdated()

	settings, err := h.storage.GetSettings()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := settingsResponse{
		StockLength: settings.StockLength,
		CutWidth:    settings.CutWidth,
		UpdatedAt:   h.currentSettingsUpdatedAt(),
		Message:     "Settings updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	demands, settings, ok := h.prepareOptimization(w, r)
	if !ok {
		return
	}

	start := time.Now()
	rods := h.packer.Pack(settings.StockLength, demands)
	elapsed := time.Since(start)

	rows := make([]rodResponse, 0, len(rods))
	for _, rod := range rods {
		rows = append(rows, rodResponse{
			Rod:        rod.ID,
			UsedLength: rod.UsedLength,
			Leftover:   rod.Leftover,
			Parts:      rod.PartsSummary(),
			Infeasible: rod.Leftover < 0,
		})
	}

	resp := optimizeResponse{
		StockLength:       settings.StockLength,
		CutWidth:          settings.CutWidth,
		Rods:              rows,
		TotalRods:         len(rods),
		TotalParts:        packer.TotalParts(rods),
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleOptimizePDF(w http.ResponseWriter, r *http.Request) {
	demands, settings, ok := h.prepareOptimization(w, r)
	if !ok {
		return
	}

	plan := export.Plan{
		StockLength: settings.StockLength,
		CutWidth:    settings.CutWidth,
		Rods:        h.packer.Pack(settings.StockLength, demands),
	}

	var buf bytes.Buffer
	if err := export.WritePlan(&buf, plan); err != nil {
		writeInternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="cutting_plan.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// prepareOptimization decodes and validates the request, then returns the
// effective demands (raw length plus cut width) and the current settings.
// On failure it writes the error response and returns ok=false.
func (h *Handler) prepareOptimization(w http.ResponseWriter, r *http.Request) ([]packer.Demand, storage.Settings, bool) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return nil, storage.Settings{}, false
	}

	if len(req.Demands) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid request", "demands must contain at least one entry")
		return nil, storage.Settings{}, false
	}
	for i, d := range req.Demands {
		if d.Length <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid request",
				fmt.Sprintf("demand %d: length must be positive", i+1))
			return nil, storage.Settings{}, false
		}
		if d.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid request",
				fmt.Sprintf("demand %d: quantity must be a positive integer", i+1))
			return nil, storage.Settings{}, false
		}
	}

	settings, err := h.storage.GetSettings()
	if err != nil {
		writeInternalError(w, err)
		return nil, storage.Settings{}, false
	}

	demands := make([]packer.Demand, 0, len(req.Demands))
	for _, d := range req.Demands {
		demands = append(demands, packer.Demand{
			Length:   d.Length + settings.CutWidth,
			Quantity: d.Quantity,
		})
	}

	return demands, settings, true
}

func (h *Handler) currentSettingsUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.settingsUpdatedAt
}

func (h *Handler) markSettingsUpdated() {
	h.mu.Lock()
	h.settingsUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type demandRequest struct {
	Length   float64 `json:"length"`
	Quantity int     `json:"quantity"`
}

type optimizeRequest struct {
	Demands []demandRequest `json:"demands"`
}

type rodResponse struct {
	Rod        int     `json:"rod"`
	UsedLength float64 `json:"usedLength"`
	Leftover   float64 `json:"leftover"`
	Parts      string  `json:"parts"`
	Infeasible bool    `json:"infeasible,omitempty"`
}

type optimizeResponse struct {
	StockLength       float64       `json:"stockLength"`
	CutWidth          float64       `json:"cutWidth"`
	Rods              []rodResponse `json:"rods"`
	TotalRods         int           `json:"totalRods"`
	TotalParts        int           `json:"totalParts"`
	CalculationTimeMs int64         `json:"calculationTimeMs"`
}

type settingsRequest struct {
	StockLength float64 `json:"stockLength"`
	CutWidth    float64 `json:"cutWidth"`
}

type settingsResponse struct {
	StockLength float64   `json:"stockLength"`
	CutWidth    float64   `json:"cutWidth"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Message     string    `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
