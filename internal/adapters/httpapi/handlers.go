package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/andrescamacho/edsm-checker-go/internal/application/common"
	"github.com/andrescamacho/edsm-checker-go/internal/domain/shared"
	"github.com/andrescamacho/edsm-checker-go/internal/domain/system"
)

// StatusResponse is the body of GET /status
type StatusResponse struct {
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at,omitempty"`
	Running   bool   `json:"running"`
	State     string `json:"state"`
	Pending   int    `json:"pending"`
}

// EnqueueRequest is the body of POST /targets
type EnqueueRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// ErrorResponse is the body of every 4xx answer
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

const maxRequestBytes = 64 << 10

type handlers struct {
	engine Engine
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *handlers) status(w http.ResponseWriter, _ *http.Request) {
	value, updatedAt := h.engine.StatusSnapshot()
	resp := StatusResponse{
		Status:  value,
		Running: h.engine.Running(),
		State:   h.engine.WorkerState().String(),
		Pending: h.engine.Pending(),
	}
	if !updatedAt.IsZero() {
		resp.UpdatedAt = updatedAt.UTC().Format(time.RFC3339Nano)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) enqueue(w http.ResponseWriter, r *http.Request) {
	var req EnqueueRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return
	}

	target, err := system.ParseTarget(req.Name, req.Address)
	if err != nil {
		resp := ErrorResponse{Error: err.Error()}
		var verr *shared.ValidationError
		if errors.As(err, &verr) {
			resp.Field = verr.Field
		}
		common.LoggerFromContext(r.Context()).Log(common.LevelWarning, "rejected target", map[string]interface{}{
			"error":  err.Error(),
			"source": "http",
		})
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	h.engine.Enqueue(target)
	common.LoggerFromContext(r.Context()).Log(common.LevelInfo, "target enqueued", map[string]interface{}{
		"target": target.DisplayName(),
		"source": "http",
	})
	writeJSON(w, http.StatusAccepted, map[string]string{"target": target.DisplayName()})
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
