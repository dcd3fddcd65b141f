package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/smartvault/smartvault/pkg/dispatch"
	"github.com/smartvault/smartvault/pkg/domain"
	"github.com/smartvault/smartvault/pkg/telemetry"
)

// Handler is the restore front door: shape validation only, then an async
// handoff to the worker. It answers in milliseconds regardless of how long
// the restore takes; the outcome arrives through the notifier.
type Handler struct {
	Dispatcher dispatch.Dispatcher
	Logger     telemetry.Logger
	Metrics    telemetry.Metrics
}

type acceptedResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// envelope tolerates gateway-style wrapping, where the request arrives as
// {"body": "<json string>"} instead of the bare payload.
type envelope struct {
	Body string `json:"body"`
}

func (h *Handler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Message: "Method not allowed"})
		return
	}

	if h.Dispatcher == nil {
		h.Logger.Error(ctx, "restore worker destination is not configured", nil)
		h.count("config_error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Server configuration error."})
		return
	}

	req, err := decodeRequest(r)
	if err != nil {
		h.count("bad_request")
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid JSON format in request body."})
		return
	}
	if req.SnapshotID == "" {
		h.count("bad_request")
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Missing required parameter: snapshot_id"})
		return
	}

	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	if err := h.Dispatcher.Dispatch(ctx, req); err != nil {
		h.Logger.Error(ctx, "failed to dispatch restore request", map[string]any{
			"request_id": req.RequestID,
			"error":      err.Error(),
		})
		h.count("dispatch_error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to dispatch restore request."})
		return
	}

	h.Logger.Info(ctx, "restore request accepted", map[string]any{
		"request_id":  req.RequestID,
		"snapshot_id": req.SnapshotID,
	})
	h.count("accepted")
	writeJSON(w, http.StatusAccepted, acceptedResponse{
		Message:   "Restore request accepted and is being processed asynchronously. A notification will be sent upon completion.",
		RequestID: req.RequestID,
	})
}

func decodeRequest(r *http.Request) (*domain.RestoreRequest, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, err
	}

	// Unwrap gateway-style envelopes.
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Body != "" {
		raw = json.RawMessage(env.Body)
	}

	var req domain.RestoreRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (h *Handler) count(result string) {
	h.Metrics.IncCounter("smartvault_restore_requests_total", 1,
		telemetry.Label{Key: "result", Value: result})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
