package response

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/GregMSThompson/vending-backend/pkg/logger"
)

type SuccessEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// WriteSuccess wraps data in the {success,data} envelope.
func (h *responseHandler) WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any) {
	h.WriteJSON(w, r, status, SuccessEnvelope{
		Success: true,
		Data:    data,
	})
}

// WriteJSON encodes body as-is, for routes whose payload shape is part of
// the public contract.
func (h *responseHandler) WriteJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Last-ditch logging; can't return an error now
		logger.FromContext(r.Context()).Error("failed to encode response", "error", err, "status", status)
	}
}

// WriteRaw relays an upstream JSON body byte for byte.
func (h *responseHandler) WriteRaw(w http.ResponseWriter, r *http.Request, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if len(bytes.TrimSpace(body)) == 0 {
		return
	}
	if _, err := w.Write(body); err != nil {
		logger.FromContext(r.Context()).Error("failed to write relayed response", "error", err, "status", status)
	}
}

func (h *responseHandler) WriteHTML(w http.ResponseWriter, r *http.Request, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if _, err := w.Write(body); err != nil {
		logger.FromContext(r.Context()).Error("failed to write html response", "error", err)
	}
}
