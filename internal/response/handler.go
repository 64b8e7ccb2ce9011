package response

import (
	"log/slog"
	"net/http"
)

type ResponseHandler interface {
	WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any)
	WriteJSON(w http.ResponseWriter, r *http.Request, status int, body any)
	WriteRaw(w http.ResponseWriter, r *http.Request, status int, body []byte)
	WriteHTML(w http.ResponseWriter, r *http.Request, status int, body []byte)
	WriteError(w http.ResponseWriter, r *http.Request, status int, body ErrorResponse)
	HandleError(w http.ResponseWriter, r *http.Request, err error)
}

type responseHandler struct {
	Log *slog.Logger
	// Development adds stack traces to 500 bodies.
	Development bool
}

func New(log *slog.Logger, development bool) *responseHandler {
	return &responseHandler{Log: log, Development: development}
}
