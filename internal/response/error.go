package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/GregMSThompson/vending-backend/internal/errs"
	"github.com/GregMSThompson/vending-backend/pkg/logger"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
	Fix     string `json:"fix,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Status  int    `json:"status,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

func (h *responseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, body ErrorResponse) {
	body.Success = false
	h.WriteJSON(w, r, status, body)
}

func (h *responseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	var (
		validation  *errs.ValidationError
		unavailable *errs.UpstreamUnavailableError
		payment     *errs.PaymentRequiredError
		external    *errs.ExternalServiceError
	)

	switch {
	case errors.As(err, &validation):
		log.Warn("validation failed", "error", validation.Message)
		h.WriteError(w, r, http.StatusBadRequest, ErrorResponse{Error: validation.Message})

	case errors.As(err, &unavailable):
		log.Warn("upstream unavailable", "service", unavailable.Service)
		h.WriteError(w, r, http.StatusServiceUnavailable, ErrorResponse{
			Error: unavailable.Message,
			Fix:   unavailable.Fix,
		})

	case errors.As(err, &payment):
		log.Info("payment required", "reason", payment.Message)
		h.WriteError(w, r, http.StatusPaymentRequired, ErrorResponse{
			Error:   "Payment Required",
			Message: payment.Message,
			Hint:    payment.Hint,
			Status:  http.StatusPaymentRequired,
		})

	case errors.As(err, &external):
		log.Error("external service error",
			"service", external.Service,
			"error", external.Err)
		body := ErrorResponse{
			Error:   external.Summary,
			Details: detailOf(external.Err),
		}
		if h.Development && len(external.Stack) > 0 {
			body.Stack = string(external.Stack)
		}
		h.WriteError(w, r, http.StatusInternalServerError, body)

	default:
		log.Error("unexpected error",
			"error", err,
			"type", fmt.Sprintf("%T", err))
		h.WriteError(w, r, http.StatusInternalServerError, ErrorResponse{
			Error: "An unexpected error occurred",
		})
	}
}

func detailOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
