package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/vending-backend/internal/errs"
	"github.com/GregMSThompson/vending-backend/internal/models"
	"github.com/GregMSThompson/vending-backend/internal/response"
)

type receiptHandlers struct {
	ResponseHandler response.ResponseHandler
	ReceiptSvc      ReceiptService
}

func NewReceiptHandlers(deps *Deps) *receiptHandlers {
	return &receiptHandlers{
		ResponseHandler: deps.ResponseHandler,
		ReceiptSvc:      deps.ReceiptSvc,
	}
}

func (h *receiptHandlers) ReceiptRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	return r
}

func (h *receiptHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	receipts, err := h.ReceiptSvc.List(r.Context(), limit)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if receipts == nil {
		receipts = []models.Receipt{}
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, receipts)
}
