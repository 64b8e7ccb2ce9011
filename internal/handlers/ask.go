package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"

	"github.com/GregMSThompson/vending-backend/internal/dto"
	"github.com/GregMSThompson/vending-backend/internal/errs"
	"github.com/GregMSThompson/vending-backend/internal/metrics"
	"github.com/GregMSThompson/vending-backend/internal/models"
	"github.com/GregMSThompson/vending-backend/internal/response"
	"github.com/GregMSThompson/vending-backend/pkg/logger"
)

const (
	paymentHeader = "x-payment"

	missingQuestion            = `Missing "question" in request body`
	missingQuestionAfterPaying = "Missing question after payment"
	paymentHint                = "Use an x402-compatible wallet to make paid requests"
	aiFix                      = "Check GEMINI_API_KEY in Replit Secrets"
)

type askHandlers struct {
	ResponseHandler response.ResponseHandler
	AISvc           AIService
	PaymentSvc      PaymentService
	ReceiptSvc      ReceiptService
	Status          models.ServiceStatus
	clockNow        func() time.Time
}

func NewAskHandlers(deps *Deps) *askHandlers {
	return &askHandlers{
		ResponseHandler: deps.ResponseHandler,
		AISvc:           deps.AISvc,
		PaymentSvc:      deps.PaymentSvc,
		ReceiptSvc:      deps.ReceiptSvc,
		Status:          deps.Status,
		clockNow:        time.Now,
	}
}

func (h *askHandlers) AskRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/ask-free", h.AskFree)
	r.Post("/ask-paid", h.AskPaid)
	return r
}

func (h *askHandlers) AskFree(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	question, ok := readQuestion(r)
	if !ok {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError(missingQuestion))
		return
	}
	if h.AISvc == nil {
		h.ResponseHandler.HandleError(w, r, errs.NewUpstreamUnavailableError("gemini", "AI service unavailable", aiFix))
		return
	}

	log.Info("free query received", "question", preview(question, 50))
	answer, err := h.AISvc.Answer(r.Context(), question)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteJSON(w, r, http.StatusOK, dto.FreeAskResponse{
		Success:   true,
		Question:  question,
		Answer:    answer.Text,
		Model:     answer.Model,
		Timestamp: timestamp(h.clockNow()),
	})
}

// AskPaid gates the AI behind an x402 settlement. Every request starts from
// the startup status; nothing carries over between requests.
func (h *askHandlers) AskPaid(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	paymentData := r.Header.Get(paymentHeader)
	log.Info("paid query received",
		"has_payment_header", paymentData != "",
		"user_agent", preview(r.UserAgent(), 50))

	if !h.Status.Payment.Usable() || h.PaymentSvc == nil {
		metrics.IncSettlement(metrics.SettlementUnconfigured)
		h.ResponseHandler.WriteJSON(w, r, http.StatusPaymentRequired, h.awaitingCredentials())
		return
	}
	if paymentData == "" {
		metrics.IncSettlement(metrics.SettlementMissingHeader)
		h.ResponseHandler.HandleError(w, r, errs.NewPaymentRequiredError("Missing x-payment header", paymentHint))
		return
	}

	resourceURL := requestOrigin(r) + r.URL.RequestURI()
	res, err := h.PaymentSvc.Settle(r.Context(), paymentData, resourceURL)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	if res.Status != http.StatusOK {
		if res.Status < 200 || res.Status > 599 {
			h.ResponseHandler.HandleError(w, r, errs.NewExternalServiceError("x402", "Payment processing failed",
				errors.New("facilitator returned an invalid status")).WithStack())
			return
		}
		h.ResponseHandler.WriteRaw(w, r, res.Status, res.ResponseBody)
		return
	}

	question, ok := readQuestion(r)
	if !ok {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError(missingQuestionAfterPaying))
		return
	}
	if h.AISvc == nil {
		h.ResponseHandler.HandleError(w, r, errs.NewExternalServiceError("x402", "Payment processing failed",
			errors.New("AI service unavailable")).WithStack())
		return
	}

	answer, err := h.AISvc.Answer(r.Context(), question)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewExternalServiceError("x402", "Payment processing failed", cause(err)).WithStack())
		return
	}

	h.recordReceipt(r, res, question, answer)

	h.ResponseHandler.WriteJSON(w, r, http.StatusOK, dto.PaidAskResponse{
		Success: true,
		Message: "Paid request successful",
		Transaction: dto.TransactionSummary{
			ID:     res.TransactionID,
			Status: "confirmed",
			Amount: h.PaymentSvc.Price(),
		},
		Question:  question,
		Answer:    answer.Text,
		Model:     answer.Model,
		Timestamp: timestamp(h.clockNow()),
	})
}

func (h *askHandlers) awaitingCredentials() dto.AwaitingCredentialsResponse {
	return dto.AwaitingCredentialsResponse{
		Success:         false,
		Error:           "Payment Required",
		Message:         "x402 micropayment endpoint is configured but awaiting facilitator credentials.",
		HackathonStatus: "AWAITING_CREDENTIALS",
		RequiredCredentials: []string{
			"THIRDWEB_SECRET_KEY (in Replit Secrets)",
			"SERVER_WALLET_ADDRESS (from Circle Wallets)",
			"NETWORK (e.g., arc-testnet)",
		},
		SetupComplete: dto.SetupComplete{
			GeminiAI:      h.Status.AI == models.StatusConnected,
			CodeStructure: "READY",
			APIEndpoint:   "LIVE",
		},
		NextStep: "Insert hackathon credentials into Replit Secrets and restart server.",
		DemoNote: "This 402 response demonstrates the correct payment-gated behavior for the hackathon.",
	}
}

// recordReceipt never fails the request; the payment has already settled.
func (h *askHandlers) recordReceipt(r *http.Request, res dto.SettleResult, question string, answer dto.Answer) {
	if h.ReceiptSvc == nil {
		return
	}
	_ = h.ReceiptSvc.Record(r.Context(), models.Receipt{
		TransactionID: res.TransactionID,
		Amount:        h.PaymentSvc.Price(),
		Network:       h.PaymentSvc.Network(),
		PayTo:         h.PaymentSvc.PayTo(),
		Question:      question,
		Model:         answer.Model,
		AnswerChars:   len(answer.Text),
	})
}

// readQuestion accepts only a non-empty JSON string.
func readQuestion(r *http.Request) (string, bool) {
	if r.Body == nil {
		return "", false
	}
	body, err := io.ReadAll(r.Body)
	if err != nil || !gjson.ValidBytes(body) {
		return "", false
	}
	q := gjson.GetBytes(body, "question")
	if q.Type != gjson.String || q.Str == "" {
		return "", false
	}
	return q.Str, true
}

func cause(err error) error {
	var ext *errs.ExternalServiceError
	if errors.As(err, &ext) && ext.Err != nil {
		return ext.Err
	}
	return err
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
