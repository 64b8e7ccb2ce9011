package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/vending-backend/internal/config"
	"github.com/GregMSThompson/vending-backend/internal/dto"
	"github.com/GregMSThompson/vending-backend/internal/models"
	"github.com/GregMSThompson/vending-backend/internal/response"
)

type healthHandlers struct {
	ResponseHandler response.ResponseHandler
	Status          models.ServiceStatus
	clockNow        func() time.Time
}

func NewHealthHandlers(deps *Deps) *healthHandlers {
	return &healthHandlers{
		ResponseHandler: deps.ResponseHandler,
		Status:          deps.Status,
		clockNow:        time.Now,
	}
}

func (h *healthHandlers) HealthRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Health)
	return r
}

// Health always answers 200, whatever state the integrations are in.
func (h *healthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	note := "All systems operational"
	if h.Status.Payment == models.StatusPendingCredentials {
		note = "Payment system ready for hackathon credentials"
	}

	creds := h.Status.Credentials
	h.ResponseHandler.WriteJSON(w, r, http.StatusOK, dto.HealthResponse{
		Service:   "AI Vending Machine API",
		Status:    "operational",
		Hackathon: "Arc Agentic Commerce Challenge",
		Track:     "Gateway-Based Micropayments",
		Timestamp: timestamp(h.clockNow()),
		Services: dto.HealthServices{
			GeminiAI:      string(h.Status.AI),
			X402Payments:  string(h.Status.Payment),
			CircleWallets: string(h.Status.Wallet),
			Server:        "running",
		},
		Endpoints: dto.HealthEndpoints{
			FreeAI: "POST /api/ask-free",
			PaidAI: "POST /api/ask-paid (requires x-payment header)",
			Health: "GET /health",
			Docs:   "GET /",
		},
		CredentialsNeeded: dto.CredentialsNeeded{
			Thirdweb:     creds.Thirdweb == config.AbsentOrPlaceholder,
			Circle:       creds.Circle == config.AbsentOrPlaceholder,
			ServerWallet: creds.ServerWallet == config.AbsentOrPlaceholder,
		},
		Note: note,
	})
}
