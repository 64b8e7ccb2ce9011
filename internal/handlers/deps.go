package handlers

import (
	"context"
	"log/slog"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/vending-backend/internal/dto"
	"github.com/GregMSThompson/vending-backend/internal/models"
	"github.com/GregMSThompson/vending-backend/internal/response"
)

type AIService interface {
	Answer(ctx context.Context, question string) (dto.Answer, error)
}

type PaymentService interface {
	Settle(ctx context.Context, paymentData, resourceURL string) (dto.SettleResult, error)
	Price() string
	Network() string
	PayTo() string
}

type ReceiptService interface {
	Record(ctx context.Context, receipt models.Receipt) error
	List(ctx context.Context, limit int) ([]models.Receipt, error)
}

// Deps is filled once at startup. Service fields stay nil when the matching
// integration did not initialize.
type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Status          models.ServiceStatus
	Model           string
	AISvc           AIService
	PaymentSvc      PaymentService
	ReceiptSvc      ReceiptService
	Firebase        *auth.Client
}
