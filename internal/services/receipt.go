package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/vending-backend/internal/models"
	"github.com/GregMSThompson/vending-backend/pkg/logger"
)

const (
	defaultReceiptLimit = 20
	maxReceiptLimit     = 100
)

type receiptStore interface {
	SaveReceipt(ctx context.Context, receipt *models.Receipt) error
	ListReceipts(ctx context.Context, limit int) ([]models.Receipt, error)
}

type receiptService struct {
	Store    receiptStore
	clockNow func() time.Time
	newID    func() string
}

func NewReceiptService(store receiptStore) *receiptService {
	return &receiptService{
		Store:    store,
		clockNow: time.Now,
		newID:    uuid.NewString,
	}
}

// Record stores a settled paid query. Receipts fall back to a generated id
// when the facilitator reported no transaction id.
func (s *receiptService) Record(ctx context.Context, receipt models.Receipt) error {
	log := logger.FromContext(ctx)

	receipt.ID = receipt.TransactionID
	if receipt.ID == "" {
		receipt.ID = s.newID()
	}
	if receipt.CreatedAt.IsZero() {
		receipt.CreatedAt = s.clockNow().UTC()
	}

	if err := s.Store.SaveReceipt(ctx, &receipt); err != nil {
		log.Error("failed to save receipt", "receipt_id", receipt.ID, "error", err)
		return err
	}

	log.Info("receipt recorded", "receipt_id", receipt.ID)
	return nil
}

func (s *receiptService) List(ctx context.Context, limit int) ([]models.Receipt, error) {
	switch {
	case limit <= 0:
		limit = defaultReceiptLimit
	case limit > maxReceiptLimit:
		limit = maxReceiptLimit
	}
	return s.Store.ListReceipts(ctx, limit)
}
