package services

import (
	"context"
	"net/http"

	"github.com/GregMSThompson/vending-backend/internal/dto"
	"github.com/GregMSThompson/vending-backend/internal/errs"
	"github.com/GregMSThompson/vending-backend/internal/metrics"
	"github.com/GregMSThompson/vending-backend/pkg/logger"
)

const (
	paidQueryDescription = "AI Vending Machine Query"
	paidQueryTimeout     = 300
)

type paymentSettler interface {
	Settle(ctx context.Context, req dto.SettleRequest) (dto.SettleResult, error)
}

type paymentService struct {
	settler paymentSettler
	payTo   string
	network string
	price   string
}

func NewPaymentService(settler paymentSettler, payTo, network, price string) *paymentService {
	return &paymentService{
		settler: settler,
		payTo:   payTo,
		network: network,
		price:   price,
	}
}

func (s *paymentService) Price() string   { return s.price }
func (s *paymentService) Network() string { return s.network }
func (s *paymentService) PayTo() string   { return s.payTo }

// Settle hands the proof to the facilitator. A non-200 result is not an
// error here; the caller relays it.
func (s *paymentService) Settle(ctx context.Context, paymentData, resourceURL string) (dto.SettleResult, error) {
	log := logger.FromContext(ctx)

	res, err := s.settler.Settle(ctx, dto.SettleRequest{
		ResourceURL:       resourceURL,
		Method:            http.MethodPost,
		PaymentData:       paymentData,
		PayTo:             s.payTo,
		Network:           s.network,
		Price:             s.price,
		Description:       paidQueryDescription,
		MaxTimeoutSeconds: paidQueryTimeout,
	})
	if err != nil {
		metrics.IncSettlement(metrics.SettlementError)
		log.Error("x402 settlement failed", "network", s.network, "error", err)
		return dto.SettleResult{}, errs.NewExternalServiceError("x402", "Payment processing failed", err).WithStack()
	}

	if res.Status != http.StatusOK {
		metrics.IncSettlement(metrics.SettlementRejected)
		log.Warn("x402 payment rejected", "status", res.Status)
		return res, nil
	}

	metrics.IncSettlement(metrics.SettlementSettled)
	log.Info("x402 payment settled", "transaction_id", truncate(res.TransactionID, 20))
	return res, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
