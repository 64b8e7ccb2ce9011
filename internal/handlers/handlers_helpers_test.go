package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GregMSThompson/vending-backend/internal/dto"
	"github.com/GregMSThompson/vending-backend/internal/models"
	"github.com/GregMSThompson/vending-backend/internal/response"
	"github.com/GregMSThompson/vending-backend/pkg/helpers"
)

type stubAI struct {
	called   bool
	question string
	answer   dto.Answer
	err      error
}

func (s *stubAI) Answer(_ context.Context, question string) (dto.Answer, error) {
	s.called = true
	s.question = question
	return s.answer, s.err
}

type stubPayment struct {
	called      bool
	paymentData string
	resourceURL string
	result      dto.SettleResult
	err         error
}

func (s *stubPayment) Settle(_ context.Context, paymentData, resourceURL string) (dto.SettleResult, error) {
	s.called = true
	s.paymentData = paymentData
	s.resourceURL = resourceURL
	return s.result, s.err
}

func (s *stubPayment) Price() string   { return "$0.10" }
func (s *stubPayment) Network() string { return "arc-testnet" }
func (s *stubPayment) PayTo() string   { return "0xabc" }

type stubReceipts struct {
	recorded  []models.Receipt
	recordErr error

	listLimit int
	list      []models.Receipt
	listErr   error
}

func (s *stubReceipts) Record(_ context.Context, receipt models.Receipt) error {
	s.recorded = append(s.recorded, receipt)
	return s.recordErr
}

func (s *stubReceipts) List(_ context.Context, limit int) ([]models.Receipt, error) {
	s.listLimit = limit
	return s.list, s.listErr
}

var fixedNow = time.Date(2025, 11, 3, 9, 30, 15, 123000000, time.UTC)

func testResponseHandler() response.ResponseHandler {
	return response.New(helpers.TestLogger(), false)
}

func readyStatus() models.ServiceStatus {
	return models.ServiceStatus{
		AI:      models.StatusConnected,
		Payment: models.StatusReady,
		Wallet:  models.StatusReady,
	}
}

func newRequest(method, target, body string) *http.Request {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	return req.WithContext(helpers.TestCtx())
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body: %v (%q)", err, rr.Body.String())
	}
	return out
}
