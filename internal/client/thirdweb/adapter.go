package thirdwebclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/GregMSThompson/vending-backend/internal/dto"
)

const (
	defaultBaseURL = "https://api.thirdweb.com"
	settlePath     = "/v1/payments/x402/settle"
	x402Version    = 1
	usdcDecimals   = 6
)

type Adapter struct {
	baseURL      string
	secretKey    string
	serverWallet string
	asset        string
	waitUntil    string
	httpDo       *http.Client
}

type Option func(*Adapter)

func WithBaseURL(u string) Option {
	return func(a *Adapter) {
		if u != "" {
			a.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(a *Adapter) { a.httpDo = c }
}

// WithAsset sets the token contract advertised in payment requirements.
func WithAsset(asset string) Option {
	return func(a *Adapter) { a.asset = asset }
}

// NewAdapter configures a facilitator that settles into serverWallet and
// waits for on-chain confirmation.
func NewAdapter(secretKey, serverWallet string, opts ...Option) (*Adapter, error) {
	if strings.TrimSpace(secretKey) == "" {
		return nil, errors.New("thirdweb secret key is required")
	}
	if serverWallet == "" {
		serverWallet = "0x"
	}

	a := &Adapter{
		baseURL:      defaultBaseURL,
		secretKey:    secretKey,
		serverWallet: serverWallet,
		waitUntil:    "confirmed",
		httpDo:       http.DefaultClient,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

type settleBody struct {
	X402Version         int                     `json:"x402Version"`
	PaymentPayload      json.RawMessage         `json:"paymentPayload"`
	PaymentRequirements dto.PaymentRequirements `json:"paymentRequirements"`
	WaitUntil           string                  `json:"waitUntil"`
	ServerWalletAddress string                  `json:"serverWalletAddress"`
}

// Settle verifies and settles one x-payment proof. Rejections are reported
// through the result status and body; the returned error is reserved for
// failures to reach the facilitator at all.
func (a *Adapter) Settle(ctx context.Context, req dto.SettleRequest) (dto.SettleResult, error) {
	requirements, err := a.requirements(req)
	if err != nil {
		return dto.SettleResult{}, err
	}

	payload, err := decodePaymentHeader(req.PaymentData)
	if err != nil {
		return paymentRequired(requirements, "Invalid payment data: "+err.Error())
	}

	data, err := json.Marshal(settleBody{
		X402Version:         x402Version,
		PaymentPayload:      payload,
		PaymentRequirements: requirements,
		WaitUntil:           a.waitUntil,
		ServerWalletAddress: a.serverWallet,
	})
	if err != nil {
		return dto.SettleResult{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+settlePath, bytes.NewReader(data))
	if err != nil {
		return dto.SettleResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-secret-key", a.secretKey)

	resp, err := a.httpDo.Do(httpReq)
	if err != nil {
		return dto.SettleResult{}, fmt.Errorf("x402 settle: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return dto.SettleResult{}, fmt.Errorf("x402 settle: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if gjson.ValidBytes(body) && len(bytes.TrimSpace(body)) > 0 {
			return dto.SettleResult{Status: resp.StatusCode, ResponseBody: body}, nil
		}
		return paymentRequiredWithStatus(resp.StatusCode, requirements,
			fmt.Sprintf("facilitator responded %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	if !gjson.ValidBytes(body) {
		return dto.SettleResult{}, fmt.Errorf("x402 settle: facilitator returned invalid json")
	}

	result := gjson.ParseBytes(body)
	if !result.Get("success").Bool() {
		reason := result.Get("errorReason").String()
		if reason == "" {
			reason = "payment settlement failed"
		}
		return paymentRequired(requirements, reason)
	}

	return dto.SettleResult{
		Status:        http.StatusOK,
		TransactionID: result.Get("transaction").String(),
		ResponseBody:  body,
	}, nil
}

func (a *Adapter) requirements(req dto.SettleRequest) (dto.PaymentRequirements, error) {
	amount, err := ToAtomicAmount(req.Price, usdcDecimals)
	if err != nil {
		return dto.PaymentRequirements{}, err
	}

	payTo := req.PayTo
	if payTo == "" {
		payTo = a.serverWallet
	}

	return dto.PaymentRequirements{
		Scheme:            "exact",
		Network:           req.Network,
		MaxAmountRequired: amount,
		Resource:          req.ResourceURL,
		Description:       req.Description,
		MimeType:          "application/json",
		PayTo:             payTo,
		MaxTimeoutSeconds: req.MaxTimeoutSeconds,
		Asset:             a.asset,
	}, nil
}

// decodePaymentHeader accepts the base64 encoded JSON payload x402 clients
// send in the x-payment header.
func decodePaymentHeader(header string) (json.RawMessage, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header))
	if err != nil {
		raw, err = base64.RawURLEncoding.DecodeString(strings.TrimSpace(header))
		if err != nil {
			return nil, errors.New("x-payment header is not base64")
		}
	}
	if !gjson.ValidBytes(raw) || !gjson.GetBytes(raw, "payload").Exists() {
		return nil, errors.New("x-payment header is not an x402 payload")
	}
	return raw, nil
}

func paymentRequired(requirements dto.PaymentRequirements, reason string) (dto.SettleResult, error) {
	return paymentRequiredWithStatus(http.StatusPaymentRequired, requirements, reason)
}

func paymentRequiredWithStatus(status int, requirements dto.PaymentRequirements, reason string) (dto.SettleResult, error) {
	body, err := json.Marshal(dto.PaymentRequiredBody{
		X402Version: x402Version,
		Error:       reason,
		Accepts:     []dto.PaymentRequirements{requirements},
	})
	if err != nil {
		return dto.SettleResult{}, err
	}
	return dto.SettleResult{Status: status, ResponseBody: body}, nil
}
