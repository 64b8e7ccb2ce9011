package circleclient

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/GregMSThompson/vending-backend/internal/dto"
)

const defaultBaseURL = "https://api.circle.com"

// APIError is a non-2xx answer from Circle. Body keeps the raw payload for
// operator diagnostics.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("circle api %d: %s (code %d)", e.StatusCode, e.Message, e.Code)
	}
	return fmt.Sprintf("circle api %d", e.StatusCode)
}

type Adapter struct {
	baseURL      string
	apiKey       string
	entitySecret []byte
	httpDo       *http.Client
	newID        func() string
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

// NewAdapter validates the credentials up front. entitySecret may be empty
// for callers that only register a new secret.
func NewAdapter(apiKey, entitySecret string, opts ...Option) (*Adapter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("circle api key is required")
	}

	a := &Adapter{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		httpDo:  http.DefaultClient,
		newID:   func() string { return uuid.NewString() },
	}

	if entitySecret != "" {
		secret, err := decodeEntitySecret(entitySecret)
		if err != nil {
			return nil, err
		}
		a.entitySecret = secret
	}

	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Adapter) CreateWalletSet(ctx context.Context, name string) (string, error) {
	ciphertext, err := a.ciphertext(ctx)
	if err != nil {
		return "", err
	}

	var out struct {
		Data struct {
			WalletSet struct {
				ID string `json:"id"`
			} `json:"walletSet"`
		} `json:"data"`
	}
	err = a.do(ctx, http.MethodPost, "/v1/w3s/developer/walletSets", map[string]any{
		"idempotencyKey":         a.newID(),
		"name":                   name,
		"entitySecretCiphertext": ciphertext,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.Data.WalletSet.ID == "" {
		return "", errors.New("circle api: wallet set id missing from response")
	}
	return out.Data.WalletSet.ID, nil
}

func (a *Adapter) CreateWallets(ctx context.Context, params dto.CreateWalletsParams) ([]dto.Wallet, error) {
	ciphertext, err := a.ciphertext(ctx)
	if err != nil {
		return nil, err
	}

	count := params.Count
	if count <= 0 {
		count = 1
	}

	var out struct {
		Data struct {
			Wallets []dto.Wallet `json:"wallets"`
		} `json:"data"`
	}
	err = a.do(ctx, http.MethodPost, "/v1/w3s/developer/wallets", map[string]any{
		"idempotencyKey":         a.newID(),
		"accountType":            params.AccountType,
		"blockchains":            params.Blockchains,
		"count":                  count,
		"walletSetId":            params.WalletSetID,
		"entitySecretCiphertext": ciphertext,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Data.Wallets, nil
}

// RegisterEntitySecret registers the ciphertext of a freshly generated
// secret and returns the recovery file Circle issues for it.
func (a *Adapter) RegisterEntitySecret(ctx context.Context, entitySecret string) (string, error) {
	secret, err := decodeEntitySecret(entitySecret)
	if err != nil {
		return "", err
	}
	publicKey, err := a.PublicKey(ctx)
	if err != nil {
		return "", err
	}
	ciphertext, err := EncryptEntitySecret(publicKey, secret)
	if err != nil {
		return "", err
	}

	var out struct {
		Data struct {
			RecoveryFile string `json:"recoveryFile"`
		} `json:"data"`
	}
	err = a.do(ctx, http.MethodPost, "/v1/w3s/config/entity/entitySecret", map[string]any{
		"entitySecretCiphertext": ciphertext,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Data.RecoveryFile, nil
}

func (a *Adapter) PublicKey(ctx context.Context) (string, error) {
	var out struct {
		Data struct {
			PublicKey string `json:"publicKey"`
		} `json:"data"`
	}
	if err := a.do(ctx, http.MethodGet, "/v1/w3s/config/entity/publicKey", nil, &out); err != nil {
		return "", err
	}
	if out.Data.PublicKey == "" {
		return "", errors.New("circle api: entity public key missing from response")
	}
	return out.Data.PublicKey, nil
}

// ciphertext must be regenerated for every mutating request; Circle rejects
// reused ciphertexts.
func (a *Adapter) ciphertext(ctx context.Context) (string, error) {
	if len(a.entitySecret) == 0 {
		return "", errors.New("circle entity secret is required for wallet operations")
	}
	publicKey, err := a.PublicKey(ctx)
	if err != nil {
		return "", err
	}
	return EncryptEntitySecret(publicKey, a.entitySecret)
}

func (a *Adapter) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpDo.Do(req)
	if err != nil {
		return fmt.Errorf("circle api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("circle api %s %s: read response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		var payload struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &payload) == nil {
			apiErr.Code = payload.Code
			apiErr.Message = payload.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func decodeEntitySecret(secret string) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(secret))
	if err != nil {
		return nil, fmt.Errorf("circle entity secret must be hex encoded: %w", err)
	}
	if len(raw) != EntitySecretBytes {
		return nil, fmt.Errorf("circle entity secret must be %d hex characters, got %d", EntitySecretBytes*2, len(strings.TrimSpace(secret)))
	}
	return raw, nil
}
