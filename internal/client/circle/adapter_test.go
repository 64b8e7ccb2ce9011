package circleclient

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/GregMSThompson/vending-backend/internal/dto"
)

const testSecret = "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"

type fakeCircle struct {
	mu       sync.Mutex
	key      *rsa.PrivateKey
	requests map[string]map[string]any
	fail     map[string]int
}

func newFakeCircle(t *testing.T) *fakeCircle {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return &fakeCircle{key: key, requests: map[string]map[string]any{}, fail: map[string]int{}}
}

func (f *fakeCircle) request(path string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[path]
}

func (f *fakeCircle) publicPEM(t *testing.T) string {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(&f.key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func (f *fakeCircle) decrypt(t *testing.T, ciphertext string) []byte {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		t.Fatalf("decode ciphertext: %v", err)
	}
	plain, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, f.key, raw, nil)
	if err != nil {
		t.Fatalf("decrypt ciphertext: %v", err)
	}
	return plain
}

func (f *fakeCircle) server(t *testing.T) *httptest.Server {
	t.Helper()
	pub := f.publicPEM(t)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer TEST_API_KEY" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":401,"message":"Malformed authorization."}`))
			return
		}
		if status, ok := f.fail[r.URL.Path]; ok {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"code":156004,"message":"entity secret ciphertext was reused"}`))
			return
		}
		if r.Method == http.MethodPost {
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.mu.Lock()
			f.requests[r.URL.Path] = body
			f.mu.Unlock()
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/w3s/config/entity/publicKey":
			_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"publicKey": pub}})
		case "/v1/w3s/developer/walletSets":
			_, _ = w.Write([]byte(`{"data":{"walletSet":{"id":"ws-1","custodyType":"DEVELOPER"}}}`))
		case "/v1/w3s/developer/wallets":
			_, _ = w.Write([]byte(`{"data":{"wallets":[{"id":"w-1","address":"0xabc","blockchain":"ARC-TESTNET","walletSetId":"ws-1","accountType":"SCA","state":"LIVE"}]}}`))
		case "/v1/w3s/config/entity/entitySecret":
			_, _ = w.Write([]byte(`{"data":{"recoveryFile":"recovery-blob"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestNewAdapterValidatesEntitySecret(t *testing.T) {
	if _, err := NewAdapter("", testSecret); err == nil {
		t.Fatalf("expected error without api key")
	}
	if _, err := NewAdapter("TEST_API_KEY", "not-hex"); err == nil {
		t.Fatalf("expected error for non-hex secret")
	}
	if _, err := NewAdapter("TEST_API_KEY", "abcd"); err == nil {
		t.Fatalf("expected error for short secret")
	}
	if _, err := NewAdapter("TEST_API_KEY", ""); err != nil {
		t.Fatalf("empty secret should be allowed for registration-only use: %v", err)
	}
}

func TestCreateWalletSetAndWallets(t *testing.T) {
	fake := newFakeCircle(t)
	srv := fake.server(t)
	defer srv.Close()

	a, err := NewAdapter("TEST_API_KEY", testSecret, WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewAdapter: %v", err)
	}

	id, err := a.CreateWalletSet(t.Context(), "Server Wallets")
	if err != nil {
		t.Fatalf("CreateWalletSet: %v", err)
	}
	if id != "ws-1" {
		t.Fatalf("wallet set id = %q", id)
	}

	setReq := fake.request("/v1/w3s/developer/walletSets")
	if setReq["name"] != "Server Wallets" || setReq["idempotencyKey"] == "" {
		t.Fatalf("unexpected wallet set request: %+v", setReq)
	}
	plain := fake.decrypt(t, setReq["entitySecretCiphertext"].(string))
	if hex.EncodeToString(plain) != testSecret {
		t.Fatalf("ciphertext does not decrypt to the entity secret")
	}

	wallets, err := a.CreateWallets(t.Context(), dto.CreateWalletsParams{
		WalletSetID: id,
		AccountType: dto.AccountTypeSCA,
		Blockchains: []string{"ARC-TESTNET"},
	})
	if err != nil {
		t.Fatalf("CreateWallets: %v", err)
	}
	if len(wallets) != 1 || wallets[0].Address != "0xabc" || wallets[0].Blockchain != "ARC-TESTNET" {
		t.Fatalf("unexpected wallets: %+v", wallets)
	}

	walletReq := fake.request("/v1/w3s/developer/wallets")
	if walletReq["accountType"] != "SCA" || walletReq["walletSetId"] != "ws-1" || walletReq["count"] != float64(1) {
		t.Fatalf("unexpected wallets request: %+v", walletReq)
	}
	if walletReq["entitySecretCiphertext"] == setReq["entitySecretCiphertext"] {
		t.Fatalf("ciphertext must not be reused between requests")
	}
}

func TestCreateWalletSetAPIError(t *testing.T) {
	fake := newFakeCircle(t)
	fake.fail["/v1/w3s/developer/walletSets"] = http.StatusBadRequest
	srv := fake.server(t)
	defer srv.Close()

	a, _ := NewAdapter("TEST_API_KEY", testSecret, WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	_, err := a.CreateWalletSet(t.Context(), "Server Wallets")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T (%v)", err, err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Code != 156004 {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
	if !strings.Contains(apiErr.Error(), "reused") {
		t.Fatalf("message not surfaced: %q", apiErr.Error())
	}
}

func TestWalletOperationsRequireEntitySecret(t *testing.T) {
	a, _ := NewAdapter("TEST_API_KEY", "")
	if _, err := a.CreateWalletSet(t.Context(), "x"); err == nil {
		t.Fatalf("expected error without entity secret")
	}
}

func TestRegisterEntitySecret(t *testing.T) {
	fake := newFakeCircle(t)
	srv := fake.server(t)
	defer srv.Close()

	a, _ := NewAdapter("TEST_API_KEY", "", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	recovery, err := a.RegisterEntitySecret(t.Context(), testSecret)
	if err != nil {
		t.Fatalf("RegisterEntitySecret: %v", err)
	}
	if recovery != "recovery-blob" {
		t.Fatalf("recovery file = %q", recovery)
	}

	req := fake.request("/v1/w3s/config/entity/entitySecret")
	plain := fake.decrypt(t, req["entitySecretCiphertext"].(string))
	if hex.EncodeToString(plain) != testSecret {
		t.Fatalf("registered ciphertext does not match secret")
	}
}

func TestGenerateEntitySecret(t *testing.T) {
	a, err := GenerateEntitySecret()
	if err != nil {
		t.Fatalf("GenerateEntitySecret: %v", err)
	}
	b, _ := GenerateEntitySecret()

	if len(a) != 64 {
		t.Fatalf("secret length = %d, want 64", len(a))
	}
	if _, err := hex.DecodeString(a); err != nil {
		t.Fatalf("secret is not hex: %v", err)
	}
	if a == b {
		t.Fatalf("two generated secrets must differ")
	}
}

func TestEncryptEntitySecretRejectsGarbage(t *testing.T) {
	if _, err := EncryptEntitySecret("not a pem", []byte("x")); err == nil {
		t.Fatalf("expected error for non-PEM key")
	}
}
