package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/GregMSThompson/vending-backend/internal/config"
	"github.com/GregMSThompson/vending-backend/internal/models"
	"github.com/GregMSThompson/vending-backend/pkg/helpers"
)

func testLog() *slog.Logger {
	return helpers.TestLogger()
}

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestGuard(t *testing.T) {
	cases := []struct {
		name       string
		state      config.CredentialState
		resolveErr error
		buildErr   error
		want       models.IntegrationStatus
		wantBuild  bool
	}{
		{"absent", config.AbsentOrPlaceholder, nil, nil, models.StatusPendingCredentials, false},
		{"resolve failed", config.Present, errors.New("denied"), nil, models.StatusConfigError, false},
		{"build failed", config.Present, nil, errors.New("bad key"), models.StatusConfigError, true},
		{"ready", config.Present, nil, nil, models.StatusReady, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			built := false
			got := guard(testLog(), "svc", tc.state, tc.resolveErr, func() error {
				built = true
				return tc.buildErr
			})
			if got != tc.want {
				t.Fatalf("status = %s, want %s", got, tc.want)
			}
			if built != tc.wantBuild {
				t.Fatalf("build called = %v, want %v", built, tc.wantBuild)
			}
		})
	}
}

type stubResolver struct {
	values map[string]string
}

func (s stubResolver) Resolve(_ context.Context, value string) (string, error) {
	ref := strings.TrimPrefix(value, config.SecretRefPrefix)
	v, ok := s.values[ref]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func TestResolveCredentials(t *testing.T) {
	cfg := config.FromEnv(envMap(map[string]string{
		"THIRDWEB_SECRET_KEY": "sm://thirdweb",
		"CIRCLE_API_KEY":      "sm://missing",
		"GEMINI_API_KEY":      "plain-key",
	}))

	failed := ResolveCredentials(context.Background(), stubResolver{values: map[string]string{"thirdweb": "tw-secret"}}, cfg)

	if cfg.ThirdwebSecretKey != "tw-secret" {
		t.Fatalf("thirdweb key = %q", cfg.ThirdwebSecretKey)
	}
	if cfg.GeminiKey != "plain-key" {
		t.Fatalf("plain values must pass through, got %q", cfg.GeminiKey)
	}
	if cfg.CircleAPIKey != "" {
		t.Fatalf("failed refs must be cleared, got %q", cfg.CircleAPIKey)
	}
	if len(failed) != 1 || failed["CIRCLE_API_KEY"] == nil {
		t.Fatalf("unexpected failures: %v", failed)
	}
}

func TestUnavailableResolver(t *testing.T) {
	var r unavailableResolver
	if _, err := r.Resolve(context.Background(), "sm://x"); err == nil {
		t.Fatalf("expected error for secret ref")
	}
	if v, err := r.Resolve(context.Background(), "plain"); err != nil || v != "plain" {
		t.Fatalf("plain value = %q, %v", v, err)
	}
}

func TestRunWithoutCredentials(t *testing.T) {
	bs, err := Run(config.FromEnv(envMap(nil)))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	defer bs.Close()

	want := models.ServiceStatus{
		AI:      models.StatusDisconnected,
		Payment: models.StatusPendingCredentials,
		Wallet:  models.StatusPendingCredentials,
	}
	if bs.Status.AI != want.AI || bs.Status.Payment != want.Payment || bs.Status.Wallet != want.Wallet {
		t.Fatalf("status = %+v", bs.Status)
	}
	if bs.ThirdwebAdapter != nil || bs.CircleAdapter != nil || bs.VertexAdapter != nil {
		t.Fatalf("no adapters expected")
	}
	if bs.ReceiptsEnabled() {
		t.Fatalf("receipts need firestore and firebase")
	}
}

func TestRunPlaceholdersArePending(t *testing.T) {
	bs, _ := Run(config.FromEnv(envMap(map[string]string{
		"THIRDWEB_SECRET_KEY": "your_thirdweb_secret_key_here",
		"CIRCLE_API_KEY":      "your_circle_api_key_here",
	})))

	if bs.Status.Payment != models.StatusPendingCredentials || bs.Status.Wallet != models.StatusPendingCredentials {
		t.Fatalf("status = %+v", bs.Status)
	}
}

func TestRunPlaceholderGeminiKeyIsPending(t *testing.T) {
	bs, _ := Run(config.FromEnv(envMap(map[string]string{
		"PROJECTID":      "demo-project",
		"GEMINI_API_KEY": "your_gemini_api_key_here",
	})))
	defer bs.Close()

	if bs.Status.AI != models.StatusDisconnected || bs.VertexAdapter != nil {
		t.Fatalf("ai = %s, adapter built = %v", bs.Status.AI, bs.VertexAdapter != nil)
	}
	if bs.Status.Credentials.Vertex != config.AbsentOrPlaceholder {
		t.Fatalf("vertex credentials = %s", bs.Status.Credentials.Vertex)
	}
}

func TestRunMixedIntegrations(t *testing.T) {
	bs, err := Run(config.FromEnv(envMap(map[string]string{
		"THIRDWEB_SECRET_KEY":   "tw-secret",
		"SERVER_WALLET_ADDRESS": "0x1234",
		"CIRCLE_API_KEY":        "TEST_API_KEY:abc:def",
		"CIRCLE_ENTITY_SECRET":  "not-hex",
	})))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if bs.Status.Payment != models.StatusReady || bs.ThirdwebAdapter == nil {
		t.Fatalf("payment = %s", bs.Status.Payment)
	}
	if bs.Status.Wallet != models.StatusConfigError || bs.CircleAdapter != nil {
		t.Fatalf("wallet = %s", bs.Status.Wallet)
	}
	if bs.Status.Credentials.ServerWallet != config.Present {
		t.Fatalf("server wallet should be classified present")
	}
}

func TestRunSecretRefWithoutProject(t *testing.T) {
	bs, _ := Run(config.FromEnv(envMap(map[string]string{
		"THIRDWEB_SECRET_KEY": "sm://thirdweb",
	})))

	if bs.Status.Payment != models.StatusConfigError {
		t.Fatalf("payment = %s, want config_error", bs.Status.Payment)
	}
}
