package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	circleclient "github.com/GregMSThompson/vending-backend/internal/client/circle"
	"github.com/GregMSThompson/vending-backend/internal/config"
	"github.com/GregMSThompson/vending-backend/internal/dto"
	"github.com/GregMSThompson/vending-backend/pkg/helpers"
)

type stubProvisioner struct {
	setName string
	params  dto.CreateWalletsParams
	setErr  error
	wallets []dto.Wallet
}

func (s *stubProvisioner) CreateWalletSet(_ context.Context, name string) (string, error) {
	s.setName = name
	return "ws-1", s.setErr
}

func (s *stubProvisioner) CreateWallets(_ context.Context, params dto.CreateWalletsParams) ([]dto.Wallet, error) {
	s.params = params
	return s.wallets, nil
}

func circleConfig() *config.Config {
	return &config.Config{
		CircleAPIKey:       "TEST_API_KEY:abc:def",
		CircleEntitySecret: strings.Repeat("ab", 32),
	}
}

func factory(p walletProvisioner) provisionerFactory {
	return func(*config.Config) (walletProvisioner, error) { return p, nil }
}

func TestRunPrintsAddress(t *testing.T) {
	p := &stubProvisioner{wallets: []dto.Wallet{{ID: "w-1", Address: "0xfeed", Blockchain: "ARC-TESTNET"}}}
	var out bytes.Buffer

	code := run(helpers.TestCtx(), []string{"-name", "demo"}, circleConfig(), &out, factory(p))

	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if p.setName != "demo" {
		t.Fatalf("wallet set name = %q", p.setName)
	}
	if p.params.AccountType != dto.AccountTypeSCA || len(p.params.Blockchains) != 1 || p.params.Blockchains[0] != "ARC-TESTNET" {
		t.Fatalf("unexpected params: %+v", p.params)
	}
	if !strings.Contains(out.String(), "SERVER_WALLET_ADDRESS=0xfeed") {
		t.Fatalf("address missing from output: %q", out.String())
	}
}

func TestRunVendorErrorPrintsNoAddress(t *testing.T) {
	p := &stubProvisioner{setErr: &circleclient.APIError{StatusCode: 401, Code: 401, Message: "Malformed authorization."}}
	var out bytes.Buffer

	code := run(helpers.TestCtx(), nil, circleConfig(), &out, factory(p))

	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if strings.Contains(out.String(), "address") {
		t.Fatalf("no address expected on failure: %q", out.String())
	}
}

func TestRunRequiresCredentials(t *testing.T) {
	called := false
	newP := func(*config.Config) (walletProvisioner, error) {
		called = true
		return nil, errors.New("unreachable")
	}

	cfg := circleConfig()
	cfg.CircleAPIKey = "your_circle_api_key_here"
	if code := run(helpers.TestCtx(), nil, cfg, &bytes.Buffer{}, newP); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}

	cfg = circleConfig()
	cfg.CircleEntitySecret = ""
	if code := run(helpers.TestCtx(), nil, cfg, &bytes.Buffer{}, newP); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if called {
		t.Fatalf("client must not be built without credentials")
	}
}

func TestRunRejectsAccountType(t *testing.T) {
	code := run(helpers.TestCtx(), []string{"-account-type", "MPC"}, circleConfig(), &bytes.Buffer{}, factory(&stubProvisioner{}))
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}
