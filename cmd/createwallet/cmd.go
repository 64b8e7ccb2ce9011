package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/GregMSThompson/vending-backend/internal/bootstrap"
	circleclient "github.com/GregMSThompson/vending-backend/internal/client/circle"
	"github.com/GregMSThompson/vending-backend/internal/config"
	"github.com/GregMSThompson/vending-backend/internal/dto"
	"github.com/GregMSThompson/vending-backend/internal/services"
	"github.com/GregMSThompson/vending-backend/pkg/logger"
)

type walletProvisioner interface {
	CreateWalletSet(ctx context.Context, name string) (string, error)
	CreateWallets(ctx context.Context, params dto.CreateWalletsParams) ([]dto.Wallet, error)
}

type provisionerFactory func(cfg *config.Config) (walletProvisioner, error)

func main() {
	cfg := config.New()
	log := logger.New(cfg.LogLevel, logger.NewConsoleHandler)
	ctx := logger.ToContext(context.Background(), log)

	if err := resolveSecrets(ctx, cfg); err != nil {
		log.Error("credential resolution failed", "error", err)
		os.Exit(1)
	}

	os.Exit(run(ctx, os.Args[1:], cfg, os.Stdout, newCircle))
}

func newCircle(cfg *config.Config) (walletProvisioner, error) {
	return bootstrap.NewCircle(cfg)
}

func resolveSecrets(ctx context.Context, cfg *config.Config) error {
	failed, err := bootstrap.ResolveWithSecretManager(ctx, cfg)
	if err != nil {
		return err
	}
	for _, name := range []string{"CIRCLE_API_KEY", "CIRCLE_ENTITY_SECRET"} {
		if err := failed[name]; err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func run(ctx context.Context, args []string, cfg *config.Config, out io.Writer, newProvisioner provisionerFactory) int {
	log := logger.FromContext(ctx)

	fs := flag.NewFlagSet("createwallet", flag.ContinueOnError)
	fs.SetOutput(out)
	name := fs.String("name", "AI Vending Machine Wallet Set", "wallet set name")
	blockchain := fs.String("blockchain", "ARC-TESTNET", "blockchain to create the wallet on")
	accountType := fs.String("account-type", string(dto.AccountTypeSCA), "wallet account type (SCA or EOA)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	switch dto.AccountType(*accountType) {
	case dto.AccountTypeSCA, dto.AccountTypeEOA:
	default:
		log.Error("invalid account type", "account_type", *accountType)
		return 2
	}

	if config.Classify(cfg.CircleAPIKey) != config.Present {
		log.Error("CIRCLE_API_KEY is not set")
		return 1
	}
	if config.Classify(cfg.CircleEntitySecret) != config.Present {
		log.Error("CIRCLE_ENTITY_SECRET is not set; run entitysecret first")
		return 1
	}

	provisioner, err := newProvisioner(cfg)
	if err != nil {
		log.Error("circle client initialization failed", "error", err)
		return 1
	}

	fmt.Fprintf(out, "Creating %s wallet on %s...\n", *accountType, *blockchain)

	res, err := services.NewWalletService(provisioner).Provision(ctx, dto.ProvisionRequest{
		WalletSetName: *name,
		AccountType:   dto.AccountType(*accountType),
		Blockchain:    *blockchain,
	})
	if err != nil {
		logProvisionError(log, err)
		return 1
	}

	fmt.Fprintln(out, "Wallet created")
	fmt.Fprintf(out, "  address:     %s\n", res.Wallet.Address)
	fmt.Fprintf(out, "  blockchain:  %s\n", res.Wallet.Blockchain)
	fmt.Fprintf(out, "  wallet id:   %s\n", res.Wallet.ID)
	fmt.Fprintf(out, "  wallet set:  %s\n", res.WalletSetID)
	fmt.Fprintf(out, "\nSet SERVER_WALLET_ADDRESS=%s\n", res.Wallet.Address)
	return 0
}

func logProvisionError(log *slog.Logger, err error) {
	var apiErr *circleclient.APIError
	if errors.As(err, &apiErr) {
		log.Error("wallet creation failed",
			"error", err,
			"status", apiErr.StatusCode,
			"code", apiErr.Code,
			"details", apiErr.Body)
		return
	}
	log.Error("wallet creation failed", "error", err)
}
