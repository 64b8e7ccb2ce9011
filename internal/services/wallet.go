package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/GregMSThompson/vending-backend/internal/dto"
	"github.com/GregMSThompson/vending-backend/pkg/logger"
)

type walletProvisioner interface {
	CreateWalletSet(ctx context.Context, name string) (string, error)
	CreateWallets(ctx context.Context, params dto.CreateWalletsParams) ([]dto.Wallet, error)
}

type walletService struct {
	Wallets walletProvisioner
}

func NewWalletService(wallets walletProvisioner) *walletService {
	return &walletService{Wallets: wallets}
}

// Provision creates a named wallet set and a single wallet inside it.
// Nothing is persisted locally, so a failure midway needs no cleanup.
func (s *walletService) Provision(ctx context.Context, req dto.ProvisionRequest) (dto.ProvisionedWallet, error) {
	log := logger.FromContext(ctx)

	setID, err := s.Wallets.CreateWalletSet(ctx, req.WalletSetName)
	if err != nil {
		return dto.ProvisionedWallet{}, fmt.Errorf("create wallet set: %w", err)
	}
	log.Info("wallet set created", "wallet_set_id", setID)

	accountType := req.AccountType
	if accountType == "" {
		accountType = dto.AccountTypeSCA
	}

	wallets, err := s.Wallets.CreateWallets(ctx, dto.CreateWalletsParams{
		WalletSetID: setID,
		AccountType: accountType,
		Blockchains: []string{req.Blockchain},
		Count:       1,
	})
	if err != nil {
		return dto.ProvisionedWallet{}, fmt.Errorf("create wallet: %w", err)
	}
	if len(wallets) == 0 {
		return dto.ProvisionedWallet{}, errors.New("create wallet: provider returned no wallets")
	}

	log.Info("wallet created", "wallet_id", wallets[0].ID, "blockchain", wallets[0].Blockchain)
	return dto.ProvisionedWallet{WalletSetID: setID, Wallet: wallets[0]}, nil
}
