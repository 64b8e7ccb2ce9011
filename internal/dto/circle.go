package dto

type AccountType string

const (
	AccountTypeSCA AccountType = "SCA"
	AccountTypeEOA AccountType = "EOA"
)

type CreateWalletsParams struct {
	WalletSetID string
	AccountType AccountType
	Blockchains []string
	Count       int
}

type Wallet struct {
	ID          string `json:"id"`
	Address     string `json:"address"`
	Blockchain  string `json:"blockchain"`
	WalletSetID string `json:"walletSetId"`
	AccountType string `json:"accountType"`
	State       string `json:"state"`
}

type ProvisionRequest struct {
	WalletSetName string
	AccountType   AccountType
	Blockchain    string
}

type ProvisionedWallet struct {
	WalletSetID string
	Wallet      Wallet
}

type EntitySecretResult struct {
	Secret           string
	Registered       bool
	RecoveryFilePath string
	BackupSecretName string
}
