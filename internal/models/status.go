package models

import "github.com/GregMSThompson/vending-backend/internal/config"

type IntegrationStatus string

const (
	StatusConnected          IntegrationStatus = "connected"
	StatusDisconnected       IntegrationStatus = "disconnected"
	StatusReady              IntegrationStatus = "ready"
	StatusPendingCredentials IntegrationStatus = "pending_credentials"
	StatusConfigError        IntegrationStatus = "config_error"
)

// Usable reports whether the integration finished construction.
func (s IntegrationStatus) Usable() bool {
	return s == StatusConnected || s == StatusReady
}

// ServiceStatus is computed once during bootstrap and only read afterwards.
type ServiceStatus struct {
	AI          IntegrationStatus
	Payment     IntegrationStatus
	Wallet      IntegrationStatus
	Credentials config.Credentials
}
