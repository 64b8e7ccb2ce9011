package bootstrap

import (
	"log/slog"

	"github.com/GregMSThompson/vending-backend/internal/config"
	"github.com/GregMSThompson/vending-backend/internal/models"
)

// guard runs build only when the integration has usable credentials and
// turns the outcome into a status. A failed build is logged, never returned.
func guard(log *slog.Logger, service string, state config.CredentialState, resolveErr error, build func() error) models.IntegrationStatus {
	if resolveErr != nil {
		log.Error("credential resolution failed", "service", service, "error", resolveErr)
		return models.StatusConfigError
	}
	if state != config.Present {
		log.Info("awaiting credentials", "service", service)
		return models.StatusPendingCredentials
	}
	if err := build(); err != nil {
		log.Error("client initialization failed", "service", service, "error", err)
		return models.StatusConfigError
	}
	log.Info("client initialized", "service", service)
	return models.StatusReady
}

func firstErr(errs map[string]error, keys ...string) error {
	for _, k := range keys {
		if err := errs[k]; err != nil {
			return err
		}
	}
	return nil
}
