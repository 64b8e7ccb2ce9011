package bootstrap

import (
	"context"
	"errors"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"

	"github.com/GregMSThompson/vending-backend/internal/config"
	"github.com/GregMSThompson/vending-backend/internal/store"
)

type SecretResolver interface {
	Resolve(ctx context.Context, value string) (string, error)
}

func InitSecretManager(ctx context.Context, projectID string) (*secretmanager.Client, error) {
	if projectID == "" {
		return nil, errors.New("PROJECTID is required to resolve sm:// credentials")
	}
	return secretmanager.NewClient(ctx)
}

type unavailableResolver struct{}

func (unavailableResolver) Resolve(_ context.Context, value string) (string, error) {
	if strings.HasPrefix(value, config.SecretRefPrefix) {
		return "", errors.New("secret manager is not available")
	}
	return value, nil
}

// NewSecretResolver resolves sm:// values through Secret Manager. With no
// client every reference fails.
func NewSecretResolver(client *secretmanager.Client, projectID string) SecretResolver {
	if client == nil {
		return unavailableResolver{}
	}
	return store.NewSecretsStore(client, projectID)
}

// ResolveCredentials rewrites sm:// references in cfg with their secret
// values. Failures are keyed by env var name and leave the field empty.
func ResolveCredentials(ctx context.Context, r SecretResolver, cfg *config.Config) map[string]error {
	failed := make(map[string]error)
	for name, field := range cfg.SecretFields() {
		if !strings.HasPrefix(*field, config.SecretRefPrefix) {
			continue
		}
		v, err := r.Resolve(ctx, *field)
		if err != nil {
			failed[name] = err
			*field = ""
			continue
		}
		*field = v
	}
	return failed
}

// ResolveWithSecretManager opens a short-lived Secret Manager client for the
// one-shot commands. It is a no-op when cfg holds no sm:// values.
func ResolveWithSecretManager(ctx context.Context, cfg *config.Config) (map[string]error, error) {
	if !config.HasSecretRefs(cfg) {
		return nil, nil
	}
	sm, err := InitSecretManager(ctx, cfg.ProjectID)
	if err != nil {
		return nil, err
	}
	defer sm.Close()
	return ResolveCredentials(ctx, NewSecretResolver(sm, cfg.ProjectID), cfg), nil
}
