package bootstrap

import (
	"context"
	"errors"

	kms "cloud.google.com/go/kms/apiv1"
)

func InitKMS(ctx context.Context, keyName string) (*kms.KeyManagementClient, error) {
	if keyName == "" {
		return nil, errors.New("KMSKEYNAME is required")
	}
	return kms.NewKeyManagementClient(ctx)
}
