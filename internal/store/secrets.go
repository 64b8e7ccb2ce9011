package store

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/vending-backend/internal/config"
)

type secretManagerAPI interface {
	GetSecret(ctx context.Context, req *secretmanagerpb.GetSecretRequest, opts ...gax.CallOption) (*secretmanagerpb.Secret, error)
	CreateSecret(ctx context.Context, req *secretmanagerpb.CreateSecretRequest, opts ...gax.CallOption) (*secretmanagerpb.Secret, error)
	AddSecretVersion(ctx context.Context, req *secretmanagerpb.AddSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.SecretVersion, error)
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

type secretsStore struct {
	client    secretManagerAPI
	projectID string
}

func NewSecretsStore(client *secretmanager.Client, projectID string) *secretsStore {
	return newSecretsStore(client, projectID)
}

func newSecretsStore(client secretManagerAPI, projectID string) *secretsStore {
	return &secretsStore{client: client, projectID: projectID}
}

func (s *secretsStore) secretName(secretID string) string {
	return fmt.Sprintf("projects/%s/secrets/%s", s.projectID, secretID)
}

// versionName accepts a bare secret id, "id/versions/N", or a full
// resource name.
func (s *secretsStore) versionName(ref string) string {
	if strings.HasPrefix(ref, "projects/") {
		if strings.Contains(ref, "/versions/") {
			return ref
		}
		return ref + "/versions/latest"
	}
	if strings.Contains(ref, "/versions/") {
		return fmt.Sprintf("projects/%s/secrets/%s", s.projectID, ref)
	}
	return fmt.Sprintf("%s/versions/latest", s.secretName(ref))
}

func (s *secretsStore) ensureSecret(ctx context.Context, secretID string) error {
	_, err := s.client.GetSecret(ctx, &secretmanagerpb.GetSecretRequest{Name: s.secretName(secretID)})
	if status.Code(err) == codes.NotFound {
		_, err = s.client.CreateSecret(ctx, &secretmanagerpb.CreateSecretRequest{
			Parent:   fmt.Sprintf("projects/%s", s.projectID),
			SecretId: secretID,
			Secret: &secretmanagerpb.Secret{
				Replication: &secretmanagerpb.Replication{
					Replication: &secretmanagerpb.Replication_Automatic_{Automatic: &secretmanagerpb.Replication_Automatic{}},
				},
			},
		})
	}
	return err
}

// StoreSecret adds a new version, creating the secret on first use.
func (s *secretsStore) StoreSecret(ctx context.Context, secretID, value string) (string, error) {
	if err := s.ensureSecret(ctx, secretID); err != nil {
		return "", err
	}
	v, err := s.client.AddSecretVersion(ctx, &secretmanagerpb.AddSecretVersionRequest{
		Parent: s.secretName(secretID),
		Payload: &secretmanagerpb.SecretPayload{
			Data: []byte(value),
		},
	})
	if err != nil {
		return "", err
	}
	return v.GetName(), nil
}

func (s *secretsStore) GetSecret(ctx context.Context, ref string) (string, error) {
	res, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: s.versionName(ref),
	})
	if err != nil {
		return "", err
	}
	return string(res.GetPayload().GetData()), nil
}

// Resolve returns value unchanged unless it is an sm:// reference.
func (s *secretsStore) Resolve(ctx context.Context, value string) (string, error) {
	ref, ok := strings.CutPrefix(value, config.SecretRefPrefix)
	if !ok {
		return value, nil
	}
	secret, err := s.GetSecret(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("resolve secret %q: %w", ref, err)
	}
	return strings.TrimSpace(secret), nil
}
