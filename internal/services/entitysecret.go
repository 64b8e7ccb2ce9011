package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/GregMSThompson/vending-backend/pkg/logger"
)

// BackupSecretID is the Secret Manager secret holding the KMS encrypted
// entity secret.
const BackupSecretID = "circle-entity-secret"

type entitySecretRegistrar interface {
	RegisterEntitySecret(ctx context.Context, entitySecret string) (string, error)
}

type secretEncrypter interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}

type secretWriter interface {
	StoreSecret(ctx context.Context, secretID, value string) (string, error)
	GetSecret(ctx context.Context, ref string) (string, error)
}

type entitySecretService struct {
	generate    func() (string, error)
	registrar   entitySecretRegistrar
	encrypter   secretEncrypter
	secrets     secretWriter
	recoveryDir string
	clockNow    func() time.Time
	writeFile   func(name string, data []byte, perm os.FileMode) error
}

func NewEntitySecretService(generate func() (string, error), recoveryDir string) *entitySecretService {
	return &entitySecretService{
		generate:    generate,
		recoveryDir: recoveryDir,
		clockNow:    time.Now,
		writeFile:   os.WriteFile,
	}
}

// WithRegistrar enables automatic registration with the wallet provider.
func (s *entitySecretService) WithRegistrar(r entitySecretRegistrar) *entitySecretService {
	s.registrar = r
	return s
}

// WithBackup enables encrypted backups. Both collaborators are required;
// the plaintext secret is never written to Secret Manager.
func (s *entitySecretService) WithBackup(enc secretEncrypter, secrets secretWriter) *entitySecretService {
	s.encrypter = enc
	s.secrets = secrets
	return s
}

func (s *entitySecretService) CanRegister() bool { return s.registrar != nil }
func (s *entitySecretService) CanBackup() bool   { return s.encrypter != nil && s.secrets != nil }

func (s *entitySecretService) Generate() (string, error) {
	return s.generate()
}

// Register submits the secret's ciphertext and saves the returned recovery
// file. It returns the recovery file path.
func (s *entitySecretService) Register(ctx context.Context, secret string) (string, error) {
	log := logger.FromContext(ctx)

	if s.registrar == nil {
		return "", errors.New("entity secret registration is not configured")
	}

	recovery, err := s.registrar.RegisterEntitySecret(ctx, secret)
	if err != nil {
		return "", fmt.Errorf("register entity secret: %w", err)
	}
	if recovery == "" {
		log.Warn("provider returned no recovery file")
		return "", nil
	}

	name := fmt.Sprintf("recovery_file_%s.dat", s.clockNow().UTC().Format("20060102T150405Z"))
	path := filepath.Join(s.recoveryDir, name)
	if err := s.writeFile(path, []byte(recovery), 0o600); err != nil {
		return "", fmt.Errorf("write recovery file: %w", err)
	}

	log.Info("entity secret registered", "recovery_file", path)
	return path, nil
}

// Backup stores the KMS ciphertext of the secret and returns the secret
// version name.
func (s *entitySecretService) Backup(ctx context.Context, secret string) (string, error) {
	if !s.CanBackup() {
		return "", errors.New("entity secret backup is not configured")
	}

	ciphertext, err := s.encrypter.Encrypt(ctx, secret)
	if err != nil {
		return "", fmt.Errorf("encrypt entity secret: %w", err)
	}
	version, err := s.secrets.StoreSecret(ctx, BackupSecretID, ciphertext)
	if err != nil {
		return "", fmt.Errorf("store entity secret backup: %w", err)
	}

	logger.FromContext(ctx).Info("entity secret backed up", "version", version)
	return version, nil
}

// Restore reads the latest backup and decrypts it.
func (s *entitySecretService) Restore(ctx context.Context) (string, error) {
	if !s.CanBackup() {
		return "", errors.New("entity secret backup is not configured")
	}

	ciphertext, err := s.secrets.GetSecret(ctx, BackupSecretID)
	if err != nil {
		return "", fmt.Errorf("read entity secret backup: %w", err)
	}
	secret, err := s.encrypter.Decrypt(ctx, ciphertext)
	if err != nil {
		return "", fmt.Errorf("decrypt entity secret: %w", err)
	}
	return secret, nil
}
