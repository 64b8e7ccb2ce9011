package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/GregMSThompson/vending-backend/pkg/helpers"
)

type stubRegistrar struct {
	secret   string
	recovery string
	err      error
}

func (s *stubRegistrar) RegisterEntitySecret(_ context.Context, secret string) (string, error) {
	s.secret = secret
	return s.recovery, s.err
}

type stubEncrypter struct{ plaintext string }

func (s *stubEncrypter) Encrypt(_ context.Context, plaintext string) (string, error) {
	s.plaintext = plaintext
	return "enc(" + plaintext + ")", nil
}

func (s *stubEncrypter) Decrypt(_ context.Context, ciphertext string) (string, error) {
	plain, ok := strings.CutPrefix(ciphertext, "enc(")
	if !ok {
		return "", errors.New("not a ciphertext")
	}
	return strings.TrimSuffix(plain, ")"), nil
}

type stubSecretWriter struct {
	id, value string
}

func (s *stubSecretWriter) StoreSecret(_ context.Context, id, value string) (string, error) {
	s.id, s.value = id, value
	return "projects/p/secrets/" + id + "/versions/1", nil
}

func (s *stubSecretWriter) GetSecret(_ context.Context, ref string) (string, error) {
	if ref != s.id {
		return "", errors.New("secret not found")
	}
	return s.value, nil
}

func fixedSecret() (string, error) { return "ab12", nil }

func TestEntitySecretRegisterWritesRecoveryFile(t *testing.T) {
	dir := t.TempDir()
	reg := &stubRegistrar{recovery: "recovery-blob"}
	svc := NewEntitySecretService(fixedSecret, dir).WithRegistrar(reg)
	svc.clockNow = func() time.Time { return time.Date(2025, time.March, 4, 5, 6, 7, 0, time.UTC) }

	path, err := svc.Register(helpers.TestCtx(), "ab12")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if reg.secret != "ab12" {
		t.Fatalf("registrar got %q", reg.secret)
	}
	if path != filepath.Join(dir, "recovery_file_20250304T050607Z.dat") {
		t.Fatalf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "recovery-blob" {
		t.Fatalf("recovery file contents = %q, %v", data, err)
	}
}

func TestEntitySecretRegisterFailure(t *testing.T) {
	svc := NewEntitySecretService(fixedSecret, t.TempDir()).WithRegistrar(&stubRegistrar{err: errors.New("already registered")})
	if _, err := svc.Register(helpers.TestCtx(), "ab12"); err == nil {
		t.Fatalf("expected registration error")
	}
}

func TestEntitySecretRegisterNotConfigured(t *testing.T) {
	svc := NewEntitySecretService(fixedSecret, t.TempDir())
	if svc.CanRegister() {
		t.Fatalf("registration should be disabled")
	}
	if _, err := svc.Register(helpers.TestCtx(), "ab12"); err == nil {
		t.Fatalf("expected error without registrar")
	}
}

func TestEntitySecretBackupEncryptsFirst(t *testing.T) {
	enc := &stubEncrypter{}
	writer := &stubSecretWriter{}
	svc := NewEntitySecretService(fixedSecret, "").WithBackup(enc, writer)

	version, err := svc.Backup(helpers.TestCtx(), "ab12")
	if err != nil {
		t.Fatalf("Backup error: %v", err)
	}
	if writer.id != BackupSecretID || writer.value != "enc(ab12)" {
		t.Fatalf("stored %q=%q", writer.id, writer.value)
	}
	if version != "projects/p/secrets/circle-entity-secret/versions/1" {
		t.Fatalf("version = %q", version)
	}
}

func TestEntitySecretBackupRequiresBothCollaborators(t *testing.T) {
	svc := NewEntitySecretService(fixedSecret, "").WithBackup(&stubEncrypter{}, nil)
	if svc.CanBackup() {
		t.Fatalf("backup must require a secret writer")
	}
	if _, err := svc.Backup(helpers.TestCtx(), "ab12"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestEntitySecretRestoreRoundTrip(t *testing.T) {
	svc := NewEntitySecretService(fixedSecret, "").WithBackup(&stubEncrypter{}, &stubSecretWriter{})

	if _, err := svc.Restore(helpers.TestCtx()); err == nil {
		t.Fatalf("expected error before any backup exists")
	}
	if _, err := svc.Backup(helpers.TestCtx(), "ab12"); err != nil {
		t.Fatalf("Backup error: %v", err)
	}

	secret, err := svc.Restore(helpers.TestCtx())
	if err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	if secret != "ab12" {
		t.Fatalf("restored %q", secret)
	}
}
