package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GregMSThompson/vending-backend/internal/config"
	"github.com/GregMSThompson/vending-backend/pkg/helpers"
)

const generated = "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"

type stubRegistrar struct {
	secret string
	err    error
}

func (s *stubRegistrar) RegisterEntitySecret(_ context.Context, secret string) (string, error) {
	s.secret = secret
	return "recovery-blob", s.err
}

type stubEncrypter struct{}

func (stubEncrypter) Encrypt(_ context.Context, plaintext string) (string, error) {
	return "kms:" + plaintext, nil
}

func (stubEncrypter) Decrypt(_ context.Context, ciphertext string) (string, error) {
	return strings.TrimPrefix(ciphertext, "kms:"), nil
}

type memSecrets map[string]string

func (m memSecrets) StoreSecret(_ context.Context, id, value string) (string, error) {
	m[id] = value
	return "projects/p/secrets/" + id + "/versions/1", nil
}

func (m memSecrets) GetSecret(_ context.Context, ref string) (string, error) {
	v, ok := m[ref]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func testCollaborators(reg *stubRegistrar, secrets memSecrets) collaborators {
	return collaborators{
		generate: func() (string, error) { return generated, nil },
		newRegistrar: func(*config.Config) (registrar, error) {
			return reg, nil
		},
		newBackup: func(context.Context, *config.Config) (encrypter, secretStore, func(), error) {
			return stubEncrypter{}, secrets, func() {}, nil
		},
	}
}

func TestRunRegistersWhenKeyPresent(t *testing.T) {
	dir := t.TempDir()
	reg := &stubRegistrar{}
	var out bytes.Buffer

	code := run(helpers.TestCtx(), []string{"-recovery-dir", dir}, &config.Config{CircleAPIKey: "TEST_API_KEY:a:b"}, &out, testCollaborators(reg, nil))

	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if reg.secret != generated {
		t.Fatalf("registered %q", reg.secret)
	}
	if !strings.Contains(out.String(), "CIRCLE_ENTITY_SECRET="+generated) {
		t.Fatalf("secret not printed: %q", out.String())
	}
	files, _ := filepath.Glob(filepath.Join(dir, "recovery_file_*.dat"))
	if len(files) != 1 {
		t.Fatalf("expected one recovery file, got %v", files)
	}
	data, _ := os.ReadFile(files[0])
	if string(data) != "recovery-blob" {
		t.Fatalf("recovery file = %q", data)
	}
}

func TestRunPrintsManualStepsWithoutKey(t *testing.T) {
	reg := &stubRegistrar{}
	var out bytes.Buffer

	code := run(helpers.TestCtx(), nil, &config.Config{CircleAPIKey: "your_circle_api_key_here"}, &out, testCollaborators(reg, nil))

	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if reg.secret != "" {
		t.Fatalf("registration must not run with a placeholder key")
	}
	if !strings.Contains(out.String(), "To register it manually") {
		t.Fatalf("manual steps missing: %q", out.String())
	}
}

func TestRunRegistrationFailureKeepsSecret(t *testing.T) {
	reg := &stubRegistrar{err: errors.New("entity secret already registered")}
	var out bytes.Buffer

	code := run(helpers.TestCtx(), []string{"-recovery-dir", t.TempDir()}, &config.Config{CircleAPIKey: "TEST_API_KEY:a:b"}, &out, testCollaborators(reg, nil))

	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out.String(), generated) {
		t.Fatalf("secret must still be printed")
	}
}

func TestRunBackupAndRestore(t *testing.T) {
	secrets := memSecrets{}
	c := testCollaborators(&stubRegistrar{}, secrets)

	var out bytes.Buffer
	if code := run(helpers.TestCtx(), []string{"-backup"}, &config.Config{}, &out, c); code != 0 {
		t.Fatalf("backup exit code = %d", code)
	}
	if secrets["circle-entity-secret"] != "kms:"+generated {
		t.Fatalf("stored %q", secrets["circle-entity-secret"])
	}

	out.Reset()
	if code := run(helpers.TestCtx(), []string{"-restore"}, &config.Config{}, &out, c); code != 0 {
		t.Fatalf("restore exit code = %d", code)
	}
	if strings.TrimSpace(out.String()) != "CIRCLE_ENTITY_SECRET="+generated {
		t.Fatalf("restore output = %q", out.String())
	}
}

func TestRunBackupUnavailable(t *testing.T) {
	c := testCollaborators(&stubRegistrar{}, nil)
	c.newBackup = func(context.Context, *config.Config) (encrypter, secretStore, func(), error) {
		return nil, nil, nil, errors.New("KMSKEYNAME is required")
	}

	if code := run(helpers.TestCtx(), []string{"-backup"}, &config.Config{}, &bytes.Buffer{}, c); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
}
