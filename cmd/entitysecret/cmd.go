package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/GregMSThompson/vending-backend/internal/bootstrap"
	circleclient "github.com/GregMSThompson/vending-backend/internal/client/circle"
	"github.com/GregMSThompson/vending-backend/internal/config"
	"github.com/GregMSThompson/vending-backend/internal/crypto"
	"github.com/GregMSThompson/vending-backend/internal/services"
	"github.com/GregMSThompson/vending-backend/internal/store"
	"github.com/GregMSThompson/vending-backend/pkg/logger"
)

type registrar interface {
	RegisterEntitySecret(ctx context.Context, entitySecret string) (string, error)
}

type encrypter interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}

type secretStore interface {
	StoreSecret(ctx context.Context, secretID, value string) (string, error)
	GetSecret(ctx context.Context, ref string) (string, error)
}

// collaborators are built lazily so that a plain run needs no cloud access.
type collaborators struct {
	generate     func() (string, error)
	newRegistrar func(cfg *config.Config) (registrar, error)
	newBackup    func(ctx context.Context, cfg *config.Config) (encrypter, secretStore, func(), error)
}

func main() {
	cfg := config.New()
	log := logger.New(cfg.LogLevel, logger.NewConsoleHandler)
	ctx := logger.ToContext(context.Background(), log)

	failed, err := bootstrap.ResolveWithSecretManager(ctx, cfg)
	if err != nil {
		log.Warn("secret manager unavailable", "error", err)
	}
	if err := failed["CIRCLE_API_KEY"]; err != nil {
		log.Warn("CIRCLE_API_KEY could not be resolved, registration skipped", "error", err)
	}

	os.Exit(run(ctx, os.Args[1:], cfg, os.Stdout, collaborators{
		generate:     circleclient.GenerateEntitySecret,
		newRegistrar: newRegistrar,
		newBackup:    newBackup,
	}))
}

func newRegistrar(cfg *config.Config) (registrar, error) {
	return circleclient.NewAdapter(cfg.CircleAPIKey, "", circleclient.WithBaseURL(cfg.CircleBaseURL))
}

func newBackup(ctx context.Context, cfg *config.Config) (encrypter, secretStore, func(), error) {
	kmsClient, err := bootstrap.InitKMS(ctx, cfg.KMSKeyName)
	if err != nil {
		return nil, nil, nil, err
	}
	sm, err := bootstrap.InitSecretManager(ctx, cfg.ProjectID)
	if err != nil {
		_ = kmsClient.Close()
		return nil, nil, nil, err
	}
	closeAll := func() {
		_ = sm.Close()
		_ = kmsClient.Close()
	}
	return crypto.NewKMS(kmsClient, cfg.KMSKeyName), store.NewSecretsStore(sm, cfg.ProjectID), closeAll, nil
}

func run(ctx context.Context, args []string, cfg *config.Config, out io.Writer, c collaborators) int {
	log := logger.FromContext(ctx)

	fs := flag.NewFlagSet("entitysecret", flag.ContinueOnError)
	fs.SetOutput(out)
	recoveryDir := fs.String("recovery-dir", ".", "directory for the Circle recovery file")
	backup := fs.Bool("backup", false, "store a KMS encrypted copy in Secret Manager")
	restore := fs.Bool("restore", false, "print the secret from the last backup and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	svc := services.NewEntitySecretService(c.generate, *recoveryDir)

	if *backup || *restore {
		enc, secrets, closeAll, err := c.newBackup(ctx, cfg)
		if err != nil {
			log.Error("backup unavailable", "error", err)
			return 1
		}
		defer closeAll()
		svc.WithBackup(enc, secrets)
	}

	if *restore {
		secret, err := svc.Restore(ctx)
		if err != nil {
			log.Error("restore failed", "error", err)
			return 1
		}
		fmt.Fprintf(out, "CIRCLE_ENTITY_SECRET=%s\n", secret)
		return 0
	}

	secret, err := svc.Generate()
	if err != nil {
		log.Error("entity secret generation failed", "error", err)
		return 1
	}

	fmt.Fprintln(out, "Entity secret generated. It is shown only once; store it now.")
	fmt.Fprintf(out, "\nCIRCLE_ENTITY_SECRET=%s\n\n", secret)

	if config.Classify(cfg.CircleAPIKey) == config.Present {
		reg, err := c.newRegistrar(cfg)
		if err != nil {
			log.Error("circle client initialization failed", "error", err)
		} else {
			svc.WithRegistrar(reg)
		}
	}

	if svc.CanRegister() {
		path, err := svc.Register(ctx, secret)
		if err != nil {
			log.Error("entity secret registration failed; the secret above is still valid", "error", err)
		} else {
			fmt.Fprintln(out, "Entity secret registered with Circle.")
			if path != "" {
				fmt.Fprintf(out, "Recovery file saved to %s\n", path)
			}
		}
	} else {
		printManualSteps(out)
	}

	if *backup {
		version, err := svc.Backup(ctx, secret)
		if err != nil {
			log.Error("entity secret backup failed", "error", err)
			return 1
		}
		fmt.Fprintf(out, "Encrypted backup stored as %s\n", version)
	}
	return 0
}

func printManualSteps(out io.Writer) {
	fmt.Fprintln(out, "CIRCLE_API_KEY is not set, so the secret was not registered.")
	fmt.Fprintln(out, "To register it manually:")
	fmt.Fprintln(out, "  1. Open the Circle developer console")
	fmt.Fprintln(out, "  2. Go to Developer Controlled Wallets > Configurator > Entity Secret")
	fmt.Fprintln(out, "  3. Encrypt the secret with the entity public key and paste the ciphertext")
	fmt.Fprintln(out, "  4. Download the recovery file and keep it safe")
	fmt.Fprintln(out, "  5. Set CIRCLE_ENTITY_SECRET and CIRCLE_API_KEY, then run createwallet")
}
