package bootstrap

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"firebase.google.com/go/v4/auth"

	circleclient "github.com/GregMSThompson/vending-backend/internal/client/circle"
	thirdwebclient "github.com/GregMSThompson/vending-backend/internal/client/thirdweb"
	vertexclient "github.com/GregMSThompson/vending-backend/internal/client/vertex"
	"github.com/GregMSThompson/vending-backend/internal/config"
	"github.com/GregMSThompson/vending-backend/internal/models"
	"github.com/GregMSThompson/vending-backend/pkg/logger"
)

// Bootstrap holds every client the service could build. Any of the adapter
// and storage fields may be nil; Status says why.
type Bootstrap struct {
	Log             *slog.Logger
	Status          models.ServiceStatus
	SecretManager   *secretmanager.Client
	VertexAdapter   *vertexclient.Adapter
	ThirdwebAdapter *thirdwebclient.Adapter
	CircleAdapter   *circleclient.Adapter
	Firestore       *firestore.Client
	Firebase        *auth.Client
}

// Run never fails on a missing or broken integration. The service has to
// come up and report its state on /health even with nothing configured.
func Run(cfg *config.Config) (*Bootstrap, error) {
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	log := bs.Log

	var resolveErrs map[string]error
	if config.HasSecretRefs(cfg) {
		var err error
		bs.SecretManager, err = InitSecretManager(applicationCtx, cfg.ProjectID)
		if err != nil {
			log.Error("secret manager unavailable", "error", err)
		}
		resolveErrs = ResolveCredentials(applicationCtx, NewSecretResolver(bs.SecretManager, cfg.ProjectID), cfg)
	}

	creds := cfg.Credentials()
	bs.Status.Credentials = creds

	aiStatus := guard(log, "gemini", creds.Vertex, firstErr(resolveErrs, "GEMINI_API_KEY"), func() error {
		var err error
		bs.VertexAdapter, err = vertexclient.NewAdapter(applicationCtx, log, cfg.ProjectID, cfg.Region, cfg.VertexModel, cfg.GeminiKey)
		return err
	})
	bs.Status.AI = models.StatusDisconnected
	if aiStatus == models.StatusReady {
		bs.Status.AI = models.StatusConnected
	}

	bs.Status.Payment = guard(log, "x402", creds.Thirdweb, firstErr(resolveErrs, "THIRDWEB_SECRET_KEY", "SERVER_WALLET_ADDRESS"), func() error {
		var err error
		bs.ThirdwebAdapter, err = NewThirdweb(cfg)
		return err
	})

	bs.Status.Wallet = guard(log, "circle", creds.Circle, firstErr(resolveErrs, "CIRCLE_API_KEY", "CIRCLE_ENTITY_SECRET"), func() error {
		var err error
		bs.CircleAdapter, err = NewCircle(cfg)
		return err
	})

	if cfg.ProjectID != "" {
		if fs, err := InitFirestore(applicationCtx, cfg.ProjectID, cfg.FirestoreDatabase); err != nil {
			log.Warn("firestore unavailable, receipts disabled", "error", err)
		} else {
			bs.Firestore = fs
		}
		if fb, err := InitFirebase(applicationCtx, cfg.ProjectID); err != nil {
			log.Warn("firebase auth unavailable, receipts disabled", "error", err)
		} else {
			bs.Firebase = fb
		}
	}

	return bs, nil
}

func (bs *Bootstrap) Close() {
	if bs.VertexAdapter != nil {
		_ = bs.VertexAdapter.Close()
	}
	if bs.Firestore != nil {
		if err := bs.Firestore.Close(); err != nil {
			bs.Log.Error("firestore close failed", "error", err)
		}
	}
	if bs.SecretManager != nil {
		if err := bs.SecretManager.Close(); err != nil {
			bs.Log.Error("secret manager close failed", "error", err)
		}
	}
}

// ReceiptsEnabled reports whether /api/receipts can be served.
func (bs *Bootstrap) ReceiptsEnabled() bool {
	return bs.Firestore != nil && bs.Firebase != nil
}

func NewThirdweb(cfg *config.Config) (*thirdwebclient.Adapter, error) {
	return thirdwebclient.NewAdapter(cfg.ThirdwebSecretKey, cfg.ServerWallet,
		thirdwebclient.WithBaseURL(cfg.ThirdwebBaseURL),
		thirdwebclient.WithAsset(cfg.Asset))
}

func NewCircle(cfg *config.Config) (*circleclient.Adapter, error) {
	return circleclient.NewAdapter(cfg.CircleAPIKey, cfg.CircleEntitySecret,
		circleclient.WithBaseURL(cfg.CircleBaseURL))
}
