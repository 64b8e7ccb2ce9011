package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GregMSThompson/vending-backend/internal/bootstrap"
	"github.com/GregMSThompson/vending-backend/internal/config"
	"github.com/GregMSThompson/vending-backend/internal/handlers"
	"github.com/GregMSThompson/vending-backend/internal/response"
	"github.com/GregMSThompson/vending-backend/internal/router"
	"github.com/GregMSThompson/vending-backend/internal/services"
	"github.com/GregMSThompson/vending-backend/internal/store"
)

const shutdownTimeout = 10 * time.Second

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// response handler
	rh := response.New(bs.Log, cfg.Development())

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Status = bs.Status
	deps.Model = cfg.VertexModel

	// services, only for integrations that came up
	if bs.VertexAdapter != nil {
		deps.AISvc = services.NewAIService(bs.VertexAdapter, cfg.VertexModel)
	}
	if bs.ThirdwebAdapter != nil {
		deps.PaymentSvc = services.NewPaymentService(bs.ThirdwebAdapter, cfg.ServerWallet, cfg.Network, cfg.Price)
	}
	if bs.ReceiptsEnabled() {
		deps.ReceiptSvc = services.NewReceiptService(store.NewReceiptStore(bs.Firestore))
		deps.Firebase = bs.Firebase
	}

	logStatus(bs.Log, cfg, bs)

	// router
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		bs.Log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			bs.Log.Error("graceful shutdown failed", "error", err)
		}
	}()

	err = srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	exitOnError("server start failed", err, bs.Log)
}

func logStatus(log *slog.Logger, cfg *config.Config, bs *bootstrap.Bootstrap) {
	log.Info("AI Vending Machine listening",
		"port", cfg.Port,
		"network", cfg.Network,
		"price", cfg.Price,
		"gemini_ai", bs.Status.AI,
		"x402_payments", bs.Status.Payment,
		"circle_wallets", bs.Status.Wallet,
		"receipts", bs.ReceiptsEnabled(),
	)
}
