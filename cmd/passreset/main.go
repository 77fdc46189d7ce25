package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"passreset/internal/app"
	"passreset/internal/app/deps"
	"passreset/internal/app/services"
	"syscall"
	"time"

	dl "passreset/internal/core/domain/logging"
)

const shutdownTimeout = 20 * time.Second

func main() {
	deps, shutdownDeps := deps.InitDeps()
	defer shutdownDeps()

	httpServer := app.InitHttpServer(deps, services.InitServices(deps))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		deps.Logger.Info(
			ctx,
			"HTTP server has started.",
			dl.Entry("address", httpServer.Addr),
			dl.Entry("isTestMode", deps.Config.IsTestMode),
			dl.Entry("tokenStore", deps.Config.PasswordResetTokenStore),
			dl.Entry("mailDelivery", deps.Config.MailDelivery),
		)
		serverErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error(context.Background(), "HTTP server has failed.", dl.Entry("err", err))
		}
		return
	case <-ctx.Done():
	}

	deps.Logger.Info(context.Background(), "HTTP server is stopping gracefully.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		deps.Logger.Error(shutdownCtx, "HTTP server did not stop in time.", dl.Entry("err", err))
		return
	}
	deps.Logger.Info(shutdownCtx, "HTTP server has stopped.")
}
