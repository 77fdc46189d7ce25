package main

import (
	"context"
	"os"
	"os/signal"
	"passreset/internal/app/deps"
	appservices "passreset/internal/app/services"
	"passreset/internal/core/domain/logging"
	"passreset/internal/core/services"
	purgeexpiredpasswordresettokens "passreset/internal/core/services/purge_expired_password_reset_tokens"
	"syscall"
	"time"
)

type purgeService = services.Service[purgeexpiredpasswordresettokens.Input, purgeexpiredpasswordresettokens.Result]

func main() {
	deps, shutdownDeps := deps.InitDeps()
	defer shutdownDeps()
	log := deps.Logger

	purge := appservices.InitServices(deps).PurgeExpiredPasswordResetTokens
	period := deps.Config.PasswordResetTokenPurgePeriod

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info(
		ctx,
		"Starting periodic password reset token purge.",
		logging.Entry("periodMinutes", period.Minutes()),
		logging.Entry("retentionHours", deps.Config.PasswordResetTokenRetention.Hours()),
	)
	run(ctx, log, purge)

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info(context.Background(), "Stopping periodic password reset token purge.")
			return
		case <-ticker.C:
			run(ctx, log, purge)
		}
	}
}

func run(ctx context.Context, log logging.Logger, purge purgeService) {
	if _, err := purge.Run(ctx, purgeexpiredpasswordresettokens.Input{}); err != nil && ctx.Err() == nil {
		log.Error(ctx, "Purge service returned an error.", logging.Entry("err", err))
	}
}
