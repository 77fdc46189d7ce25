package main

import (
	"context"
	"os"
	"os/signal"
	"passreset/internal/app/consumers"
	"passreset/internal/app/deps"
	"passreset/internal/core/domain/logging"
	"syscall"
)

func main() {
	deps, shutdownDeps := deps.InitDeps()
	defer shutdownDeps()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownConsumers := consumers.InitConsumers(deps)
	<-ctx.Done()

	queue := deps.Config.RabbitmqPasswordResetEmailQueue
	deps.Logger.Info(context.Background(), "Stopping password reset mailer.", logging.Entry("queue", queue))
	shutdownConsumers()
	deps.Logger.Info(context.Background(), "Password reset mailer has stopped.", logging.Entry("queue", queue))
}
