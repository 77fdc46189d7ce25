package consumers

import (
	"context"
	"errors"
	"passreset/internal/app/deps"
	dl "passreset/internal/core/domain/logging"
	passwordresetemail "passreset/internal/rabbitmq/consumers/password_reset_email"
)

func initPasswordResetEmailConsumer(deps *deps.Deps) func() {
	rabbitmqChannel := deps.OpenPasswordResetEmailChannel()

	queue := deps.Config.RabbitmqPasswordResetEmailQueue
	consumer := passwordresetemail.New(deps.Logger, rabbitmqChannel, queue, deps.SESEmailSender)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		err := consumer.Consume(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			deps.Logger.Error(
				context.Background(),
				"Could not start RabbitMQ consuming.",
				dl.Entry("err", err),
				dl.Entry("queue", queue),
			)
			panic(err)
		}
	}()

	deps.Logger.Info(context.Background(), "Consumer has started.", dl.Entry("queue", queue))
	return func() {
		cancel()
		rabbitmqChannel.Close()
		<-done
	}
}

func InitConsumers(deps *deps.Deps) func() {
	shutdownPasswordResetEmailConsumer := initPasswordResetEmailConsumer(deps)

	return func() {
		shutdownPasswordResetEmailConsumer()
	}
}
