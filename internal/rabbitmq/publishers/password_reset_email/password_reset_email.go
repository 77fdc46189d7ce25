package passwordresetemail

import (
	"context"
	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/logging"
	passwordreset "passreset/internal/core/domain/password_reset"
	"passreset/internal/rabbitmq/schema"

	"github.com/rabbitmq/amqp091-go"
)

type publisher interface {
	Publish(ctx context.Context, exchange string, routingKey string, msg amqp091.Publishing) error
}

// RabbitMQ hands reset emails over to the mailer process.
type RabbitMQ struct {
	log        logging.Logger
	channel    publisher
	exchange   string
	routingKey string
}

func NewRabbitMQ(log logging.Logger, channel publisher, exchange string, routingKey string) *RabbitMQ {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if routingKey == "" {
		panic("routing key must not be empty")
	}
	return &RabbitMQ{log: log, channel: channel, exchange: exchange, routingKey: routingKey}
}

func (s *RabbitMQ) SendPasswordResetEmail(ctx context.Context, email passwordreset.Email) error {
	msg := schema.PasswordResetEmail{
		UserID:    int64(email.To.ID),
		Email:     string(email.To.Email),
		Name:      email.To.Name,
		ResetURL:  email.ResetURL.String(),
		ExpiresAt: email.ExpiresAt,
	}
	body, err := msg.Marshal()
	if err != nil {
		return err
	}

	err = s.channel.Publish(ctx, s.exchange, s.routingKey, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Body:         body,
	})
	if err != nil {
		s.log.Error(
			ctx,
			"Could not publish password reset email.",
			logging.Entry("userID", email.To.ID),
			logging.Entry("err", err),
		)
		return err
	}
	s.log.Info(
		ctx,
		"AMQP message has been successfully published.",
		logging.Entry("exchange", s.exchange),
		logging.Entry("RK", s.routingKey),
		logging.Entry("userID", email.To.ID),
	)
	return nil
}
