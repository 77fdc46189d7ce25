package passwordresetemail

import (
	"context"
	"errors"
	"net/url"
	c "passreset/internal/core/domain/common"
	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/logging"
	passwordreset "passreset/internal/core/domain/password_reset"
	"passreset/internal/core/domain/user"
	"passreset/internal/rabbitmq/schema"

	"github.com/rabbitmq/amqp091-go"
)

type deliverySource interface {
	Consume(queue string, consumer string) (<-chan amqp091.Delivery, error)
}

// Consumer delivers queued reset emails. A failed delivery is requeued once.
type Consumer struct {
	log     logging.Logger
	channel deliverySource
	queue   string
	sender  passwordreset.EmailSender
}

func New(
	log logging.Logger,
	channel deliverySource,
	queue string,
	sender passwordreset.EmailSender,
) *Consumer {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if queue == "" {
		panic("queue name must not be empty")
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}

	return &Consumer{log: log, channel: channel, queue: queue, sender: sender}
}

// Consume handles deliveries until ctx is done or the channel is closed.
func (c *Consumer) Consume(ctx context.Context) error {
	deliveries, err := c.channel.Consume(c.queue, "")
	if err != nil {
		c.log.Error(ctx, "Could not start consuming.", logging.Entry("err", err))
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return nil
			}
			c.Handle(ctx, delivery)
		}
	}
}

func (c *Consumer) Handle(ctx context.Context, delivery amqp091.Delivery) {
	msg := &schema.PasswordResetEmail{}
	if err := msg.Unmarshal(delivery.Body); err != nil {
		c.log.Error(ctx, "Could not unmarshal password reset email.", logging.Entry("err", err))
		c.reject(ctx, delivery)
		return
	}

	email, err := decodeEmail(msg)
	if err != nil {
		c.log.Error(
			ctx,
			"Password reset email message is malformed.",
			logging.Entry("userID", msg.UserID),
			logging.Entry("err", err),
		)
		c.reject(ctx, delivery)
		return
	}

	err = c.sender.SendPasswordResetEmail(ctx, email)
	if err != nil && !delivery.Redelivered {
		c.log.Warning(
			ctx,
			"Could not send password reset email, requeue.",
			logging.Entry("userID", msg.UserID),
			logging.Entry("err", err),
		)
		if err := delivery.Nack(false, true); err != nil {
			c.log.Error(ctx, "Could not NACK AMQP message.", logging.Entry("err", err))
		}
		return
	}
	if err != nil {
		c.log.Error(
			ctx,
			"Could not send password reset email, drop.",
			logging.Entry("userID", msg.UserID),
			logging.Entry("err", err),
		)
	} else {
		c.log.Info(ctx, "Password reset email has been sent.", logging.Entry("userID", msg.UserID))
	}
	c.ack(ctx, delivery)
}

func (c *Consumer) ack(ctx context.Context, delivery amqp091.Delivery) {
	if err := delivery.Ack(false); err != nil {
		c.log.Error(ctx, "Could not ACK AMQP message.", logging.Entry("err", err))
	}
}

func (c *Consumer) reject(ctx context.Context, delivery amqp091.Delivery) {
	if err := delivery.Reject(false); err != nil {
		c.log.Error(ctx, "Could not reject AMQP message.", logging.Entry("err", err))
	}
}

func decodeEmail(msg *schema.PasswordResetEmail) (email passwordreset.Email, err error) {
	to := c.NewEmail(msg.Email)
	if to.IsEmpty() {
		return email, errors.New("recipient email is empty")
	}
	resetURL, err := url.Parse(msg.ResetURL)
	if err != nil {
		return email, err
	}
	if _, ok := passwordreset.TokenFromURL(*resetURL); !ok {
		return email, errors.New("reset url carries no token")
	}
	return passwordreset.Email{
		To:        user.User{ID: user.ID(msg.UserID), Email: to, Name: msg.Name},
		ResetURL:  *resetURL,
		ExpiresAt: msg.ExpiresAt,
	}, nil
}
