package passwordresetemail

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"passreset/internal/core/domain/logging"
	passwordreset "passreset/internal/core/domain/password_reset"
	"passreset/internal/core/domain/user"
	"passreset/internal/rabbitmq/schema"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	exchange   string
	routingKey string
	published  []amqp091.Publishing
	err        error
}

func (p *fakePublisher) Publish(ctx context.Context, exchange string, routingKey string, msg amqp091.Publishing) error {
	if p.err != nil {
		return p.err
	}
	p.exchange = exchange
	p.routingKey = routingKey
	p.published = append(p.published, msg)
	return nil
}

var EXPIRES_AT = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func testEmail() passwordreset.Email {
	return passwordreset.Email{
		To:        user.User{ID: 7, Email: "alice@example.com", Name: "Alice"},
		ResetURL:  url.URL{Scheme: "https", Host: "example.com", Path: "/password_edit/check_reset_url", RawQuery: "token=T1"},
		ExpiresAt: EXPIRES_AT,
	}
}

func TestPublish(t *testing.T) {
	// Setup ---
	channel := &fakePublisher{}
	log := logging.NewFakeLogger()
	sender := NewRabbitMQ(log, channel, "", "password_reset_email")

	// Exercise ---
	err := sender.SendPasswordResetEmail(context.Background(), testEmail())

	// Verify ---
	assert := require.New(t)
	assert.Nil(err)
	assert.Len(channel.published, 1)
	assert.Equal("password_reset_email", channel.routingKey)
	assert.Equal(amqp091.Persistent, channel.published[0].DeliveryMode)

	msg := schema.PasswordResetEmail{}
	assert.Nil(msg.Unmarshal(channel.published[0].Body))
	assert.Equal(int64(7), msg.UserID)
	assert.Equal("alice@example.com", msg.Email)
	assert.Equal("https://example.com/password_edit/check_reset_url?token=T1", msg.ResetURL)
	assert.True(EXPIRES_AT.Equal(msg.ExpiresAt))

	for _, record := range log.Records() {
		for _, entry := range record.Entries {
			assert.NotContains(fmt.Sprint(entry.Value), "T1")
		}
	}
}

func TestPublishError(t *testing.T) {
	errPublish := errors.New("channel closed")
	log := logging.NewFakeLogger()
	sender := NewRabbitMQ(log, &fakePublisher{err: errPublish}, "", "password_reset_email")

	err := sender.SendPasswordResetEmail(context.Background(), testEmail())

	assert := require.New(t)
	assert.ErrorIs(err, errPublish)
	assert.Equal(logging.ERROR, log.Records()[0].Level)
}
