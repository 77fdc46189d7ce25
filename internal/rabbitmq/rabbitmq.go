package rabbitmq

import (
	"context"
	"fmt"
	"passreset/internal/core/domain/logging"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const reconnectDelay = 3 * time.Second

// Connection is an amqp.Connection that redials itself when the broker drops it.
type Connection struct {
	url  string
	log  logging.Logger
	lock sync.RWMutex
	conn *amqp.Connection
}

func Dial(url string, log logging.Logger) (*Connection, error) {
	if log == nil {
		return nil, fmt.Errorf("log argument must not be nil")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	connection := &Connection{url: url, log: log, conn: conn}
	go connection.watch(conn)
	return connection, nil
}

func (c *Connection) watch(conn *amqp.Connection) {
	ctx := context.Background()
	reason, ok := <-conn.NotifyClose(make(chan *amqp.Error, 1))
	if !ok {
		c.log.Info(ctx, "RabbitMQ connection closed.")
		return
	}

	c.log.Warning(ctx, "RabbitMQ connection lost.", logging.Entry("reason", reason.Error()))
	for {
		time.Sleep(reconnectDelay)

		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Error(ctx, "RabbitMQ reconnect failed.", logging.Entry("err", err))
			continue
		}
		c.lock.Lock()
		c.conn = conn
		c.lock.Unlock()
		c.log.Info(ctx, "RabbitMQ reconnect success.")
		go c.watch(conn)
		return
	}
}

func (c *Connection) current() *amqp.Connection {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.conn
}

func (c *Connection) Close() error {
	return c.current().Close()
}

// Channel opens a channel that is recreated on the current connection until
// it is closed with Channel.Close.
func (c *Connection) Channel() (*Channel, error) {
	ch, err := c.current().Channel()
	if err != nil {
		return nil, err
	}

	channel := &Channel{connection: c, ch: ch, log: c.log}
	go channel.watch(ch)
	return channel, nil
}

type Channel struct {
	connection *Connection
	log        logging.Logger
	closed     int32
	lock       sync.RWMutex
	ch         *amqp.Channel
}

func (ch *Channel) watch(current *amqp.Channel) {
	ctx := context.Background()
	reason, ok := <-current.NotifyClose(make(chan *amqp.Error, 1))
	if !ok || ch.IsClosed() {
		return
	}

	ch.log.Warning(ctx, "RabbitMQ channel closed.", logging.Entry("reason", reason.Error()))
	for {
		time.Sleep(reconnectDelay)
		if ch.IsClosed() {
			return
		}

		recreated, err := ch.connection.current().Channel()
		if err != nil {
			ch.log.Error(ctx, "Channel recreate failed.", logging.Entry("err", err))
			continue
		}
		ch.lock.Lock()
		ch.ch = recreated
		ch.lock.Unlock()
		ch.log.Info(ctx, "Channel recreate success.")
		go ch.watch(recreated)
		return
	}
}

func (ch *Channel) current() *amqp.Channel {
	ch.lock.RLock()
	defer ch.lock.RUnlock()
	return ch.ch
}

// IsClosed reports whether Close has been called.
func (ch *Channel) IsClosed() bool {
	return atomic.LoadInt32(&ch.closed) == 1
}

func (ch *Channel) Close() error {
	if !atomic.CompareAndSwapInt32(&ch.closed, 0, 1) {
		return amqp.ErrClosed
	}
	return ch.current().Close()
}

// DeclareQueue declares a durable queue bound to the default exchange.
func (ch *Channel) DeclareQueue(name string) error {
	_, err := ch.current().QueueDeclare(name, true, false, false, false, nil)
	return err
}

func (ch *Channel) Publish(ctx context.Context, exchange string, routingKey string, msg amqp.Publishing) error {
	return ch.current().PublishWithContext(ctx, exchange, routingKey, false, false, msg)
}

// Consume delivers messages of queue across channel recreations, the returned
// channel is closed once Close has been called.
func (ch *Channel) Consume(queue string, consumer string) (<-chan amqp.Delivery, error) {
	deliveries := make(chan amqp.Delivery)

	go func() {
		defer close(deliveries)
		ctx := context.Background()
		for !ch.IsClosed() {
			d, err := ch.current().Consume(queue, consumer, false, false, false, false, nil)
			if err != nil {
				ch.log.Error(ctx, "Consume failed.", logging.Entry("queue", queue), logging.Entry("err", err))
				time.Sleep(reconnectDelay)
				continue
			}

			for msg := range d {
				deliveries <- msg
			}

			// The closed flag may be set shortly after the deliveries end.
			time.Sleep(reconnectDelay)
		}
		ch.log.Info(ctx, "Channel is closed, stop consuming.", logging.Entry("queue", queue))
	}()

	return deliveries, nil
}
