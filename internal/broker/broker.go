// Package broker wraps the durable RabbitMQ topology described in spec
// §6.2/§6.3: a single direct exchange fanning out to an input queue (reminder
// creation) and an output queue (dispatch events), each with its own routing
// key.
package broker

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Config describes the broker connection and topology (spec §6.5).
type Config struct {
	URL              string
	Exchange         string
	InputQueue       string
	OutputQueue      string
	InputRoutingKey  string
	OutputRoutingKey string
}

// Conn owns a single AMQP connection/channel pair and the declared
// exchange/queue topology. It is safe for concurrent Publish calls but a
// single Conn should not be shared across multiple Consume loops with
// different prefetch needs; callers that need independent consumers should
// open separate Conns.
type Conn struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     Config
}

// Connect dials the broker and declares the direct-exchange topology.
func Connect(cfg Config) (*Conn, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("broker: dial failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("broker: channel open failed: %w", err)
	}

	c := &Conn{conn: conn, channel: ch, cfg: cfg}
	if err := c.declareTopology(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Conn) declareTopology() error {
	if err := c.channel.ExchangeDeclare(
		c.cfg.Exchange,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("broker: exchange declare failed: %w", err)
	}

	for _, binding := range []struct {
		queue      string
		routingKey string
	}{
		{c.cfg.InputQueue, c.cfg.InputRoutingKey},
		{c.cfg.OutputQueue, c.cfg.OutputRoutingKey},
	} {
		if _, err := c.channel.QueueDeclare(
			binding.queue,
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,
		); err != nil {
			return fmt.Errorf("broker: queue declare failed for %s: %w", binding.queue, err)
		}
		if err := c.channel.QueueBind(
			binding.queue,
			binding.routingKey,
			c.cfg.Exchange,
			false,
			nil,
		); err != nil {
			return fmt.Errorf("broker: queue bind failed for %s: %w", binding.queue, err)
		}
	}
	return nil
}

// Publish sends body to the exchange under routingKey with persistent
// delivery mode, per spec §6.2/§6.3's durable-delivery requirement.
func (c *Conn) Publish(ctx context.Context, routingKey string, body []byte) error {
	return c.channel.PublishWithContext(
		ctx,
		c.cfg.Exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// PublishInput publishes a reminder-creation event to the input queue.
func (c *Conn) PublishInput(ctx context.Context, body []byte) error {
	return c.Publish(ctx, c.cfg.InputRoutingKey, body)
}

// PublishOutput publishes a dispatch event to the output queue.
func (c *Conn) PublishOutput(ctx context.Context, body []byte) error {
	return c.Publish(ctx, c.cfg.OutputRoutingKey, body)
}

// ConsumeInput opens a late-ack delivery channel on the input queue (spec
// §5: "a message is acknowledged only after the row is safely upserted").
func (c *Conn) ConsumeInput(consumerTag string) (<-chan amqp.Delivery, error) {
	return c.consume(c.cfg.InputQueue, consumerTag)
}

// ConsumeOutput opens a late-ack delivery channel on the output queue.
func (c *Conn) ConsumeOutput(consumerTag string) (<-chan amqp.Delivery, error) {
	return c.consume(c.cfg.OutputQueue, consumerTag)
}

func (c *Conn) consume(queue, consumerTag string) (<-chan amqp.Delivery, error) {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return nil, fmt.Errorf("broker: qos failed: %w", err)
	}
	deliveries, err := c.channel.Consume(
		queue,
		consumerTag,
		false, // auto-ack: false, callers ack manually after processing
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("broker: consume failed for %s: %w", queue, err)
	}
	return deliveries, nil
}

// Close tears down the channel and connection.
func (c *Conn) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
