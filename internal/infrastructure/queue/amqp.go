package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

const (
	MailExchange        = "mail"
	VerificationQueue   = "mail.verification"
	VerificationRouting = "verification"
)

// Connect dials the broker, retrying up to retries times.
func Connect(url string, retries int, delay time.Duration) (*amqp.Connection, error) {
	if retries <= 0 {
		retries = 1
	}
	var err error
	for range retries {
		var conn *amqp.Connection
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("amqp connect: %w", err)
}

// SetupChannel opens a channel and declares the mail exchange with the
// verification queue bound to it.
func SetupChannel(conn *amqp.Connection) (*amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(MailExchange, "direct", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", MailExchange, err)
	}
	if _, err := ch.QueueDeclare(VerificationQueue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue %s: %w", VerificationQueue, err)
	}
	if err := ch.QueueBind(VerificationQueue, VerificationRouting, MailExchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue %s: %w", VerificationQueue, err)
	}
	return ch, nil
}

// Publisher sends JSON bodies to a routing key.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// AMQPPublisher publishes persistent JSON messages to the mail exchange.
type AMQPPublisher struct {
	ch *amqp.Channel
}

func NewAMQPPublisher(ch *amqp.Channel) *AMQPPublisher {
	return &AMQPPublisher{ch: ch}
}

func (p *AMQPPublisher) Publish(routingKey string, message any) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	err = p.ch.Publish(MailExchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

// LogPublisher stands in for the broker in local setups; it only logs.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(routingKey string, message any) error {
	p.log.Info().Str("routing_key", routingKey).Interface("message", message).Msg("mail not sent: no broker configured")
	return nil
}
