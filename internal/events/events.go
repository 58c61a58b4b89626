package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-accounts/internal/modules/account"
)

// RKAccountCreated is the routing key of the event published after registration.
const RKAccountCreated = "account.created"

// AccountCreated is the payload of an account.created event.
type AccountCreated struct {
	UserID     string   `json:"user_id"`
	BusinessID string   `json:"business_id,omitempty"`
	Kind       string   `json:"kind"`
	Email      string   `json:"email"`
	Roles      []string `json:"roles"`
	CreatedAt  int64    `json:"created_at"` // unix seconds
}

// NewAccountCreated builds the event for acc. The secret is never included.
func NewAccountCreated(acc *account.Account) AccountCreated {
	res := acc.Result()
	return AccountCreated{
		UserID:     res.UserID,
		BusinessID: res.BusinessID,
		Kind:       string(acc.Kind),
		Email:      res.Email,
		Roles:      res.Roles,
		CreatedAt:  acc.CreatedAt.Unix(),
	}
}

// channel is the subset of *amqp.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher publishes account events to a RabbitMQ topic exchange.
type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "dial rabbitmq")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "open channel")
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errors.Wrap(err, "declare exchange")
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *Publisher) AccountCreated(ctx context.Context, acc *account.Account) error {
	return p.PublishJSON(ctx, RKAccountCreated, NewAccountCreated(acc))
}

func (p *Publisher) PublishJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.WithStack(err)
	}
	err = p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         b,
	})
	return errors.Wrapf(err, "publish %s", key)
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// LogPublisher writes events to the log. It is used when no broker is configured.
type LogPublisher struct {
	Log *zap.Logger
}

func (p LogPublisher) AccountCreated(_ context.Context, acc *account.Account) error {
	e := NewAccountCreated(acc)
	p.Log.Info("Event",
		zap.String("key", RKAccountCreated),
		zap.String("user_id", e.UserID),
		zap.String("business_id", e.BusinessID),
		zap.String("kind", e.Kind))
	return nil
}
