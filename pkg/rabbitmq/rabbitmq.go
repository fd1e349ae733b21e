package rabbitmq

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Exchange carries the order lifecycle events (order.*, delivery.*, inventory.*).
const Exchange = "pos_events"

// AuditQueue receives every event.
const AuditQueue = "pos_events_audit"

type RabbitMQ struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
	Log     logrus.FieldLogger

	mu sync.Mutex
}

func Connect(url string, log logrus.FieldLogger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "dial rabbitmq")
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "open channel")
	}

	err = channel.ExchangeDeclare(
		Exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "declare exchange")
	}

	_, err = channel.QueueDeclare(
		AuditQueue, // name
		true,       // durable
		false,      // delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "declare audit queue")
	}

	err = channel.QueueBind(
		AuditQueue, // queue name
		"#",        // routing key
		Exchange,   // exchange
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "bind audit queue")
	}

	log.WithField("exchange", Exchange).Info("connected to rabbitmq")
	return &RabbitMQ{Conn: conn, Channel: channel, Log: log}, nil
}

func (r *RabbitMQ) Close() {
	if r.Channel != nil {
		r.Channel.Close()
	}
	if r.Conn != nil {
		r.Conn.Close()
	}
}

// Publish sends payload as a persistent JSON message on the events exchange.
func (r *RabbitMQ) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "marshal %s", routingKey)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	r.mu.Lock()
	defer r.mu.Unlock()
	err = r.Channel.PublishWithContext(ctx,
		Exchange,   // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now().UTC(),
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		})
	return errors.Wrapf(err, "publish %s", routingKey)
}
