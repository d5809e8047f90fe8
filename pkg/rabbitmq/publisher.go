package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"video-stream/config"
	"video-stream/dto"
)

// Publisher sends processing jobs to the exchange consumed by the worker
// command.
type Publisher struct {
	conn *amqp.Connection
	cfg  *config.RabbitMQ
}

func NewPublisher(conn *amqp.Connection, cfg *config.RabbitMQ) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	defer ch.Close()
	if err := declareExchange(ch, cfg); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, cfg: cfg}, nil
}

func (p *Publisher) Dispatch(ctx context.Context, msg dto.JobMessage) error {
	publishing, err := newPublishing(msg)
	if err != nil {
		return err
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	err = ch.PublishWithContext(ctx, exchangeName(p.cfg), routingKey, false, false, publishing)
	if err != nil {
		return fmt.Errorf("publish job %s: %w", msg.JobId, err)
	}
	zerolog.Ctx(ctx).Debug().Str("job_id", msg.JobId.String()).Msg("job published")
	return nil
}

func newPublishing(msg dto.JobMessage) (amqp.Publishing, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.JobId.String(),
		Body:         body,
	}, nil
}
