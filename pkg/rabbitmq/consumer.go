package rabbitmq

import (
	"context"
	"errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"sync"
	"video-stream/config"
)

// ErrRequeue marks a handler failure worth one more delivery.
var ErrRequeue = errors.New("requeue message")

type Consumer[T any] interface {
	Consume(ctx context.Context, dependencies T) error
}

type consumer[T any] struct {
	conn       *amqp.Connection
	cfg        *config.RabbitMQ
	handler    func(ctx context.Context, msg amqp.Delivery, dependencies T) error
	numWorkers int
}

func (c consumer[T]) Consume(ctx context.Context, dependencies T) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err = declareExchange(ch, c.cfg); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("queue", queueName).Msg("failed to declare exchange")
		return err
	}

	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("queue", queueName).Msg("failed to declare queue")
		return err
	}

	if err = ch.QueueBind(q.Name, routingKey, exchangeName(c.cfg), false, nil); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("queue", queueName).Msg("failed to bind queue")
		return err
	}

	if err = ch.Qos(c.numWorkers, 0, false); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("queue", queueName).Msg("failed to set QoS")
		return err
	}

	deliveries, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("queue", queueName).Msg("failed to consume queue")
		return err
	}

	jobs := make(chan amqp.Delivery, c.numWorkers)
	var wg sync.WaitGroup
	for i := 1; i <= c.numWorkers; i++ {
		wg.Add(1)
		go func(workerId int) {
			defer wg.Done()
			logger := zerolog.Ctx(ctx).With().Int("worker", workerId).Logger()
			for msg := range jobs {
				c.handle(logger.WithContext(ctx), msg, dependencies)
			}
		}(i)
	}

	for {
		select {
		case delivery, ok := <-deliveries:
			if !ok {
				close(jobs)
				wg.Wait()
				return nil
			}

			jobs <- delivery
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		}
	}
}

func (c consumer[T]) handle(ctx context.Context, msg amqp.Delivery, dependencies T) {
	err := c.handler(ctx, msg, dependencies)
	if err == nil {
		if err := msg.Ack(false); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("failed to acknowledge message")
		}
		return
	}

	requeue := shouldRequeue(err, msg.Redelivered)
	zerolog.Ctx(ctx).Error().Err(err).Bool("requeue", requeue).Str("message_id", msg.MessageId).Msg("failed to handle message")
	if err := msg.Nack(false, requeue); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to reject message")
	}
}

// A message is requeued at most once.
func shouldRequeue(err error, redelivered bool) bool {
	return errors.Is(err, ErrRequeue) && !redelivered
}

func NewConsumer[T any](
	conn *amqp.Connection,
	cfg *config.RabbitMQ,
	numWorkers int,
	handler func(ctx context.Context, msg amqp.Delivery, dependencies T) error,
) Consumer[T] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &consumer[T]{
		conn:       conn,
		cfg:        cfg,
		handler:    handler,
		numWorkers: numWorkers,
	}
}
