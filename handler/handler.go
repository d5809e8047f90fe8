package handler

import (
	"context"
	"encoding/json"
	"fmt"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"video-stream/dto"
	"video-stream/pkg/rabbitmq"
	"video-stream/queue"
	"video-stream/service"
)

type ServiceDependencies struct {
	ProcessService service.Service
}

// JobHandler handles one RabbitMQ delivery. Undecodable payloads are dropped;
// processing failures get one redelivery.
func JobHandler(ctx context.Context, msg amqp.Delivery, deps ServiceDependencies) error {
	var job dto.JobMessage
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to unmarshal job message")
		return err
	}

	if err := deps.ProcessService.Process(ctx, job); err != nil {
		return fmt.Errorf("%w: %v", rabbitmq.ErrRequeue, err)
	}

	return nil
}

// LocalJobHandler adapts the processing service to the in-process pool.
func LocalJobHandler(deps ServiceDependencies) queue.Handler {
	return func(ctx context.Context, msg dto.JobMessage) error {
		return deps.ProcessService.Process(ctx, msg)
	}
}
