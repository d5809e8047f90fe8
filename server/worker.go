package server

import (
	"errors"
	"github.com/rs/zerolog"
	"os/signal"
	"syscall"
	"video-stream/config"
	"video-stream/constant"
	"video-stream/handler"
	"video-stream/pkg/rabbitmq"
)

// RunWorker consumes processing jobs from RabbitMQ until interrupted. Job
// state is only shared with the API server when db.driver is postgres.
func RunWorker(cfg *config.Config) {
	ctx, cancel := signal.NotifyContext(setupLogger(cfg), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Queue == nil {
		zerolog.Ctx(ctx).Fatal().Str("driver", cfg.Processing.Driver).Msg("worker needs processing.driver=rabbitmq")
	}
	if constant.DBDriver(cfg.DBDriver) != constant.DBDriverPostgres {
		zerolog.Ctx(ctx).Warn().Msg("worker uses an in-memory job repository, jobs created by the server are invisible")
	}

	conn, err := config.NewRabbitMQConn(ctx, cfg.Queue)
	if err != nil {
		zerolog.Ctx(ctx).Fatal().Err(err).Msg("NewRabbitMQConn")
	}

	repo, err := newJobRepository(ctx, cfg)
	if err != nil {
		zerolog.Ctx(ctx).Fatal().Err(err).Msg("failed to set up job repository")
	}

	deps := handler.ServiceDependencies{
		ProcessService: newProcessService(ctx, cfg, repo),
	}

	consumer := rabbitmq.NewConsumer(conn, cfg.Queue, cfg.Server.Workers, handler.JobHandler)
	zerolog.Ctx(ctx).Info().Int("workers", cfg.Server.Workers).Msg("start processing worker")
	if err := consumer.Consume(ctx, deps); err != nil && !errors.Is(err, ctx.Err()) {
		zerolog.Ctx(ctx).Error().Err(err).Msg("processing consumer error")
	}
	zerolog.Ctx(ctx).Info().Msg("worker stopped")
}
