package server

import (
	"context"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"video-stream/catalog"
	"video-stream/config"
	"video-stream/constant"
	"video-stream/handler"
	"video-stream/pkg/rabbitmq"
	"video-stream/queue"
	"video-stream/service"
	"video-stream/storage"
	"video-stream/stream"
)

const shutdownTimeout = 10 * time.Second

func RunHttp(cfg *config.Config) {
	ctx, cancel := signal.NotifyContext(setupLogger(cfg), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Bool("isProduction", cfg.App.Environment == constant.EnvironmentProduction.String()).Send()
	if cfg.App.Environment == constant.EnvironmentProduction.String() {
		gin.SetMode(gin.ReleaseMode)
	}

	repo, err := newJobRepository(ctx, cfg)
	if err != nil {
		zerolog.Ctx(ctx).Fatal().Err(err).Msg("failed to set up job repository")
	}

	store, err := storage.NewLocalStore(cfg.Storage.UploadsDir)
	if err != nil {
		zerolog.Ctx(ctx).Fatal().Err(err).Msg("failed to set up upload storage")
	}

	deps := handler.ServiceDependencies{
		ProcessService: newProcessService(ctx, cfg, repo),
	}

	var dispatcher queue.Dispatcher = queue.Discard{}
	switch constant.ProcessingDriver(cfg.Processing.Driver) {
	case constant.ProcessingDriverLocal:
		pool := queue.NewPool(ctx, cfg.Server.Workers, cfg.Processing.QueueSize, handler.LocalJobHandler(deps))
		defer pool.Shutdown()
		dispatcher = pool
	case constant.ProcessingDriverRabbitMQ:
		publisher, err := newPublisher(ctx, cfg)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("processing disabled, rabbitmq unavailable")
		} else {
			dispatcher = publisher
		}
	}

	videos := catalog.New()
	ingest := service.NewIngestService(store, videos, repo, dispatcher)
	responder := stream.NewResponder(store, cfg.Server.StreamBufferSize)
	videoHandler := handler.NewVideoHandler(ingest, videos, responder, repo, cfg.Server.MaxUploadSize)

	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestLogger(*zerolog.Ctx(ctx)))
	addHealth(r)
	videoHandler.Register(r)

	srv := http.Server{
		Handler:           r,
		Addr:              fmt.Sprintf(":%s", cfg.Server.HttpPort),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zerolog.Ctx(ctx).Info().Str("addr", srv.Addr).Msg("start http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zerolog.Ctx(ctx).Error().Err(err).Msg("http server stopped")
			cancel()
		}
	}()

	<-ctx.Done()
	zerolog.Ctx(ctx).Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("server shutdown")
	}

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Msg("server shutdown")
}

func newPublisher(ctx context.Context, cfg *config.Config) (*rabbitmq.Publisher, error) {
	conn, err := config.NewRabbitMQConn(ctx, cfg.Queue)
	if err != nil {
		return nil, err
	}
	return rabbitmq.NewPublisher(conn, cfg.Queue)
}

func addHealth(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})
}

func setupLogger(cfg *config.Config) context.Context {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.App.Environment == constant.EnvironmentDevelop.String() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Log to standard output
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	return ctx
}
