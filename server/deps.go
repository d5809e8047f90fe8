package server

import (
	"context"
	"github.com/rs/zerolog"
	"video-stream/config"
	"video-stream/constant"
	"video-stream/repository"
	"video-stream/service"
	"video-stream/storage"
)

const archivePrefix = "processed"

func newJobRepository(ctx context.Context, cfg *config.Config) (repository.JobRepository, error) {
	if constant.DBDriver(cfg.DBDriver) == constant.DBDriverPostgres {
		return repository.NewRepo(cfg.DB)
	}
	zerolog.Ctx(ctx).Info().Msg("using in-memory job repository")
	return repository.NewMemoryRepo(), nil
}

func newProcessService(ctx context.Context, cfg *config.Config, repo repository.JobRepository) service.Service {
	var archive service.ArchiveStore
	if cfg.Archive != nil {
		a := storage.NewArchive(cfg.Archive, cfg.Bucket, archivePrefix)
		if err := a.EnsureBucket(ctx); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("archive bucket unavailable, archiving disabled")
		} else {
			archive = a
		}
	}
	remuxer := service.FFmpegRemuxer{Binary: cfg.Processing.FFmpegPath}
	return service.NewService(repo, remuxer, archive, cfg.Storage.ProcessedDir)
}
