package service

import (
	"context"
	"errors"
	"fmt"
	"github.com/rs/zerolog"
	"os"
	"path/filepath"
	"video-stream/constant"
	"video-stream/dto"
	"video-stream/repository"
)

var ErrNonRetryable = errors.New("non-retryable error")

// ArchiveStore receives processed output when an object store is configured.
type ArchiveStore interface {
	Put(ctx context.Context, name, localPath, contentType string) (string, error)
}

// Service is the video-processing hook. It never touches the catalog; the
// original upload keeps being streamed whatever happens here.
type Service interface {
	Process(ctx context.Context, message dto.JobMessage) error
}

type service struct {
	repo         repository.JobRepository
	remuxer      Remuxer
	archive      ArchiveStore
	processedDir string
}

func (s service) Process(ctx context.Context, message dto.JobMessage) (err error) {
	logger := zerolog.Ctx(ctx).With().Str("job_id", message.JobId.String()).Str("video_id", message.VideoId).Logger()
	ctx = logger.WithContext(ctx)
	logger.Info().Msg("processing job")

	job, err := s.repo.FindJobById(ctx, message.JobId)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			logger.Error().Msg("job does not exist")
			return nil
		}
		logger.Error().Err(err).Msg("failed to find job by id")
		return err
	}

	if job.Status != constant.JobStatusPending {
		logger.Info().Str("status", string(job.Status)).Msg("job is not pending")
		return nil
	}

	if err := s.repo.UpdateStatusJob(ctx, constant.JobStatusProcessing, message.JobId); err != nil {
		logger.Error().Err(err).Msg("failed to update job status")
		return err
	}

	defer func() {
		if err != nil {
			if errors.Is(err, ErrNonRetryable) {
				if updateErr := s.repo.FailJob(ctx, message.JobId, err.Error()); updateErr != nil {
					logger.Error().Err(updateErr).Msg("failed to update job status")
				}
				err = nil
			} else {
				if updateErr := s.repo.UpdateStatusJob(ctx, constant.JobStatusPending, message.JobId); updateErr != nil {
					logger.Error().Err(updateErr).Msg("failed to update job status")
				}
			}
		}
	}()

	if _, err = os.Stat(message.ObjectPath); err != nil {
		logger.Error().Err(err).Msg("input file is missing")
		return errors.Join(ErrNonRetryable, err)
	}

	if err = os.MkdirAll(s.processedDir, os.ModePerm); err != nil {
		logger.Error().Err(err).Msg("failed to create processed dir")
		return errors.Join(ErrNonRetryable, err)
	}
	// work dir lives next to the output so the final rename stays on one filesystem
	workDir, err := os.MkdirTemp(s.processedDir, ".job-*")
	if err != nil {
		logger.Error().Err(err).Msg("failed to create work dir")
		return errors.Join(ErrNonRetryable, err)
	}
	defer os.RemoveAll(workDir)

	outputName := message.VideoId + ".mp4"
	workFile := filepath.Join(workDir, outputName)
	logger.Info().Str("input_file", message.ObjectPath).Msg("remux file")
	if err = s.remuxer.Remux(ctx, message.ObjectPath, workFile); err != nil {
		logger.Error().Err(err).Msg("failed to remux file")
		return errors.Join(ErrNonRetryable, err)
	}

	outputPath := filepath.Join(s.processedDir, outputName)
	if err = os.Rename(workFile, outputPath); err != nil {
		logger.Error().Err(err).Msg("failed to move output into place")
		return errors.Join(ErrNonRetryable, err)
	}

	location := outputPath
	if s.archive != nil {
		logger.Info().Msg("archive processed file")
		location, err = s.archive.Put(ctx, outputName, outputPath, constant.DefaultMediaType)
		if err != nil {
			logger.Error().Err(err).Msg("failed to archive processed file")
			return fmt.Errorf("archive: %w", err)
		}
	}

	if err = s.repo.CompleteJob(ctx, message.JobId, location); err != nil {
		logger.Error().Err(err).Msg("failed to update job status")
		return err
	}

	logger.Info().Str("output", location).Msg("job completed")
	return nil
}

func NewService(repo repository.JobRepository, remuxer Remuxer, archive ArchiveStore, processedDir string) Service {
	return &service{
		repo:         repo,
		remuxer:      remuxer,
		archive:      archive,
		processedDir: processedDir,
	}
}
