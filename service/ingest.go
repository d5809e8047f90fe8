package service

import (
	"context"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"io"
	"time"
	"video-stream/catalog"
	"video-stream/constant"
	"video-stream/dto"
	"video-stream/entities"
	"video-stream/queue"
	"video-stream/repository"
	"video-stream/storage"
)

type VideoStore interface {
	Save(id, originalName, declaredType string, body io.Reader) (*storage.SavedFile, error)
	Remove(path string) error
}

type IngestService interface {
	Ingest(ctx context.Context, originalName, declaredType string, body io.Reader) (*entities.Video, error)
}

type ingestService struct {
	store      VideoStore
	catalog    *catalog.Catalog
	repo       repository.JobRepository
	dispatcher queue.Dispatcher
	now        func() time.Time
}

// Ingest persists the payload, registers it in the catalog and queues the
// processing hook. Processing problems are logged and never fail the upload.
func (s *ingestService) Ingest(ctx context.Context, originalName, declaredType string, body io.Reader) (*entities.Video, error) {
	id := uuid.New().String()
	saved, err := s.store.Save(id, originalName, declaredType, body)
	if err != nil {
		return nil, err
	}

	video := &entities.Video{
		Id:           id,
		FileName:     saved.FileName,
		OriginalName: originalName,
		Path:         saved.Path,
		Size:         saved.Size,
		MediaType:    saved.MediaType,
		CreatedAt:    s.now(),
	}
	if err := s.catalog.Insert(video); err != nil {
		if rmErr := s.store.Remove(saved.Path); rmErr != nil {
			zerolog.Ctx(ctx).Error().Err(rmErr).Str("video_id", id).Msg("failed to remove orphaned upload")
		}
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("video_id", id).
		Str("original_name", originalName).
		Int64("size", saved.Size).
		Str("media_type", saved.MediaType).
		Msg("video ingested")

	s.enqueue(ctx, video)
	return video, nil
}

func (s *ingestService) enqueue(ctx context.Context, video *entities.Video) {
	job := &entities.Job{
		ID:      uuid.New(),
		VideoId: video.Id,
		Status:  constant.JobStatusPending,
		JobType: constant.JobTypeRemux,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("video_id", video.Id).Msg("failed to create processing job")
		return
	}

	msg := dto.JobMessage{
		JobId:      job.ID,
		VideoId:    video.Id,
		ObjectPath: video.Path,
		FileName:   video.FileName,
	}
	if err := s.dispatcher.Dispatch(ctx, msg); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("job_id", job.ID.String()).Msg("failed to dispatch processing job")
		if failErr := s.repo.FailJob(ctx, job.ID, err.Error()); failErr != nil {
			zerolog.Ctx(ctx).Error().Err(failErr).Msg("failed to update job status")
		}
	}
}

func NewIngestService(store VideoStore, c *catalog.Catalog, repo repository.JobRepository, dispatcher queue.Dispatcher) IngestService {
	return &ingestService{
		store:      store,
		catalog:    c,
		repo:       repo,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}
