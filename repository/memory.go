package repository

import (
	"context"
	"github.com/google/uuid"
	"sync"
	"time"
	"video-stream/constant"
	"video-stream/entities"
)

type memoryRepo struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]entities.Job
}

// NewMemoryRepo keeps jobs for the lifetime of the process only.
func NewMemoryRepo() JobRepository {
	return &memoryRepo{jobs: make(map[uuid.UUID]entities.Job)}
}

func (r *memoryRepo) CreateJob(ctx context.Context, job *entities.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now
	r.jobs[job.ID] = *job
	return nil
}

func (r *memoryRepo) FindJobById(ctx context.Context, id uuid.UUID) (*entities.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return &job, nil
}

func (r *memoryRepo) UpdateStatusJob(ctx context.Context, status constant.JobStatus, id uuid.UUID) error {
	return r.update(id, func(job *entities.Job) {
		job.Status = status
	})
}

func (r *memoryRepo) CompleteJob(ctx context.Context, id uuid.UUID, outputPath string) error {
	return r.update(id, func(job *entities.Job) {
		job.Status = constant.JobStatusCompleted
		job.OutputPath = outputPath
		job.Error = ""
	})
}

func (r *memoryRepo) FailJob(ctx context.Context, id uuid.UUID, reason string) error {
	return r.update(id, func(job *entities.Job) {
		job.Status = constant.JobStatusFailed
		job.Error = reason
	})
}

func (r *memoryRepo) update(id uuid.UUID, fn func(job *entities.Job)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	fn(&job)
	job.UpdatedAt = time.Now()
	r.jobs[id] = job
	return nil
}
