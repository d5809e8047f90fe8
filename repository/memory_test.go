package repository

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"testing"
	"video-stream/constant"
	"video-stream/entities"
)

func TestMemoryRepoLifecycle(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	id := uuid.New()

	if err := r.CreateJob(ctx, &entities.Job{ID: id, VideoId: "v", Status: constant.JobStatusPending}); err != nil {
		t.Fatal(err)
	}
	if err := r.UpdateStatusJob(ctx, constant.JobStatusProcessing, id); err != nil {
		t.Fatal(err)
	}
	job, err := r.FindJobById(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if job.Status != constant.JobStatusProcessing {
		t.Errorf("status = %s, want %s", job.Status, constant.JobStatusProcessing)
	}

	if err := r.CompleteJob(ctx, id, "out.mp4"); err != nil {
		t.Fatal(err)
	}
	job, _ = r.FindJobById(ctx, id)
	if job.Status != constant.JobStatusCompleted || job.OutputPath != "out.mp4" {
		t.Errorf("job = %+v, want completed with output", job)
	}

	if err := r.FailJob(ctx, id, "boom"); err != nil {
		t.Fatal(err)
	}
	job, _ = r.FindJobById(ctx, id)
	if job.Status != constant.JobStatusFailed || job.Error != "boom" {
		t.Errorf("job = %+v, want failed with reason", job)
	}
}

func TestMemoryRepoUnknownJob(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	id := uuid.New()

	if _, err := r.FindJobById(ctx, id); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("FindJobById error = %v, want %v", err, ErrJobNotFound)
	}
	if err := r.UpdateStatusJob(ctx, constant.JobStatusFailed, id); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("UpdateStatusJob error = %v, want %v", err, ErrJobNotFound)
	}
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	id := uuid.New()
	if err := r.CreateJob(ctx, &entities.Job{ID: id, Status: constant.JobStatusPending}); err != nil {
		t.Fatal(err)
	}
	job, _ := r.FindJobById(ctx, id)
	job.Status = constant.JobStatusCompleted

	again, _ := r.FindJobById(ctx, id)
	if again.Status != constant.JobStatusPending {
		t.Error("mutating a returned job changed the stored one")
	}
}
