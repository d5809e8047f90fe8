package service

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"video-stream/constant"
	"video-stream/dto"
	"video-stream/entities"
	"video-stream/repository"
)

type copyRemuxer struct {
	err   error
	calls int
}

func (r *copyRemuxer) Remux(ctx context.Context, input, output string) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	return os.WriteFile(output, data, 0o644)
}

type fakeArchive struct {
	err  error
	puts []string
}

func (a *fakeArchive) Put(ctx context.Context, name, localPath, contentType string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.puts = append(a.puts, name)
	return "processed/" + name, nil
}

func setupJob(t *testing.T, repo repository.JobRepository, status constant.JobStatus) dto.JobMessage {
	t.Helper()
	input := filepath.Join(t.TempDir(), "in.mp4")
	if err := os.WriteFile(input, []byte("video bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	id := uuid.New()
	if err := repo.CreateJob(context.Background(), &entities.Job{ID: id, VideoId: "v1", Status: status}); err != nil {
		t.Fatal(err)
	}
	return dto.JobMessage{JobId: id, VideoId: "v1", ObjectPath: input, FileName: "in.mp4"}
}

func jobStatus(t *testing.T, repo repository.JobRepository, id uuid.UUID) *entities.Job {
	t.Helper()
	job, err := repo.FindJobById(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	return job
}

func TestProcessCompletes(t *testing.T) {
	repo := repository.NewMemoryRepo()
	msg := setupJob(t, repo, constant.JobStatusPending)
	outDir := filepath.Join(t.TempDir(), "videos")
	s := NewService(repo, &copyRemuxer{}, nil, outDir)

	if err := s.Process(context.Background(), msg); err != nil {
		t.Fatalf("Process returned error %v", err)
	}
	job := jobStatus(t, repo, msg.JobId)
	if job.Status != constant.JobStatusCompleted {
		t.Errorf("status = %s, want %s", job.Status, constant.JobStatusCompleted)
	}
	want := filepath.Join(outDir, "v1.mp4")
	if job.OutputPath != want {
		t.Errorf("OutputPath = %q, want %q", job.OutputPath, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("output missing: %v", err)
	}
	entries, _ := os.ReadDir(outDir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".job-") {
			t.Errorf("work dir %s left behind", e.Name())
		}
	}
}

func TestProcessArchives(t *testing.T) {
	repo := repository.NewMemoryRepo()
	msg := setupJob(t, repo, constant.JobStatusPending)
	archive := &fakeArchive{}
	s := NewService(repo, &copyRemuxer{}, archive, t.TempDir())

	if err := s.Process(context.Background(), msg); err != nil {
		t.Fatal(err)
	}
	if len(archive.puts) != 1 || archive.puts[0] != "v1.mp4" {
		t.Errorf("archive puts = %v", archive.puts)
	}
	if job := jobStatus(t, repo, msg.JobId); job.OutputPath != "processed/v1.mp4" {
		t.Errorf("OutputPath = %q", job.OutputPath)
	}
}

func TestProcessRemuxFailureIsFinal(t *testing.T) {
	repo := repository.NewMemoryRepo()
	msg := setupJob(t, repo, constant.JobStatusPending)
	s := NewService(repo, &copyRemuxer{err: errors.New("bad container")}, nil, t.TempDir())

	if err := s.Process(context.Background(), msg); err != nil {
		t.Fatalf("Process returned error %v, want nil for a non-retryable failure", err)
	}
	job := jobStatus(t, repo, msg.JobId)
	if job.Status != constant.JobStatusFailed {
		t.Errorf("status = %s, want %s", job.Status, constant.JobStatusFailed)
	}
	if !strings.Contains(job.Error, "bad container") {
		t.Errorf("Error = %q", job.Error)
	}
}

func TestProcessArchiveFailureIsRetryable(t *testing.T) {
	repo := repository.NewMemoryRepo()
	msg := setupJob(t, repo, constant.JobStatusPending)
	s := NewService(repo, &copyRemuxer{}, &fakeArchive{err: errors.New("bucket offline")}, t.TempDir())

	err := s.Process(context.Background(), msg)
	if err == nil || errors.Is(err, ErrNonRetryable) {
		t.Fatalf("Process error = %v, want a retryable error", err)
	}
	if job := jobStatus(t, repo, msg.JobId); job.Status != constant.JobStatusPending {
		t.Errorf("status = %s, want %s", job.Status, constant.JobStatusPending)
	}
}

func TestProcessMissingInput(t *testing.T) {
	repo := repository.NewMemoryRepo()
	msg := setupJob(t, repo, constant.JobStatusPending)
	msg.ObjectPath = filepath.Join(t.TempDir(), "gone.mp4")
	remuxer := &copyRemuxer{}
	s := NewService(repo, remuxer, nil, t.TempDir())

	if err := s.Process(context.Background(), msg); err != nil {
		t.Fatal(err)
	}
	if job := jobStatus(t, repo, msg.JobId); job.Status != constant.JobStatusFailed {
		t.Errorf("status = %s, want %s", job.Status, constant.JobStatusFailed)
	}
	if remuxer.calls != 0 {
		t.Error("remuxer called without input")
	}
}

func TestProcessSkipsNonPending(t *testing.T) {
	repo := repository.NewMemoryRepo()
	msg := setupJob(t, repo, constant.JobStatusCompleted)
	remuxer := &copyRemuxer{}
	s := NewService(repo, remuxer, nil, t.TempDir())

	if err := s.Process(context.Background(), msg); err != nil {
		t.Fatal(err)
	}
	if remuxer.calls != 0 {
		t.Error("completed job processed again")
	}
}

func TestProcessUnknownJob(t *testing.T) {
	s := NewService(repository.NewMemoryRepo(), &copyRemuxer{}, nil, t.TempDir())
	if err := s.Process(context.Background(), dto.JobMessage{JobId: uuid.New()}); err != nil {
		t.Errorf("Process(unknown job) error = %v, want nil", err)
	}
}

func TestFFmpegRemuxerArgs(t *testing.T) {
	args := strings.Join(FFmpegRemuxer{}.args("in.mov", "out.mp4"), " ")
	for _, want := range []string{"-i in.mov", "-c copy", "-movflags +faststart", "out.mp4"} {
		if !strings.Contains(args, want) {
			t.Errorf("args %q missing %q", args, want)
		}
	}
}

func TestFFmpegRemuxerMissingBinary(t *testing.T) {
	r := FFmpegRemuxer{Binary: filepath.Join(t.TempDir(), "no-ffmpeg")}
	if err := r.Remux(context.Background(), "in", "out"); err == nil {
		t.Error("Remux with a missing binary returned nil error")
	}
}
