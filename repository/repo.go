package repository

import (
	"context"
	"database/sql"
	"errors"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"video-stream/constant"
	"video-stream/entities"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	CreateJob(ctx context.Context, job *entities.Job) error
	FindJobById(ctx context.Context, id uuid.UUID) (*entities.Job, error)
	UpdateStatusJob(ctx context.Context, status constant.JobStatus, id uuid.UUID) error
	CompleteJob(ctx context.Context, id uuid.UUID, outputPath string) error
	FailJob(ctx context.Context, id uuid.UUID, reason string) error
}

type repo struct {
	db *gorm.DB
}

func (r *repo) CreateJob(ctx context.Context, job *entities.Job) error {
	return r.GetDB().WithContext(ctx).Create(job).Error
}

func (r *repo) FindJobById(ctx context.Context, id uuid.UUID) (*entities.Job, error) {
	job := &entities.Job{}
	err := r.GetDB().WithContext(ctx).First(job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}

	return job, nil
}

func (r *repo) UpdateStatusJob(ctx context.Context, status constant.JobStatus, id uuid.UUID) error {
	return r.updates(ctx, id, map[string]interface{}{"status": status})
}

func (r *repo) CompleteJob(ctx context.Context, id uuid.UUID, outputPath string) error {
	return r.updates(ctx, id, map[string]interface{}{
		"status":      constant.JobStatusCompleted,
		"output_path": outputPath,
		"error":       "",
	})
}

func (r *repo) FailJob(ctx context.Context, id uuid.UUID, reason string) error {
	return r.updates(ctx, id, map[string]interface{}{
		"status": constant.JobStatusFailed,
		"error":  reason,
	})
}

func (r *repo) updates(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	res := r.GetDB().WithContext(ctx).Model(&entities.Job{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func NewRepo(db *sql.DB) (JobRepository, error) {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		},
	)
	if err != nil {
		return nil, err
	}
	if err := gormDB.AutoMigrate(&entities.Job{}); err != nil {
		return nil, err
	}
	return &repo{
		db: gormDB,
	}, nil
}

func (r *repo) GetDB() *gorm.DB {
	return r.db
}
