package entities

import (
	"github.com/google/uuid"
	"time"
	"video-stream/constant"
)

// Job tracks one run of the processing hook for an uploaded video.
type Job struct {
	ID         uuid.UUID          `json:"id" gorm:"type:uuid;primaryKey"`
	VideoId    string             `json:"video_id" gorm:"index"`
	Status     constant.JobStatus `json:"status"`
	JobType    constant.JobType   `json:"job_type"`
	OutputPath string             `json:"output_path"`
	Error      string             `json:"error"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}
