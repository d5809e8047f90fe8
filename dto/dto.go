package dto

import (
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"time"
	"video-stream/entities"
)

type JobMessage struct {
	JobId      uuid.UUID `json:"jobId"`
	VideoId    string    `json:"videoId"`
	ObjectPath string    `json:"objectPath"`
	FileName   string    `json:"fileName"`
}

// VideoResponse is the public projection of a catalog entry. The storage path
// stays server side.
type VideoResponse struct {
	Id           string `json:"id"`
	FileName     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	SizeLabel    string `json:"sizeLabel"`
	MediaType    string `json:"mediaType"`
	UploadDate   string `json:"uploadDate"`
}

type UploadResponse struct {
	Success bool          `json:"success"`
	Video   VideoResponse `json:"video"`
}

type JobResponse struct {
	Id        string `json:"id"`
	VideoId   string `json:"videoId"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	UpdatedAt string `json:"updatedAt"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewVideoResponse(v *entities.Video) VideoResponse {
	return VideoResponse{
		Id:           v.Id,
		FileName:     v.FileName,
		OriginalName: v.OriginalName,
		Size:         v.Size,
		SizeLabel:    humanize.IBytes(uint64(v.Size)),
		MediaType:    v.MediaType,
		UploadDate:   v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func NewVideoResponses(videos []*entities.Video) []VideoResponse {
	out := make([]VideoResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, NewVideoResponse(v))
	}
	return out
}

func NewJobResponse(j *entities.Job) JobResponse {
	return JobResponse{
		Id:        j.ID.String(),
		VideoId:   j.VideoId,
		Status:    string(j.Status),
		Error:     j.Error,
		UpdatedAt: j.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
