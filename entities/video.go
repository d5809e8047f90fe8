package entities

import "time"

// Video is a catalog entry for one uploaded file. All fields are set once at
// ingest and never change afterwards.
type Video struct {
	Id           string
	FileName     string
	OriginalName string
	Path         string
	Size         int64
	MediaType    string
	CreatedAt    time.Time
}
