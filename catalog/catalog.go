package catalog

import (
	"errors"
	"sync"
	"video-stream/entities"
)

var (
	ErrNotFound    = errors.New("video not found")
	ErrDuplicateID = errors.New("video id already exists")
)

// Catalog is the in-memory registry of uploaded videos. It is safe for
// concurrent use; every method holds the lock only for the map access.
type Catalog struct {
	mu      sync.RWMutex
	byId    map[string]*entities.Video
	ordered []*entities.Video
}

func New() *Catalog {
	return &Catalog{
		byId: make(map[string]*entities.Video),
	}
}

// Insert registers a fully built record. The record must not be mutated by
// the caller afterwards.
func (c *Catalog) Insert(video *entities.Video) error {
	if video == nil || video.Id == "" {
		return errors.New("video id must be set")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byId[video.Id]; ok {
		return ErrDuplicateID
	}
	c.byId[video.Id] = video
	c.ordered = append(c.ordered, video)
	return nil
}

func (c *Catalog) Get(id string) (*entities.Video, error) {
	c.mu.RLock()
	video, ok := c.byId[id]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return video, nil
}

// List returns the records in insertion order.
func (c *Catalog) List() []*entities.Video {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*entities.Video, len(c.ordered))
	copy(out, c.ordered)
	return out
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ordered)
}
