package storage

import (
	"errors"
	"fmt"
	"github.com/gabriel-vasile/mimetype"
	"io"
	"os"
	"path/filepath"
	"strings"
	"video-stream/constant"
)

var ErrNoFile = errors.New("no file uploaded")

// File is the read side handed to the stream responder.
type File interface {
	io.ReaderAt
	io.Closer
}

type SavedFile struct {
	FileName  string
	Path      string
	Size      int64
	MediaType string
}

// LocalStore keeps uploaded videos as plain files under one directory.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes body to <id><ext of originalName>. The data lands in a temp
// file first and is renamed into place once complete, so a partially
// written upload never carries the final name.
func (s *LocalStore) Save(id, originalName, declaredType string, body io.Reader) (*SavedFile, error) {
	if body == nil {
		return nil, ErrNoFile
	}
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}

	mediaType := detectMediaType(tmpPath, declaredType)

	fileName := id + strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	path := filepath.Join(s.dir, fileName)
	if err := os.Rename(tmpPath, path); err != nil {
		return nil, fmt.Errorf("move upload into place: %w", err)
	}

	return &SavedFile{
		FileName:  fileName,
		Path:      path,
		Size:      size,
		MediaType: mediaType,
	}, nil
}

func (s *LocalStore) Open(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *LocalStore) Remove(path string) error {
	return os.Remove(path)
}

func detectMediaType(path, declared string) string {
	mtype, err := mimetype.DetectFile(path)
	if err == nil && !mtype.Is("application/octet-stream") && !mtype.Is("text/plain") {
		return mtype.String()
	}
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return constant.DefaultMediaType
}
