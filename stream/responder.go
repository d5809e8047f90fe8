package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"video-stream/dto"
	"video-stream/entities"
	"video-stream/httprange"
	"video-stream/storage"
)

const DefaultBufferSize = 32 << 10

var (
	ErrMalformedRange     = errors.New("malformed range header")
	ErrUnsatisfiableRange = errors.New("range not satisfiable")
	ErrIO                 = errors.New("video read failed")
	ErrClientGone         = errors.New("client disconnected")
)

type Opener interface {
	Open(path string) (storage.File, error)
}

// Responder writes a video, or the byte window asked for by the request's
// Range header, to an HTTP response.
type Responder struct {
	opener  Opener
	bufSize int
	pool    sync.Pool
}

func NewResponder(opener Opener, bufferSize int) *Responder {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	s := &Responder{
		opener:  opener,
		bufSize: bufferSize,
	}
	s.pool.New = func() any {
		buf := make([]byte, s.bufSize)
		return &buf
	}
	return s
}

// Serve answers r for video. The response is always complete when Serve
// returns; the error only classifies what happened for the caller's logs.
func (s *Responder) Serve(w http.ResponseWriter, r *http.Request, video *entities.Video) error {
	size := video.Size
	parsed := httprange.Parse(r.Header.Get("Range"), size)

	var status int
	var window httprange.Range
	switch parsed.Kind {
	case httprange.NoRange:
		status = http.StatusOK
		window = httprange.Range{Start: 0, End: size - 1}
	case httprange.Satisfiable:
		status = http.StatusPartialContent
		window = parsed.Range
	case httprange.Unsatisfiable:
		h := w.Header()
		h.Set("Content-Range", httprange.UnsatisfiedContentRange(size))
		h.Set("Accept-Ranges", "bytes")
		h.Set("Content-Length", "0")
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
		return ErrUnsatisfiableRange
	default:
		replyJSON(w, dto.ErrorResponse{Error: "Malformed Range header"}, http.StatusBadRequest)
		return ErrMalformedRange
	}

	f, err := s.opener.Open(video.Path)
	if err != nil {
		replyJSON(w, dto.ErrorResponse{Error: "Video could not be read"}, http.StatusInternalServerError)
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer f.Close()

	h := w.Header()
	h.Set("Accept-Ranges", "bytes")
	h.Set("Content-Type", video.MediaType)
	length := window.Length()
	if status == http.StatusPartialContent {
		h.Set("Content-Range", window.ContentRange(size))
	} else {
		length = size
	}
	h.Set("Content-Length", strconv.FormatInt(length, 10))
	w.WriteHeader(status)

	if r.Method == http.MethodHead || length == 0 {
		return nil
	}
	return s.copy(r.Context(), w, f, window.Start, length)
}

func (s *Responder) copy(ctx context.Context, w io.Writer, f storage.File, start, length int64) error {
	bufp := s.pool.Get().(*[]byte)
	defer s.pool.Put(bufp)

	src := &contextReader{ctx: ctx, r: io.NewSectionReader(f, start, length)}
	n, err := io.CopyBuffer(writerOnly{w}, src, *bufp)
	if ctx.Err() != nil {
		return fmt.Errorf("%w after %d bytes: %v", ErrClientGone, n, ctx.Err())
	}
	if err != nil {
		return fmt.Errorf("%w after %d bytes: %v", ErrIO, n, err)
	}
	if n < length {
		return fmt.Errorf("%w: short read %d of %d bytes: %v", ErrIO, n, length, io.ErrUnexpectedEOF)
	}
	return nil
}

// contextReader stops a copy as soon as the request context is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// writerOnly hides io.ReaderFrom so io.CopyBuffer uses our buffer.
type writerOnly struct {
	io.Writer
}

// Respond the output with JSON format to the client.
func replyJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}
