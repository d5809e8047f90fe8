package handler

import (
	"errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"net/http"
	"video-stream/catalog"
	"video-stream/dto"
	"video-stream/repository"
	"video-stream/service"
	"video-stream/stream"
)

type VideoHandler struct {
	ingest        service.IngestService
	catalog       *catalog.Catalog
	responder     *stream.Responder
	jobs          repository.JobRepository
	maxUploadSize int64
}

func NewVideoHandler(
	ingest service.IngestService,
	c *catalog.Catalog,
	responder *stream.Responder,
	jobs repository.JobRepository,
	maxUploadSize int64,
) *VideoHandler {
	return &VideoHandler{
		ingest:        ingest,
		catalog:       c,
		responder:     responder,
		jobs:          jobs,
		maxUploadSize: maxUploadSize,
	}
}

func (h *VideoHandler) Register(r gin.IRouter) {
	api := r.Group("/api")
	api.POST("/upload", h.upload)
	api.GET("/videos", h.list)
	api.GET("/videos/:id", h.get)
	api.GET("/stream/:id", h.stream)
	api.HEAD("/stream/:id", h.stream)
	api.GET("/jobs/:id", h.job)
}

func (h *VideoHandler) upload(c *gin.Context) {
	ctx := c.Request.Context()
	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	}

	fileHeader, err := c.FormFile("video")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: "File too large"})
			return
		}
		zerolog.Ctx(ctx).Info().Err(err).Msg("upload rejected")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "No file uploaded"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to open uploaded part")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Upload failed"})
		return
	}
	defer file.Close()

	video, err := h.ingest.Ingest(ctx, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to ingest upload")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Upload failed"})
		return
	}

	c.JSON(http.StatusOK, dto.UploadResponse{Success: true, Video: dto.NewVideoResponse(video)})
}

func (h *VideoHandler) list(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewVideoResponses(h.catalog.List()))
}

func (h *VideoHandler) get(c *gin.Context) {
	video, err := h.catalog.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Video not found"})
		return
	}
	c.JSON(http.StatusOK, dto.NewVideoResponse(video))
}

func (h *VideoHandler) stream(c *gin.Context) {
	ctx := c.Request.Context()
	video, err := h.catalog.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Video not found"})
		return
	}

	err = h.responder.Serve(c.Writer, c.Request, video)
	logger := zerolog.Ctx(ctx)
	switch {
	case err == nil:
	case errors.Is(err, stream.ErrClientGone):
		logger.Debug().Err(err).Str("video_id", video.Id).Msg("client went away mid-stream")
	case errors.Is(err, stream.ErrMalformedRange), errors.Is(err, stream.ErrUnsatisfiableRange):
		logger.Info().Err(err).Str("video_id", video.Id).Str("range", c.GetHeader("Range")).Msg("range rejected")
	default:
		logger.Error().Err(err).Str("video_id", video.Id).Msg("failed to stream video")
	}
}

func (h *VideoHandler) job(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Job not found"})
		return
	}
	job, err := h.jobs.FindJobById(c.Request.Context(), id)
	if errors.Is(err, repository.ErrJobNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Job not found"})
		return
	}
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to load job")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Job lookup failed"})
		return
	}
	c.JSON(http.StatusOK, dto.NewJobResponse(job))
}
