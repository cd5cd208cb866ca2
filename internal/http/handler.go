package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"photo-service/internal/model"
	"photo-service/internal/repository"
	"photo-service/internal/service"
)

type Handler struct {
	eventService          *service.EventService
	photoService          *service.PhotoService
	classificationService *service.ClassificationService
	queryService          *service.PhotoQueryService
	maxUploadBytes        int64
	dev                   bool
	log                   zerolog.Logger
}

func NewHandler(
	eventService *service.EventService,
	photoService *service.PhotoService,
	classificationService *service.ClassificationService,
	queryService *service.PhotoQueryService,
	maxUploadBytes int64,
	env string,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		eventService:          eventService,
		photoService:          photoService,
		classificationService: classificationService,
		queryService:          queryService,
		maxUploadBytes:        maxUploadBytes,
		dev:                   env == "development",
		log:                   log,
	}
}

func (h *Handler) Register(r *gin.Engine, serviceAuth gin.HandlerFunc) {
	events := r.Group("/events")
	{
		events.POST("", h.createEvent)
		events.GET("", h.listEvents)
		events.GET("/:id", h.getEvent)
		events.PATCH("/:id", h.updateEvent)
		events.DELETE("/:id", h.deleteEvent)
		events.POST("/:id/photos", h.uploadPhotos)
		events.GET("/:id/photos", h.listEventPhotos)
	}

	photos := r.Group("/photos")
	{
		photos.GET("/search", h.searchPhotos)
		photos.GET("/:id", h.getPhotoDetail)
		photos.DELETE("/:id", h.deletePhoto)
		// Callback routes for the vision pipeline.
		photos.PATCH("/:id/classify", serviceAuth, h.classifyPhoto)
		photos.PATCH("/:id/fail", serviceAuth, h.failPhoto)
	}
}

// Event handlers

type createEventRequest struct {
	Name     string  `json:"name" binding:"required"`
	Date     string  `json:"date" binding:"required"`
	Location *string `json:"location"`
}

func (h *Handler) createEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.validationError(c, map[string][]string{"body": {err.Error()}})
		return
	}

	date, err := parseTime(req.Date)
	if err != nil {
		h.validationError(c, map[string][]string{"date": {"invalid date format"}})
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), service.CreateEventInput{
		Name:     req.Name,
		Date:     date,
		Location: req.Location,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.respond(c, http.StatusCreated, gin.H{"id": event.ID})
}

func (h *Handler) listEvents(c *gin.Context) {
	events, err := h.eventService.List(c.Request.Context(), paginationFromQuery(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.respond(c, http.StatusOK, events)
}

func (h *Handler) getEvent(c *gin.Context) {
	event, err := h.eventService.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.respond(c, http.StatusOK, event)
}

type updateEventRequest struct {
	Name     *string `json:"name"`
	Date     *string `json:"date"`
	Location *string `json:"location"`
}

func (h *Handler) updateEvent(c *gin.Context) {
	var req updateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.validationError(c, map[string][]string{"body": {err.Error()}})
		return
	}

	var date *time.Time
	if req.Date != nil {
		parsed, err := parseTime(*req.Date)
		if err != nil {
			h.validationError(c, map[string][]string{"date": {"invalid date format"}})
			return
		}
		date = &parsed
	}

	event, err := h.eventService.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), service.UpdateEventInput{
		Name:     req.Name,
		Date:     date,
		Location: req.Location,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.respond(c, http.StatusOK, event)
}

func (h *Handler) deleteEvent(c *gin.Context) {
	if err := h.eventService.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		h.handleError(c, err)
		return
	}

	h.respondMessage(c, http.StatusOK, gin.H{}, "event deleted")
}

// Photo handlers

func (h *Handler) uploadPhotos(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.validationError(c, map[string][]string{"photos": {"invalid multipart form"}})
		return
	}

	fileHeaders := form.File["photos"]
	if len(fileHeaders) == 0 {
		h.validationError(c, map[string][]string{"photos": {"at least one file is required"}})
		return
	}

	files := make([]service.UploadFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		if fh.Size > h.maxUploadBytes {
			h.validationError(c, map[string][]string{"photos": {fh.Filename + " exceeds the upload size limit"}})
			return
		}
		f, err := fh.Open()
		if err != nil {
			h.handleError(c, err)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			h.handleError(c, err)
			return
		}
		files = append(files, service.UploadFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Data:        data,
		})
	}

	ids, err := h.photoService.Upload(c.Request.Context(), strings.TrimSpace(c.Param("id")), files)
	if err != nil {
		h.handleError(c, err)
		return
	}

	uploaded := make([]gin.H, len(ids))
	for i, id := range ids {
		uploaded[i] = gin.H{"id": id}
	}
	h.respond(c, http.StatusCreated, uploaded)
}

func (h *Handler) listEventPhotos(c *gin.Context) {
	photos, err := h.queryService.ListByEvent(c.Request.Context(), strings.TrimSpace(c.Param("id")), paginationFromQuery(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.respond(c, http.StatusOK, photos)
}

func (h *Handler) searchPhotos(c *gin.Context) {
	filter := repository.PhotoSearchFilter{}
	fields := map[string][]string{}

	if raw := strings.TrimSpace(c.Query("eventId")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			fields["eventId"] = append(fields["eventId"], "must be a valid uuid")
		} else {
			filter.EventID = &id
		}
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := model.PhotoStatus(raw)
		if !status.Valid() {
			fields["status"] = append(fields["status"], "must be one of pending, detecting, analyzing, completed, failed")
		} else {
			filter.Status = &status
		}
	}
	if raw := strings.TrimSpace(c.Query("plateNumber")); raw != "" {
		number, err := strconv.Atoi(raw)
		if err != nil {
			fields["plateNumber"] = append(fields["plateNumber"], "must be an integer")
		} else {
			filter.PlateNumber = &number
		}
	}
	if raw := strings.TrimSpace(c.Query("fromDate")); raw != "" {
		t, err := parseTime(raw)
		if err != nil {
			fields["fromDate"] = append(fields["fromDate"], "invalid date format")
		} else {
			filter.FromDate = &t
		}
	}
	if raw := strings.TrimSpace(c.Query("toDate")); raw != "" {
		t, err := parseTime(raw)
		if err != nil {
			fields["toDate"] = append(fields["toDate"], "invalid date format")
		} else {
			filter.ToDate = &t
		}
	}

	if len(fields) > 0 {
		h.validationError(c, fields)
		return
	}

	photos, err := h.queryService.Search(c.Request.Context(), filter, paginationFromQuery(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.respond(c, http.StatusOK, photos)
}

func (h *Handler) getPhotoDetail(c *gin.Context) {
	detail, err := h.queryService.GetDetail(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.respond(c, http.StatusOK, detail)
}

func (h *Handler) deletePhoto(c *gin.Context) {
	if err := h.photoService.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		h.handleError(c, err)
		return
	}

	h.respondMessage(c, http.StatusOK, gin.H{}, "photo deleted")
}

// Classification handlers

type plateObservationRequest struct {
	Number          int      `json:"number"`
	ConfidenceScore *float64 `json:"confidence_score"`
}

type colorObservationRequest struct {
	ItemType          string  `json:"item_type"`
	ColorName         string  `json:"color_name"`
	ColorHex          string  `json:"color_hex"`
	DensityPercentage float64 `json:"density_percentage"`
}

type cyclistDetectionRequest struct {
	BoundingBox     map[string]float64        `json:"bounding_box" binding:"required"`
	ConfidenceScore float64                   `json:"confidence_score"`
	PlateNumber     *plateObservationRequest  `json:"plate_number"`
	Colors          []colorObservationRequest `json:"colors"`
}

type classifyRequest struct {
	Width    *int                      `json:"width"`
	Height   *int                      `json:"height"`
	Cyclists []cyclistDetectionRequest `json:"cyclists"`
}

func (h *Handler) classifyPhoto(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.validationError(c, map[string][]string{"body": {err.Error()}})
		return
	}

	input := service.ClassifyInput{
		Width:    req.Width,
		Height:   req.Height,
		Cyclists: make([]service.CyclistDetection, 0, len(req.Cyclists)),
	}
	for _, cyclist := range req.Cyclists {
		detection := service.CyclistDetection{
			BoundingBox:     cyclist.BoundingBox,
			ConfidenceScore: cyclist.ConfidenceScore,
		}
		if cyclist.PlateNumber != nil {
			detection.PlateNumber = &service.PlateObservation{
				Number:          cyclist.PlateNumber.Number,
				ConfidenceScore: cyclist.PlateNumber.ConfidenceScore,
			}
		}
		for _, color := range cyclist.Colors {
			detection.Colors = append(detection.Colors, service.ColorObservation{
				ItemType:          color.ItemType,
				ColorName:         color.ColorName,
				ColorHex:          color.ColorHex,
				DensityPercentage: color.DensityPercentage,
			})
		}
		input.Cyclists = append(input.Cyclists, detection)
	}

	id, err := h.classificationService.Classify(c.Request.Context(), strings.TrimSpace(c.Param("id")), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.respond(c, http.StatusOK, gin.H{"id": id})
}

type failPhotoRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *Handler) failPhoto(c *gin.Context) {
	var req failPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.validationError(c, map[string][]string{"reason": {"reason is required"}})
		return
	}

	id, err := h.classificationService.Fail(c.Request.Context(), strings.TrimSpace(c.Param("id")), req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.respond(c, http.StatusOK, gin.H{"id": id})
}

// Helpers

func paginationFromQuery(c *gin.Context) repository.Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return repository.NewPagination(page, limit)
}

func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, errors.New("invalid time format")
}
