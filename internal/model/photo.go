package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photo-service/internal/apperr"
)

type PhotoStatus string

const (
	PhotoStatusPending   PhotoStatus = "pending"
	PhotoStatusDetecting PhotoStatus = "detecting"
	PhotoStatusAnalyzing PhotoStatus = "analyzing"
	PhotoStatusCompleted PhotoStatus = "completed"
	PhotoStatusFailed    PhotoStatus = "failed"
)

// Valid reports whether s is one of the known photo statuses. The status
// column is a Postgres enum, so unknown values must be caught before they
// reach a query.
func (s PhotoStatus) Valid() bool {
	switch s {
	case PhotoStatusPending, PhotoStatusDetecting, PhotoStatusAnalyzing, PhotoStatusCompleted, PhotoStatusFailed:
		return true
	}
	return false
}

type UnclassifiedReason string

const (
	ReasonNoCyclist       UnclassifiedReason = "no_cyclist"
	ReasonOCRFailed       UnclassifiedReason = "ocr_failed"
	ReasonLowConfidence   UnclassifiedReason = "low_confidence"
	ReasonProcessingError UnclassifiedReason = "processing_error"
)

// AllowedMimeTypes is the upload whitelist.
var AllowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Photo rows are hard-deleted, unlike events.
type Photo struct {
	ID                 uuid.UUID           `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	EventID            uuid.UUID           `gorm:"type:uuid;not null;index" json:"event_id"`
	Filename           string              `gorm:"type:text;not null" json:"filename"`
	StorageKey         string              `gorm:"type:text;not null" json:"storage_key"`
	FileSize           int64               `gorm:"not null" json:"file_size"`
	MimeType           string              `gorm:"type:varchar(64);not null" json:"mime_type"`
	Width              *int                `json:"width"`
	Height             *int                `json:"height"`
	Status             PhotoStatus         `gorm:"type:photo_status;not null;default:pending;index" json:"status"`
	UnclassifiedReason *UnclassifiedReason `gorm:"type:varchar(32)" json:"unclassified_reason"`
	CapturedAt         *time.Time          `json:"captured_at"`
	UploadedAt         time.Time           `gorm:"not null;index" json:"uploaded_at"`
	ProcessedAt        *time.Time          `json:"processed_at"`

	Cyclists []DetectedCyclist `gorm:"foreignKey:PhotoID" json:"cyclists,omitempty"`
}

func (Photo) TableName() string {
	return "photos"
}

func (p *Photo) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func NewPhoto(eventID uuid.UUID, filename, storageKey, mimeType string, fileSize int64, capturedAt *time.Time) (*Photo, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, apperr.BusinessRule("photo.filename_blank", "photo filename must not be blank")
	}
	if !AllowedMimeTypes[mimeType] {
		return nil, apperr.BusinessRule("photo.mime_type_invalid", "photo mime type must be image/jpeg, image/png or image/webp")
	}
	if fileSize <= 0 {
		return nil, apperr.BusinessRule("photo.file_size_invalid", "photo file size must be positive")
	}
	return &Photo{
		ID:         uuid.New(),
		EventID:    eventID,
		Filename:   filename,
		StorageKey: storageKey,
		FileSize:   fileSize,
		MimeType:   mimeType,
		Status:     PhotoStatusPending,
		CapturedAt: capturedAt,
		UploadedAt: time.Now().UTC(),
	}, nil
}

// MarkAsCompleted is a terminal transition. Any prior unclassified reason
// is cleared.
func (p *Photo) MarkAsCompleted(now time.Time) {
	p.Status = PhotoStatusCompleted
	p.UnclassifiedReason = nil
	p.ProcessedAt = &now
}

// MarkAsFailed is the other terminal transition and requires a reason.
func (p *Photo) MarkAsFailed(reason UnclassifiedReason, now time.Time) error {
	switch reason {
	case ReasonNoCyclist, ReasonOCRFailed, ReasonLowConfidence, ReasonProcessingError:
	default:
		return apperr.BusinessRule("photo.unclassified_reason_invalid", "unknown unclassified reason")
	}
	p.Status = PhotoStatusFailed
	p.UnclassifiedReason = &reason
	p.ProcessedAt = &now
	return nil
}

func (p *Photo) IsTerminal() bool {
	return p.Status == PhotoStatusCompleted || p.Status == PhotoStatusFailed
}
