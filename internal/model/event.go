package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photo-service/internal/apperr"
)

type EventStatus string

const (
	EventStatusDraft      EventStatus = "draft"
	EventStatusUploading  EventStatus = "uploading"
	EventStatusProcessing EventStatus = "processing"
	EventStatusCompleted  EventStatus = "completed"
)

const (
	eventNameMinLen = 3
	eventNameMaxLen = 200
)

type Event struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name            string         `gorm:"type:varchar(200);not null" json:"name"`
	Date            time.Time      `gorm:"not null" json:"date"`
	Location        *string        `gorm:"type:text" json:"location"`
	Status          EventStatus    `gorm:"type:event_status;not null;default:draft" json:"status"`
	TotalPhotos     int            `gorm:"not null;default:0" json:"total_photos"`
	ProcessedPhotos int            `gorm:"not null;default:0" json:"processed_photos"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// NewEvent validates name and date and returns an event in draft status.
func NewEvent(name string, date time.Time, location *string) (*Event, error) {
	name = strings.TrimSpace(name)
	if err := validateEventName(name); err != nil {
		return nil, err
	}
	if err := validateEventDate(date); err != nil {
		return nil, err
	}
	return &Event{
		ID:       uuid.New(),
		Name:     name,
		Date:     date,
		Location: location,
		Status:   EventStatusDraft,
	}, nil
}

// ApplyUpdate mutates only the fields that were provided.
func (e *Event) ApplyUpdate(name *string, date *time.Time, location *string) error {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if err := validateEventName(trimmed); err != nil {
			return err
		}
		e.Name = trimmed
	}
	if date != nil {
		if err := validateEventDate(*date); err != nil {
			return err
		}
		e.Date = *date
	}
	if location != nil {
		e.Location = location
	}
	return nil
}

func validateEventName(name string) error {
	// Length limits are in characters, not bytes.
	if n := utf8.RuneCountInString(name); n < eventNameMinLen || n > eventNameMaxLen {
		return apperr.BusinessRule("event.name_invalid_length", "event name must be between 3 and 200 characters")
	}
	return nil
}

func validateEventDate(date time.Time) error {
	now := time.Now().UTC()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.UTC().Before(startOfToday) {
		return apperr.BusinessRule("event.date_in_past", "event date must not be in the past")
	}
	return nil
}
