package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-service/internal/model"
)

func TestNewPhotoValidation(t *testing.T) {
	eventID := uuid.New()

	tests := []struct {
		name     string
		filename string
		mimeType string
		fileSize int64
		wantKey  string
	}{
		{"valid jpeg", "finish-line.jpg", "image/jpeg", 1024, ""},
		{"valid png", "finish-line.png", "image/png", 1024, ""},
		{"valid webp", "finish-line.webp", "image/webp", 1024, ""},
		{"empty filename", "", "image/jpeg", 1024, "photo.filename_blank"},
		{"whitespace filename", "   ", "image/jpeg", 1024, "photo.filename_blank"},
		{"gif rejected", "anim.gif", "image/gif", 1024, "photo.mime_type_invalid"},
		{"zero size", "a.jpg", "image/jpeg", 0, "photo.file_size_invalid"},
		{"negative size", "a.jpg", "image/jpeg", -1, "photo.file_size_invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			photo, err := model.NewPhoto(eventID, tt.filename, "key", tt.mimeType, tt.fileSize, nil)
			if tt.wantKey != "" {
				assert.Equal(t, tt.wantKey, businessRuleKey(t, err))
				assert.Nil(t, photo)
			} else {
				require.NoError(t, err)
				assert.Equal(t, model.PhotoStatusPending, photo.Status)
				assert.Equal(t, eventID, photo.EventID)
				assert.False(t, photo.UploadedAt.IsZero())
			}
		})
	}
}

func TestPhotoMarkAsCompleted(t *testing.T) {
	photo, err := model.NewPhoto(uuid.New(), "a.jpg", "key", "image/jpeg", 100, nil)
	require.NoError(t, err)

	reason := model.ReasonOCRFailed
	photo.UnclassifiedReason = &reason

	now := time.Now().UTC()
	photo.MarkAsCompleted(now)

	assert.Equal(t, model.PhotoStatusCompleted, photo.Status)
	assert.Nil(t, photo.UnclassifiedReason, "completion clears any prior reason")
	require.NotNil(t, photo.ProcessedAt)
	assert.True(t, photo.ProcessedAt.Equal(now))
	assert.True(t, photo.IsTerminal())
}

func TestPhotoMarkAsFailed(t *testing.T) {
	photo, err := model.NewPhoto(uuid.New(), "a.jpg", "key", "image/jpeg", 100, nil)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, photo.MarkAsFailed(model.ReasonNoCyclist, now))

	assert.Equal(t, model.PhotoStatusFailed, photo.Status)
	require.NotNil(t, photo.UnclassifiedReason)
	assert.Equal(t, model.ReasonNoCyclist, *photo.UnclassifiedReason)
	require.NotNil(t, photo.ProcessedAt)
	assert.True(t, photo.IsTerminal())
}

func TestPhotoMarkAsFailedUnknownReason(t *testing.T) {
	photo, err := model.NewPhoto(uuid.New(), "a.jpg", "key", "image/jpeg", 100, nil)
	require.NoError(t, err)

	err = photo.MarkAsFailed(model.UnclassifiedReason("cosmic_rays"), time.Now().UTC())
	assert.Equal(t, "photo.unclassified_reason_invalid", businessRuleKey(t, err))
	assert.Equal(t, model.PhotoStatusPending, photo.Status)
}
