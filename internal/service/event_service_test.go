package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-service/internal/apperr"
	"photo-service/internal/model"
	"photo-service/internal/repository"
	"photo-service/internal/service"
)

func TestEventServiceCreate(t *testing.T) {
	repo := newFakeEventRepo()
	svc := service.NewEventService(repo)

	location := "Flanders"
	event, err := svc.Create(context.Background(), service.CreateEventInput{
		Name:     "Ronde Sportive",
		Date:     time.Now().UTC().Add(48 * time.Hour),
		Location: &location,
	})
	require.NoError(t, err)
	assert.Equal(t, model.EventStatusDraft, event.Status)
	assert.Contains(t, repo.events, event.ID)
}

func TestEventServiceCreateInvalid(t *testing.T) {
	repo := newFakeEventRepo()
	svc := service.NewEventService(repo)

	_, err := svc.Create(context.Background(), service.CreateEventInput{
		Name: "ab",
		Date: time.Now().UTC().Add(48 * time.Hour),
	})

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "event.name_invalid_length", appErr.Key)
	assert.Empty(t, repo.events)
}

func TestEventServiceUpdatePartial(t *testing.T) {
	repo := newFakeEventRepo()
	svc := service.NewEventService(repo)

	event, err := svc.Create(context.Background(), service.CreateEventInput{
		Name: "Ronde Sportive",
		Date: time.Now().UTC().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	newName := "Ronde Sportive 2027"
	updated, err := svc.Update(context.Background(), event.ID.String(), service.UpdateEventInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Ronde Sportive 2027", updated.Name)
	assert.True(t, updated.Date.Equal(event.Date), "date untouched when not provided")
}

func TestEventServiceUpdateMissing(t *testing.T) {
	svc := service.NewEventService(newFakeEventRepo())

	name := "Whatever Ride"
	_, err := svc.Update(context.Background(), "2b0fc35e-7a7b-4f6a-9f2e-0fb9a9d5f000", service.UpdateEventInput{Name: &name})

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.CodeNotFound, appErr.Code)
}

func TestEventServiceDeleteExcludesFromReads(t *testing.T) {
	repo := newFakeEventRepo()
	svc := service.NewEventService(repo)

	event, err := svc.Create(context.Background(), service.CreateEventInput{
		Name: "Ronde Sportive",
		Date: time.Now().UTC().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), event.ID.String()))

	_, err = svc.Get(context.Background(), event.ID.String())
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.CodeNotFound, appErr.Code)

	events, err := svc.List(context.Background(), repository.NewPagination(1, 20))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventServiceGetInvalidID(t *testing.T) {
	svc := service.NewEventService(newFakeEventRepo())

	_, err := svc.Get(context.Background(), "nope")
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.CodeNotFound, appErr.Code)
}
