package service

import (
	"context"
	"time"

	"wastewatch/internal/store"
	"wastewatch/pkg/types"

	"github.com/sirupsen/logrus"
)

type EventService struct {
	logger logrus.FieldLogger
	store  store.EventStore
	now    func() time.Time
}

func NewEventService(logger logrus.FieldLogger, store store.EventStore) *EventService {
	return &EventService{logger: logger, store: store, now: time.Now}
}

// CreateEvent appends a new event with user as its creator and returns its id.
func (s *EventService) CreateEvent(ctx context.Context, input types.EventInput, user types.User) (string, error) {
	if user.UID == "" {
		return "", types.ErrUnauthorized
	}

	event := &types.Event{
		Title:        input.Title,
		Description:  input.Description,
		Location:     input.Location,
		Date:         input.Date,
		CreatorID:    user.UID,
		CreatorEmail: optional(user.Email),
		CreatedAt:    s.now().UTC(),
	}

	if err := s.store.CreateEvent(ctx, event); err != nil {
		return "", &types.StorageError{Op: "create event", Err: err}
	}

	s.logger.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"creator_id": event.CreatorID,
	}).Info("event created")

	return event.ID, nil
}

func (s *EventService) Events(ctx context.Context) ([]*types.Event, error) {
	events, err := s.store.Events(ctx)
	if err != nil {
		return nil, &types.StorageError{Op: "list events", Err: err}
	}
	return events, nil
}
