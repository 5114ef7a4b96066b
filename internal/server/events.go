package server

import (
	"context"
	"net/http"

	"wastewatch/internal/store"
	"wastewatch/pkg/types"
)

type eventRequest struct {
	Title       string     `json:"title" form:"title"`
	Description string     `json:"description" form:"description"`
	Location    string     `json:"location" form:"location"`
	Date        string     `json:"date" form:"date"`
	User        types.User `json:"user" form:"user"`
}

func (s *Service) handlePostEvent(w http.ResponseWriter, r *http.Request) {
	var body eventRequest
	if err := decodeBody(w, r, &body); err != nil {
		s.logger.WithError(err).Info("invalid event payload")
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	input := types.EventInput{
		Title:       body.Title,
		Description: body.Description,
		Location:    body.Location,
		Date:        body.Date,
	}

	id, err := s.events.CreateEvent(ctx, input, requestUser(r.Context(), body.User))
	if err != nil {
		s.writeServiceError(w, err, "Failed to create event")
		return
	}

	s.metrics.RecordWrite(store.CollectionEvents)

	s.writeJSON(w, http.StatusOK, createdResponse{Message: "Event created", ID: id})
}

func (s *Service) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.events.Events(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "Failed to fetch events")
		return
	}

	if events == nil {
		events = []*types.Event{}
	}

	s.writeJSON(w, http.StatusOK, events)
}
