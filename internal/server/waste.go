package server

import (
	"context"
	"net/http"
	"time"

	"wastewatch/internal/store"
	"wastewatch/pkg/types"
)

const writeTimeout = 5 * time.Second

type wasteRequest struct {
	Type     string     `json:"type" form:"type"`
	Volume   string     `json:"volume" form:"volume"`
	Location string     `json:"location" form:"location"`
	User     types.User `json:"user" form:"user"`
}

type createdResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

func (s *Service) handlePostWaste(w http.ResponseWriter, r *http.Request) {
	var body wasteRequest
	if err := decodeBody(w, r, &body); err != nil {
		s.logger.WithError(err).Info("invalid waste entry payload")
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	input := types.WasteEntryInput{
		Type:     body.Type,
		Volume:   body.Volume,
		Location: body.Location,
	}

	id, err := s.waste.CreateWasteEntry(ctx, input, requestUser(r.Context(), body.User))
	if err != nil {
		s.writeServiceError(w, err, "Failed to add waste entry")
		return
	}

	s.metrics.RecordWrite(store.CollectionWasteEntries)

	s.writeJSON(w, http.StatusOK, createdResponse{Message: "Waste entry added", ID: id})
}

func (s *Service) handleGetWaste(w http.ResponseWriter, r *http.Request) {
	entries, err := s.waste.WasteEntries(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "Failed to fetch waste entries")
		return
	}

	if entries == nil {
		entries = []*types.WasteEntry{}
	}

	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Service) handleGetWasteTypes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, types.WasteTypes)
}
