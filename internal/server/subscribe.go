package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"wastewatch/internal/store"

	"github.com/sirupsen/logrus"
)

const (
	heartbeatInterval   = 25 * time.Second
	subscribePathPrefix = "/api/subscribe/"
)

// handleSubscribe streams a collection's changes as Server-Sent Events. The
// stream opens with every current document as an "added" event.
func (s *Service) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")
	if !store.KnownCollection(collection) {
		s.writeError(w, http.StatusNotFound, "unknown collection")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	changes, err := s.subscriber.Subscribe(ctx, collection)
	if err != nil {
		if errors.Is(err, store.ErrUnknownCollection) {
			s.writeError(w, http.StatusNotFound, "unknown collection")
			return
		}
		s.logger.WithError(err).WithField("collection", collection).Error("failed to subscribe")
		s.writeError(w, http.StatusInternalServerError, "Failed to subscribe")
		return
	}

	rc := http.NewResponseController(w)
	// streams outlive the server write timeout
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		s.logger.WithError(err).Warn("failed to clear write deadline")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		s.logger.WithError(err).Error("response does not support streaming")
		return
	}

	logger := s.logger.WithField("collection", collection)
	logger.Debug("subscriber connected")
	defer logger.Debug("subscriber disconnected")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case change, ok := <-changes:
			if !ok {
				return
			}

			data, err := json.Marshal(change)
			if err != nil {
				logger.WithError(err).WithFields(logrus.Fields{"id": change.ID}).Error("failed to encode change")
				continue
			}

			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", change.Kind, data); err != nil {
				return
			}
		}

		if err := rc.Flush(); err != nil {
			return
		}
	}
}
