package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"wastewatch/pkg/types"
)

const maxBodyBytes = 1 << 20

func (s *Service) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Service) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps a service error onto a status code.
func (s *Service) writeServiceError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, types.ErrUnauthorized) {
		s.writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var storageErr *types.StorageError
	if errors.As(err, &storageErr) {
		s.logger.WithError(err).WithField("op", storageErr.Op).Error(message)
	} else {
		s.logger.WithError(err).Error(message)
	}

	s.writeError(w, http.StatusInternalServerError, message)
}

// decodeBody fills v from a JSON or urlencoded form body. An empty body
// leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType := ""
	if ct := r.Header.Get("Content-Type"); ct != "" {
		parsed, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return fmt.Errorf("invalid content type: %w", err)
		}
		mediaType = parsed
	}

	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("failed to parse form: %w", err)
		}
		if err := decoder.Decode(v, r.PostForm); err != nil {
			return fmt.Errorf("failed to decode form: %w", err)
		}
		return nil
	}

	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode json: %w", err)
	}

	return nil
}
