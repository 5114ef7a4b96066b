// Package service holds the write, read and aggregation operations the HTTP
// layer and the CLI share. Services receive their store explicitly.
package service

import (
	"context"
	"time"

	"wastewatch/internal/store"
	"wastewatch/pkg/types"

	"github.com/sirupsen/logrus"
)

type WasteService struct {
	logger logrus.FieldLogger
	store  store.WasteEntryStore
	now    func() time.Time
}

func NewWasteService(logger logrus.FieldLogger, store store.WasteEntryStore) *WasteService {
	return &WasteService{logger: logger, store: store, now: time.Now}
}

// CreateWasteEntry appends a new entry attributed to user and returns its id.
// Field values are stored as given.
func (s *WasteService) CreateWasteEntry(ctx context.Context, input types.WasteEntryInput, user types.User) (string, error) {
	if user.UID == "" {
		return "", types.ErrUnauthorized
	}

	entry := &types.WasteEntry{
		Type:           input.Type,
		Volume:         input.Volume,
		Location:       input.Location,
		SubmitterID:    user.UID,
		SubmitterEmail: optional(user.Email),
		CreatedAt:      s.now().UTC(),
	}

	if err := s.store.CreateWasteEntry(ctx, entry); err != nil {
		return "", &types.StorageError{Op: "create waste entry", Err: err}
	}

	s.logger.WithFields(logrus.Fields{
		"entry_id":     entry.ID,
		"submitter_id": entry.SubmitterID,
		"type":         entry.Type,
	}).Info("waste entry created")

	return entry.ID, nil
}

func (s *WasteService) WasteEntries(ctx context.Context) ([]*types.WasteEntry, error) {
	entries, err := s.store.WasteEntries(ctx)
	if err != nil {
		return nil, &types.StorageError{Op: "list waste entries", Err: err}
	}
	return entries, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
