package service

import (
	"context"
	"errors"
	"io"

	"wastewatch/pkg/types"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// failingStore fails every read and write.
type failingStore struct {
	writes int
}

var errStoreDown = errors.New("store unavailable")

func (f *failingStore) CreateWasteEntry(ctx context.Context, entry *types.WasteEntry) error {
	f.writes++
	return errStoreDown
}

func (f *failingStore) WasteEntries(ctx context.Context) ([]*types.WasteEntry, error) {
	return nil, errStoreDown
}

func (f *failingStore) CreateEvent(ctx context.Context, event *types.Event) error {
	f.writes++
	return errStoreDown
}

func (f *failingStore) Events(ctx context.Context) ([]*types.Event, error) {
	return nil, errStoreDown
}
