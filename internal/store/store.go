// Package store defines the document store the services write to and read
// from. Backends live in the subpackages.
package store

import (
	"context"
	"errors"

	"wastewatch/pkg/types"
)

const (
	CollectionWasteEntries = "wasteEntries"
	CollectionEvents       = "events"
	CollectionTips         = "tips"
)

var ErrUnknownCollection = errors.New("unknown collection")

// Collections lists every collection a client may subscribe to.
var Collections = []string{CollectionWasteEntries, CollectionEvents, CollectionTips}

func KnownCollection(name string) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}

type WasteEntryStore interface {
	// CreateWasteEntry appends the entry and sets entry.ID.
	CreateWasteEntry(ctx context.Context, entry *types.WasteEntry) error
	// WasteEntries returns every entry in store-defined order.
	WasteEntries(ctx context.Context) ([]*types.WasteEntry, error)
}

type EventStore interface {
	// CreateEvent appends the event and sets event.ID.
	CreateEvent(ctx context.Context, event *types.Event) error
	Events(ctx context.Context) ([]*types.Event, error)
}

type TipStore interface {
	// Tips returns every tip ordered by display order.
	Tips(ctx context.Context) ([]*types.Tip, error)
	UpsertTip(ctx context.Context, tip *types.Tip) error
	DeleteTip(ctx context.Context, id string) error
}

// Subscriber streams changes to a collection. The first values on the channel
// are one ChangeAdded per document already present. The channel is closed
// once ctx is done.
type Subscriber interface {
	Subscribe(ctx context.Context, collection string) (<-chan types.ChangeEvent, error)
}

type Store interface {
	WasteEntryStore
	EventStore
	TipStore
	Subscriber
	Close() error
}
