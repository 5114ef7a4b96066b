// Package memstore is an in-process implementation of store.Store used for
// local development and tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"wastewatch/internal/store"
	"wastewatch/internal/utils"
	"wastewatch/pkg/types"
)

var _ store.Store = (*Store)(nil)

// subscriberBuffer bounds how far a slow subscriber may fall behind before
// changes to it are dropped.
const subscriberBuffer = 256

type Store struct {
	mu      sync.RWMutex
	entries []*types.WasteEntry
	events  []*types.Event
	tips    map[string]*types.Tip
	subs    map[string]map[chan types.ChangeEvent]struct{}
}

func New() *Store {
	return &Store{
		tips: make(map[string]*types.Tip),
		subs: make(map[string]map[chan types.ChangeEvent]struct{}),
	}
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) CreateWasteEntry(ctx context.Context, entry *types.WasteEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = utils.NanoID()
	stored := *entry
	s.entries = append(s.entries, &stored)
	s.publish(store.CollectionWasteEntries, types.ChangeAdded, stored.ID, &stored)

	return nil
}

func (s *Store) WasteEntries(ctx context.Context) ([]*types.WasteEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.WasteEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		copied := *entry
		out = append(out, &copied)
	}
	return out, nil
}

func (s *Store) CreateEvent(ctx context.Context, event *types.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	event.ID = utils.NanoID()
	stored := *event
	s.events = append(s.events, &stored)
	s.publish(store.CollectionEvents, types.ChangeAdded, stored.ID, &stored)

	return nil
}

func (s *Store) Events(ctx context.Context) ([]*types.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.Event, 0, len(s.events))
	for _, event := range s.events {
		copied := *event
		out = append(out, &copied)
	}
	return out, nil
}

func (s *Store) Tips(ctx context.Context) ([]*types.Tip, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sortedTips(), nil
}

func (s *Store) UpsertTip(ctx context.Context, tip *types.Tip) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tip.ID == "" {
		return fmt.Errorf("tip id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kind := types.ChangeAdded
	if _, ok := s.tips[tip.ID]; ok {
		kind = types.ChangeModified
	}

	stored := *tip
	s.tips[tip.ID] = &stored
	s.publish(store.CollectionTips, kind, stored.ID, &stored)

	return nil
}

func (s *Store) DeleteTip(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tips[id]; !ok {
		return nil
	}

	delete(s.tips, id)
	s.publish(store.CollectionTips, types.ChangeRemoved, id, nil)

	return nil
}

// Subscribe registers the subscriber and snapshots the collection under the
// same lock, so no write falls between the initial documents and the live
// changes.
func (s *Store) Subscribe(ctx context.Context, collection string) (<-chan types.ChangeEvent, error) {
	if !store.KnownCollection(collection) {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownCollection, collection)
	}

	in := make(chan types.ChangeEvent, subscriberBuffer)

	s.mu.Lock()
	initial := s.snapshot(collection)
	if s.subs[collection] == nil {
		s.subs[collection] = make(map[chan types.ChangeEvent]struct{})
	}
	s.subs[collection][in] = struct{}{}
	s.mu.Unlock()

	out := make(chan types.ChangeEvent)
	go func() {
		defer close(out)
		defer func() {
			s.mu.Lock()
			delete(s.subs[collection], in)
			s.mu.Unlock()
		}()

		for _, change := range initial {
			select {
			case out <- change:
			case <-ctx.Done():
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case change := <-in:
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// publish must be called with s.mu held for writing.
func (s *Store) publish(collection string, kind types.ChangeKind, id string, doc any) {
	change := types.ChangeEvent{Collection: collection, Kind: kind, ID: id, Document: doc}
	for sub := range s.subs[collection] {
		select {
		case sub <- change:
		default:
		}
	}
}

// snapshot must be called with s.mu held.
func (s *Store) snapshot(collection string) []types.ChangeEvent {
	var docs []store.Document
	switch collection {
	case store.CollectionWasteEntries:
		docs = store.Documents(s.entries)
	case store.CollectionEvents:
		docs = store.Documents(s.events)
	case store.CollectionTips:
		docs = store.Documents(s.sortedTips())
	}

	out := make([]types.ChangeEvent, 0, len(docs))
	for _, doc := range docs {
		out = append(out, types.ChangeEvent{
			Collection: collection,
			Kind:       types.ChangeAdded,
			ID:         doc.DocumentID(),
			Document:   doc,
		})
	}
	return out
}

func (s *Store) sortedTips() []*types.Tip {
	out := make([]*types.Tip, 0, len(s.tips))
	for _, tip := range s.tips {
		copied := *tip
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}
