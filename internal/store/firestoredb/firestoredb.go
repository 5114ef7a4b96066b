// Package firestoredb backs store.Store with a hosted Firestore database.
// Document identifiers are allocated by Firestore.
package firestoredb

import (
	"context"
	"errors"
	"fmt"

	"wastewatch/internal/store"
	"wastewatch/pkg/types"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	client *firestore.Client
	logger logrus.FieldLogger
}

func New(client *firestore.Client, logger logrus.FieldLogger) *Store {
	return &Store{client: client, logger: logger}
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) CreateWasteEntry(ctx context.Context, entry *types.WasteEntry) error {
	ref, _, err := s.client.Collection(store.CollectionWasteEntries).Add(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to add waste entry: %w", err)
	}

	entry.ID = ref.ID
	return nil
}

func (s *Store) WasteEntries(ctx context.Context) ([]*types.WasteEntry, error) {
	docs, err := s.query(store.CollectionWasteEntries).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch waste entries: %w", err)
	}

	return decodeAll(docs, func(e *types.WasteEntry, id string) { e.ID = id })
}

func (s *Store) CreateEvent(ctx context.Context, event *types.Event) error {
	ref, _, err := s.client.Collection(store.CollectionEvents).Add(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to add event: %w", err)
	}

	event.ID = ref.ID
	return nil
}

func (s *Store) Events(ctx context.Context) ([]*types.Event, error) {
	docs, err := s.query(store.CollectionEvents).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}

	return decodeAll(docs, func(e *types.Event, id string) { e.ID = id })
}

func (s *Store) Tips(ctx context.Context) ([]*types.Tip, error) {
	docs, err := s.query(store.CollectionTips).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tips: %w", err)
	}

	return decodeAll(docs, func(t *types.Tip, id string) { t.ID = id })
}

func (s *Store) UpsertTip(ctx context.Context, tip *types.Tip) error {
	if tip.ID == "" {
		return fmt.Errorf("tip id is required")
	}

	_, err := s.client.Collection(store.CollectionTips).Doc(tip.ID).Set(ctx, tip)
	if err != nil {
		return fmt.Errorf("failed to set tip %s: %w", tip.ID, err)
	}
	return nil
}

func (s *Store) DeleteTip(ctx context.Context, id string) error {
	_, err := s.client.Collection(store.CollectionTips).Doc(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete tip %s: %w", id, err)
	}
	return nil
}

// Subscribe forwards Firestore snapshot changes. The first snapshot reports
// every existing document as added.
func (s *Store) Subscribe(ctx context.Context, collection string) (<-chan types.ChangeEvent, error) {
	if !store.KnownCollection(collection) {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownCollection, collection)
	}

	it := s.query(collection).Snapshots(ctx)
	out := make(chan types.ChangeEvent)

	go func() {
		defer close(out)
		defer it.Stop()

		for {
			snap, err := it.Next()
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, iterator.Done) || status.Code(err) == codes.Canceled {
					return
				}
				s.logger.WithError(err).WithField("collection", collection).Error("firestore snapshot listener failed")
				return
			}

			for _, change := range snap.Changes {
				event := types.ChangeEvent{
					Collection: collection,
					Kind:       changeKind(change.Kind),
					ID:         change.Doc.Ref.ID,
				}

				if change.Kind != firestore.DocumentRemoved {
					doc, err := decode(collection, change.Doc)
					if err != nil {
						s.logger.WithError(err).WithField("id", event.ID).Warn("failed to decode changed document")
						continue
					}
					event.Document = doc
				}

				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// query returns the read order used for a collection. Events are newest
// first, tips follow their display order.
func (s *Store) query(collection string) firestore.Query {
	ref := s.client.Collection(collection)
	switch collection {
	case store.CollectionEvents:
		return ref.OrderBy("createdAt", firestore.Desc)
	case store.CollectionTips:
		return ref.OrderBy("displayOrder", firestore.Asc)
	default:
		return ref.Query
	}
}

func changeKind(kind firestore.DocumentChangeKind) types.ChangeKind {
	switch kind {
	case firestore.DocumentRemoved:
		return types.ChangeRemoved
	case firestore.DocumentModified:
		return types.ChangeModified
	default:
		return types.ChangeAdded
	}
}

func decode(collection string, snap *firestore.DocumentSnapshot) (store.Document, error) {
	switch collection {
	case store.CollectionWasteEntries:
		var e types.WasteEntry
		if err := snap.DataTo(&e); err != nil {
			return nil, err
		}
		e.ID = snap.Ref.ID
		return &e, nil
	case store.CollectionEvents:
		var e types.Event
		if err := snap.DataTo(&e); err != nil {
			return nil, err
		}
		e.ID = snap.Ref.ID
		return &e, nil
	case store.CollectionTips:
		var t types.Tip
		if err := snap.DataTo(&t); err != nil {
			return nil, err
		}
		t.ID = snap.Ref.ID
		return &t, nil
	}
	return nil, fmt.Errorf("%w: %s", store.ErrUnknownCollection, collection)
}

func decodeAll[T any](docs []*firestore.DocumentSnapshot, setID func(*T, string)) ([]*T, error) {
	out := make([]*T, 0, len(docs))
	for _, doc := range docs {
		item := new(T)
		if err := doc.DataTo(item); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", doc.Ref.ID, err)
		}
		setID(item, doc.Ref.ID)
		out = append(out, item)
	}
	return out, nil
}
