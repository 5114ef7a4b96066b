package store

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"wastewatch/pkg/types"

	"github.com/sirupsen/logrus"
)

// Document is anything with a stable identifier inside its collection.
type Document interface {
	DocumentID() string
}

// ListFunc returns the current contents of one collection.
type ListFunc func(ctx context.Context) ([]Document, error)

// Documents converts a typed slice into a slice of Document.
func Documents[T Document](items []T) []Document {
	out := make([]Document, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// Poll emulates a change subscription by listing the collection every
// interval and diffing the result against the previous listing. A failed
// listing is logged and retried on the next tick.
func Poll(ctx context.Context, logger logrus.FieldLogger, collection string, interval time.Duration, list ListFunc) <-chan types.ChangeEvent {
	out := make(chan types.ChangeEvent)

	go func() {
		defer close(out)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		seen := make(map[string][]byte)
		for {
			docs, err := list(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.WithError(err).WithField("collection", collection).Warn("poll subscription failed to list collection")
			} else {
				for _, change := range diff(collection, seen, docs) {
					select {
					case out <- change:
					case <-ctx.Done():
						return
					}
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return out
}

// diff updates seen in place and returns the changes since the last call.
// Removals come last.
func diff(collection string, seen map[string][]byte, docs []Document) []types.ChangeEvent {
	changes := make([]types.ChangeEvent, 0)
	current := make(map[string]bool, len(docs))

	for _, doc := range docs {
		id := doc.DocumentID()
		current[id] = true

		encoded, err := json.Marshal(doc)
		if err != nil {
			continue
		}

		previous, ok := seen[id]
		switch {
		case !ok:
			changes = append(changes, types.ChangeEvent{Collection: collection, Kind: types.ChangeAdded, ID: id, Document: doc})
		case !bytes.Equal(previous, encoded):
			changes = append(changes, types.ChangeEvent{Collection: collection, Kind: types.ChangeModified, ID: id, Document: doc})
		}
		seen[id] = encoded
	}

	for id := range seen {
		if !current[id] {
			delete(seen, id)
			changes = append(changes, types.ChangeEvent{Collection: collection, Kind: types.ChangeRemoved, ID: id})
		}
	}

	return changes
}
