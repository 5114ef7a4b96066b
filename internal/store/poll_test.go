package store

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"wastewatch/pkg/types"

	"github.com/sirupsen/logrus"
)

func TestDiff(t *testing.T) {
	seen := make(map[string][]byte)

	a := &types.Tip{ID: "a", Title: "Reuse"}
	b := &types.Tip{ID: "b", Title: "Refill"}

	changes := diff(CollectionTips, seen, []Document{a, b})
	if len(changes) != 2 {
		t.Fatalf("expected 2 initial changes, got %d", len(changes))
	}
	for _, c := range changes {
		if c.Kind != types.ChangeAdded {
			t.Errorf("expected added, got %s", c.Kind)
		}
	}

	changes = diff(CollectionTips, seen, []Document{a, b})
	if len(changes) != 0 {
		t.Errorf("expected no changes for identical listing, got %+v", changes)
	}

	edited := &types.Tip{ID: "a", Title: "Reuse everything"}
	changes = diff(CollectionTips, seen, []Document{edited})
	if len(changes) != 2 {
		t.Fatalf("expected modified + removed, got %+v", changes)
	}
	if changes[0].Kind != types.ChangeModified || changes[0].ID != "a" {
		t.Errorf("expected a modified, got %+v", changes[0])
	}
	if changes[1].Kind != types.ChangeRemoved || changes[1].ID != "b" {
		t.Errorf("expected b removed, got %+v", changes[1])
	}
	if _, ok := seen["b"]; ok {
		t.Error("expected removed document to be forgotten")
	}
}

func TestPoll(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	var mu sync.Mutex
	docs := []Document{&types.WasteEntry{ID: "e1", Type: "Glass"}}
	list := func(ctx context.Context) ([]Document, error) {
		mu.Lock()
		defer mu.Unlock()
		return append([]Document(nil), docs...), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changes := Poll(ctx, logger, CollectionWasteEntries, 10*time.Millisecond, list)

	first := <-changes
	if first.ID != "e1" || first.Kind != types.ChangeAdded {
		t.Fatalf("unexpected first change: %+v", first)
	}

	mu.Lock()
	docs = append(docs, &types.WasteEntry{ID: "e2", Type: "Paper"})
	mu.Unlock()

	second := <-changes
	if second.ID != "e2" || second.Kind != types.ChangeAdded {
		t.Fatalf("unexpected second change: %+v", second)
	}

	cancel()
	for range changes {
	}
}

func TestKnownCollection(t *testing.T) {
	for _, name := range Collections {
		if !KnownCollection(name) {
			t.Errorf("expected %s to be known", name)
		}
	}
	if KnownCollection("users") {
		t.Error("expected users to be unknown")
	}
}
