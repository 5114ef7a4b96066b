package utils

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

type row struct {
	ID       string  `db:"id"`
	Name     string  `db:"name,omitempty"`
	Email    *string `db:"email"`
	Skipped  string  `db:"-"`
	Untagged string
	internal string `db:"internal"`
}

func TestStructTagValues(t *testing.T) {
	got := StructTagValues(row{})
	want := []string{"id", "name", "email"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("StructTagValues: got %v, want %v", got, want)
	}

	if !reflect.DeepEqual(StructTagValues(&row{}), want) {
		t.Error("expected pointer input to behave like value input")
	}
}

func TestStructToMap(t *testing.T) {
	email := "a@example.com"
	got := StructToMap(&row{ID: "1", Name: "Ana", Email: &email, Skipped: "x", internal: "y"})

	if len(got) != 3 {
		t.Fatalf("expected 3 columns, got %v", got)
	}
	if got["id"] != "1" || got["name"] != "Ana" {
		t.Errorf("unexpected values: %v", got)
	}
	if p, ok := got["email"].(*string); !ok || *p != email {
		t.Errorf("expected email pointer, got %v", got["email"])
	}
}

func TestStructToMapPanicsOnNonStruct(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for non-struct input")
		}
	}()
	StructToMap(42)
}

func TestErrorWrapOrNil(t *testing.T) {
	if ErrorWrapOrNil(nil, "ignored") != nil {
		t.Error("expected nil for nil error")
	}

	base := errors.New("boom")
	if ErrorWrapOrNil(base, "") != base {
		t.Error("expected error returned unchanged with empty message")
	}

	wrapped := ErrorWrapOrNil(base, "failed to create")
	if !errors.Is(wrapped, base) || wrapped.Error() != "failed to create: boom" {
		t.Errorf("unexpected wrapped error: %v", wrapped)
	}
}

func TestNanoID(t *testing.T) {
	id := NanoID()
	if len(id) != NanoidSize {
		t.Errorf("expected length %d, got %d", NanoidSize, len(id))
	}
	if len(NanoIDSize(8)) != 8 {
		t.Error("expected explicit size to be honoured")
	}

	anon := PrefixedNanoID("anon")
	if !strings.HasPrefix(anon, "anon-") || len(anon) != len("anon-")+NanoidSize {
		t.Errorf("unexpected prefixed id %q", anon)
	}
}

func TestPointers(t *testing.T) {
	if PtrString(nil) != "" {
		t.Error("expected empty string for nil")
	}
	if PtrString(StringPtr("x")) != "x" {
		t.Error("expected round trip")
	}
}
