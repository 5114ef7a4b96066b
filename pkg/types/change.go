package types

type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeModified ChangeKind = "modified"
	ChangeRemoved  ChangeKind = "removed"
)

// ChangeEvent is one entry of a collection change stream.
type ChangeEvent struct {
	Collection string     `json:"collection"`
	Kind       ChangeKind `json:"kind"`
	ID         string     `json:"id"`
	Document   any        `json:"document,omitempty"`
}
