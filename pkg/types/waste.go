package types

import "time"

const (
	WasteTypeMixed   = "Mixed"
	WasteTypePlastic = "Plastic"
	WasteTypePaper   = "Paper"
	WasteTypeGlass   = "Glass"
	WasteTypeOrganic = "Organic"
	WasteTypeOther   = "Other"
)

// WasteTypes is the list offered to clients for the type picker. The store
// accepts any string.
var WasteTypes = []string{
	WasteTypeMixed,
	WasteTypePlastic,
	WasteTypePaper,
	WasteTypeGlass,
	WasteTypeOrganic,
	WasteTypeOther,
}

// WasteEntry is one reported quantity of collected waste. Entries are append
// only.
type WasteEntry struct {
	ID             string    `db:"id" firestore:"-" json:"id"`
	Type           string    `db:"type" firestore:"type" json:"type"`
	Volume         string    `db:"volume" firestore:"volume" json:"volume"`
	Location       string    `db:"location" firestore:"location" json:"location"`
	SubmitterID    string    `db:"submitter_id" firestore:"submitterId" json:"submitterId"`
	SubmitterEmail *string   `db:"submitter_email" firestore:"submitterEmail" json:"submitterEmail"`
	CreatedAt      time.Time `db:"created_at" firestore:"createdAt" json:"createdAt"`
}

func (e *WasteEntry) DocumentID() string {
	return e.ID
}

type WasteEntryInput struct {
	Type     string `json:"type" form:"type"`
	Volume   string `json:"volume" form:"volume"`
	Location string `json:"location" form:"location"`
}
