package types

import "time"

// Event is a scheduled clean-up gathering.
type Event struct {
	ID           string    `db:"id" firestore:"-" json:"id"`
	Title        string    `db:"title" firestore:"title" json:"title"`
	Description  string    `db:"description" firestore:"description" json:"description"`
	Location     string    `db:"location" firestore:"location" json:"location"`
	Date         string    `db:"date" firestore:"date" json:"date"`
	CreatorID    string    `db:"creator_id" firestore:"creatorId" json:"creatorId"`
	CreatorEmail *string   `db:"creator_email" firestore:"creatorEmail" json:"creatorEmail"`
	CreatedAt    time.Time `db:"created_at" firestore:"createdAt" json:"createdAt"`
}

func (e *Event) DocumentID() string {
	return e.ID
}

type EventInput struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Location    string `json:"location" form:"location"`
	Date        string `json:"date" form:"date"`
}
