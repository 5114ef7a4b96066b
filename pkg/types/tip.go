package types

// Tip is a static awareness tip shown on the tips page.
type Tip struct {
	ID           string `db:"id" firestore:"-" json:"id" yaml:"id"`
	Title        string `db:"title" firestore:"title" json:"title" yaml:"title"`
	Body         string `db:"body" firestore:"body" json:"body" yaml:"body"`
	Category     string `db:"category" firestore:"category" json:"category" yaml:"category"`
	DisplayOrder int    `db:"display_order" firestore:"displayOrder" json:"displayOrder" yaml:"display_order"`
}

func (t *Tip) DocumentID() string {
	return t.ID
}
