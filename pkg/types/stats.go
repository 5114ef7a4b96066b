package types

const (
	UnknownWasteType = "Unknown"
	UnknownSubmitter = "unknown"
)

// StatsSummary is derived from the full waste entry collection on every
// request. The sum of TotalsByType and the sum of TotalsByUser both equal
// TotalEntries.
type StatsSummary struct {
	TotalEntries int            `json:"totalEntries"`
	TotalsByType map[string]int `json:"totalsByType"`
	TotalsByUser map[string]int `json:"totalsByUser"`
}
