package types

import "time"

const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Cause is the core record a submission creates. CategoryID is a soft
// reference into the schema module; deleting the category later leaves the
// cause in place with its attribute rows stale-marked or removed.
type Cause struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"category_id"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary,omitempty"`
	Creator    string    `json:"creator"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CausePatch struct {
	Title   *string
	Summary *string
	Status  *string
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusActive, StatusArchived:
		return true
	}
	return false
}
