package types

import "time"

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryPatch updates display attributes only. A category is never
// re-parented and its id is immutable once referenced.
type CategoryPatch struct {
	Name        *string
	Description *string
	Icon        *string
}
