package sharepoint

import "time"

// Snapshot is a stored point-in-time copy of a list's items.
type Snapshot struct {
	ID        string     `json:"id"`
	ListName  string     `json:"list_name"`
	ViewName  string     `json:"view_name,omitempty"`
	ItemCount int        `json:"item_count"`
	CreatedAt time.Time  `json:"created_at"`
	Items     []ListItem `json:"items,omitempty"`
}
