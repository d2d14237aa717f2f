package model

type Cursor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Presence is the live participant record a room keeps per connection. It is
// created on join, updated on cursor moves and discarded on leave; it never
// outlives the connection.
type Presence struct {
	UserID string  `json:"user_id"`
	Name   string  `json:"name"`
	Cursor *Cursor `json:"cursor,omitempty"`
}
