package store

import "time"

// Snapshot is one saved page layout: the full markup plus enough
// metadata to find it again by domain. Re-exported as layout.Snapshot.
type Snapshot struct {
	ID         string    `json:"id"`
	Domain     string    `json:"domain"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	HTML       string    `json:"html"`
	ViewportW  int       `json:"viewport_width"`
	ViewportH  int       `json:"viewport_height"`
	CapturedAt time.Time `json:"captured_at"`
}
