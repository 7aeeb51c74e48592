package domain

import "time"

// Post is a single authored record owned by the remote store.
// The client never edits a Post; it only replaces the whole list on refresh.
type Post struct {
	ID        string
	Title     string
	Body      string
	Author    string
	Timestamp int64 // Nanoseconds since epoch, assigned by the store
}

// CreatedAt converts the store timestamp to a time.Time at millisecond precision.
func (p Post) CreatedAt() time.Time {
	return time.UnixMilli(p.Timestamp / int64(time.Millisecond))
}
