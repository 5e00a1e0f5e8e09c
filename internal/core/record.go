// Package core holds the types shared across the notifier pipeline: the
// notification record as the GitHub feed delivers it, the seen-key identity
// records are deduplicated by, and the per-invocation run report.
package core

// Subject describes the thing a notification is about: a pull request, an
// issue, a release, a commit.
type Subject struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Type  string `json:"type,omitempty"`
}

// Repository identifies where a notification came from.
type Repository struct {
	FullName string `json:"full_name,omitempty"`
}

// Record is one entry of the notifications feed. Fields mirror the feed's
// JSON; anything the pipeline does not consume is dropped at decode time.
type Record struct {
	ID     string `json:"id"`
	Unread bool   `json:"unread,omitempty"`
	Reason string `json:"reason"`
	// UpdatedAt stays a string. The raw value participates in SeenKey and
	// must round-trip byte for byte, so it is never parsed into a time.Time.
	UpdatedAt  string     `json:"updated_at"`
	Subject    Subject    `json:"subject"`
	Repository Repository `json:"repository,omitempty"`
}

// SeenKey is the identity a record is remembered by across invocations.
// The feed ID alone would mute a thread forever; appending the update
// timestamp makes a thread surface again each time it changes.
func (r Record) SeenKey() string {
	return r.ID + r.UpdatedAt
}
