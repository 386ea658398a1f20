// Note and Topic are the central entities of the vault domain.
package core

import (
	"fmt"
	"time"
)

// Note is a captured highlight with the reader's own commentary.
// It lives as a markdown file with YAML front matter inside a topic
// directory, but the type is agnostic to that representation.
type Note struct {
	ID         string
	Title      string
	Content    string
	Excerpt    string
	TopicID    string
	DocumentID int
	PageNumber int
	Tags       []string
	Links      []string // IDs of notes referenced via [[Title]] links
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Topic groups notes under a display name. Each topic owns one vault
// subdirectory and a sidecar metadata file.
type Topic struct {
	ID          string
	Name        string
	Description string
	Color       string
	CreatedAt   time.Time
}

// DefaultTopicColor is applied when a topic is created without one.
const DefaultTopicColor = "#7E22CE"

// EventType represents the type of change in the vault.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change in the vault.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer so events can flow through generic
// lifecycle channels.
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}
