package core

import "context"

// Repository defines the contract for storing and retrieving notes and
// topics. Adhering to this interface keeps the service independent of the
// underlying storage mechanism (filesystem vault, SQL, memory).
type Repository interface {
	// SaveNote persists a note. It creates if not exists, or updates if it does.
	SaveNote(ctx context.Context, n Note) error

	// GetNote retrieves a note by its ID.
	GetNote(ctx context.Context, id string) (Note, error)

	// ListNotes returns all available notes.
	ListNotes(ctx context.Context) ([]Note, error)

	// DeleteNote removes a note by its ID.
	DeleteNote(ctx context.Context, id string) error

	// SaveTopic persists a topic and its directory.
	SaveTopic(ctx context.Context, t Topic) error

	// GetTopic retrieves a topic by its ID.
	GetTopic(ctx context.Context, id string) (Topic, error)

	// ListTopics returns all available topics.
	ListTopics(ctx context.Context) ([]Topic, error)

	// Initialize ensures the underlying storage is ready (create the vault
	// root, load sidecar metadata, build the in-memory index).
	Initialize(ctx context.Context) error
}

// Watchable defines an interface for repositories that can report changes
// made behind the application's back (e.g. the user editing vault files in
// another editor).
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
