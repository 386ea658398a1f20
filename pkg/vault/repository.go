// Package vault implements core.Repository on top of a directory of
// markdown notes organized into topic subdirectories. Every topic
// directory carries a .topic.json sidecar; every note is a markdown file
// with YAML front matter. All writes are atomic (temp file + rename).
package vault

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sprintreader/sprintreader/pkg/core"
)

// DefaultTopicName is the topic scaffolded on first-time setup.
const DefaultTopicName = "General"

const welcomeNoteTitle = "Welcome to SprintReader"

// Config holds the configuration for the vault repository.
type Config struct {
	Path         string
	MustExist    bool
	Logger       *slog.Logger
	ErrorHandler func(error)
}

// Repository implements core.Repository using the filesystem.
// Notes and topics are indexed in memory at Initialize time; file
// operations keep the index current.
type Repository struct {
	Path   string
	config Config

	mu            sync.RWMutex
	notes         map[string]core.Note // note ID -> note
	notePaths     map[string]string    // note ID -> absolute file path
	topics        map[string]core.Topic
	watcherActive bool
}

// NewRepository creates a new vault-backed repository.
func NewRepository(config Config) *Repository {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Repository{
		Path:      config.Path,
		config:    config,
		notes:     make(map[string]core.Note),
		notePaths: make(map[string]string),
		topics:    make(map[string]core.Topic),
	}
}

// Initialize ensures the vault directory exists and loads every topic
// sidecar and note file into the index.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("vault path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", r.Path)
		}
	} else {
		if err := os.MkdirAll(r.Path, 0755); err != nil {
			return fmt.Errorf("failed to create vault directory: %w", err)
		}
	}

	if err := r.loadTopics(); err != nil {
		return fmt.Errorf("failed to load topics: %w", err)
	}
	if err := r.loadNotes(); err != nil {
		return fmt.Errorf("failed to load notes: %w", err)
	}
	return nil
}

// Scaffold performs the first-time setup content: the default topic and a
// welcome note, each written only when absent. Safe to re-run.
func (r *Repository) Scaffold(ctx context.Context) error {
	topic, err := r.topicByName(DefaultTopicName)
	if err != nil {
		topic = core.Topic{
			ID:          uuid.NewString(),
			Name:        DefaultTopicName,
			Description: "Default topic for uncategorized notes",
			Color:       core.DefaultTopicColor,
			CreatedAt:   time.Now().UTC(),
		}
		if err := r.SaveTopic(ctx, topic); err != nil {
			return err
		}
		r.config.Logger.Info("created default topic", "name", DefaultTopicName)
	}

	welcomePath := filepath.Join(r.topicDir(topic), SanitizeFilename(welcomeNoteTitle)+".md")
	if _, err := os.Stat(welcomePath); err == nil {
		return nil // never overwrite user edits on re-run
	} else if !os.IsNotExist(err) {
		return err
	}

	now := time.Now().UTC()
	welcome := core.Note{
		ID:      uuid.NewString(),
		Title:   welcomeNoteTitle,
		TopicID: topic.ID,
		Content: "Highlight a passage in any PDF and press the note shortcut to capture it here.\n" +
			"Notes are plain markdown files; edit them with any editor you like.",
		PageNumber: 1,
		Tags:       []string{"welcome"},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := r.SaveNote(ctx, welcome); err != nil {
		return fmt.Errorf("failed to write welcome note: %w", err)
	}
	r.config.Logger.Info("created welcome note", "path", welcomePath)
	return nil
}

// SaveNote persists a note to its topic directory and updates the index.
// A title change moves the file; the old one is removed.
func (r *Repository) SaveNote(ctx context.Context, n core.Note) error {
	if n.ID == "" {
		return fmt.Errorf("note has no ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	topic, ok := r.topics[n.TopicID]
	if !ok {
		return fmt.Errorf("save note %s: %w", n.ID, core.ErrTopicNotFound)
	}

	dir := r.topicDir(topic)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create topic directory: %w", err)
	}

	fullPath := filepath.Join(dir, r.noteFilename(n))
	data, err := SerializeNote(n)
	if err != nil {
		return fmt.Errorf("failed to serialize note: %w", err)
	}
	if err := writeFileAtomic(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write note: %w", err)
	}

	if old, ok := r.notePaths[n.ID]; ok && old != fullPath {
		if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove renamed note file: %w", err)
		}
	}

	r.notes[n.ID] = n
	r.notePaths[n.ID] = fullPath
	return nil
}

// GetNote retrieves a note from the index.
func (r *Repository) GetNote(ctx context.Context, id string) (core.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notes[id]
	if !ok {
		return core.Note{}, fmt.Errorf("get note %s: %w", id, core.ErrNoteNotFound)
	}
	return n, nil
}

// ListNotes returns all notes, oldest first.
func (r *Repository) ListNotes(ctx context.Context) ([]core.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := make([]core.Note, 0, len(r.notes))
	for _, n := range r.notes {
		notes = append(notes, n)
	}
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].ID < notes[j].ID
		}
		return notes[i].CreatedAt.Before(notes[j].CreatedAt)
	})
	return notes, nil
}

// DeleteNote removes a note file and drops it from the index.
func (r *Repository) DeleteNote(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	path, ok := r.notePaths[id]
	if !ok {
		return fmt.Errorf("delete note %s: %w", id, core.ErrNoteNotFound)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove note file: %w", err)
	}
	delete(r.notes, id)
	delete(r.notePaths, id)
	return nil
}

// SaveTopic creates the topic directory and writes its sidecar.
func (r *Repository) SaveTopic(ctx context.Context, t core.Topic) error {
	if t.ID == "" {
		return fmt.Errorf("topic has no ID")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("topic has no name")
	}
	if t.Color == "" {
		t.Color = core.DefaultTopicColor
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dir := r.topicDir(t)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create topic directory: %w", err)
	}

	data, err := SerializeTopic(t)
	if err != nil {
		return fmt.Errorf("failed to serialize topic: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(dir, TopicSidecarName), data, 0644); err != nil {
		return fmt.Errorf("failed to write topic sidecar: %w", err)
	}

	r.topics[t.ID] = t
	return nil
}

// GetTopic retrieves a topic from the index.
func (r *Repository) GetTopic(ctx context.Context, id string) (core.Topic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.topics[id]
	if !ok {
		return core.Topic{}, fmt.Errorf("get topic %s: %w", id, core.ErrTopicNotFound)
	}
	return t, nil
}

// ListTopics returns all topics sorted by name.
func (r *Repository) ListTopics(ctx context.Context) ([]core.Topic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	topics := make([]core.Topic, 0, len(r.topics))
	for _, t := range r.topics {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool {
		return strings.ToLower(topics[i].Name) < strings.ToLower(topics[j].Name)
	})
	return topics, nil
}

func (r *Repository) topicByName(name string) (core.Topic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.topics {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return core.Topic{}, core.ErrTopicNotFound
}

func (r *Repository) topicDir(t core.Topic) string {
	return filepath.Join(r.Path, SanitizeFilename(t.Name))
}

func (r *Repository) noteFilename(n core.Note) string {
	name := SanitizeFilename(n.Title)
	if name == "" {
		name = n.ID
	}
	return name + ".md"
}

// loadTopics reads every topic directory. Directories without a sidecar
// (created by hand, or by another tool) are adopted: a topic is synthesized
// from the directory name and the sidecar written back.
func (r *Repository) loadTopics() error {
	entries, err := os.ReadDir(r.Path)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		dir := filepath.Join(r.Path, entry.Name())
		sidecarPath := filepath.Join(dir, TopicSidecarName)

		data, err := os.ReadFile(sidecarPath)
		if err == nil {
			topic, perr := ParseTopic(data)
			if perr != nil {
				r.config.Logger.Warn("skipping invalid topic sidecar", "path", sidecarPath, "error", perr)
				continue
			}
			r.topics[topic.ID] = topic
			continue
		}
		if !os.IsNotExist(err) {
			return err
		}

		topic := core.Topic{
			ID:        uuid.NewString(),
			Name:      topicNameFromDir(entry.Name()),
			Color:     core.DefaultTopicColor,
			CreatedAt: time.Now().UTC(),
		}
		sidecar, serr := SerializeTopic(topic)
		if serr != nil {
			return serr
		}
		if werr := writeFileAtomic(sidecarPath, sidecar, 0644); werr != nil {
			return fmt.Errorf("failed to adopt topic directory %s: %w", dir, werr)
		}
		r.topics[topic.ID] = topic
		r.config.Logger.Info("adopted topic directory", "dir", entry.Name(), "topic", topic.Name)
	}
	return nil
}

// loadNotes parses every markdown file inside the known topic directories.
// Unparseable files are skipped with a warning so one broken note does not
// take the vault down.
func (r *Repository) loadNotes() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, topic := range r.topics {
		dir := r.topicDir(topic)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".md" {
				continue
			}

			fullPath := filepath.Join(dir, name)
			data, err := os.ReadFile(fullPath)
			if err != nil {
				return err
			}

			note, perr := ParseNote(data)
			if perr != nil {
				r.config.Logger.Warn("skipping unparseable note", "path", fullPath, "error", perr)
				continue
			}
			if note.ID == "" {
				note.ID = uuid.NewString()
			}
			if note.TopicID == "" {
				note.TopicID = topic.ID
			}
			r.notes[note.ID] = note
			r.notePaths[note.ID] = fullPath
		}
	}
	return nil
}

// refreshPath re-reads a single note file after an external change and
// returns the affected note ID. For deletions the index is consulted.
func (r *Repository) refreshPath(fullPath string, deleted bool) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if deleted {
		for id, p := range r.notePaths {
			if p == fullPath {
				delete(r.notes, id)
				delete(r.notePaths, id)
				return id, nil
			}
		}
		return "", fmt.Errorf("unknown note path: %s", fullPath)
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return "", err
	}
	note, err := ParseNote(data)
	if err != nil {
		return "", err
	}
	if note.ID == "" {
		return "", errors.New("externally edited note has no id")
	}
	r.notes[note.ID] = note
	r.notePaths[note.ID] = fullPath
	return note.ID, nil
}

// topicNameFromDir reverses the filename sanitization well enough for
// display: underscores back to spaces, words capitalized.
func topicNameFromDir(dir string) string {
	words := strings.Fields(strings.ReplaceAll(dir, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
