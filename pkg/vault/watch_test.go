package vault_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprintreader/sprintreader/pkg/core"
	"github.com/sprintreader/sprintreader/pkg/vault"
)

// waitForEvent drains the channel until an event for the given note arrives
// or the timeout hits.
func waitForEvent(t *testing.T, events <-chan core.Event, id string, timeout time.Duration) core.Event {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatal("event channel closed before the expected event")
			}
			if ev.ID == id {
				return ev
			}
		case <-deadline:
			t.Fatalf("no event for note %s within %s", id, timeout)
		}
	}
}

func TestWatch_ExternalEdit(t *testing.T) {
	repo, dir := newTestVault(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	topic := newTopic("Reading")
	require.NoError(t, repo.SaveTopic(ctx, topic))

	note := core.Note{ID: uuid.NewString(), Title: "Watched", TopicID: topic.ID, Content: "before"}
	require.NoError(t, repo.SaveNote(ctx, note))

	events, err := repo.Watch(ctx, "**/*.md")
	require.NoError(t, err)
	require.NotNil(t, events)

	// Give the watcher a moment to arm before touching the file.
	time.Sleep(100 * time.Millisecond)

	note.Content = "after an external edit"
	data, err := vault.SerializeNote(note)
	require.NoError(t, err)
	path := filepath.Join(dir, "Reading", "Watched.md")
	require.NoError(t, os.WriteFile(path, data, 0644))

	ev := waitForEvent(t, events, note.ID, 5*time.Second)
	assert.Contains(t, []core.EventType{core.EventCreate, core.EventModify}, ev.Type)

	got, err := repo.GetNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "after an external edit", got.Content)
}

func TestWatch_ExternalDelete(t *testing.T) {
	repo, dir := newTestVault(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	topic := newTopic("Reading")
	require.NoError(t, repo.SaveTopic(ctx, topic))
	note := core.Note{ID: uuid.NewString(), Title: "Doomed", TopicID: topic.ID, Content: "x"}
	require.NoError(t, repo.SaveNote(ctx, note))

	events, err := repo.Watch(ctx, "")
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.Remove(filepath.Join(dir, "Reading", "Doomed.md")))

	ev := waitForEvent(t, events, note.ID, 5*time.Second)
	assert.Equal(t, core.EventDelete, ev.Type)

	_, err = repo.GetNote(ctx, note.ID)
	require.ErrorIs(t, err, core.ErrNoteNotFound)
}

func TestWatch_IgnoresNonMarkdown(t *testing.T) {
	repo, dir := newTestVault(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	topic := newTopic("Reading")
	require.NoError(t, repo.SaveTopic(ctx, topic))

	events, err := repo.Watch(ctx, "")
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Reading", "scratch.txt"), []byte("x"), 0644))

	select {
	case ev, ok := <-events:
		if ok {
			t.Fatalf("unexpected event for non-markdown file: %+v", ev)
		}
	case <-time.After(500 * time.Millisecond):
		// Expected: nothing arrives.
	}
}
