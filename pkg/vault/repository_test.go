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

func newTestVault(t *testing.T) (*vault.Repository, string) {
	t.Helper()
	dir := t.TempDir()
	repo := vault.NewRepository(vault.Config{Path: dir})
	require.NoError(t, repo.Initialize(context.Background()))
	return repo, dir
}

func newTopic(name string) core.Topic {
	return core.Topic{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     core.DefaultTopicColor,
		CreatedAt: time.Now().UTC(),
	}
}

func TestRepository_InitializeCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vault")
	repo := vault.NewRepository(vault.Config{Path: dir})
	require.NoError(t, repo.Initialize(context.Background()))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRepository_MustExist(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	repo := vault.NewRepository(vault.Config{Path: dir, MustExist: true})
	err := repo.Initialize(context.Background())
	require.Error(t, err)
}

func TestRepository_ScaffoldIsIdempotent(t *testing.T) {
	repo, dir := newTestVault(t)
	ctx := context.Background()

	require.NoError(t, repo.Scaffold(ctx))

	topics, err := repo.ListTopics(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, vault.DefaultTopicName, topics[0].Name)

	notes, err := repo.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)

	// Simulate a user edit, then re-run the scaffold.
	welcomePath := filepath.Join(dir, vault.DefaultTopicName, "Welcome_to_SprintReader.md")
	edited, err := os.ReadFile(welcomePath)
	require.NoError(t, err)
	edited = append(edited, []byte("\nMy own words.\n")...)
	require.NoError(t, os.WriteFile(welcomePath, edited, 0644))

	require.NoError(t, repo.Scaffold(ctx))

	after, err := os.ReadFile(welcomePath)
	require.NoError(t, err)
	assert.Equal(t, edited, after, "re-running the scaffold must not touch an edited note")

	topics, err = repo.ListTopics(ctx)
	require.NoError(t, err)
	assert.Len(t, topics, 1, "no duplicate default topic")
}

func TestRepository_SaveNoteRequiresTopic(t *testing.T) {
	repo, _ := newTestVault(t)
	err := repo.SaveNote(context.Background(), core.Note{ID: "n1", Title: "Orphan", TopicID: "nope"})
	require.ErrorIs(t, err, core.ErrTopicNotFound)
}

func TestRepository_SaveAndReload(t *testing.T) {
	repo, dir := newTestVault(t)
	ctx := context.Background()

	topic := newTopic("Reading")
	require.NoError(t, repo.SaveTopic(ctx, topic))

	note := core.Note{
		ID:        uuid.NewString(),
		Title:     "First note",
		Content:   "body",
		TopicID:   topic.ID,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.SaveNote(ctx, note))

	// A fresh repository over the same directory sees the same content.
	reloaded := vault.NewRepository(vault.Config{Path: dir})
	require.NoError(t, reloaded.Initialize(ctx))

	got, err := reloaded.GetNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.Title, got.Title)
	assert.Equal(t, note.Content, got.Content)
	assert.Equal(t, topic.ID, got.TopicID)
}

func TestRepository_RenameMovesFile(t *testing.T) {
	repo, dir := newTestVault(t)
	ctx := context.Background()

	topic := newTopic("Reading")
	require.NoError(t, repo.SaveTopic(ctx, topic))

	note := core.Note{ID: uuid.NewString(), Title: "Old title", TopicID: topic.ID, Content: "x"}
	require.NoError(t, repo.SaveNote(ctx, note))

	oldPath := filepath.Join(dir, "Reading", "Old_title.md")
	_, err := os.Stat(oldPath)
	require.NoError(t, err)

	note.Title = "New title"
	require.NoError(t, repo.SaveNote(ctx, note))

	_, err = os.Stat(oldPath)
	assert.True(t, os.IsNotExist(err), "old file must be removed after rename")
	_, err = os.Stat(filepath.Join(dir, "Reading", "New_title.md"))
	assert.NoError(t, err)
}

func TestRepository_DeleteNote(t *testing.T) {
	repo, dir := newTestVault(t)
	ctx := context.Background()

	topic := newTopic("Reading")
	require.NoError(t, repo.SaveTopic(ctx, topic))
	note := core.Note{ID: uuid.NewString(), Title: "Gone soon", TopicID: topic.ID, Content: "x"}
	require.NoError(t, repo.SaveNote(ctx, note))

	require.NoError(t, repo.DeleteNote(ctx, note.ID))

	_, err := repo.GetNote(ctx, note.ID)
	require.ErrorIs(t, err, core.ErrNoteNotFound)
	_, err = os.Stat(filepath.Join(dir, "Reading", "Gone_soon.md"))
	assert.True(t, os.IsNotExist(err))

	err = repo.DeleteNote(ctx, note.ID)
	require.ErrorIs(t, err, core.ErrNoteNotFound)
}

func TestRepository_AdoptsSidecarlessDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "field_notes"), 0755))

	repo := vault.NewRepository(vault.Config{Path: dir})
	ctx := context.Background()
	require.NoError(t, repo.Initialize(ctx))

	topics, err := repo.ListTopics(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "Field Notes", topics[0].Name)

	// The sidecar is written back so the identity is stable.
	_, err = os.Stat(filepath.Join(dir, "field_notes", vault.TopicSidecarName))
	require.NoError(t, err)

	reloaded := vault.NewRepository(vault.Config{Path: dir})
	require.NoError(t, reloaded.Initialize(ctx))
	again, err := reloaded.ListTopics(ctx)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, topics[0].ID, again[0].ID)
}

func TestRepository_SkipsUnparseableNotes(t *testing.T) {
	repo, dir := newTestVault(t)
	ctx := context.Background()

	topic := newTopic("Reading")
	require.NoError(t, repo.SaveTopic(ctx, topic))
	note := core.Note{ID: uuid.NewString(), Title: "Good", TopicID: topic.ID, Content: "x"}
	require.NoError(t, repo.SaveNote(ctx, note))

	// A stray markdown file without front matter must not break loading.
	stray := filepath.Join(dir, "Reading", "stray.md")
	require.NoError(t, os.WriteFile(stray, []byte("# not ours\n"), 0644))

	reloaded := vault.NewRepository(vault.Config{Path: dir})
	require.NoError(t, reloaded.Initialize(ctx))

	notes, err := reloaded.ListNotes(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestRepository_ListNotesOldestFirst(t *testing.T) {
	repo, _ := newTestVault(t)
	ctx := context.Background()

	topic := newTopic("Reading")
	require.NoError(t, repo.SaveTopic(ctx, topic))

	base := time.Now().UTC()
	for i, title := range []string{"third", "first", "second"} {
		offset := map[int]time.Duration{0: 2 * time.Hour, 1: 0, 2: time.Hour}[i]
		n := core.Note{
			ID:        uuid.NewString(),
			Title:     title,
			TopicID:   topic.ID,
			Content:   "x",
			CreatedAt: base.Add(offset),
		}
		require.NoError(t, repo.SaveNote(ctx, n))
	}

	notes, err := repo.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "first", notes[0].Title)
	assert.Equal(t, "second", notes[1].Title)
	assert.Equal(t, "third", notes[2].Title)
}
