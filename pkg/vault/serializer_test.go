package vault_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprintreader/sprintreader/pkg/core"
	"github.com/sprintreader/sprintreader/pkg/vault"
)

func TestSerializeNote_RoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	original := core.Note{
		ID:         "note-1",
		Title:      "Memory palaces",
		Content:    "See also [[Spaced repetition]].\nWorth a re-read.",
		Excerpt:    "The method of loci dates\nback to ancient Greece.",
		TopicID:    "topic-1",
		DocumentID: 7,
		PageNumber: 42,
		Tags:       []string{"memory", "technique"},
		Links:      []string{"note-2"},
		CreatedAt:  created,
		UpdatedAt:  created.Add(time.Hour),
	}

	data, err := vault.SerializeNote(original)
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "---\n"), "front matter must open the file")
	assert.Contains(t, text, "# Memory palaces")
	assert.Contains(t, text, "> The method of loci dates")
	assert.Contains(t, text, "> back to ancient Greece.")

	parsed, err := vault.ParseNote(data)
	require.NoError(t, err)

	assert.Equal(t, original.ID, parsed.ID)
	assert.Equal(t, original.Title, parsed.Title)
	assert.Equal(t, original.Content, parsed.Content)
	assert.Equal(t, original.Excerpt, parsed.Excerpt)
	assert.Equal(t, original.TopicID, parsed.TopicID)
	assert.Equal(t, original.DocumentID, parsed.DocumentID)
	assert.Equal(t, original.PageNumber, parsed.PageNumber)
	assert.Equal(t, original.Tags, parsed.Tags)
	assert.Equal(t, original.Links, parsed.Links)
	assert.True(t, parsed.CreatedAt.Equal(created))
}

func TestParseNote_RejectsPlainMarkdown(t *testing.T) {
	_, err := vault.ParseNote([]byte("# Just a heading\n\nNo front matter here.\n"))
	require.Error(t, err)
}

func TestParseNote_UnclosedFrontMatter(t *testing.T) {
	_, err := vault.ParseNote([]byte("---\nid: broken\n"))
	require.Error(t, err)
}

func TestSerializeTopic_RoundTrip(t *testing.T) {
	original := core.Topic{
		ID:          "topic-1",
		Name:        "Deep Work",
		Description: "Notes on focused reading",
		Color:       "#123456",
		CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := vault.SerializeTopic(original)
	require.NoError(t, err)

	parsed, err := vault.ParseTopic(data)
	require.NoError(t, err)
	assert.Equal(t, original.ID, parsed.ID)
	assert.Equal(t, original.Name, parsed.Name)
	assert.Equal(t, original.Description, parsed.Description)
	assert.Equal(t, original.Color, parsed.Color)
	assert.True(t, parsed.CreatedAt.Equal(original.CreatedAt))
}

func TestParseTopic_DefaultsColor(t *testing.T) {
	parsed, err := vault.ParseTopic([]byte(`{"id":"t1","name":"General"}`))
	require.NoError(t, err)
	assert.Equal(t, core.DefaultTopicColor, parsed.Color)
}

func TestParseTopic_RequiresID(t *testing.T) {
	_, err := vault.ParseTopic([]byte(`{"name":"No ID"}`))
	require.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"simple", "simple"},
		{"with spaces here", "with_spaces_here"},
		{`bad<>:"/\|?*chars`, "badchars"},
		{"mixed: a/b c", "mixed_ab_c"},
		{strings.Repeat("a", 150), strings.Repeat("a", 100)},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, vault.SanitizeFilename(tc.in), "input %q", tc.in)
	}
}
