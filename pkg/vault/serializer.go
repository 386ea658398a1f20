package vault

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sprintreader/sprintreader/pkg/core"
)

// TopicSidecarName is the metadata file written into every topic directory.
const TopicSidecarName = ".topic.json"

// noteFrontmatter is the YAML block at the top of every note file.
type noteFrontmatter struct {
	ID         string   `yaml:"id"`
	TopicID    string   `yaml:"topic_id"`
	DocumentID int      `yaml:"document_id"`
	PageNumber int      `yaml:"page_number"`
	CreatedAt  string   `yaml:"created_at"`
	UpdatedAt  string   `yaml:"updated_at"`
	Tags       []string `yaml:"tags,omitempty"`
	Links      []string `yaml:"links,omitempty"`
}

// topicSidecar mirrors the on-disk .topic.json format.
type topicSidecar struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	Color       string `json:"color"`
}

// SerializeNote renders a note as markdown with YAML front matter followed
// by the title, excerpt and notes sections.
func SerializeNote(n core.Note) ([]byte, error) {
	fm := noteFrontmatter{
		ID:         n.ID,
		TopicID:    n.TopicID,
		DocumentID: n.DocumentID,
		PageNumber: n.PageNumber,
		CreatedAt:  n.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  n.UpdatedAt.UTC().Format(time.RFC3339),
		Tags:       n.Tags,
		Links:      n.Links,
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(fm); err != nil {
		return nil, err
	}
	encoder.Close()
	buf.WriteString("---\n\n")

	fmt.Fprintf(&buf, "# %s\n", n.Title)
	if n.Excerpt != "" {
		buf.WriteString("\n## Excerpt\n\n")
		for _, line := range strings.Split(n.Excerpt, "\n") {
			fmt.Fprintf(&buf, "> %s\n", line)
		}
	}
	if n.Content != "" {
		buf.WriteString("\n## Notes\n\n")
		buf.WriteString(n.Content)
		if !strings.HasSuffix(n.Content, "\n") {
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}

// ParseNote reads a markdown note back. Files without a front matter block
// are rejected: the vault only owns files it wrote.
func ParseNote(data []byte) (core.Note, error) {
	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		return core.Note{}, errors.New("note has no front matter block")
	}

	rest := data[3:]
	parts := bytes.SplitN(rest, []byte("---"), 2)
	if len(parts) == 1 {
		return core.Note{}, errors.New("front matter started but no closing delimiter found")
	}

	var fm noteFrontmatter
	if err := yaml.Unmarshal(parts[0], &fm); err != nil {
		return core.Note{}, fmt.Errorf("failed to parse front matter: %w", err)
	}

	body := strings.TrimPrefix(string(parts[1]), "\n")
	body = strings.TrimPrefix(body, "\r\n")
	title, excerpt, content := parseNoteBody(body)

	n := core.Note{
		ID:         fm.ID,
		Title:      title,
		Content:    content,
		Excerpt:    excerpt,
		TopicID:    fm.TopicID,
		DocumentID: fm.DocumentID,
		PageNumber: fm.PageNumber,
		Tags:       fm.Tags,
		Links:      fm.Links,
	}
	if t, err := time.Parse(time.RFC3339, fm.CreatedAt); err == nil {
		n.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, fm.UpdatedAt); err == nil {
		n.UpdatedAt = t
	}
	return n, nil
}

// parseNoteBody splits the markdown body into title, excerpt and notes.
// The layout mirrors SerializeNote; unknown sections are skipped.
func parseNoteBody(body string) (title, excerpt, content string) {
	var excerptLines, contentLines []string
	section := ""

	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimRight(raw, "\r")
		switch {
		case strings.HasPrefix(line, "# "):
			title = strings.TrimPrefix(line, "# ")
		case line == "## Excerpt":
			section = "excerpt"
		case line == "## Notes":
			section = "notes"
		case strings.HasPrefix(line, "## "):
			section = ""
		case section == "excerpt" && strings.HasPrefix(line, "> "):
			excerptLines = append(excerptLines, strings.TrimPrefix(line, "> "))
		case section == "notes":
			contentLines = append(contentLines, line)
		}
	}

	excerpt = strings.Join(excerptLines, "\n")
	content = strings.TrimSpace(strings.Join(contentLines, "\n"))
	return title, excerpt, content
}

// SerializeTopic renders the JSON sidecar for a topic directory.
func SerializeTopic(t core.Topic) ([]byte, error) {
	sidecar := topicSidecar{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		Color:       t.Color,
	}
	return json.MarshalIndent(sidecar, "", "  ")
}

// ParseTopic reads a .topic.json sidecar.
func ParseTopic(data []byte) (core.Topic, error) {
	var sidecar topicSidecar
	if err := json.Unmarshal(data, &sidecar); err != nil {
		return core.Topic{}, fmt.Errorf("invalid topic sidecar: %w", err)
	}
	if sidecar.ID == "" {
		return core.Topic{}, errors.New("topic sidecar has no id")
	}

	t := core.Topic{
		ID:          sidecar.ID,
		Name:        sidecar.Name,
		Description: sidecar.Description,
		Color:       sidecar.Color,
	}
	if t.Color == "" {
		t.Color = core.DefaultTopicColor
	}
	if ts, err := time.Parse(time.RFC3339, sidecar.CreatedAt); err == nil {
		t.CreatedAt = ts
	}
	return t, nil
}

// SanitizeFilename strips characters the filesystem rejects, replaces
// spaces with underscores and caps the length at 100 characters.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			continue
		case ' ':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > 100 {
		out = out[:100]
	}
	return out
}
