package core

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxTitleLen = 50

var wikiLinkPattern = regexp.MustCompile(`\[\[([^\]]+)\]\]`)

// Service handles the business logic for notes and topics.
type Service struct {
	repo Repository
}

// NewService creates a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateFromHighlight turns a highlighted passage into a note filed under
// the named topic. The topic is created on first use; the note title is
// derived from the excerpt.
func (s *Service) CreateFromHighlight(ctx context.Context, documentID, pageNumber int, excerpt, topicName, content string) (Note, error) {
	if strings.TrimSpace(excerpt) == "" && strings.TrimSpace(content) == "" {
		return Note{}, errors.New("highlight and note content cannot both be empty")
	}

	topic, err := s.GetOrCreateTopic(ctx, topicName, "")
	if err != nil {
		return Note{}, err
	}

	now := time.Now().UTC()
	note := Note{
		ID:         uuid.NewString(),
		Title:      TitleFromExcerpt(excerpt),
		Content:    content,
		Excerpt:    excerpt,
		TopicID:    topic.ID,
		DocumentID: documentID,
		PageNumber: pageNumber,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.resolveLinks(ctx, &note); err != nil {
		return Note{}, err
	}

	if err := s.repo.SaveNote(ctx, note); err != nil {
		return Note{}, err
	}
	return note, nil
}

// UpdateNote replaces the content (and optionally the title) of an
// existing note, refreshing its wiki links and updated timestamp.
func (s *Service) UpdateNote(ctx context.Context, id, content, title string) (Note, error) {
	if id == "" {
		return Note{}, errors.New("note ID cannot be empty")
	}

	note, err := s.repo.GetNote(ctx, id)
	if err != nil {
		return Note{}, err
	}

	note.Content = content
	if title != "" {
		note.Title = title
	}
	note.UpdatedAt = time.Now().UTC()

	if err := s.resolveLinks(ctx, &note); err != nil {
		return Note{}, err
	}

	if err := s.repo.SaveNote(ctx, note); err != nil {
		return Note{}, err
	}
	return note, nil
}

// GetNote retrieves a note.
func (s *Service) GetNote(ctx context.Context, id string) (Note, error) {
	if id == "" {
		return Note{}, errors.New("note ID cannot be empty")
	}
	return s.repo.GetNote(ctx, id)
}

// DeleteNote removes a note.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("note ID cannot be empty")
	}
	return s.repo.DeleteNote(ctx, id)
}

// ListNotes retrieves all notes.
func (s *Service) ListNotes(ctx context.Context) ([]Note, error) {
	return s.repo.ListNotes(ctx)
}

// NotesByTopic returns all notes filed under the given topic.
func (s *Service) NotesByTopic(ctx context.Context, topicID string) ([]Note, error) {
	notes, err := s.repo.ListNotes(ctx)
	if err != nil {
		return nil, err
	}
	var out []Note
	for _, n := range notes {
		if n.TopicID == topicID {
			out = append(out, n)
		}
	}
	return out, nil
}

// NotesByDocument returns all notes captured from the given document.
func (s *Service) NotesByDocument(ctx context.Context, documentID int) ([]Note, error) {
	notes, err := s.repo.ListNotes(ctx)
	if err != nil {
		return nil, err
	}
	var out []Note
	for _, n := range notes {
		if n.DocumentID == documentID {
			out = append(out, n)
		}
	}
	return out, nil
}

// Search matches the query against title, content, excerpt and tags.
// Title matches rank before body matches. An empty topicID searches the
// whole vault.
func (s *Service) Search(ctx context.Context, query, topicID string) ([]Note, error) {
	notes, err := s.repo.ListNotes(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	var results []Note
	for _, n := range notes {
		if topicID != "" && n.TopicID != topicID {
			continue
		}
		haystack := strings.ToLower(n.Title + " " + n.Content + " " + n.Excerpt + " " + strings.Join(n.Tags, " "))
		if strings.Contains(haystack, q) {
			results = append(results, n)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		ti := strings.Contains(strings.ToLower(results[i].Title), q)
		tj := strings.Contains(strings.ToLower(results[j].Title), q)
		if ti != tj {
			return ti
		}
		return len(results[i].Content) > len(results[j].Content)
	})

	return results, nil
}

// AddTag attaches a tag to a note. Tags are stored lowercase without the
// leading '#'; duplicates are ignored.
func (s *Service) AddTag(ctx context.Context, id, tag string) (Note, error) {
	note, err := s.GetNote(ctx, id)
	if err != nil {
		return Note{}, err
	}

	tag = strings.ToLower(strings.Trim(strings.TrimSpace(tag), "#"))
	if tag == "" {
		return Note{}, errors.New("tag cannot be empty")
	}

	for _, existing := range note.Tags {
		if existing == tag {
			return note, nil
		}
	}

	note.Tags = append(note.Tags, tag)
	note.UpdatedAt = time.Now().UTC()
	if err := s.repo.SaveNote(ctx, note); err != nil {
		return Note{}, err
	}
	return note, nil
}

// AllTags returns the sorted set of tags used across the vault.
func (s *Service) AllTags(ctx context.Context) ([]string, error) {
	notes, err := s.repo.ListNotes(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, n := range notes {
		for _, t := range n.Tags {
			seen[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags, nil
}

// LinkedNotes returns the notes this note links to via [[Title]] syntax.
func (s *Service) LinkedNotes(ctx context.Context, id string) ([]Note, error) {
	note, err := s.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	var out []Note
	for _, linked := range note.Links {
		n, err := s.repo.GetNote(ctx, linked)
		if err != nil {
			if errors.Is(err, ErrNoteNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// GetOrCreateTopic resolves a topic by name (case-insensitive), creating
// it when missing. An empty name maps to the "General" topic.
func (s *Service) GetOrCreateTopic(ctx context.Context, name, description string) (Topic, error) {
	if strings.TrimSpace(name) == "" {
		name = "General"
	}

	topics, err := s.repo.ListTopics(ctx)
	if err != nil {
		return Topic{}, err
	}
	for _, t := range topics {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}

	topic := Topic{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Color:       DefaultTopicColor,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.SaveTopic(ctx, topic); err != nil {
		return Topic{}, err
	}
	return topic, nil
}

// ListTopics retrieves all topics.
func (s *Service) ListTopics(ctx context.Context) ([]Topic, error) {
	return s.repo.ListTopics(ctx)
}

// ExportTopic renders every note in a topic as a single markdown document,
// oldest note first.
func (s *Service) ExportTopic(ctx context.Context, topicID string) (string, error) {
	topic, err := s.repo.GetTopic(ctx, topicID)
	if err != nil {
		return "", err
	}
	notes, err := s.NotesByTopic(ctx, topicID)
	if err != nil {
		return "", err
	}
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.Before(notes[j].CreatedAt)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", topic.Name)
	if topic.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", topic.Description)
	}
	fmt.Fprintf(&b, "**%d notes in this topic**\n\n---\n\n", len(notes))

	for _, n := range notes {
		fmt.Fprintf(&b, "## %s\n\n", n.Title)
		if n.Excerpt != "" {
			fmt.Fprintf(&b, "> %s\n\n", n.Excerpt)
		}
		if n.Content != "" {
			fmt.Fprintf(&b, "%s\n\n", n.Content)
		}
		fmt.Fprintf(&b, "*Page %d, created %s*", n.PageNumber, n.CreatedAt.Format("2006-01-02"))
		if len(n.Tags) > 0 {
			tags := make([]string, len(n.Tags))
			for i, t := range n.Tags {
				tags[i] = "#" + t
			}
			fmt.Fprintf(&b, " (%s)", strings.Join(tags, ", "))
		}
		b.WriteString("\n\n---\n\n")
	}

	return b.String(), nil
}

// Watch observes changes in the repository if supported.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	return w.Watch(ctx, pattern)
}

// resolveLinks rewrites the note's Links from the [[Title]] references in
// its content. Titles match case-insensitively; unresolved links are
// dropped rather than failing the save.
func (s *Service) resolveLinks(ctx context.Context, note *Note) error {
	note.Links = nil
	matches := wikiLinkPattern.FindAllStringSubmatch(note.Content, -1)
	if len(matches) == 0 {
		return nil
	}

	notes, err := s.repo.ListNotes(ctx)
	if err != nil {
		return err
	}

	for _, m := range matches {
		target := m[1]
		for _, other := range notes {
			if other.ID != note.ID && strings.EqualFold(other.Title, target) {
				note.Links = append(note.Links, other.ID)
				break
			}
		}
	}
	return nil
}

// TitleFromExcerpt derives a note title from highlighted text: the first
// 50 characters with whitespace collapsed, an ellipsis when truncated.
func TitleFromExcerpt(excerpt string) string {
	runes := []rune(excerpt)
	cut := runes
	if len(cut) > maxTitleLen {
		cut = cut[:maxTitleLen]
	}
	title := strings.Join(strings.Fields(string(cut)), " ")
	if title == "" {
		return "Untitled Note"
	}
	if len(runes) > maxTitleLen {
		title += "..."
	}
	return title
}
