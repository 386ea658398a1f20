package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sprintreader/sprintreader"
	"github.com/sprintreader/sprintreader/pkg/core"
)

var (
	noteExcerpt  string
	noteContent  string
	noteTopic    string
	noteDocument int
	notePage     int

	noteListTopic string
	noteListJSON  bool

	searchTopic string
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Work with notes in the vault",
}

// openVault wires an App and loads the vault index. The vault must already
// exist; run 'sprintreader vault init' first.
func openVault() (*sprintreader.App, error) {
	app, err := newApp(sprintreader.WithMustExist(true))
	if err != nil {
		return nil, err
	}
	if err := app.Vault.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return app, nil
}

// resolveTopicID maps a topic name (case-insensitive) to its ID. An empty
// name resolves to an empty filter.
func resolveTopicID(ctx context.Context, app *sprintreader.App, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	topics, err := app.Service.ListTopics(ctx)
	if err != nil {
		return "", err
	}
	for _, t := range topics {
		if strings.EqualFold(t.Name, name) {
			return t.ID, nil
		}
	}
	return "", fmt.Errorf("topic '%s' not found", name)
}

func printNotes(notes []core.Note, asJSON bool) {
	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(notes); err != nil {
			fatal("Failed to encode JSON", err)
		}
		return
	}
	for _, n := range notes {
		line := fmt.Sprintf("%s  %s", n.ID, n.Title)
		if len(n.Tags) > 0 {
			line += "  [" + strings.Join(n.Tags, ", ") + "]"
		}
		fmt.Println(line)
	}
}

// noteAddCmd represents the note add command
var noteAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a note from a highlighted excerpt",
	Long: `Create a note from a document highlight. The title is generated from
the excerpt; the topic is resolved by name and created when missing.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openVault()
		if err != nil {
			fatal("Failed to open vault", err)
		}

		note, err := app.Service.CreateFromHighlight(context.Background(),
			noteDocument, notePage, noteExcerpt, noteTopic, noteContent)
		if err != nil {
			fatal("Failed to create note", err)
		}

		fmt.Printf("Created note '%s' (%s)\n", note.Title, note.ID)
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes in the vault",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openVault()
		if err != nil {
			fatal("Failed to open vault", err)
		}

		ctx := context.Background()
		topicID, err := resolveTopicID(ctx, app, noteListTopic)
		if err != nil {
			fatal("Failed to list notes", err)
		}

		var notes []core.Note
		if topicID != "" {
			notes, err = app.Service.NotesByTopic(ctx, topicID)
		} else {
			notes, err = app.Service.ListNotes(ctx)
		}
		if err != nil {
			fatal("Failed to list notes", err)
		}

		printNotes(notes, noteListJSON)
	},
}

var noteSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search notes by title, content, excerpt or tags",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openVault()
		if err != nil {
			fatal("Failed to open vault", err)
		}

		ctx := context.Background()
		topicID, err := resolveTopicID(ctx, app, searchTopic)
		if err != nil {
			fatal("Search failed", err)
		}

		notes, err := app.Service.Search(ctx, args[0], topicID)
		if err != nil {
			fatal("Search failed", err)
		}

		printNotes(notes, false)
	},
}

var noteTagCmd = &cobra.Command{
	Use:   "tag <note-id> <tag>",
	Short: "Add a tag to a note",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openVault()
		if err != nil {
			fatal("Failed to open vault", err)
		}

		note, err := app.Service.AddTag(context.Background(), args[0], args[1])
		if err != nil {
			fatal("Failed to tag note", err)
		}

		fmt.Printf("Tags on '%s': %s\n", note.Title, strings.Join(note.Tags, ", "))
	},
}

var noteExportCmd = &cobra.Command{
	Use:   "export <topic>",
	Short: "Export a topic's notes as one markdown document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openVault()
		if err != nil {
			fatal("Failed to open vault", err)
		}

		ctx := context.Background()
		topicID, err := resolveTopicID(ctx, app, args[0])
		if err != nil {
			fatal("Export failed", err)
		}

		doc, err := app.Service.ExportTopic(ctx, topicID)
		if err != nil {
			fatal("Export failed", err)
		}

		fmt.Print(doc)
	},
}

func init() {
	rootCmd.AddCommand(noteCmd)
	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteSearchCmd)
	noteCmd.AddCommand(noteTagCmd)
	noteCmd.AddCommand(noteExportCmd)

	noteAddCmd.Flags().StringVar(&noteExcerpt, "excerpt", "", "Highlighted text the note is about")
	noteAddCmd.Flags().StringVar(&noteContent, "content", "", "Note body")
	noteAddCmd.Flags().StringVar(&noteTopic, "topic", "", "Topic name (created when missing, default General)")
	noteAddCmd.Flags().IntVar(&noteDocument, "document", 0, "Document ID the highlight came from")
	noteAddCmd.Flags().IntVar(&notePage, "page", 0, "Page number of the highlight")
	noteAddCmd.MarkFlagRequired("excerpt")

	noteListCmd.Flags().StringVar(&noteListTopic, "topic", "", "Filter by topic name")
	noteListCmd.Flags().BoolVar(&noteListJSON, "json", false, "Output in JSON format")

	noteSearchCmd.Flags().StringVar(&searchTopic, "topic", "", "Restrict the search to one topic")
}
