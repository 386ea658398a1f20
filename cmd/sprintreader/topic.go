package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var topicDescription string

var topicCmd = &cobra.Command{
	Use:   "topic",
	Short: "Work with vault topics",
}

// topicAddCmd represents the topic add command
var topicAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a topic (no-op if it already exists)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openVault()
		if err != nil {
			fatal("Failed to open vault", err)
		}

		topic, err := app.Service.GetOrCreateTopic(context.Background(), args[0], topicDescription)
		if err != nil {
			fatal("Failed to create topic", err)
		}

		fmt.Printf("Topic '%s' (%s)\n", topic.Name, topic.ID)
	},
}

var topicListCmd = &cobra.Command{
	Use:   "list",
	Short: "List topics in the vault",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := openVault()
		if err != nil {
			fatal("Failed to open vault", err)
		}

		topics, err := app.Service.ListTopics(context.Background())
		if err != nil {
			fatal("Failed to list topics", err)
		}

		for _, t := range topics {
			line := fmt.Sprintf("%s  %s", t.ID, t.Name)
			if t.Description != "" {
				line += "  - " + t.Description
			}
			fmt.Println(line)
		}
	},
}

func init() {
	rootCmd.AddCommand(topicCmd)
	topicCmd.AddCommand(topicAddCmd)
	topicCmd.AddCommand(topicListCmd)

	topicAddCmd.Flags().StringVarP(&topicDescription, "description", "d", "", "Topic description")
}
