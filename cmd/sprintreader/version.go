package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sprintreader/sprintreader"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of sprintreader",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sprintreader version %s\n", strings.TrimSpace(sprintreader.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
