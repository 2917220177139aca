/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/docqa-be/config"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <document-url> <question> [question...]",
	Short: "Answer questions about a document from the command line",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		ctx := context.Background()
		engine, err := newQueryEngine(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to build query engine: %v", err)
		}

		documentURL := args[0]
		questions := args[1:]
		answers := engine.ProcessQuery(ctx, documentURL, questions)
		for i, answer := range answers {
			fmt.Printf("Q: %s\nA: %s\n\n", questions[i], answer)
		}
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
