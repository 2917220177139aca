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

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <document-url>",
	Short: "Download, chunk, embed and index a document",
	Args:  cobra.ExactArgs(1),
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

		entry, err := engine.IngestDocument(ctx, args[0])
		if err != nil {
			log.Fatalf("Failed to ingest document: %v", err)
		}
		fmt.Printf("Indexed %s: %d chunks\n", args[0], entry.ChunkCount)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
