/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/docqa-be/config"
	"github.com/tieubaoca/docqa-be/database"
	"github.com/tieubaoca/docqa-be/service"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docqa-be",
	Short: "Document query-retrieval backend",
	Long: `A backend that answers natural-language questions about a remote
document (PDF, DOCX, HTML or plain text). Documents are downloaded,
chunked, embedded and indexed once; questions are answered from the
most relevant chunks by an LLM backend.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config/config.yaml", "config file")
}

// newVectorStore picks the index backend from config.
func newVectorStore(cfg *config.Config) (database.VectorDatabase, error) {
	switch cfg.VectorStore.Type {
	case "weaviate":
		return database.NewWeaviateStore(cfg.VectorStore.Weaviate)
	case "chromem":
		return database.NewChromemStore(cfg.VectorStore.Chromem)
	case "memory":
		return database.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown vector store type: %s", cfg.VectorStore.Type)
	}
}

// newQueryEngine wires the full pipeline from config.
func newQueryEngine(ctx context.Context, cfg *config.Config) (*service.QueryEngine, error) {
	vectorDB, err := newVectorStore(cfg)
	if err != nil {
		return nil, err
	}

	downloadService := service.NewDownloadService(cfg.Document.MaxFileSizeMB, documentTimeout(cfg))
	chunkService := service.NewChunkService(documentServiceConfig(cfg))
	documentService := service.NewDocumentService(downloadService, chunkService, cfg.Document.MaxWords)

	queryOpts := service.QueryOptions{
		GenerateRetries: cfg.Query.GenerateRetries,
		MaxContextWords: cfg.Query.MaxContextWords,
		MaxAnswerTokens: cfg.Query.MaxAnswerTokens,
	}

	var embedder service.EmbeddingService
	var ai service.AIService
	switch cfg.AIProvider {
	case "gemini":
		gemini, err := service.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.Model, cfg.EmbeddingModel, queryOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini service: %w", err)
		}
		embedder = gemini
		ai = gemini
	case "openai":
		embedder = service.NewOpenAIEmbeddingService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.EmbeddingModel)
		ai = service.NewOpenAIService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.Model, queryOpts)
	default:
		return nil, fmt.Errorf("unknown ai provider: %s", cfg.AIProvider)
	}

	return service.NewQueryEngine(documentService, embedder, ai, vectorDB, service.QueryEngineConfig{
		TopK:                   cfg.Query.TopK,
		MaxConcurrentQuestions: cfg.Query.MaxConcurrentQuestions,
	}), nil
}
