package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, "ai_provider: openai\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Model)
	assert.Equal(t, "text-embedding-ada-002", cfg.EmbeddingModel)
	assert.Equal(t, 400, cfg.Document.ChunkSize)
	assert.Equal(t, 10, cfg.Document.MaxChunks)
	assert.Equal(t, 2000, cfg.Document.MaxWords)
	assert.Equal(t, 50, cfg.Document.MinTextLength)
	assert.Equal(t, 2, cfg.Query.TopK)
	assert.Equal(t, 2, cfg.Query.MaxConcurrentQuestions)
	assert.Equal(t, 2, cfg.Query.GenerateRetries)
	assert.Equal(t, "memory", cfg.VectorStore.Type)
	assert.Equal(t, "document_chunks", cfg.VectorStore.Chromem.Collection)
}

func TestLoadConfigReadsFileValues(t *testing.T) {
	path := writeConfigFile(t, `
port: "9090"
ai_provider: gemini
model: gemini-1.5-flash
document:
  chunk_size: 250
  max_chunks: 4
query:
  top_k: 3
vector_store:
  type: weaviate
  weaviate:
    host: localhost:8080
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "gemini", cfg.AIProvider)
	assert.Equal(t, "gemini-1.5-flash", cfg.Model)
	assert.Equal(t, 250, cfg.Document.ChunkSize)
	assert.Equal(t, 4, cfg.Document.MaxChunks)
	assert.Equal(t, 3, cfg.Query.TopK)
	assert.Equal(t, "weaviate", cfg.VectorStore.Type)
	assert.Equal(t, "localhost:8080", cfg.VectorStore.Weaviate.Host)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigReadsTokenFromEnv(t *testing.T) {
	t.Setenv("API_TOKEN", "env-token")
	path := writeConfigFile(t, "ai_provider: openai\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.APIToken)
}
