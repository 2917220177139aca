package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port       string `mapstructure:"port"`
	APIToken   string `mapstructure:"API_TOKEN"`
	AIProvider string `mapstructure:"ai_provider"` // "openai" or "gemini"

	AIEndpoint     string `mapstructure:"ai_endpoint"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
	OpenAIAPIKey   string `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKey   string `mapstructure:"GEMINI_API_KEY"`

	Document DocumentConfig `mapstructure:"document"`
	Query    QueryConfig    `mapstructure:"query"`

	VectorStore VectorStoreConfig `mapstructure:"vector_store"`
}

type DocumentConfig struct {
	MaxFileSizeMB int `mapstructure:"max_file_size_mb"`
	ChunkSize     int `mapstructure:"chunk_size"`
	MaxChunks     int `mapstructure:"max_chunks"`
	MaxWords      int `mapstructure:"max_words"`
	MinTextLength int `mapstructure:"min_text_length"`
	TimeoutSecs   int `mapstructure:"timeout_secs"`
}

type QueryConfig struct {
	TopK                   int `mapstructure:"top_k"`
	MaxConcurrentQuestions int `mapstructure:"max_concurrent_questions"`
	GenerateRetries        int `mapstructure:"generate_retries"`
	MaxContextWords        int `mapstructure:"max_context_words"`
	MaxAnswerTokens        int `mapstructure:"max_answer_tokens"`
}

type VectorStoreConfig struct {
	Type     string              `mapstructure:"type"` // "memory", "weaviate" or "chromem"
	Weaviate WeaviateStoreConfig `mapstructure:"weaviate"`
	Chromem  ChromemStoreConfig  `mapstructure:"chromem"`
}

type WeaviateStoreConfig struct {
	Host   string `mapstructure:"host"`
	APIKey string `mapstructure:"WEAVIATE_APIKEY"` // Changed to match env var
}

type ChromemStoreConfig struct {
	Path       string `mapstructure:"path"` // empty for in-memory only
	Collection string `mapstructure:"collection"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set up Viper to read from config file
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Bind environment variables
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("GEMINI_API_KEY")
	v.BindEnv("WEAVIATE_APIKEY")
	v.BindEnv("API_TOKEN")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	applyDefaults(&config)

	return &config, nil
}

func applyDefaults(c *Config) {
	if c.Port == "" {
		c.Port = "8000"
	}
	if c.AIProvider == "" {
		c.AIProvider = "openai"
	}
	if c.Model == "" {
		c.Model = "gpt-3.5-turbo"
	}
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = "text-embedding-ada-002"
	}
	if c.Document.MaxFileSizeMB == 0 {
		c.Document.MaxFileSizeMB = 10
	}
	if c.Document.ChunkSize == 0 {
		c.Document.ChunkSize = 400
	}
	if c.Document.MaxChunks == 0 {
		c.Document.MaxChunks = 10
	}
	if c.Document.MaxWords == 0 {
		c.Document.MaxWords = 2000
	}
	if c.Document.MinTextLength == 0 {
		c.Document.MinTextLength = 50
	}
	if c.Document.TimeoutSecs == 0 {
		c.Document.TimeoutSecs = 10
	}
	if c.Query.TopK == 0 {
		c.Query.TopK = 2
	}
	if c.Query.MaxConcurrentQuestions == 0 {
		c.Query.MaxConcurrentQuestions = 2
	}
	if c.Query.GenerateRetries == 0 {
		c.Query.GenerateRetries = 2
	}
	if c.Query.MaxContextWords == 0 {
		c.Query.MaxContextWords = 100
	}
	if c.Query.MaxAnswerTokens == 0 {
		c.Query.MaxAnswerTokens = 200
	}
	if c.VectorStore.Type == "" {
		c.VectorStore.Type = "memory"
	}
	if c.VectorStore.Chromem.Collection == "" {
		c.VectorStore.Chromem.Collection = "document_chunks"
	}
}
