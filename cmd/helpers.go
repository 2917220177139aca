package cmd

import (
	"time"

	"github.com/tieubaoca/docqa-be/config"
	"github.com/tieubaoca/docqa-be/types"
)

func documentTimeout(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Document.TimeoutSecs) * time.Second
}

func documentServiceConfig(cfg *config.Config) types.DocumentServiceConfig {
	return types.DocumentServiceConfig{
		ChunkSize:     cfg.Document.ChunkSize,
		MaxChunks:     cfg.Document.MaxChunks,
		MaxWords:      cfg.Document.MaxWords,
		MinTextLength: cfg.Document.MinTextLength,
	}
}
