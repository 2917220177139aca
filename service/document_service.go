package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/tieubaoca/docqa-be/types"
	"github.com/tieubaoca/docqa-be/utils"
)

// DocumentService runs the ingestion path for one URL: download, resolve
// the document type, extract text and chunk it.
type DocumentService struct {
	downloader *DownloadService
	chunker    *ChunkService
	maxWords   int
}

func NewDocumentService(downloader *DownloadService, chunker *ChunkService, maxWords int) *DocumentService {
	if maxWords <= 0 {
		maxWords = DefaultDocumentServiceConfig.MaxWords
	}
	return &DocumentService{
		downloader: downloader,
		chunker:    chunker,
		maxWords:   maxWords,
	}
}

// ProcessDocument turns a document URL into labeled chunks ready for
// embedding. Extracted text is capped at maxWords words before chunking.
func (s *DocumentService) ProcessDocument(ctx context.Context, url string) ([]types.DocumentChunk, error) {
	content, err := s.downloader.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	filename := utils.FilenameFromURL(url)
	docType := ResolveDocumentType(filename)

	text, err := ExtractorFor(docType).Extract(ctx, content)
	if err != nil {
		return nil, err
	}

	words := strings.Fields(text)
	if len(words) > s.maxWords {
		text = strings.Join(words[:s.maxWords], " ")
	}

	metadata := types.ChunkMetadata{
		SourceURL:    url,
		DocumentType: docType,
		Filename:     filename,
	}
	chunks, err := s.chunker.Chunk(text, metadata)
	if err != nil {
		return nil, fmt.Errorf("chunking %s: %w", url, err)
	}

	log.Printf("Processed %s as %s: %d chunks", url, docType, len(chunks))
	return chunks, nil
}
