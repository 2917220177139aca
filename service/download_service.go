package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/tieubaoca/docqa-be/types"
)

// DownloadService fetches remote documents with a hard size cap.
type DownloadService struct {
	client      *http.Client
	maxFileSize int64
}

func NewDownloadService(maxFileSizeMB int, timeout time.Duration) *DownloadService {
	return &DownloadService{
		client:      &http.Client{Timeout: timeout},
		maxFileSize: int64(maxFileSizeMB) * 1024 * 1024,
	}
}

// Fetch downloads the document at url. It fails with ErrDownload on
// network errors, non-2xx responses and size-limit violations. The size
// cap is enforced both from Content-Length and while reading the body,
// since servers are free to omit or lie about the header.
func (s *DownloadService) Fetch(ctx context.Context, url string) ([]byte, error) {
	log.Printf("Downloading document from: %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid request for %s: %v", types.ErrDownload, url, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %s", types.ErrDownload, resp.Status)
	}

	if resp.ContentLength > s.maxFileSize {
		return nil, fmt.Errorf("%w: file size %d exceeds limit %d", types.ErrDownload, resp.ContentLength, s.maxFileSize)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, s.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", types.ErrDownload, err)
	}
	if int64(len(content)) > s.maxFileSize {
		return nil, fmt.Errorf("%w: file size exceeds limit %d", types.ErrDownload, s.maxFileSize)
	}
	return content, nil
}
