package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/tieubaoca/docqa-be/types"
)

// PDFExtractor extracts text from PDF payloads with the poppler
// pdftotext utility. Only the first MaxPages pages are read; tail pages
// are dropped to bound extraction latency.
type PDFExtractor struct {
	MaxPages int
}

func (e *PDFExtractor) Extract(ctx context.Context, content []byte) (string, error) {
	tmpFile, err := os.CreateTemp("", "docqa-*.pdf")
	if err != nil {
		return "", fmt.Errorf("%w: failed to create temp file: %v", types.ErrExtraction, err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("%w: failed to write temp file: %v", types.ErrExtraction, err)
	}
	tmpFile.Close()

	maxPages := e.MaxPages
	if maxPages <= 0 {
		maxPages = 5
	}

	var out strings.Builder
	for pageNum := 1; pageNum <= maxPages; pageNum++ {
		pageText, err := extractPageWithPdftotext(ctx, tmpFile.Name(), pageNum)
		if err != nil {
			// pdftotext fails for pages past the end of the document,
			// stop quietly.
			break
		}
		if pageText == "" {
			// Blank page (scanned cover sheet, separator), keep going.
			continue
		}
		out.WriteString(collapseWhitespace(pageText))
		out.WriteString(" ")
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("%w: pdftotext produced no text", types.ErrExtraction)
	}
	return text, nil
}

// extractPageWithPdftotext extracts text from a single page using the
// pdftotext utility. A blank page is not an error: it yields an empty
// string so the caller can skip it and read on.
func extractPageWithPdftotext(ctx context.Context, filepath string, pageNumber int) (string, error) {
	pdftotextCmd := exec.CommandContext(ctx, "pdftotext",
		"-f", strconv.Itoa(pageNumber),
		"-l", strconv.Itoa(pageNumber),
		"-enc", "UTF-8", "-nopgbrk",
		filepath, "-")
	var txtOut bytes.Buffer
	pdftotextCmd.Stdout = &txtOut

	if err := pdftotextCmd.Run(); err != nil {
		log.Printf("Error executing pdftotext command for page %d: %v", pageNumber, err)
		return "", err
	}
	return strings.TrimSpace(txtOut.String()), nil
}
