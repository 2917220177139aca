package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/tieubaoca/docqa-be/types"
)

// DocxExtractor pulls text out of the word/document.xml entry of a DOCX
// archive. Only the first MaxParagraphs paragraphs are kept.
type DocxExtractor struct {
	MaxParagraphs int
}

// documentXML mirrors the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Text []docxText `xml:"t"`
}

type docxText struct {
	Content string `xml:",chardata"`
}

func (e *DocxExtractor) Extract(ctx context.Context, content []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: not a docx archive: %v", types.ErrExtraction, err)
	}

	var docData []byte
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("%w: failed to open document.xml: %v", types.ErrExtraction, err)
		}
		docData, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("%w: failed to read document.xml: %v", types.ErrExtraction, err)
		}
		break
	}
	if docData == nil {
		return "", fmt.Errorf("%w: archive has no word/document.xml", types.ErrExtraction)
	}

	var doc documentXML
	if err := xml.Unmarshal(docData, &doc); err != nil {
		return "", fmt.Errorf("%w: failed to parse document.xml: %v", types.ErrExtraction, err)
	}

	maxParagraphs := e.MaxParagraphs
	if maxParagraphs <= 0 || maxParagraphs > len(doc.Body.Paragraphs) {
		maxParagraphs = len(doc.Body.Paragraphs)
	}

	var parts []string
	for _, paragraph := range doc.Body.Paragraphs[:maxParagraphs] {
		var b strings.Builder
		for _, run := range paragraph.Runs {
			for _, t := range run.Text {
				b.WriteString(t.Content)
			}
		}
		if text := strings.TrimSpace(b.String()); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " "), nil
}
