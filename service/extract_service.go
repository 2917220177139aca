package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/tieubaoca/docqa-be/types"
)

// TextExtractor converts a raw document payload into plain text. An
// extractor returns best-effort text for malformed-but-decodable input
// and only fails when the payload cannot be read at all.
type TextExtractor interface {
	Extract(ctx context.Context, content []byte) (string, error)
}

// ResolveDocumentType maps a filename extension to a document type.
// Anything unrecognized is treated as plain text.
func ResolveDocumentType(filename string) types.DocumentType {
	switch {
	case strings.HasSuffix(filename, ".pdf"):
		return types.DocumentTypePDF
	case strings.HasSuffix(filename, ".docx"):
		return types.DocumentTypeDocx
	case strings.HasSuffix(filename, ".html"), strings.HasSuffix(filename, ".eml"):
		return types.DocumentTypeEmail
	default:
		return types.DocumentTypeText
	}
}

// ExtractorFor returns the extractor for a document type.
func ExtractorFor(docType types.DocumentType) TextExtractor {
	switch docType {
	case types.DocumentTypePDF:
		return &PDFExtractor{MaxPages: 5}
	case types.DocumentTypeDocx:
		return &DocxExtractor{MaxParagraphs: 20}
	case types.DocumentTypeEmail:
		return &HTMLExtractor{}
	default:
		return &PlainTextExtractor{}
	}
}

// PlainTextExtractor decodes the payload as UTF-8 text, dropping invalid
// byte sequences.
type PlainTextExtractor struct{}

func (e *PlainTextExtractor) Extract(ctx context.Context, content []byte) (string, error) {
	if utf8.Valid(content) {
		return string(content), nil
	}
	var b strings.Builder
	b.Grow(len(content))
	for len(content) > 0 {
		r, size := utf8.DecodeRune(content)
		if r != utf8.RuneError || size > 1 {
			b.WriteRune(r)
		}
		content = content[size:]
	}
	return b.String(), nil
}

// collapseWhitespace folds all whitespace runs into single spaces.
func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
