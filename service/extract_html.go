package service

import (
	"context"
	"html"
	"regexp"
)

// Pre-compiled regular expressions for HTML stripping.
var (
	scriptTag    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag  = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	navTag       = regexp.MustCompile(`(?is)<nav[^>]*>.*?</nav>`)
	headerTag    = regexp.MustCompile(`(?is)<header[^>]*>.*?</header>`)
	footerTag    = regexp.MustCompile(`(?is)<footer[^>]*>.*?</footer>`)
	htmlComments = regexp.MustCompile(`(?s)<!--.*?-->`)
	allTags      = regexp.MustCompile(`<[^>]+>`)
)

// HTMLExtractor strips markup from HTML and HTML-bodied email payloads,
// leaving whitespace-normalized visible text.
type HTMLExtractor struct{}

func (e *HTMLExtractor) Extract(ctx context.Context, content []byte) (string, error) {
	text := string(content)

	// Drop non-content elements before removing the remaining tags.
	text = scriptTag.ReplaceAllString(text, " ")
	text = styleTag.ReplaceAllString(text, " ")
	text = noscriptTag.ReplaceAllString(text, " ")
	text = navTag.ReplaceAllString(text, " ")
	text = headerTag.ReplaceAllString(text, " ")
	text = footerTag.ReplaceAllString(text, " ")
	text = htmlComments.ReplaceAllString(text, " ")
	text = allTags.ReplaceAllString(text, " ")

	text = html.UnescapeString(text)
	return collapseWhitespace(text), nil
}
