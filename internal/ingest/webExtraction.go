package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"github.com/akolanti/docchat/internal/config"
	"github.com/akolanti/docchat/internal/customHttpClient"
	"github.com/akolanti/docchat/internal/domain/docModel"
)

// BuildDocumentFromURL fetches a web page and extracts its readable text.
func BuildDocumentFromURL(ctx context.Context, rawURL string) (docModel.Document, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil || (pageURL.Scheme != "http" && pageURL.Scheme != "https") {
		return docModel.Document{}, fmt.Errorf("%w: invalid url %q", ErrUnsupportedInput, rawURL)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, config.PageFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return docModel.Document{}, fmt.Errorf("create request: %w", err)
	}
	resp, err := customHttpClient.GetPooledClient().Do(req)
	if err != nil {
		return docModel.Document{}, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return docModel.Document{}, fmt.Errorf("fetch page status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return docModel.Document{}, fmt.Errorf("read page: %w", err)
	}

	name, text := extractPage(string(body), pageURL)
	if name == "" {
		name = pageURL.Host
	}
	return newDocument(name, text, docModel.HTML, pageURL.String())
}

func extractHTMLFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read html file: %w", err)
	}
	_, text := extractPage(string(raw), nil)
	return text, nil
}

// extractPage prefers the readability view of the page and falls back to a
// plain tag strip when the page has no recognizable article body.
func extractPage(rawHTML string, pageURL *url.URL) (title string, text string) {
	article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return article.Title, article.TextContent
	}
	logger.Debug("Readability found no article body, stripping tags")
	return "", stripTags(rawHTML)
}

func stripTags(rawHTML string) string {
	var out strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(rawHTML))

	skipDepth := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return out.String()
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style", "noscript":
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style", "noscript":
				if skipDepth > 0 {
					skipDepth--
				}
			case "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6", "br":
				out.WriteString("\n")
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			if trimmed := strings.TrimSpace(string(tokenizer.Text())); trimmed != "" {
				out.WriteString(trimmed)
				out.WriteString(" ")
			}
		}
	}
}
