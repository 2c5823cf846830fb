package retrieval

import (
	"strings"

	"github.com/akolanti/docchat/internal/config"
)

const punctuation = ".,!?;:\"'()[]{}<>/\\|`~@#$%^&*-_=+"

// Extractor turns a query into the set of significant terms used as the
// ranking signal. Stopwords and short words carry no signal and are dropped.
type Extractor struct {
	stopwords map[string]struct{}
}

func NewExtractor(stopwords []string) *Extractor {
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &Extractor{stopwords: set}
}

func DefaultExtractor() *Extractor {
	return NewExtractor(config.Stopwords)
}

// ExtractKeywords returns the deduplicated keywords of text in first-seen
// order. An empty result is valid (all-stopword or all-short queries).
func (e *Extractor) ExtractKeywords(text string) []string {
	cleaned := strings.ToLower(text)
	cleaned = strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return ' '
		}
		return r
	}, cleaned)

	var keywords []string
	seen := make(map[string]struct{})
	for _, word := range strings.Fields(cleaned) {
		if len(word) < config.MinKeywordLength {
			continue
		}
		if _, stop := e.stopwords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}
	return keywords
}
