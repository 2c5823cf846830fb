package retrieval

import (
	"sort"
	"strings"
)

// Ranker orders document chunks by how many query keywords they contain.
type Ranker struct {
	keywords *Extractor
}

func NewRanker(extractor *Extractor) *Ranker {
	return &Ranker{keywords: extractor}
}

// Rank returns up to maxChunks chunks ordered by descending keyword score.
// A keyword scores at most 1 per chunk regardless of how often it occurs.
// Ties keep original document order; with no usable keywords the first
// maxChunks chunks are returned unranked.
func (r *Ranker) Rank(chunks []string, query string, maxChunks int) []string {
	if maxChunks > len(chunks) {
		maxChunks = len(chunks)
	}

	keywords := r.keywords.ExtractKeywords(query)
	if len(keywords) == 0 {
		return append([]string(nil), chunks[:maxChunks]...)
	}

	type scoredChunk struct {
		index int
		score int
	}

	scored := make([]scoredChunk, len(chunks))
	for i, chunk := range chunks {
		lowered := strings.ToLower(chunk)
		score := 0
		for _, keyword := range keywords {
			if strings.Contains(lowered, keyword) {
				score++
			}
		}
		scored[i] = scoredChunk{index: i, score: score}
	}

	// Stable sort keeps ascending original index for equal scores
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	result := make([]string, 0, maxChunks)
	for _, sc := range scored[:maxChunks] {
		result = append(result, chunks[sc.index])
	}
	return result
}
