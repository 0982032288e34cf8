package search

import (
	"bytes"
	"cmp"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
)

// Compare is the result order shared by every mode: relevance (when it
// leads), then final score, then publication time, all descending, then id
// ascending so that pages are stable.
func Compare(a, b domain.RankedRecord, byRelevance bool) int {
	if byRelevance {
		if c := cmp.Compare(b.Relevance, a.Relevance); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(b.Score.Final, a.Score.Final); c != 0 {
		return c
	}
	if c := b.PublishedAt.Compare(a.PublishedAt); c != 0 {
		return c
	}
	return bytes.Compare(a.ID[:], b.ID[:])
}
