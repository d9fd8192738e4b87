// Package sampler extracts a bounded, representative text excerpt from a
// paginated document: the opening pages, the middle of longer books, and the
// closing pages. The excerpt feeds the moderation assistant, which only needs
// the gist of a book, not its full text.
package sampler

import (
	"fmt"
	"strings"
)

// Document is a paginated text source. Pages are 0-indexed.
type Document interface {
	NumPages() int
	PageText(page int) (string, error)
}

// PagesToSample returns the 0-indexed pages sampled from a document of n
// pages: always the first min(3,n) pages, plus three pages from the middle
// when n > 10, plus the last three pages when n > 6. The result is
// deduplicated and sorted ascending.
func PagesToSample(n int) []int {
	if n <= 0 {
		return nil
	}
	picked := make(map[int]struct{})
	for i := 0; i < 3 && i < n; i++ {
		picked[i] = struct{}{}
	}
	if n > 10 {
		mid := n / 2
		for i := mid; i < mid+3 && i < n; i++ {
			picked[i] = struct{}{}
		}
	}
	if n > 6 {
		for i := n - 3; i < n; i++ {
			picked[i] = struct{}{}
		}
	}
	pages := make([]int, 0, len(picked))
	for i := 0; i < n; i++ {
		if _, ok := picked[i]; ok {
			pages = append(pages, i)
		}
	}
	return pages
}

// Sample concatenates the text of the sampled pages, each prefixed with a
// 1-indexed page marker. Pages that yield no text are skipped without a
// marker. An empty document samples to the empty string.
func Sample(doc Document) string {
	var b strings.Builder
	for _, page := range PagesToSample(doc.NumPages()) {
		text, err := doc.PageText(page)
		if err != nil {
			continue
		}
		text = normalizeText(text)
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "\n--- Page %d ---\n%s\n", page+1, text)
	}
	return b.String()
}

func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\x00", " ")
	text = strings.ToValidUTF8(text, "")
	return strings.Join(strings.Fields(text), " ")
}
