package sampler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestPagesToSample(t *testing.T) {
	cases := []struct {
		n    int
		want []int
	}{
		{0, nil},
		{1, []int{0}},
		{3, []int{0, 1, 2}},
		{5, []int{0, 1, 2}},
		{7, []int{0, 1, 2, 4, 5, 6}},
		{10, []int{0, 1, 2, 7, 8, 9}},
		{11, []int{0, 1, 2, 5, 6, 7, 8, 9, 10}},
		{12, []int{0, 1, 2, 6, 7, 8, 9, 10, 11}},
		{100, []int{0, 1, 2, 50, 51, 52, 97, 98, 99}},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("n=%d", tc.n), func(t *testing.T) {
			got := PagesToSample(tc.n)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("PagesToSample(%d) = %v, want %v", tc.n, got, tc.want)
			}
		})
	}
}

type fakeDoc struct {
	pages []string
	fail  map[int]bool
}

func (d *fakeDoc) NumPages() int { return len(d.pages) }

func (d *fakeDoc) PageText(page int) (string, error) {
	if d.fail[page] {
		return "", errors.New("extraction failed")
	}
	return d.pages[page], nil
}

func TestSampleMarkersAndOrder(t *testing.T) {
	doc := &fakeDoc{pages: []string{"alpha", "beta", "gamma", "delta", "epsilon"}}
	got := Sample(doc)
	want := "\n--- Page 1 ---\nalpha\n\n--- Page 2 ---\nbeta\n\n--- Page 3 ---\ngamma\n"
	if got != want {
		t.Fatalf("Sample() = %q, want %q", got, want)
	}
}

func TestSampleSkipsEmptyAndFailingPages(t *testing.T) {
	doc := &fakeDoc{
		pages: []string{"first", "  ", "third"},
		fail:  map[int]bool{2: true},
	}
	got := Sample(doc)
	if strings.Contains(got, "--- Page 2 ---") {
		t.Fatalf("blank page should not emit a marker: %q", got)
	}
	if strings.Contains(got, "--- Page 3 ---") {
		t.Fatalf("failing page should not emit a marker: %q", got)
	}
	if !strings.Contains(got, "--- Page 1 ---\nfirst") {
		t.Fatalf("first page missing from sample: %q", got)
	}
}

func TestSampleEmptyDocument(t *testing.T) {
	if got := Sample(&fakeDoc{}); got != "" {
		t.Fatalf("Sample(empty) = %q, want empty", got)
	}
}

func TestSampleCollapsesWhitespace(t *testing.T) {
	doc := &fakeDoc{pages: []string{"one\x00  two\n\nthree"}}
	got := Sample(doc)
	if !strings.Contains(got, "one two three") {
		t.Fatalf("expected normalized page text, got %q", got)
	}
}
