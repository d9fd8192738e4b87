package access

import (
	"testing"

	"publicindex/pkg/domain"
)

func TestCanViewLayer(t *testing.T) {
	alice := domain.User{ID: "alice"}
	bob := domain.User{ID: "bob"}

	cases := []struct {
		name    string
		user    domain.User
		layer   domain.AnnotationLayer
		groups  []string
		visible bool
	}{
		{"public layer visible to stranger", bob, domain.AnnotationLayer{Public: true, CreatorID: "alice"}, nil, true},
		{"creator sees own private layer", alice, domain.AnnotationLayer{CreatorID: "alice"}, nil, true},
		{"stranger blocked from private layer", bob, domain.AnnotationLayer{CreatorID: "alice"}, nil, false},
		{"group member sees group layer", bob, domain.AnnotationLayer{CreatorID: "alice", GroupID: "g1"}, []string{"g1", "g2"}, true},
		{"non-member blocked from group layer", bob, domain.AnnotationLayer{CreatorID: "alice", GroupID: "g1"}, []string{"g2"}, false},
		{"creator sees group layer without membership", alice, domain.AnnotationLayer{CreatorID: "alice", GroupID: "g1"}, nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanViewLayer(tc.user, tc.layer, tc.groups); got != tc.visible {
				t.Fatalf("CanViewLayer() = %v, want %v", got, tc.visible)
			}
		})
	}
}

func TestCanDeleteAnnotation(t *testing.T) {
	ann := domain.Annotation{AuthorID: "alice"}
	if !CanDeleteAnnotation(domain.User{ID: "alice"}, ann) {
		t.Fatalf("author should be able to delete own annotation")
	}
	if !CanDeleteAnnotation(domain.User{ID: "bob", IsAdmin: true}, ann) {
		t.Fatalf("admin should be able to delete any annotation")
	}
	if CanDeleteAnnotation(domain.User{ID: "bob"}, ann) {
		t.Fatalf("unrelated user must not delete the annotation")
	}
}

func TestCanCreateGroupLayer(t *testing.T) {
	if !CanCreateGroupLayer("g1", []string{"g1"}) {
		t.Fatalf("member should be allowed to create a group layer")
	}
	if CanCreateGroupLayer("g1", []string{"g2"}) {
		t.Fatalf("non-member must not create a group layer")
	}
	if CanCreateGroupLayer("", []string{"g1"}) {
		t.Fatalf("empty group id is never a group layer target")
	}
}

func TestFilterLayers(t *testing.T) {
	bob := domain.User{ID: "bob"}
	layers := []domain.AnnotationLayer{
		{ID: "l1", Public: true, CreatorID: "alice"},
		{ID: "l2", CreatorID: "alice"},
		{ID: "l3", CreatorID: "alice", GroupID: "g1"},
		{ID: "l4", CreatorID: "bob"},
	}
	got := FilterLayers(bob, layers, []string{"g1"})
	want := []string{"l1", "l3", "l4"}
	if len(got) != len(want) {
		t.Fatalf("FilterLayers() returned %d layers, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("FilterLayers()[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
}
