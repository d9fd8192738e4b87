package app

import (
	"errors"
	"testing"
	"time"

	"publicindex/pkg/domain"
)

func seedBook(t *testing.T, env *testEnv) domain.Ebook {
	t.Helper()
	env.addCategory(t, "c1", "Philosophy")
	return env.addEbook(t, domain.Ebook{
		ID:         "e1",
		Title:      "Meditations",
		AuthorName: "Marcus Aurelius",
		StorageKey: "books/e1/meditations.pdf",
		CategoryID: "c1",
		CreatedAt:  time.Now().UTC(),
	})
}

// detachedLayer makes a private layer the only way one can exist: create it
// inside a throwaway group, then delete the group.
func detachedLayer(t *testing.T, env *testEnv, owner domain.User, ebookID, name string) domain.AnnotationLayer {
	t.Helper()
	group, err := env.app.CreateGroup(owner, name+" Workshop", "")
	if err != nil {
		t.Fatalf("CreateGroup() error: %v", err)
	}
	layer, err := env.app.CreateLayer(owner, ebookID, LayerParams{Name: name, GroupID: group.ID})
	if err != nil {
		t.Fatalf("CreateLayer() error: %v", err)
	}
	if err := env.app.DeleteGroup(owner, group.ID); err != nil {
		t.Fatalf("DeleteGroup() error: %v", err)
	}
	return layer
}

func TestCreateLayerScopes(t *testing.T) {
	env := newTestEnv(t)
	alice := env.addUser(t, "u1", "alice", false)
	bob := env.addUser(t, "u2", "bob", false)
	book := seedBook(t, env)
	group, err := env.app.CreateGroup(alice, "Stoics", "")
	if err != nil {
		t.Fatalf("CreateGroup() error: %v", err)
	}

	grouped, err := env.app.CreateLayer(alice, book.ID, LayerParams{Name: "Group Notes", GroupID: group.ID})
	if err != nil {
		t.Fatalf("member group layer error: %v", err)
	}
	if grouped.Public {
		t.Fatalf("group-scoped layer should not be public")
	}
	if _, err := env.app.CreateLayer(bob, book.ID, LayerParams{Name: "Sneaky", GroupID: group.ID}); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("non-member group layer = %v, want ErrPermissionDenied", err)
	}
	if _, err := env.app.CreateLayer(alice, "missing", LayerParams{Name: "Ghost"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("layer on missing ebook = %v, want ErrNotFound", err)
	}
}

func TestLayerWithoutGroupIsPublic(t *testing.T) {
	env := newTestEnv(t)
	alice := env.addUser(t, "u1", "alice", false)
	bob := env.addUser(t, "u2", "bob", false)
	book := seedBook(t, env)

	// Visibility is decided by scope alone: no group means public.
	layer, err := env.app.CreateLayer(alice, book.ID, LayerParams{Name: "Notes"})
	if err != nil {
		t.Fatalf("CreateLayer() error: %v", err)
	}
	if !layer.Public {
		t.Fatalf("layer without a group should be public, got %+v", layer)
	}
	visible, err := env.app.ListVisibleLayers(bob, book.ID)
	if err != nil {
		t.Fatalf("ListVisibleLayers() error: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != layer.ID {
		t.Fatalf("visible layers for bob = %+v, want the new layer", visible)
	}
}

func TestListVisibleLayers(t *testing.T) {
	env := newTestEnv(t)
	alice := env.addUser(t, "u1", "alice", false)
	bob := env.addUser(t, "u2", "bob", false)
	carol := env.addUser(t, "u3", "carol", false)
	book := seedBook(t, env)
	group, err := env.app.CreateGroup(alice, "Stoics", "")
	if err != nil {
		t.Fatalf("CreateGroup() error: %v", err)
	}
	if err := env.app.JoinGroup(bob, group.ID); err != nil {
		t.Fatalf("JoinGroup() error: %v", err)
	}

	public, err := env.app.CreateLayer(alice, book.ID, LayerParams{Name: "Public Notes"})
	if err != nil {
		t.Fatalf("CreateLayer() error: %v", err)
	}
	grouped, err := env.app.CreateLayer(alice, book.ID, LayerParams{Name: "Group Notes", GroupID: group.ID})
	if err != nil {
		t.Fatalf("CreateLayer() error: %v", err)
	}
	private := detachedLayer(t, env, alice, book.ID, "Drafts")

	assertVisible := func(user domain.User, want ...string) {
		t.Helper()
		layers, err := env.app.ListVisibleLayers(user, book.ID)
		if err != nil {
			t.Fatalf("ListVisibleLayers() error: %v", err)
		}
		got := make([]string, 0, len(layers))
		for _, l := range layers {
			got = append(got, l.ID)
		}
		if len(got) != len(want) {
			t.Fatalf("visible layers for %s = %v, want %v", user.Username, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("visible layers for %s = %v, want %v", user.Username, got, want)
			}
		}
	}
	// Layers list in name order: Drafts, Group Notes, Public Notes.
	assertVisible(alice, private.ID, grouped.ID, public.ID)
	assertVisible(bob, grouped.ID, public.ID)
	assertVisible(carol, public.ID)
}

func TestAnnotationLifecycle(t *testing.T) {
	env := newTestEnv(t)
	alice := env.addUser(t, "u1", "alice", false)
	bob := env.addUser(t, "u2", "bob", false)
	admin := env.addUser(t, "a1", "root", true)
	book := seedBook(t, env)

	layer, err := env.app.CreateLayer(alice, book.ID, LayerParams{Name: "Public Notes"})
	if err != nil {
		t.Fatalf("CreateLayer() error: %v", err)
	}
	first, err := env.app.CreateAnnotation(alice, layer.ID, AnnotationParams{Content: "A fine opening.", HighlightedText: "Call me Ishmael"})
	if err != nil {
		t.Fatalf("CreateAnnotation() error: %v", err)
	}
	second, err := env.app.CreateAnnotation(bob, layer.ID, AnnotationParams{Content: "Agreed."})
	if err != nil {
		t.Fatalf("CreateAnnotation() error: %v", err)
	}

	notes, err := env.app.ListAnnotations(bob, layer.ID)
	if err != nil {
		t.Fatalf("ListAnnotations() error: %v", err)
	}
	if len(notes) != 2 || notes[0].ID != first.ID {
		t.Fatalf("annotations = %+v, want creation order", notes)
	}

	if err := env.app.DeleteAnnotation(bob, first.ID); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("non-author delete = %v, want ErrPermissionDenied", err)
	}
	if err := env.app.DeleteAnnotation(alice, first.ID); err != nil {
		t.Fatalf("author delete error: %v", err)
	}
	if err := env.app.DeleteAnnotation(admin, second.ID); err != nil {
		t.Fatalf("admin delete error: %v", err)
	}
}

func TestAnnotationsOnPrivateLayerDenied(t *testing.T) {
	env := newTestEnv(t)
	alice := env.addUser(t, "u1", "alice", false)
	bob := env.addUser(t, "u2", "bob", false)
	book := seedBook(t, env)

	layer := detachedLayer(t, env, alice, book.ID, "Drafts")
	if _, err := env.app.CreateAnnotation(bob, layer.ID, AnnotationParams{Content: "peeking"}); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("outsider annotate = %v, want ErrPermissionDenied", err)
	}
	if _, err := env.app.ListAnnotations(bob, layer.ID); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("outsider list = %v, want ErrPermissionDenied", err)
	}
}

func TestGroupDeleteKeepsLayerPrivate(t *testing.T) {
	env := newTestEnv(t)
	alice := env.addUser(t, "u1", "alice", false)
	bob := env.addUser(t, "u2", "bob", false)
	book := seedBook(t, env)
	group, err := env.app.CreateGroup(alice, "Stoics", "")
	if err != nil {
		t.Fatalf("CreateGroup() error: %v", err)
	}
	if err := env.app.JoinGroup(bob, group.ID); err != nil {
		t.Fatalf("JoinGroup() error: %v", err)
	}
	layer, err := env.app.CreateLayer(alice, book.ID, LayerParams{Name: "Group Notes", GroupID: group.ID})
	if err != nil {
		t.Fatalf("CreateLayer() error: %v", err)
	}

	if err := env.app.DeleteGroup(alice, group.ID); err != nil {
		t.Fatalf("DeleteGroup() error: %v", err)
	}
	// Former members lose access; the creator keeps it.
	if _, err := env.app.ListAnnotations(bob, layer.ID); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("former member access = %v, want ErrPermissionDenied", err)
	}
	if _, err := env.app.ListAnnotations(alice, layer.ID); err != nil {
		t.Fatalf("creator access error: %v", err)
	}
}
