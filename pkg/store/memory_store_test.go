package store

import (
	"errors"
	"testing"
	"time"

	"publicindex/pkg/domain"
)

func TestCreateUserUniqueness(t *testing.T) {
	s := NewMemoryStore()
	if err := s.CreateUser(domain.User{ID: "u1", Username: "alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}
	err := s.CreateUser(domain.User{ID: "u2", Username: "alice", Email: "other@example.com"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "username" {
		t.Fatalf("duplicate username: got %v, want ValidationError on username", err)
	}
	err = s.CreateUser(domain.User{ID: "u3", Username: "bob", Email: "alice@example.com"})
	if !errors.As(err, &verr) || verr.Field != "email" {
		t.Fatalf("duplicate email: got %v, want ValidationError on email", err)
	}
}

func TestDeleteCategoryGuardedByEbooks(t *testing.T) {
	s := NewMemoryStore()
	if err := s.CreateCategory(domain.Category{ID: "c1", Name: "Philosophy"}); err != nil {
		t.Fatalf("CreateCategory() error: %v", err)
	}
	if err := s.CreateEbook(domain.Ebook{ID: "e1", Title: "Meditations", CategoryID: "c1"}); err != nil {
		t.Fatalf("CreateEbook() error: %v", err)
	}
	if err := s.DeleteCategory("c1"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("DeleteCategory() with ebooks = %v, want ErrInvalidState", err)
	}
	if err := s.DeleteEbook("e1"); err != nil {
		t.Fatalf("DeleteEbook() error: %v", err)
	}
	if err := s.DeleteCategory("c1"); err != nil {
		t.Fatalf("DeleteCategory() after ebook removal error: %v", err)
	}
	if _, ok, _ := s.GetCategory("c1"); ok {
		t.Fatal("category should be gone")
	}
}

func TestCreateGroupEnrollsCreator(t *testing.T) {
	s := NewMemoryStore()
	g := domain.StudyGroup{ID: "g1", Name: "Stoics", CreatorID: "u1", CreatedAt: time.Now().UTC()}
	if err := s.CreateGroup(g); err != nil {
		t.Fatalf("CreateGroup() error: %v", err)
	}
	if ok, _ := s.IsMember("g1", "u1"); !ok {
		t.Fatal("creator should be a member")
	}
	err := s.CreateGroup(domain.StudyGroup{ID: "g2", Name: "Stoics", CreatorID: "u2"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("duplicate group name: got %v, want ValidationError", err)
	}
	// Names are case-sensitive, so a different casing is a new group.
	if err := s.CreateGroup(domain.StudyGroup{ID: "g3", Name: "stoics", CreatorID: "u2"}); err != nil {
		t.Fatalf("CreateGroup() with different casing error: %v", err)
	}
}

func TestAddMemberIdempotent(t *testing.T) {
	s := NewMemoryStore()
	if err := s.CreateGroup(domain.StudyGroup{ID: "g1", Name: "Stoics", CreatorID: "u1"}); err != nil {
		t.Fatalf("CreateGroup() error: %v", err)
	}
	if err := s.AddMember("g1", "u2"); err != nil {
		t.Fatalf("AddMember() error: %v", err)
	}
	if err := s.AddMember("g1", "u2"); err != nil {
		t.Fatalf("second AddMember() error: %v", err)
	}
	if n, _ := s.CountMembers("g1"); n != 2 {
		t.Fatalf("CountMembers() = %d, want 2", n)
	}
	if err := s.RemoveMember("g1", "u2"); err != nil {
		t.Fatalf("RemoveMember() error: %v", err)
	}
	if n, _ := s.CountMembers("g1"); n != 1 {
		t.Fatalf("CountMembers() after remove = %d, want 1", n)
	}
}

func TestDeleteGroupDetachesLayers(t *testing.T) {
	s := NewMemoryStore()
	if err := s.CreateGroup(domain.StudyGroup{ID: "g1", Name: "Stoics", CreatorID: "u1"}); err != nil {
		t.Fatalf("CreateGroup() error: %v", err)
	}
	layer := domain.AnnotationLayer{ID: "l1", Name: "Notes", CreatorID: "u1", EbookID: "e1", GroupID: "g1"}
	if err := s.CreateLayer(layer); err != nil {
		t.Fatalf("CreateLayer() error: %v", err)
	}
	if err := s.DeleteGroup("g1"); err != nil {
		t.Fatalf("DeleteGroup() error: %v", err)
	}
	got, ok, err := s.GetLayer("l1")
	if err != nil || !ok {
		t.Fatalf("GetLayer() = %v, %v", ok, err)
	}
	if got.GroupID != "" {
		t.Fatalf("layer GroupID = %q, want cleared", got.GroupID)
	}
	if got.Public {
		t.Fatal("detached layer must not become public")
	}
	if ok, _ := s.IsMember("g1", "u1"); ok {
		t.Fatal("memberships should be gone")
	}
}

func TestSearchEbooksMatchesTitleAndAuthor(t *testing.T) {
	s := NewMemoryStore()
	books := []domain.Ebook{
		{ID: "e1", Title: "Walden", AuthorName: "Thoreau", CategoryID: "c1"},
		{ID: "e2", Title: "A Week on the Concord", AuthorName: "Thoreau", CategoryID: "c2"},
		{ID: "e3", Title: "Leaves of Grass", AuthorName: "Whitman", CategoryID: "c1"},
	}
	for _, b := range books {
		if err := s.CreateEbook(b); err != nil {
			t.Fatalf("CreateEbook() error: %v", err)
		}
	}
	res, err := s.SearchEbooks("thoreau", "")
	if err != nil {
		t.Fatalf("SearchEbooks() error: %v", err)
	}
	if len(res) != 2 || res[0].ID != "e2" || res[1].ID != "e1" {
		t.Fatalf("author search got %v, want [e2 e1] by title order", ids(res))
	}
	res, err = s.SearchEbooks("", "c1")
	if err != nil {
		t.Fatalf("SearchEbooks() error: %v", err)
	}
	if len(res) != 2 || res[0].ID != "e3" || res[1].ID != "e1" {
		t.Fatalf("category filter got %v, want [e3 e1]", ids(res))
	}
	res, err = s.SearchEbooks("walden", "c2")
	if err != nil {
		t.Fatalf("SearchEbooks() error: %v", err)
	}
	if len(res) != 0 {
		t.Fatalf("mismatched filter got %v, want empty", ids(res))
	}
}

func ids(books []domain.Ebook) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.ID)
	}
	return out
}

func TestDeleteEbookCascades(t *testing.T) {
	s := NewMemoryStore()
	if err := s.CreateEbook(domain.Ebook{ID: "e1", Title: "Walden"}); err != nil {
		t.Fatalf("CreateEbook() error: %v", err)
	}
	if err := s.CreateLayer(domain.AnnotationLayer{ID: "l1", Name: "Notes", EbookID: "e1"}); err != nil {
		t.Fatalf("CreateLayer() error: %v", err)
	}
	if err := s.CreateAnnotation(domain.Annotation{ID: "a1", LayerID: "l1", Content: "nice"}); err != nil {
		t.Fatalf("CreateAnnotation() error: %v", err)
	}
	if err := s.DeleteEbook("e1"); err != nil {
		t.Fatalf("DeleteEbook() error: %v", err)
	}
	if _, ok, _ := s.GetLayer("l1"); ok {
		t.Fatal("layer should be gone")
	}
	if _, ok, _ := s.GetAnnotation("a1"); ok {
		t.Fatal("annotation should be gone")
	}
}

func TestListAnnotationsByLayerOrder(t *testing.T) {
	s := NewMemoryStore()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for _, a := range []domain.Annotation{
		{ID: "a2", LayerID: "l1", Content: "second", CreatedAt: base.Add(time.Minute)},
		{ID: "a1", LayerID: "l1", Content: "first", CreatedAt: base},
		{ID: "a3", LayerID: "l2", Content: "elsewhere", CreatedAt: base},
	} {
		if err := s.CreateAnnotation(a); err != nil {
			t.Fatalf("CreateAnnotation() error: %v", err)
		}
	}
	res, err := s.ListAnnotationsByLayer("l1")
	if err != nil {
		t.Fatalf("ListAnnotationsByLayer() error: %v", err)
	}
	if len(res) != 2 || res[0].ID != "a1" || res[1].ID != "a2" {
		t.Fatalf("annotations out of order: %v", res)
	}
}

func TestPromoteSubmissionCompareAndSet(t *testing.T) {
	s := NewMemoryStore()
	sub := domain.BookSubmission{
		ID:     "s1",
		Title:  "Walden",
		Author: "Thoreau",
		Status: domain.SubmissionPending,
	}
	if err := s.CreateSubmission(sub); err != nil {
		t.Fatalf("CreateSubmission() error: %v", err)
	}
	ebook := domain.Ebook{ID: "e1", Title: "Walden", AuthorName: "Thoreau", CategoryID: "c1"}
	if err := s.PromoteSubmission("s1", ebook); err != nil {
		t.Fatalf("PromoteSubmission() error: %v", err)
	}
	got, ok, _ := s.GetSubmission("s1")
	if !ok || got.Status != domain.SubmissionApproved {
		t.Fatalf("submission status = %q, want approved", got.Status)
	}
	if _, ok, _ := s.GetEbook("e1"); !ok {
		t.Fatal("promoted ebook missing")
	}
	// A second reviewer racing on the same submission loses.
	if err := s.PromoteSubmission("s1", ebook); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("second PromoteSubmission() = %v, want ErrInvalidState", err)
	}
	if err := s.MarkSubmissionRejected("s1"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("MarkSubmissionRejected() after approve = %v, want ErrInvalidState", err)
	}
	if err := s.PromoteSubmission("missing", ebook); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("PromoteSubmission() on missing = %v, want ErrNotFound", err)
	}
}

func TestListPendingSubmissionsNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for _, sub := range []domain.BookSubmission{
		{ID: "s1", Status: domain.SubmissionPending, CreatedAt: base},
		{ID: "s2", Status: domain.SubmissionPending, CreatedAt: base.Add(time.Hour)},
		{ID: "s3", Status: domain.SubmissionRejected, CreatedAt: base.Add(2 * time.Hour)},
	} {
		if err := s.CreateSubmission(sub); err != nil {
			t.Fatalf("CreateSubmission() error: %v", err)
		}
	}
	res, err := s.ListPendingSubmissions()
	if err != nil {
		t.Fatalf("ListPendingSubmissions() error: %v", err)
	}
	if len(res) != 2 || res[0].ID != "s2" || res[1].ID != "s1" {
		t.Fatalf("pending queue = %v, want [s2 s1]", res)
	}
}
