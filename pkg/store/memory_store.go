package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"publicindex/pkg/domain"
)

// MemoryStore is an in-memory Store used in tests and local development.
// It mirrors the transactional semantics of GormStore.
type MemoryStore struct {
	mu sync.RWMutex

	users       map[string]domain.User
	categories  map[string]domain.Category
	ebooks      map[string]domain.Ebook
	groups      map[string]domain.StudyGroup
	memberships map[string]domain.Membership // key groupID + "/" + userID
	layers      map[string]domain.AnnotationLayer
	annotations map[string]domain.Annotation
	submissions map[string]domain.BookSubmission
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[string]domain.User),
		categories:  make(map[string]domain.Category),
		ebooks:      make(map[string]domain.Ebook),
		groups:      make(map[string]domain.StudyGroup),
		memberships: make(map[string]domain.Membership),
		layers:      make(map[string]domain.AnnotationLayer),
		annotations: make(map[string]domain.Annotation),
		submissions: make(map[string]domain.BookSubmission),
	}
}

func membershipKey(groupID, userID string) string {
	return groupID + "/" + userID
}

func (s *MemoryStore) CreateUser(u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return domain.Invalid("username", "already taken")
		}
		if existing.Email == u.Email {
			return domain.Invalid("email", "already registered")
		}
	}
	s.users[u.ID] = u
	return nil
}

func (s *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok, nil
}

func (s *MemoryStore) GetUserByUsername(username string) (domain.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, true, nil
		}
	}
	return domain.User{}, false, nil
}

func (s *MemoryStore) GetUserByEmail(email string) (domain.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return domain.User{}, false, nil
}

func (s *MemoryStore) CreateCategory(c domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if existing.Name == c.Name {
			return domain.Invalid("name", "category already exists")
		}
	}
	s.categories[c.ID] = c
	return nil
}

func (s *MemoryStore) GetCategory(id string) (domain.Category, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	return c, ok, nil
}

func (s *MemoryStore) GetCategoryByName(name string) (domain.Category, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.Name == name {
			return c, true, nil
		}
	}
	return domain.Category{}, false, nil
}

func (s *MemoryStore) ListCategories() ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		res = append(res, c)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

func (s *MemoryStore) DeleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, e := range s.ebooks {
		if e.CategoryID == id {
			count++
		}
	}
	if count > 0 {
		return fmt.Errorf("category has %d ebooks: %w", count, domain.ErrInvalidState)
	}
	delete(s.categories, id)
	return nil
}

func (s *MemoryStore) CreateEbook(e domain.Ebook) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ebooks[e.ID] = e
	return nil
}

func (s *MemoryStore) SaveEbook(e domain.Ebook) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ebooks[e.ID] = e
	return nil
}

func (s *MemoryStore) GetEbook(id string) (domain.Ebook, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.ebooks[id]
	return e, ok, nil
}

func (s *MemoryStore) SearchEbooks(query, categoryID string) ([]domain.Ebook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(strings.TrimSpace(query))
	res := make([]domain.Ebook, 0)
	for _, e := range s.ebooks {
		if categoryID != "" && e.CategoryID != categoryID {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(e.Title), q) &&
			!strings.Contains(strings.ToLower(e.AuthorName), q) {
			continue
		}
		res = append(res, e)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Title < res[j].Title })
	return res, nil
}

func (s *MemoryStore) DeleteEbook(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for layerID, layer := range s.layers {
		if layer.EbookID != id {
			continue
		}
		for annotationID, a := range s.annotations {
			if a.LayerID == layerID {
				delete(s.annotations, annotationID)
			}
		}
		delete(s.layers, layerID)
	}
	delete(s.ebooks, id)
	return nil
}

func (s *MemoryStore) CreateGroup(g domain.StudyGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.groups {
		if existing.Name == g.Name {
			return domain.Invalid("name", "group name already taken")
		}
	}
	s.groups[g.ID] = g
	s.memberships[membershipKey(g.ID, g.CreatorID)] = domain.Membership{
		GroupID:  g.ID,
		UserID:   g.CreatorID,
		JoinedAt: g.CreatedAt,
	}
	return nil
}

func (s *MemoryStore) GetGroup(id string) (domain.StudyGroup, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[id]
	return g, ok, nil
}

func (s *MemoryStore) SearchGroups(query string) ([]domain.StudyGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(strings.TrimSpace(query))
	res := make([]domain.StudyGroup, 0)
	for _, g := range s.groups {
		if q != "" && !strings.Contains(strings.ToLower(g.Name), q) {
			continue
		}
		res = append(res, g)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

func (s *MemoryStore) DeleteGroup(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for layerID, layer := range s.layers {
		if layer.GroupID == id {
			layer.GroupID = ""
			s.layers[layerID] = layer
		}
	}
	for key, m := range s.memberships {
		if m.GroupID == id {
			delete(s.memberships, key)
		}
	}
	delete(s.groups, id)
	return nil
}

func (s *MemoryStore) AddMember(groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := membershipKey(groupID, userID)
	if _, ok := s.memberships[key]; ok {
		return nil
	}
	s.memberships[key] = domain.Membership{GroupID: groupID, UserID: userID, JoinedAt: time.Now().UTC()}
	return nil
}

func (s *MemoryStore) RemoveMember(groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.memberships, membershipKey(groupID, userID))
	return nil
}

func (s *MemoryStore) IsMember(groupID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.memberships[membershipKey(groupID, userID)]
	return ok, nil
}

func (s *MemoryStore) CountMembers(groupID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, m := range s.memberships {
		if m.GroupID == groupID {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) ListMembers(groupID string) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members := make([]domain.Membership, 0)
	for _, m := range s.memberships {
		if m.GroupID == groupID {
			members = append(members, m)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].JoinedAt.Equal(members[j].JoinedAt) {
			return members[i].UserID < members[j].UserID
		}
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})
	res := make([]domain.User, 0, len(members))
	for _, m := range members {
		if u, ok := s.users[m.UserID]; ok {
			res = append(res, u)
		}
	}
	return res, nil
}

func (s *MemoryStore) ListGroupsByMember(userID string) ([]domain.StudyGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.StudyGroup, 0)
	for _, m := range s.memberships {
		if m.UserID != userID {
			continue
		}
		if g, ok := s.groups[m.GroupID]; ok {
			res = append(res, g)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

func (s *MemoryStore) ListGroupIDsByMember(userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0)
	for _, m := range s.memberships {
		if m.UserID == userID {
			ids = append(ids, m.GroupID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) CreateLayer(l domain.AnnotationLayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers[l.ID] = l
	return nil
}

func (s *MemoryStore) GetLayer(id string) (domain.AnnotationLayer, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.layers[id]
	return l, ok, nil
}

func (s *MemoryStore) ListLayersByEbook(ebookID string) ([]domain.AnnotationLayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.AnnotationLayer, 0)
	for _, l := range s.layers {
		if l.EbookID == ebookID {
			res = append(res, l)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

func (s *MemoryStore) CreateAnnotation(a domain.Annotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.annotations[a.ID] = a
	return nil
}

func (s *MemoryStore) GetAnnotation(id string) (domain.Annotation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.annotations[id]
	return a, ok, nil
}

func (s *MemoryStore) DeleteAnnotation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.annotations, id)
	return nil
}

func (s *MemoryStore) ListAnnotationsByLayer(layerID string) ([]domain.Annotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.Annotation, 0)
	for _, a := range s.annotations {
		if a.LayerID == layerID {
			res = append(res, a)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID < res[j].ID
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res, nil
}

func (s *MemoryStore) CreateSubmission(sub domain.BookSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions[sub.ID] = sub
	return nil
}

func (s *MemoryStore) GetSubmission(id string) (domain.BookSubmission, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[id]
	return sub, ok, nil
}

func (s *MemoryStore) ListPendingSubmissions() ([]domain.BookSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.BookSubmission, 0)
	for _, sub := range s.submissions {
		if sub.Status == domain.SubmissionPending {
			res = append(res, sub)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID > res[j].ID
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

func (s *MemoryStore) PromoteSubmission(submissionID string, ebook domain.Ebook) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.submissions[submissionID]
	if !ok {
		return fmt.Errorf("submission %s: %w", submissionID, domain.ErrNotFound)
	}
	if sub.Status != domain.SubmissionPending {
		return fmt.Errorf("submission %s is not pending: %w", submissionID, domain.ErrInvalidState)
	}
	sub.Status = domain.SubmissionApproved
	s.submissions[submissionID] = sub
	s.ebooks[ebook.ID] = ebook
	return nil
}

func (s *MemoryStore) MarkSubmissionRejected(submissionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.submissions[submissionID]
	if !ok {
		return fmt.Errorf("submission %s: %w", submissionID, domain.ErrNotFound)
	}
	if sub.Status != domain.SubmissionPending {
		return fmt.Errorf("submission %s is not pending: %w", submissionID, domain.ErrInvalidState)
	}
	sub.Status = domain.SubmissionRejected
	s.submissions[submissionID] = sub
	return nil
}

var _ Store = (*MemoryStore)(nil)
