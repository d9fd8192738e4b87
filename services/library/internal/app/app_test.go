package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"publicindex/pkg/domain"
	"publicindex/pkg/storage"
	"publicindex/pkg/store"
)

// stubAssistant returns canned moderation results.
type stubAssistant struct {
	verdict domain.Verdict
	guess   string
	layers  []string
	answer  string
}

func (s *stubAssistant) ProposeLayers(context.Context, string, string, string) []string {
	return s.layers
}

func (s *stubAssistant) AnswerQuestion(context.Context, string, string, string, string) string {
	return s.answer
}

func (s *stubAssistant) JudgeAuthenticity(context.Context, string, string, string) domain.Verdict {
	return s.verdict
}

func (s *stubAssistant) SuggestCategory(context.Context, string, []string) string {
	return s.guess
}

type recordingNotifier struct {
	mu       sync.Mutex
	subjects []string
}

func (n *recordingNotifier) Notify(_ context.Context, subject, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subjects = append(n.subjects, subject)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subjects)
}

type testEnv struct {
	app      *App
	store    *store.MemoryStore
	objects  *storage.MemoryStore
	notifier *recordingNotifier
	assist   *stubAssistant
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:    store.NewMemoryStore(),
		objects:  storage.NewMemoryStore(),
		notifier: &recordingNotifier{},
		assist:   &stubAssistant{verdict: domain.VerdictUnverified},
	}
	app, err := New(Config{
		Store:           env.store,
		Objects:         env.objects,
		Assistant:       env.assist,
		Notifier:        env.notifier,
		AdminSecretCode: "admin-code",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	env.app = app
	return env
}

func (env *testEnv) addUser(t *testing.T, id, username string, admin bool) domain.User {
	t.Helper()
	user := domain.User{
		ID:        id,
		Username:  username,
		Email:     username + "@example.com",
		IsAdmin:   admin,
		CreatedAt: time.Now().UTC(),
	}
	if err := env.store.CreateUser(user); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func (env *testEnv) addCategory(t *testing.T, id, name string) domain.Category {
	t.Helper()
	c := domain.Category{ID: id, Name: name}
	if err := env.store.CreateCategory(c); err != nil {
		t.Fatalf("seed category %s: %v", name, err)
	}
	return c
}

func (env *testEnv) addEbook(t *testing.T, e domain.Ebook) domain.Ebook {
	t.Helper()
	if err := env.store.CreateEbook(e); err != nil {
		t.Fatalf("seed ebook %s: %v", e.ID, err)
	}
	return e
}
