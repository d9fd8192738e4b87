// Package app implements the core operations of the library service:
// accounts, the public catalog, annotation layers, study groups, and the
// screened book submission pipeline.
package app

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"publicindex/pkg/ai"
	"publicindex/pkg/domain"
	"publicindex/pkg/notify"
	"publicindex/pkg/storage"
	"publicindex/pkg/store"
)

const pendingPrefix = "pending-uploads"

// Assistant is the moderation assistant surface the app depends on.
// *ai.Assistant satisfies it.
type Assistant interface {
	ProposeLayers(ctx context.Context, title, author, sample string) []string
	AnswerQuestion(ctx context.Context, question, title, author, bookContext string) string
	JudgeAuthenticity(ctx context.Context, title, author, sample string) domain.Verdict
	SuggestCategory(ctx context.Context, sample string, categories []string) string
}

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL     string
	Store           store.Store
	MinioEndpoint   string
	MinioAccessKey  string
	MinioSecretKey  string
	MinioBucket     string
	MinioUseSSL     bool
	Objects         storage.ObjectStore
	Assistant       Assistant
	Notifier        notify.Notifier
	AdminSecretCode string
}

// App is the core application service wiring together storage, the data
// store, the moderation assistant, and notifications.
type App struct {
	store           store.Store
	objects         storage.ObjectStore
	assist          Assistant
	notifier        notify.Notifier
	adminSecretCode string
	presignExpiry   time.Duration
	httpClient      *http.Client
}

// New constructs the application. Store and Objects may be injected for
// tests; otherwise they are built from the database and MinIO settings.
func New(cfg Config) (*App, error) {
	objects := cfg.Objects
	if objects == nil {
		var err error
		objects, err = storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			return nil, err
		}
	}
	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		var err error
		dataStore, err = store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}
	assistant := cfg.Assistant
	if assistant == nil {
		assistant = ai.NewAssistant(nil)
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.Noop{}
	}
	if strings.TrimSpace(cfg.AdminSecretCode) == "" {
		return nil, fmt.Errorf("admin secret code required")
	}
	return &App{
		store:           dataStore,
		objects:         objects,
		assist:          assistant,
		notifier:        notifier,
		adminSecretCode: cfg.AdminSecretCode,
		presignExpiry:   time.Hour,
		httpClient:      &http.Client{Timeout: 5 * time.Second},
	}, nil
}

func buildStorageKey(ebookID, filename string) string {
	name := sanitizeFilename(filepath.Base(filename))
	if name == "" {
		name = "book.pdf"
	}
	return path.Join("books", ebookID, name)
}

// buildPendingKey places each upload under its own prefix segment so two
// submissions of the same filename never share a blob.
func buildPendingKey(userID, uploadID, filename string) string {
	name := sanitizeFilename(filepath.Base(filename))
	if name == "" {
		name = "book.pdf"
	}
	return path.Join(pendingPrefix, uploadID, fmt.Sprintf("user_%s_%s", userID, name))
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(name))
	lastUnderscore := false
	for _, r := range name {
		if r <= 0x7f {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
				b.WriteRune(r)
				lastUnderscore = false
				continue
			}
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}
