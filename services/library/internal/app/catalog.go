package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"publicindex/internal/util"
	"publicindex/pkg/domain"
	"publicindex/pkg/sampler"
	"publicindex/pkg/storage"
)

// SearchEbooks queries the public catalog.
func (a *App) SearchEbooks(query, categoryID string) ([]domain.Ebook, error) {
	return a.store.SearchEbooks(query, categoryID)
}

// GetEbook retrieves one published ebook.
func (a *App) GetEbook(id string) (domain.Ebook, bool, error) {
	return a.store.GetEbook(id)
}

// ReadURL returns a presigned URL that renders the book inline for the
// in-browser reader.
func (a *App) ReadURL(ctx context.Context, ebookID string) (string, error) {
	return a.presignEbook(ctx, ebookID, func(e domain.Ebook) storage.Disposition {
		return storage.Inline()
	})
}

// DownloadURL returns a presigned URL that prompts a download under the
// stored filename.
func (a *App) DownloadURL(ctx context.Context, ebookID string) (string, error) {
	return a.presignEbook(ctx, ebookID, func(e domain.Ebook) storage.Disposition {
		return storage.Attachment(path.Base(e.StorageKey))
	})
}

func (a *App) presignEbook(ctx context.Context, ebookID string, pick func(domain.Ebook) storage.Disposition) (string, error) {
	ebook, ok, err := a.store.GetEbook(ebookID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("ebook %s: %w", ebookID, domain.ErrNotFound)
	}
	return a.objects.PresignGet(ctx, ebook.StorageKey, pick(ebook), a.presignExpiry)
}

// UploadParams carries an admin direct upload.
type UploadParams struct {
	Title      string
	Author     string
	Filename   string
	Data       []byte
	CategoryID string
	// CoverURL overrides the automatic cover lookup when set.
	CoverURL string
}

// AdminUploadBook publishes a book straight to the catalog, skipping the
// screening pipeline. The assistant proposes starter annotation layers; if
// that fails the book still publishes with the default layers.
func (a *App) AdminUploadBook(ctx context.Context, user domain.User, p UploadParams) (domain.Ebook, error) {
	if !user.IsAdmin {
		return domain.Ebook{}, fmt.Errorf("admin only: %w", domain.ErrPermissionDenied)
	}
	title := strings.TrimSpace(p.Title)
	author := strings.TrimSpace(p.Author)
	if title == "" {
		return domain.Ebook{}, domain.Invalid("title", "required")
	}
	if author == "" {
		return domain.Ebook{}, domain.Invalid("author", "required")
	}
	if !strings.EqualFold(filepath.Ext(p.Filename), ".pdf") {
		return domain.Ebook{}, domain.Invalid("file", "only PDF files are accepted")
	}
	if len(p.Data) == 0 {
		return domain.Ebook{}, domain.Invalid("file", "empty file")
	}
	if _, ok, err := a.store.GetCategory(p.CategoryID); err != nil {
		return domain.Ebook{}, err
	} else if !ok {
		return domain.Ebook{}, domain.Invalid("categoryId", "unknown category")
	}

	id := util.NewID()
	storageKey := buildStorageKey(id, p.Filename)
	if err := a.objects.Put(ctx, storageKey, bytes.NewReader(p.Data), int64(len(p.Data)), "application/pdf"); err != nil {
		return domain.Ebook{}, fmt.Errorf("store file: %w", err)
	}

	sample, err := sampler.SamplePDF(p.Data)
	if err != nil {
		util.LoggerFromContext(ctx).Warn("pdf sampling failed", "key", storageKey, "err", err)
		sample = ""
	}
	coverURL := strings.TrimSpace(p.CoverURL)
	if coverURL == "" {
		coverURL = a.lookupCoverURL(ctx, title, author)
	}

	ebook := domain.Ebook{
		ID:            id,
		Title:         title,
		AuthorName:    author,
		StorageKey:    storageKey,
		CategoryID:    p.CategoryID,
		SubmittedByID: user.ID,
		TextContent:   sample,
		CoverImageURL: coverURL,
		CreatedAt:     time.Now().UTC(),
	}
	if err := a.store.CreateEbook(ebook); err != nil {
		if delErr := a.objects.Delete(ctx, storageKey); delErr != nil {
			util.LoggerFromContext(ctx).Warn("orphaned file", "key", storageKey, "err", delErr)
		}
		return domain.Ebook{}, fmt.Errorf("save ebook: %w", err)
	}

	// Seed public starter layers so the book is annotatable immediately.
	for _, name := range a.assist.ProposeLayers(ctx, title, author, sample) {
		layer := domain.AnnotationLayer{
			ID:          util.NewID(),
			Name:        name,
			Description: "Auto-generated starter layer",
			Public:      true,
			CreatorID:   user.ID,
			EbookID:     id,
			CreatedAt:   time.Now().UTC(),
		}
		if err := a.store.CreateLayer(layer); err != nil {
			util.LoggerFromContext(ctx).Warn("starter layer failed", "ebook", id, "name", name, "err", err)
		}
	}
	return ebook, nil
}

// EditParams carries an ebook metadata update. Empty fields keep their
// current value.
type EditParams struct {
	Title      string
	Author     string
	CategoryID string
	CoverURL   string
}

// UpdateEbook edits catalog metadata.
func (a *App) UpdateEbook(ctx context.Context, user domain.User, ebookID string, p EditParams) (domain.Ebook, error) {
	if !user.IsAdmin {
		return domain.Ebook{}, fmt.Errorf("admin only: %w", domain.ErrPermissionDenied)
	}
	ebook, ok, err := a.store.GetEbook(ebookID)
	if err != nil {
		return domain.Ebook{}, err
	}
	if !ok {
		return domain.Ebook{}, fmt.Errorf("ebook %s: %w", ebookID, domain.ErrNotFound)
	}
	if title := strings.TrimSpace(p.Title); title != "" {
		ebook.Title = title
	}
	if author := strings.TrimSpace(p.Author); author != "" {
		ebook.AuthorName = author
	}
	if p.CategoryID != "" {
		if _, ok, err := a.store.GetCategory(p.CategoryID); err != nil {
			return domain.Ebook{}, err
		} else if !ok {
			return domain.Ebook{}, domain.Invalid("categoryId", "unknown category")
		}
		ebook.CategoryID = p.CategoryID
	}
	if coverURL := strings.TrimSpace(p.CoverURL); coverURL != "" {
		ebook.CoverImageURL = coverURL
	}
	if err := a.store.SaveEbook(ebook); err != nil {
		return domain.Ebook{}, err
	}
	return ebook, nil
}

// DeleteEbook removes a book, its annotation data, and its file.
func (a *App) DeleteEbook(ctx context.Context, user domain.User, ebookID string) error {
	if !user.IsAdmin {
		return fmt.Errorf("admin only: %w", domain.ErrPermissionDenied)
	}
	ebook, ok, err := a.store.GetEbook(ebookID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("ebook %s: %w", ebookID, domain.ErrNotFound)
	}
	if err := a.store.DeleteEbook(ebookID); err != nil {
		return err
	}
	if err := a.objects.Delete(ctx, ebook.StorageKey); err != nil {
		util.LoggerFromContext(ctx).Warn("orphaned file after delete", "key", ebook.StorageKey, "err", err)
	}
	return nil
}

// lookupCoverURL asks the Google Books volumes API for a cover image. Any
// failure returns an empty URL.
func (a *App) lookupCoverURL(ctx context.Context, title, author string) string {
	query := url.QueryEscape(fmt.Sprintf("intitle:%s+inauthor:%s", title, author))
	apiURL := fmt.Sprintf("https://www.googleapis.com/books/v1/volumes?q=%s&maxResults=1", query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return ""
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		util.LoggerFromContext(ctx).Warn("cover lookup failed", "title", title, "err", err)
		return ""
	}
	defer resp.Body.Close()
	var payload struct {
		Items []struct {
			VolumeInfo struct {
				ImageLinks struct {
					Thumbnail      string `json:"thumbnail"`
					SmallThumbnail string `json:"smallThumbnail"`
				} `json:"imageLinks"`
			} `json:"volumeInfo"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	if len(payload.Items) == 0 {
		return ""
	}
	links := payload.Items[0].VolumeInfo.ImageLinks
	imgURL := links.Thumbnail
	if imgURL == "" {
		imgURL = links.SmallThumbnail
	}
	return strings.Replace(imgURL, "http://", "https://", 1)
}
