package app

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"publicindex/internal/util"
	"publicindex/pkg/domain"
	"publicindex/pkg/sampler"
	"publicindex/pkg/storage"
)

// ListPendingSubmissions returns the moderation queue, newest first.
func (a *App) ListPendingSubmissions(user domain.User) ([]domain.BookSubmission, error) {
	if !user.IsAdmin {
		return nil, fmt.Errorf("admin only: %w", domain.ErrPermissionDenied)
	}
	return a.store.ListPendingSubmissions()
}

// SubmissionFileURL returns a presigned URL for a pending submission's file
// so the reviewer can inspect it before deciding.
func (a *App) SubmissionFileURL(ctx context.Context, user domain.User, submissionID string) (string, error) {
	if !user.IsAdmin {
		return "", fmt.Errorf("admin only: %w", domain.ErrPermissionDenied)
	}
	sub, ok, err := a.store.GetSubmission(submissionID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("submission %s: %w", submissionID, domain.ErrNotFound)
	}
	if sub.Status != domain.SubmissionPending {
		return "", fmt.Errorf("submission %s is not pending: %w", submissionID, domain.ErrInvalidState)
	}
	return a.objects.PresignGet(ctx, sub.PendingKey, storage.Inline(), a.presignExpiry)
}

// ApproveSubmission publishes a pending submission under the category the
// reviewer picked. The file is copied to its permanent key first, then the
// status flip and ebook creation commit together; the pending blob is removed
// only after the commit, so a crash mid-way never loses the file.
func (a *App) ApproveSubmission(ctx context.Context, user domain.User, submissionID, categoryID string) (domain.Ebook, error) {
	if !user.IsAdmin {
		return domain.Ebook{}, fmt.Errorf("admin only: %w", domain.ErrPermissionDenied)
	}
	if strings.TrimSpace(categoryID) == "" {
		return domain.Ebook{}, domain.Invalid("categoryId", "required for approval")
	}
	category, ok, err := a.store.GetCategory(categoryID)
	if err != nil {
		return domain.Ebook{}, err
	}
	if !ok {
		return domain.Ebook{}, domain.Invalid("categoryId", "unknown category")
	}
	sub, ok, err := a.store.GetSubmission(submissionID)
	if err != nil {
		return domain.Ebook{}, err
	}
	if !ok {
		return domain.Ebook{}, fmt.Errorf("submission %s: %w", submissionID, domain.ErrNotFound)
	}
	if sub.Status != domain.SubmissionPending {
		return domain.Ebook{}, fmt.Errorf("submission %s is not pending: %w", submissionID, domain.ErrInvalidState)
	}

	// Re-sample the pending file so the published record carries text for
	// the reading assistant. Missing text is tolerated.
	sample := ""
	if data, err := a.objects.Get(ctx, sub.PendingKey); err != nil {
		return domain.Ebook{}, fmt.Errorf("pending file unavailable: %w", domain.ErrInvalidState)
	} else if text, err := sampler.SamplePDF(data); err == nil {
		sample = text
	}

	id := util.NewID()
	finalKey := buildStorageKey(id, path.Base(sub.PendingKey))
	if err := a.objects.Copy(ctx, sub.PendingKey, finalKey); err != nil {
		return domain.Ebook{}, fmt.Errorf("publish file: %w", err)
	}
	ebook := domain.Ebook{
		ID:            id,
		Title:         sub.Title,
		AuthorName:    sub.Author,
		StorageKey:    finalKey,
		CategoryID:    category.ID,
		SubmittedByID: sub.SubmittedByID,
		TextContent:   sample,
		CreatedAt:     time.Now().UTC(),
	}
	if err := a.store.PromoteSubmission(submissionID, ebook); err != nil {
		if delErr := a.objects.Delete(ctx, finalKey); delErr != nil {
			util.LoggerFromContext(ctx).Warn("orphaned published file", "key", finalKey, "err", delErr)
		}
		return domain.Ebook{}, err
	}
	a.discardPending(ctx, sub.PendingKey)
	return ebook, nil
}

// RejectSubmission closes a pending submission and discards its file. The
// status flip commits first; blob deletion is best effort.
func (a *App) RejectSubmission(ctx context.Context, user domain.User, submissionID string) error {
	if !user.IsAdmin {
		return fmt.Errorf("admin only: %w", domain.ErrPermissionDenied)
	}
	sub, ok, err := a.store.GetSubmission(submissionID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("submission %s: %w", submissionID, domain.ErrNotFound)
	}
	if err := a.store.MarkSubmissionRejected(submissionID); err != nil {
		return err
	}
	a.discardPending(ctx, sub.PendingKey)
	return nil
}
