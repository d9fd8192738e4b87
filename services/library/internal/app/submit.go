package app

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"publicindex/internal/util"
	"publicindex/pkg/domain"
	"publicindex/pkg/sampler"
)

// SubmitResult reports the outcome of a community submission. Exactly one of
// Ebook/Submission is set: Ebook when the screening auto-published, the
// Submission ticket when the book was queued for review.
type SubmitResult struct {
	Published  bool                   `json:"published"`
	Ebook      *domain.Ebook          `json:"ebook,omitempty"`
	Submission *domain.BookSubmission `json:"submission,omitempty"`
}

// SubmitBook runs the screened submission pipeline: store the file in the
// pending area, sample its text, let the assistant judge authenticity and
// guess a category, then either publish immediately or queue a moderation
// ticket. Auto-publish happens only on a genuine verdict combined with a
// category guess that matches an existing category.
func (a *App) SubmitBook(ctx context.Context, user domain.User, title, author, filename string, data []byte) (SubmitResult, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" {
		return SubmitResult{}, domain.Invalid("title", "required")
	}
	if author == "" {
		return SubmitResult{}, domain.Invalid("author", "required")
	}
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return SubmitResult{}, domain.Invalid("file", "only PDF files are accepted")
	}
	if len(data) == 0 {
		return SubmitResult{}, domain.Invalid("file", "empty file")
	}

	pendingKey := buildPendingKey(user.ID, util.NewID(), filename)
	if err := a.objects.Put(ctx, pendingKey, bytes.NewReader(data), int64(len(data)), "application/pdf"); err != nil {
		return SubmitResult{}, fmt.Errorf("store pending file: %w", err)
	}

	// Text extraction is best effort. A scanned or malformed PDF yields an
	// empty sample, which routes the submission to manual review.
	sample, err := sampler.SamplePDF(data)
	if err != nil {
		util.LoggerFromContext(ctx).Warn("pdf sampling failed", "key", pendingKey, "err", err)
		sample = ""
	}

	verdict := a.assist.JudgeAuthenticity(ctx, title, author, sample)
	categories, err := a.store.ListCategories()
	if err != nil {
		a.discardPending(ctx, pendingKey)
		return SubmitResult{}, fmt.Errorf("list categories: %w", err)
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	guess := a.assist.SuggestCategory(ctx, sample, names)

	if verdict == domain.VerdictGenuine && guess != "" {
		category, ok := categoryByName(categories, guess)
		if ok {
			ebook, err := a.autoPublish(ctx, user, title, author, filename, pendingKey, sample, category)
			if err != nil {
				a.discardPending(ctx, pendingKey)
				return SubmitResult{}, err
			}
			return SubmitResult{Published: true, Ebook: &ebook}, nil
		}
	}

	submission := domain.BookSubmission{
		ID:            util.NewID(),
		Title:         title,
		Author:        author,
		SubmittedByID: user.ID,
		PendingKey:    pendingKey,
		AIAnalysis:    fmt.Sprintf("AI Verdict: %s\nAI Category Guess: %s", verdict, guess),
		Verdict:       verdict,
		CategoryGuess: guess,
		Status:        domain.SubmissionPending,
		CreatedAt:     time.Now().UTC(),
	}
	if err := a.store.CreateSubmission(submission); err != nil {
		a.discardPending(ctx, pendingKey)
		return SubmitResult{}, fmt.Errorf("save submission: %w", err)
	}

	// The ticket is committed; notification failures are logged, not
	// surfaced.
	a.notify(ctx, fmt.Sprintf("New Book Needs Review: %s", title), fmt.Sprintf(
		"A new book submission from %s failed screening and needs manual review.\n\n"+
			"Title: %s\nAuthor: %s\n\nAI ANALYSIS:\n%s\n\n"+
			"Please log in to the admin panel to approve or reject.",
		user.Username, title, author, submission.AIAnalysis))
	return SubmitResult{Submission: &submission}, nil
}

func (a *App) autoPublish(ctx context.Context, user domain.User, title, author, filename, pendingKey, sample string, category domain.Category) (domain.Ebook, error) {
	id := util.NewID()
	finalKey := buildStorageKey(id, filename)
	if err := a.objects.Copy(ctx, pendingKey, finalKey); err != nil {
		return domain.Ebook{}, fmt.Errorf("publish file: %w", err)
	}
	ebook := domain.Ebook{
		ID:            id,
		Title:         title,
		AuthorName:    author,
		StorageKey:    finalKey,
		CategoryID:    category.ID,
		SubmittedByID: user.ID,
		TextContent:   sample,
		CreatedAt:     time.Now().UTC(),
	}
	if err := a.store.CreateEbook(ebook); err != nil {
		if delErr := a.objects.Delete(ctx, finalKey); delErr != nil {
			util.LoggerFromContext(ctx).Warn("orphaned published file", "key", finalKey, "err", delErr)
		}
		return domain.Ebook{}, fmt.Errorf("save ebook: %w", err)
	}
	// The record is committed; the pending blob is now redundant.
	a.discardPending(ctx, pendingKey)
	a.notify(ctx, fmt.Sprintf("Auto-Published Book: %s", title), fmt.Sprintf(
		"A new book passed screening and was published automatically.\n\n"+
			"Title: %s\nAuthor: %s\nSubmitter: %s\nCategory: %s\n\nNo action is required.",
		title, author, user.Username, category.Name))
	return ebook, nil
}

func (a *App) discardPending(ctx context.Context, pendingKey string) {
	if err := a.objects.Delete(ctx, pendingKey); err != nil {
		util.LoggerFromContext(ctx).Warn("failed to delete pending file", "key", pendingKey, "err", err)
	}
}

func (a *App) notify(ctx context.Context, subject, body string) {
	if err := a.notifier.Notify(ctx, subject, body); err != nil {
		util.LoggerFromContext(ctx).Warn("notification failed", "subject", subject, "err", err)
	}
}

func categoryByName(categories []domain.Category, name string) (domain.Category, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}
	return domain.Category{}, false
}
