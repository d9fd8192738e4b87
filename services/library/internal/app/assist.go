package app

import (
	"context"
	"fmt"

	"publicindex/pkg/domain"
)

// AskAI answers a reader's question about a book using its cached text
// sample. The answer is always a string; assistant failures surface as an
// apology, never an error.
func (a *App) AskAI(ctx context.Context, ebookID, question string) (string, error) {
	if question == "" {
		return "", domain.Invalid("question", "required")
	}
	ebook, ok, err := a.store.GetEbook(ebookID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("ebook %s: %w", ebookID, domain.ErrNotFound)
	}
	bookContext := ebook.TextContent
	if bookContext == "" {
		bookContext = "Text not available."
	}
	return a.assist.AnswerQuestion(ctx, question, ebook.Title, ebook.AuthorName, bookContext), nil
}
