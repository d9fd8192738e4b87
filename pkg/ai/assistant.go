package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"publicindex/pkg/domain"
)

// DefaultLayerNames is the fixed fallback used when layer proposal fails.
var DefaultLayerNames = []string{"General Discussion", "Key Themes"}

// NoCategory is the sentinel returned when no known category matches.
const NoCategory = ""

const (
	maxSampleChars  = 8000
	maxContextChars = 30000
)

// Assistant wraps a text generator into the moderation operations the
// library needs. Every call absorbs generator failures and degrades to a
// fixed fallback value; the assistant is never allowed to become a point of
// failure for library functionality. A nil generator means the assistant is
// offline and all calls return their fallbacks immediately.
type Assistant struct {
	gen TextGenerator
}

// NewAssistant builds an Assistant over gen. gen may be nil.
func NewAssistant(gen TextGenerator) *Assistant {
	return &Assistant{gen: gen}
}

// Online reports whether a generator is configured.
func (a *Assistant) Online() bool { return a.gen != nil }

// ProposeLayers returns 3-4 short annotation layer names for a book. Any
// failure, including a malformed reply, yields DefaultLayerNames.
func (a *Assistant) ProposeLayers(ctx context.Context, title, author, sample string) []string {
	if a.gen == nil || strings.TrimSpace(sample) == "" {
		return fallbackLayers()
	}
	userPrompt := fmt.Sprintf(
		"Analyze this text from the book %q by %s.\n\nText sample:\n%s\n\n"+
			"Generate 3-4 short, engaging annotation layer names for a study group reading this book. "+
			"Examples: \"Character Motives\", \"Historical Context\", \"Philosophical Themes\".\n\n"+
			"Return ONLY a JSON array of strings. Example: [\"Theme A\", \"Theme B\"]",
		title, author, clip(sample, maxSampleChars))
	reply, err := a.gen.GenerateText(ctx, "You name annotation layers for collaborative book study.", userPrompt)
	if err != nil {
		slog.Warn("layer proposal failed, using defaults", "err", err)
		return fallbackLayers()
	}
	names, err := parseNameList(reply)
	if err != nil || len(names) == 0 {
		slog.Warn("layer proposal reply unusable, using defaults", "err", err)
		return fallbackLayers()
	}
	return names
}

// AnswerQuestion answers a reader's question grounded in the book excerpt.
// Failures come back as an apologetic string, never an error.
func (a *Assistant) AnswerQuestion(ctx context.Context, question, title, author, bookContext string) string {
	if a.gen == nil {
		return "AI is currently offline."
	}
	userPrompt := fmt.Sprintf(
		"BOOK INFORMATION:\nTitle: %q\nAuthor: %q\n\n"+
			"BOOK CONTENT EXCERPTS (use this to answer):\n---\n%s\n---\n"+
			"(Note: this is a strategic sample of the book's text.)\n\n"+
			"READER'S QUESTION:\n%q\n\n"+
			"Answer the question based on the content above and your general knowledge of this book. "+
			"Quote the text when it contains the answer. Keep the answer helpful and concise (max 4 sentences).",
		title, author, clip(bookContext, maxContextChars), question)
	reply, err := a.gen.GenerateText(ctx, "You are an expert literary assistant.", userPrompt)
	if err != nil {
		return fmt.Sprintf("I couldn't answer that right now. (%v)", err)
	}
	return strings.TrimSpace(reply)
}

// JudgeAuthenticity classifies whether the sampled text plausibly belongs to
// the claimed title/author. Without a generator it is a placeholder that
// always reports genuine; with one, an unusable reply or any error yields
// VerdictUnverified, which never qualifies for auto-publish.
func (a *Assistant) JudgeAuthenticity(ctx context.Context, title, author, sample string) domain.Verdict {
	if a.gen == nil {
		return domain.VerdictGenuine
	}
	if strings.TrimSpace(sample) == "" {
		return domain.VerdictUnverified
	}
	userPrompt := fmt.Sprintf(
		"A reader claims the following text is from %q by %s.\n\nText sample:\n%s\n\n"+
			"Reply with exactly one word: Genuine if the text plausibly belongs to that book, Suspect otherwise.",
		title, author, clip(sample, maxSampleChars))
	reply, err := a.gen.GenerateText(ctx, "You verify book submissions for a public library.", userPrompt)
	if err != nil {
		slog.Warn("authenticity check failed", "err", err)
		return domain.VerdictUnverified
	}
	switch strings.ToLower(strings.Trim(strings.TrimSpace(reply), ".\"'")) {
	case "genuine":
		return domain.VerdictGenuine
	case "suspect":
		return domain.VerdictSuspect
	default:
		return domain.VerdictUnverified
	}
}

// SuggestCategory picks one of the known category names for the sampled
// text, or NoCategory when nothing fits. The reply is matched against the
// supplied names; the assistant can never invent a category.
func (a *Assistant) SuggestCategory(ctx context.Context, sample string, categories []string) string {
	if a.gen == nil || len(categories) == 0 || strings.TrimSpace(sample) == "" {
		return NoCategory
	}
	userPrompt := fmt.Sprintf(
		"Known categories: %s\n\nText sample:\n%s\n\n"+
			"Reply with exactly one category name from the list that best fits the text, or None if none fit.",
		strings.Join(categories, ", "), clip(sample, maxSampleChars))
	reply, err := a.gen.GenerateText(ctx, "You categorize books for a public library.", userPrompt)
	if err != nil {
		slog.Warn("category suggestion failed", "err", err)
		return NoCategory
	}
	candidate := strings.Trim(strings.TrimSpace(reply), ".\"'")
	for _, name := range categories {
		if strings.EqualFold(candidate, name) {
			return name
		}
	}
	return NoCategory
}

func fallbackLayers() []string {
	out := make([]string, len(DefaultLayerNames))
	copy(out, DefaultLayerNames)
	return out
}

// parseNameList decodes a JSON string array, tolerating markdown code
// fences around it.
func parseNameList(reply string) ([]string, error) {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	reply = strings.TrimSpace(reply)
	var names []string
	if err := json.Unmarshal([]byte(reply), &names); err != nil {
		return nil, fmt.Errorf("parse name list: %w", err)
	}
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" {
			cleaned = append(cleaned, name)
		}
	}
	return cleaned, nil
}

func clip(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
