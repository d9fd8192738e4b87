package domain

import "time"

type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// Verdict is the moderation assistant's authenticity classification.
type Verdict string

const (
	VerdictGenuine Verdict = "genuine"
	VerdictSuspect Verdict = "suspect"
	// VerdictUnverified means the assistant could not produce a usable
	// judgement. It never qualifies a submission for auto-publish.
	VerdictUnverified Verdict = "unverified"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Ebook struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	AuthorName    string    `json:"authorName"`
	StorageKey    string    `json:"-"`
	CategoryID    string    `json:"categoryId"`
	SubmittedByID string    `json:"submittedById"`
	TextContent   string    `json:"-"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type StudyGroup struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatorID   string    `json:"creatorId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AnnotationLayer is a named annotation channel on one ebook. A layer is
// either public (Public true, GroupID empty) or scoped to one study group
// (Public false, GroupID set). When the owning group is deleted the group
// link is cleared and the layer becomes private to its creator.
type AnnotationLayer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Public      bool      `json:"isPublic"`
	CreatorID   string    `json:"creatorId"`
	EbookID     string    `json:"ebookId"`
	GroupID     string    `json:"studyGroupId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Annotation struct {
	ID       string `json:"id"`
	LayerID  string `json:"layerId"`
	AuthorID string `json:"authorId"`
	Content  string `json:"content"`
	// HighlightedText is the source passage the note refers to, when any.
	HighlightedText string `json:"highlightedText,omitempty"`
	// PositionData is an opaque locator (e.g. a CFI or chapter/paragraph
	// descriptor) produced by the reader frontend.
	PositionData string    `json:"positionData,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// BookSubmission is a moderation ticket for a user-proposed book. The pending
// blob stays in storage for as long as the status is pending.
type BookSubmission struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Author        string           `json:"author"`
	SubmittedByID string           `json:"submittedById"`
	PendingKey    string           `json:"-"`
	AIAnalysis    string           `json:"aiAnalysis,omitempty"`
	Verdict       Verdict          `json:"verdict,omitempty"`
	CategoryGuess string           `json:"categoryGuess,omitempty"`
	Status        SubmissionStatus `json:"status"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// Membership links one user to one study group. It is modelled as an explicit
// join entity rather than an implicit collection.
type Membership struct {
	GroupID  string    `json:"groupId"`
	UserID   string    `json:"userId"`
	JoinedAt time.Time `json:"joinedAt"`
}
