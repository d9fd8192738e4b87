package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence.
type UserModel struct {
	ID           string `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	FirstName    string
	LastName     string
	IsAdmin      bool      `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

type CategoryModel struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;not null"`
	Description string
}

type EbookModel struct {
	ID            string `gorm:"primaryKey"`
	Title         string `gorm:"not null;index"`
	AuthorName    string `gorm:"not null"`
	StorageKey    string `gorm:"not null"`
	CategoryID    string `gorm:"not null;index"`
	SubmittedByID string `gorm:"not null;index"`
	TextContent   string `gorm:"type:text"`
	CoverImageURL string
	CreatedAt     time.Time `gorm:"not null"`
}

type StudyGroupModel struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;not null"`
	Description string
	CreatorID   string    `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"not null"`
}

// MembershipModel is the explicit group/user join table.
type MembershipModel struct {
	GroupID  string    `gorm:"primaryKey"`
	UserID   string    `gorm:"primaryKey;index"`
	JoinedAt time.Time `gorm:"not null"`
}

type AnnotationLayerModel struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string
	Public      bool      `gorm:"not null"`
	CreatorID   string    `gorm:"not null;index"`
	EbookID     string    `gorm:"not null;index"`
	GroupID     *string   `gorm:"index"`
	CreatedAt   time.Time `gorm:"not null"`
}

type AnnotationModel struct {
	ID              string `gorm:"primaryKey"`
	LayerID         string `gorm:"not null;index"`
	AuthorID        string `gorm:"not null;index"`
	Content         string `gorm:"type:text;not null"`
	HighlightedText string `gorm:"type:text"`
	PositionData    string `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"not null;index"`
}

type SubmissionModel struct {
	ID            string `gorm:"primaryKey"`
	Title         string `gorm:"not null"`
	Author        string `gorm:"not null"`
	SubmittedByID string `gorm:"not null;index"`
	PendingKey    string `gorm:"not null"`
	// Moderation holds the assistant's analysis, verdict and category guess
	// as one JSON document.
	Moderation datatypes.JSON `gorm:"type:jsonb"`
	Status     string         `gorm:"not null;index"`
	CreatedAt  time.Time      `gorm:"not null;index"`
}
