package store

import "publicindex/pkg/domain"

// Store is the persistence interface for the library.
//
// Lookup methods return (zero, false, nil) when the record does not exist;
// the error is reserved for infrastructure failures. Mutations that hit a
// uniqueness rule return a *domain.ValidationError, guarded deletes and
// status transitions that find the record in the wrong state return an error
// wrapping domain.ErrInvalidState.
type Store interface {
	// Users.
	CreateUser(u domain.User) error
	GetUserByID(id string) (domain.User, bool, error)
	GetUserByUsername(username string) (domain.User, bool, error)
	GetUserByEmail(email string) (domain.User, bool, error)

	// Categories.
	CreateCategory(c domain.Category) error
	GetCategory(id string) (domain.Category, bool, error)
	GetCategoryByName(name string) (domain.Category, bool, error)
	ListCategories() ([]domain.Category, error)
	// DeleteCategory refuses to remove a category that still has ebooks.
	DeleteCategory(id string) error

	// Ebooks.
	CreateEbook(e domain.Ebook) error
	SaveEbook(e domain.Ebook) error
	GetEbook(id string) (domain.Ebook, bool, error)
	// SearchEbooks matches query against title and author name,
	// case-insensitively, optionally narrowed to one category. Results are
	// ordered by title.
	SearchEbooks(query, categoryID string) ([]domain.Ebook, error)
	// DeleteEbook removes the ebook with all its layers and annotations.
	DeleteEbook(id string) error

	// Study groups. CreateGroup also enrolls the creator as first member.
	CreateGroup(g domain.StudyGroup) error
	GetGroup(id string) (domain.StudyGroup, bool, error)
	SearchGroups(query string) ([]domain.StudyGroup, error)
	// DeleteGroup detaches the group's annotation layers (they become
	// private to their creators) and removes all memberships.
	DeleteGroup(id string) error

	// Memberships.
	AddMember(groupID, userID string) error
	RemoveMember(groupID, userID string) error
	IsMember(groupID, userID string) (bool, error)
	CountMembers(groupID string) (int, error)
	ListMembers(groupID string) ([]domain.User, error)
	ListGroupsByMember(userID string) ([]domain.StudyGroup, error)
	ListGroupIDsByMember(userID string) ([]string, error)

	// Annotation layers.
	CreateLayer(l domain.AnnotationLayer) error
	GetLayer(id string) (domain.AnnotationLayer, bool, error)
	ListLayersByEbook(ebookID string) ([]domain.AnnotationLayer, error)

	// Annotations.
	CreateAnnotation(a domain.Annotation) error
	GetAnnotation(id string) (domain.Annotation, bool, error)
	DeleteAnnotation(id string) error
	ListAnnotationsByLayer(layerID string) ([]domain.Annotation, error)

	// Book submissions.
	CreateSubmission(s domain.BookSubmission) error
	GetSubmission(id string) (domain.BookSubmission, bool, error)
	ListPendingSubmissions() ([]domain.BookSubmission, error)
	// PromoteSubmission flips a pending submission to approved and creates
	// the published ebook in the same transaction.
	PromoteSubmission(submissionID string, ebook domain.Ebook) error
	// MarkSubmissionRejected flips a pending submission to rejected.
	MarkSubmissionRejected(submissionID string) error
}
