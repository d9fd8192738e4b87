package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"publicindex/pkg/domain"
)

const migrateLockID int64 = 82418241

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := withMigrationLock(db, func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&UserModel{},
			&CategoryModel{},
			&EbookModel{},
			&StudyGroupModel{},
			&MembershipModel{},
			&AnnotationLayerModel{},
			&AnnotationModel{},
			&SubmissionModel{},
		); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func withMigrationLock(db *gorm.DB, fn func(*gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("open sql conn: %w", err)
	}
	defer conn.Close()
	if err := execAdvisory(ctx, conn, "SELECT pg_advisory_lock($1)", migrateLockID); err != nil {
		return fmt.Errorf("acquire migrate lock: %w", err)
	}
	defer func() {
		_ = execAdvisory(ctx, conn, "SELECT pg_advisory_unlock($1)", migrateLockID)
	}()
	return fn(db)
}

func execAdvisory(ctx context.Context, conn *sql.Conn, query string, lockID int64) error {
	_, err := conn.ExecContext(ctx, query, lockID)
	return err
}

// CreateUser registers a new user. Username and email must be unique.
func (s *GormStore) CreateUser(u domain.User) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&UserModel{}).Where("username = ?", u.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.Invalid("username", "already taken")
		}
		if err := tx.Model(&UserModel{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.Invalid("email", "already registered")
		}
		model := userToModel(u)
		return tx.Create(&model).Error
	})
}

// GetUserByID returns a user by ID.
func (s *GormStore) GetUserByID(id string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUserByUsername looks up a user by username.
func (s *GormStore) GetUserByUsername(username string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.Where("username = ?", username).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUserByEmail looks up a user by email.
func (s *GormStore) GetUserByEmail(email string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.Where("email = ?", email).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// CreateCategory adds a category. Names are unique.
func (s *GormStore) CreateCategory(c domain.Category) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&CategoryModel{}).Where("name = ?", c.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.Invalid("name", "category already exists")
		}
		model := categoryToModel(c)
		return tx.Create(&model).Error
	})
}

// GetCategory retrieves one category.
func (s *GormStore) GetCategory(id string) (domain.Category, bool, error) {
	var model CategoryModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Category{}, false, nil
		}
		return domain.Category{}, false, err
	}
	return categoryFromModel(model), true, nil
}

// GetCategoryByName retrieves a category by exact name.
func (s *GormStore) GetCategoryByName(name string) (domain.Category, bool, error) {
	var model CategoryModel
	if err := s.db.Where("name = ?", name).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Category{}, false, nil
		}
		return domain.Category{}, false, err
	}
	return categoryFromModel(model), true, nil
}

// ListCategories returns all categories ordered by name.
func (s *GormStore) ListCategories() ([]domain.Category, error) {
	var models []CategoryModel
	if err := s.db.Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Category, 0, len(models))
	for _, m := range models {
		res = append(res, categoryFromModel(m))
	}
	return res, nil
}

// DeleteCategory removes a category unless ebooks still reference it.
func (s *GormStore) DeleteCategory(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&EbookModel{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("category has %d ebooks: %w", count, domain.ErrInvalidState)
		}
		return tx.Delete(&CategoryModel{}, "id = ?", id).Error
	})
}

// CreateEbook stores a new published ebook.
func (s *GormStore) CreateEbook(e domain.Ebook) error {
	model := ebookToModel(e)
	return s.db.Create(&model).Error
}

// SaveEbook stores or updates an ebook.
func (s *GormStore) SaveEbook(e domain.Ebook) error {
	model := ebookToModel(e)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "author_name", "storage_key", "category_id", "text_content", "cover_image_url"}),
	}).Create(&model).Error
}

// GetEbook retrieves an ebook.
func (s *GormStore) GetEbook(id string) (domain.Ebook, bool, error) {
	var model EbookModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Ebook{}, false, nil
		}
		return domain.Ebook{}, false, err
	}
	return ebookFromModel(model), true, nil
}

// SearchEbooks returns ebooks matching the query, ordered by title.
func (s *GormStore) SearchEbooks(query, categoryID string) ([]domain.Ebook, error) {
	tx := s.db.Model(&EbookModel{}).Order("title ASC")
	if q := strings.TrimSpace(query); q != "" {
		pattern := "%" + q + "%"
		tx = tx.Where("title ILIKE ? OR author_name ILIKE ?", pattern, pattern)
	}
	if categoryID != "" {
		tx = tx.Where("category_id = ?", categoryID)
	}
	var models []EbookModel
	if err := tx.Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Ebook, 0, len(models))
	for _, m := range models {
		res = append(res, ebookFromModel(m))
	}
	return res, nil
}

// DeleteEbook removes an ebook with its layers and their annotations.
func (s *GormStore) DeleteEbook(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var layerIDs []string
		if err := tx.Model(&AnnotationLayerModel{}).Where("ebook_id = ?", id).
			Pluck("id", &layerIDs).Error; err != nil {
			return err
		}
		if len(layerIDs) > 0 {
			if err := tx.Delete(&AnnotationModel{}, "layer_id IN ?", layerIDs).Error; err != nil {
				return err
			}
			if err := tx.Delete(&AnnotationLayerModel{}, "id IN ?", layerIDs).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&EbookModel{}, "id = ?", id).Error
	})
}

// CreateGroup creates a study group and enrolls the creator.
func (s *GormStore) CreateGroup(g domain.StudyGroup) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&StudyGroupModel{}).Where("name = ?", g.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.Invalid("name", "group name already taken")
		}
		model := groupToModel(g)
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		membership := MembershipModel{GroupID: g.ID, UserID: g.CreatorID, JoinedAt: g.CreatedAt}
		return tx.Create(&membership).Error
	})
}

// GetGroup retrieves one study group.
func (s *GormStore) GetGroup(id string) (domain.StudyGroup, bool, error) {
	var model StudyGroupModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.StudyGroup{}, false, nil
		}
		return domain.StudyGroup{}, false, err
	}
	return groupFromModel(model), true, nil
}

// SearchGroups returns groups matching the query by name, ordered by name.
func (s *GormStore) SearchGroups(query string) ([]domain.StudyGroup, error) {
	tx := s.db.Model(&StudyGroupModel{}).Order("name ASC")
	if q := strings.TrimSpace(query); q != "" {
		tx = tx.Where("name ILIKE ?", "%"+q+"%")
	}
	var models []StudyGroupModel
	if err := tx.Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.StudyGroup, 0, len(models))
	for _, m := range models {
		res = append(res, groupFromModel(m))
	}
	return res, nil
}

// DeleteGroup removes a group, its memberships, and detaches its layers.
func (s *GormStore) DeleteGroup(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&AnnotationLayerModel{}).Where("group_id = ?", id).
			Update("group_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&MembershipModel{}, "group_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&StudyGroupModel{}, "id = ?", id).Error
	})
}

// AddMember enrolls a user in a group. Joining twice is a no-op.
func (s *GormStore) AddMember(groupID, userID string) error {
	membership := MembershipModel{GroupID: groupID, UserID: userID, JoinedAt: time.Now().UTC()}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&membership).Error
}

// RemoveMember removes a user from a group.
func (s *GormStore) RemoveMember(groupID, userID string) error {
	return s.db.Delete(&MembershipModel{}, "group_id = ? AND user_id = ?", groupID, userID).Error
}

// IsMember reports group membership.
func (s *GormStore) IsMember(groupID, userID string) (bool, error) {
	var count int64
	if err := s.db.Model(&MembershipModel{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountMembers returns the number of members in a group.
func (s *GormStore) CountMembers(groupID string) (int, error) {
	var count int64
	if err := s.db.Model(&MembershipModel{}).Where("group_id = ?", groupID).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// ListMembers returns the users enrolled in a group, ordered by join time.
func (s *GormStore) ListMembers(groupID string) ([]domain.User, error) {
	var models []UserModel
	if err := s.db.Model(&UserModel{}).
		Joins("JOIN membership_models ON membership_models.user_id = user_models.id").
		Where("membership_models.group_id = ?", groupID).
		Order("membership_models.joined_at ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.User, 0, len(models))
	for _, m := range models {
		res = append(res, userFromModel(m))
	}
	return res, nil
}

// ListGroupsByMember returns the groups a user belongs to, ordered by name.
func (s *GormStore) ListGroupsByMember(userID string) ([]domain.StudyGroup, error) {
	var models []StudyGroupModel
	if err := s.db.Model(&StudyGroupModel{}).
		Joins("JOIN membership_models ON membership_models.group_id = study_group_models.id").
		Where("membership_models.user_id = ?", userID).
		Order("study_group_models.name ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.StudyGroup, 0, len(models))
	for _, m := range models {
		res = append(res, groupFromModel(m))
	}
	return res, nil
}

// ListGroupIDsByMember returns the IDs of the groups a user belongs to.
func (s *GormStore) ListGroupIDsByMember(userID string) ([]string, error) {
	var ids []string
	if err := s.db.Model(&MembershipModel{}).Where("user_id = ?", userID).
		Pluck("group_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// CreateLayer stores an annotation layer.
func (s *GormStore) CreateLayer(l domain.AnnotationLayer) error {
	model := layerToModel(l)
	return s.db.Create(&model).Error
}

// GetLayer retrieves one annotation layer.
func (s *GormStore) GetLayer(id string) (domain.AnnotationLayer, bool, error) {
	var model AnnotationLayerModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.AnnotationLayer{}, false, nil
		}
		return domain.AnnotationLayer{}, false, err
	}
	return layerFromModel(model), true, nil
}

// ListLayersByEbook returns all layers of an ebook ordered by name.
func (s *GormStore) ListLayersByEbook(ebookID string) ([]domain.AnnotationLayer, error) {
	var models []AnnotationLayerModel
	if err := s.db.Where("ebook_id = ?", ebookID).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.AnnotationLayer, 0, len(models))
	for _, m := range models {
		res = append(res, layerFromModel(m))
	}
	return res, nil
}

// CreateAnnotation stores an annotation.
func (s *GormStore) CreateAnnotation(a domain.Annotation) error {
	model := annotationToModel(a)
	return s.db.Create(&model).Error
}

// GetAnnotation retrieves one annotation.
func (s *GormStore) GetAnnotation(id string) (domain.Annotation, bool, error) {
	var model AnnotationModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Annotation{}, false, nil
		}
		return domain.Annotation{}, false, err
	}
	return annotationFromModel(model), true, nil
}

// DeleteAnnotation removes one annotation.
func (s *GormStore) DeleteAnnotation(id string) error {
	return s.db.Delete(&AnnotationModel{}, "id = ?", id).Error
}

// ListAnnotationsByLayer returns a layer's annotations in creation order.
func (s *GormStore) ListAnnotationsByLayer(layerID string) ([]domain.Annotation, error) {
	var models []AnnotationModel
	if err := s.db.Where("layer_id = ?", layerID).
		Order("created_at ASC").Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Annotation, 0, len(models))
	for _, m := range models {
		res = append(res, annotationFromModel(m))
	}
	return res, nil
}

// CreateSubmission stores a moderation ticket.
func (s *GormStore) CreateSubmission(sub domain.BookSubmission) error {
	model, err := submissionToModel(sub)
	if err != nil {
		return err
	}
	return s.db.Create(&model).Error
}

// GetSubmission retrieves one submission.
func (s *GormStore) GetSubmission(id string) (domain.BookSubmission, bool, error) {
	var model SubmissionModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.BookSubmission{}, false, nil
		}
		return domain.BookSubmission{}, false, err
	}
	return submissionFromModel(model), true, nil
}

// ListPendingSubmissions returns the moderation queue, newest first.
func (s *GormStore) ListPendingSubmissions() ([]domain.BookSubmission, error) {
	var models []SubmissionModel
	if err := s.db.Where("status = ?", string(domain.SubmissionPending)).
		Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.BookSubmission, 0, len(models))
	for _, m := range models {
		res = append(res, submissionFromModel(m))
	}
	return res, nil
}

// PromoteSubmission approves a pending submission and publishes the ebook
// atomically. The status flip is compare-and-set so a concurrent reviewer
// loses cleanly.
func (s *GormStore) PromoteSubmission(submissionID string, ebook domain.Ebook) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&SubmissionModel{}).
			Where("id = ? AND status = ?", submissionID, string(domain.SubmissionPending)).
			Update("status", string(domain.SubmissionApproved))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return submissionTransitionError(tx, submissionID)
		}
		model := ebookToModel(ebook)
		return tx.Create(&model).Error
	})
}

// MarkSubmissionRejected flips a pending submission to rejected.
func (s *GormStore) MarkSubmissionRejected(submissionID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&SubmissionModel{}).
			Where("id = ? AND status = ?", submissionID, string(domain.SubmissionPending)).
			Update("status", string(domain.SubmissionRejected))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return submissionTransitionError(tx, submissionID)
		}
		return nil
	})
}

func submissionTransitionError(tx *gorm.DB, submissionID string) error {
	var count int64
	if err := tx.Model(&SubmissionModel{}).Where("id = ?", submissionID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("submission %s: %w", submissionID, domain.ErrNotFound)
	}
	return fmt.Errorf("submission %s is not pending: %w", submissionID, domain.ErrInvalidState)
}

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		IsAdmin:      m.IsAdmin,
		CreatedAt:    m.CreatedAt,
	}
}

func categoryToModel(c domain.Category) CategoryModel {
	return CategoryModel{ID: c.ID, Name: c.Name, Description: c.Description}
}

func categoryFromModel(m CategoryModel) domain.Category {
	return domain.Category{ID: m.ID, Name: m.Name, Description: m.Description}
}

func ebookToModel(e domain.Ebook) EbookModel {
	return EbookModel{
		ID:            e.ID,
		Title:         e.Title,
		AuthorName:    e.AuthorName,
		StorageKey:    e.StorageKey,
		CategoryID:    e.CategoryID,
		SubmittedByID: e.SubmittedByID,
		TextContent:   e.TextContent,
		CoverImageURL: e.CoverImageURL,
		CreatedAt:     e.CreatedAt,
	}
}

func ebookFromModel(m EbookModel) domain.Ebook {
	return domain.Ebook{
		ID:            m.ID,
		Title:         m.Title,
		AuthorName:    m.AuthorName,
		StorageKey:    m.StorageKey,
		CategoryID:    m.CategoryID,
		SubmittedByID: m.SubmittedByID,
		TextContent:   m.TextContent,
		CoverImageURL: m.CoverImageURL,
		CreatedAt:     m.CreatedAt,
	}
}

func groupToModel(g domain.StudyGroup) StudyGroupModel {
	return StudyGroupModel{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatorID:   g.CreatorID,
		CreatedAt:   g.CreatedAt,
	}
}

func groupFromModel(m StudyGroupModel) domain.StudyGroup {
	return domain.StudyGroup{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CreatorID:   m.CreatorID,
		CreatedAt:   m.CreatedAt,
	}
}

func layerToModel(l domain.AnnotationLayer) AnnotationLayerModel {
	var groupID *string
	if strings.TrimSpace(l.GroupID) != "" {
		value := strings.TrimSpace(l.GroupID)
		groupID = &value
	}
	return AnnotationLayerModel{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Public:      l.Public,
		CreatorID:   l.CreatorID,
		EbookID:     l.EbookID,
		GroupID:     groupID,
		CreatedAt:   l.CreatedAt,
	}
}

func layerFromModel(m AnnotationLayerModel) domain.AnnotationLayer {
	groupID := ""
	if m.GroupID != nil {
		groupID = strings.TrimSpace(*m.GroupID)
	}
	return domain.AnnotationLayer{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Public:      m.Public,
		CreatorID:   m.CreatorID,
		EbookID:     m.EbookID,
		GroupID:     groupID,
		CreatedAt:   m.CreatedAt,
	}
}

func annotationToModel(a domain.Annotation) AnnotationModel {
	return AnnotationModel{
		ID:              a.ID,
		LayerID:         a.LayerID,
		AuthorID:        a.AuthorID,
		Content:         a.Content,
		HighlightedText: a.HighlightedText,
		PositionData:    a.PositionData,
		CreatedAt:       a.CreatedAt,
	}
}

func annotationFromModel(m AnnotationModel) domain.Annotation {
	return domain.Annotation{
		ID:              m.ID,
		LayerID:         m.LayerID,
		AuthorID:        m.AuthorID,
		Content:         m.Content,
		HighlightedText: m.HighlightedText,
		PositionData:    m.PositionData,
		CreatedAt:       m.CreatedAt,
	}
}

type moderationDoc struct {
	Analysis      string `json:"analysis,omitempty"`
	Verdict       string `json:"verdict,omitempty"`
	CategoryGuess string `json:"categoryGuess,omitempty"`
}

func submissionToModel(sub domain.BookSubmission) (SubmissionModel, error) {
	raw, err := json.Marshal(moderationDoc{
		Analysis:      sub.AIAnalysis,
		Verdict:       string(sub.Verdict),
		CategoryGuess: sub.CategoryGuess,
	})
	if err != nil {
		return SubmissionModel{}, fmt.Errorf("encode moderation: %w", err)
	}
	return SubmissionModel{
		ID:            sub.ID,
		Title:         sub.Title,
		Author:        sub.Author,
		SubmittedByID: sub.SubmittedByID,
		PendingKey:    sub.PendingKey,
		Moderation:    datatypes.JSON(raw),
		Status:        string(sub.Status),
		CreatedAt:     sub.CreatedAt,
	}, nil
}

func submissionFromModel(m SubmissionModel) domain.BookSubmission {
	var doc moderationDoc
	if len(m.Moderation) > 0 {
		_ = json.Unmarshal(m.Moderation, &doc)
	}
	return domain.BookSubmission{
		ID:            m.ID,
		Title:         m.Title,
		Author:        m.Author,
		SubmittedByID: m.SubmittedByID,
		PendingKey:    m.PendingKey,
		AIAnalysis:    doc.Analysis,
		Verdict:       domain.Verdict(doc.Verdict),
		CategoryGuess: doc.CategoryGuess,
		Status:        domain.SubmissionStatus(m.Status),
		CreatedAt:     m.CreatedAt,
	}
}
