package app

import (
	"fmt"
	"strings"

	"publicindex/internal/util"
	"publicindex/pkg/domain"
)

// ListCategories returns all categories ordered by name.
func (a *App) ListCategories() ([]domain.Category, error) {
	return a.store.ListCategories()
}

// CreateCategory adds a catalog category.
func (a *App) CreateCategory(user domain.User, name, description string) (domain.Category, error) {
	if !user.IsAdmin {
		return domain.Category{}, fmt.Errorf("admin only: %w", domain.ErrPermissionDenied)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, domain.Invalid("name", "required")
	}
	category := domain.Category{
		ID:          util.NewID(),
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if err := a.store.CreateCategory(category); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

// DeleteCategory removes a category. Categories still holding ebooks are
// protected.
func (a *App) DeleteCategory(user domain.User, id string) error {
	if !user.IsAdmin {
		return fmt.Errorf("admin only: %w", domain.ErrPermissionDenied)
	}
	if _, ok, err := a.store.GetCategory(id); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}
	return a.store.DeleteCategory(id)
}
