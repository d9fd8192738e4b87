package app

import (
	"fmt"
	"strings"
	"time"

	"publicindex/internal/util"
	"publicindex/pkg/access"
	"publicindex/pkg/domain"
)

// LayerParams carries a new annotation layer request.
type LayerParams struct {
	Name        string
	Description string
	// GroupID scopes the layer to one study group. Layers created without a
	// group are public; private layers only arise when a group is deleted.
	GroupID string
}

// CreateLayer adds an annotation layer to an ebook. Group-scoped layers
// require the caller to be a member of the target group.
func (a *App) CreateLayer(user domain.User, ebookID string, p LayerParams) (domain.AnnotationLayer, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return domain.AnnotationLayer{}, domain.Invalid("name", "required")
	}
	if _, ok, err := a.store.GetEbook(ebookID); err != nil {
		return domain.AnnotationLayer{}, err
	} else if !ok {
		return domain.AnnotationLayer{}, fmt.Errorf("ebook %s: %w", ebookID, domain.ErrNotFound)
	}
	if p.GroupID != "" {
		memberIDs, err := a.store.ListGroupIDsByMember(user.ID)
		if err != nil {
			return domain.AnnotationLayer{}, err
		}
		if !access.CanCreateGroupLayer(p.GroupID, memberIDs) {
			return domain.AnnotationLayer{}, fmt.Errorf("not a member of the target group: %w", domain.ErrPermissionDenied)
		}
	}
	layer := domain.AnnotationLayer{
		ID:          util.NewID(),
		Name:        name,
		Description: strings.TrimSpace(p.Description),
		Public:      p.GroupID == "",
		CreatorID:   user.ID,
		EbookID:     ebookID,
		GroupID:     p.GroupID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := a.store.CreateLayer(layer); err != nil {
		return domain.AnnotationLayer{}, err
	}
	return layer, nil
}

// ListVisibleLayers returns the layers of an ebook the caller can see.
func (a *App) ListVisibleLayers(user domain.User, ebookID string) ([]domain.AnnotationLayer, error) {
	layers, err := a.store.ListLayersByEbook(ebookID)
	if err != nil {
		return nil, err
	}
	memberIDs, err := a.store.ListGroupIDsByMember(user.ID)
	if err != nil {
		return nil, err
	}
	return access.FilterLayers(user, layers, memberIDs), nil
}

// visibleLayer loads a layer and enforces visibility for the caller.
func (a *App) visibleLayer(user domain.User, layerID string) (domain.AnnotationLayer, error) {
	layer, ok, err := a.store.GetLayer(layerID)
	if err != nil {
		return domain.AnnotationLayer{}, err
	}
	if !ok {
		return domain.AnnotationLayer{}, fmt.Errorf("layer %s: %w", layerID, domain.ErrNotFound)
	}
	memberIDs, err := a.store.ListGroupIDsByMember(user.ID)
	if err != nil {
		return domain.AnnotationLayer{}, err
	}
	if !access.CanViewLayer(user, layer, memberIDs) {
		return domain.AnnotationLayer{}, fmt.Errorf("layer not visible: %w", domain.ErrPermissionDenied)
	}
	return layer, nil
}

// AnnotationParams carries a new annotation.
type AnnotationParams struct {
	Content         string
	HighlightedText string
	PositionData    string
}

// CreateAnnotation adds a note to a layer the caller can see.
func (a *App) CreateAnnotation(user domain.User, layerID string, p AnnotationParams) (domain.Annotation, error) {
	content := strings.TrimSpace(p.Content)
	if content == "" {
		return domain.Annotation{}, domain.Invalid("content", "required")
	}
	if _, err := a.visibleLayer(user, layerID); err != nil {
		return domain.Annotation{}, err
	}
	annotation := domain.Annotation{
		ID:              util.NewID(),
		LayerID:         layerID,
		AuthorID:        user.ID,
		Content:         content,
		HighlightedText: p.HighlightedText,
		PositionData:    p.PositionData,
		CreatedAt:       time.Now().UTC(),
	}
	if err := a.store.CreateAnnotation(annotation); err != nil {
		return domain.Annotation{}, err
	}
	return annotation, nil
}

// ListAnnotations returns a visible layer's annotations in creation order.
func (a *App) ListAnnotations(user domain.User, layerID string) ([]domain.Annotation, error) {
	if _, err := a.visibleLayer(user, layerID); err != nil {
		return nil, err
	}
	return a.store.ListAnnotationsByLayer(layerID)
}

// DeleteAnnotation removes a note. Only the author or an admin may delete.
func (a *App) DeleteAnnotation(user domain.User, annotationID string) error {
	annotation, ok, err := a.store.GetAnnotation(annotationID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("annotation %s: %w", annotationID, domain.ErrNotFound)
	}
	if !access.CanDeleteAnnotation(user, annotation) {
		return fmt.Errorf("only the author or an admin can delete an annotation: %w", domain.ErrPermissionDenied)
	}
	return a.store.DeleteAnnotation(annotationID)
}
