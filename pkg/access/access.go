// Package access holds the pure layer/annotation visibility rules. It does no
// I/O: callers resolve the viewer's group memberships first and pass them in.
package access

import "publicindex/pkg/domain"

// CanViewLayer reports whether user can see the layer. memberGroupIDs is the
// set of study groups the user belongs to.
func CanViewLayer(user domain.User, layer domain.AnnotationLayer, memberGroupIDs []string) bool {
	if layer.Public {
		return true
	}
	if layer.CreatorID == user.ID {
		return true
	}
	if layer.GroupID == "" {
		return false
	}
	for _, id := range memberGroupIDs {
		if id == layer.GroupID {
			return true
		}
	}
	return false
}

// CanViewAnnotation follows the annotation's layer: an annotation is visible
// exactly when its layer is.
func CanViewAnnotation(user domain.User, layer domain.AnnotationLayer, memberGroupIDs []string) bool {
	return CanViewLayer(user, layer, memberGroupIDs)
}

// CanDeleteAnnotation allows the author and admins.
func CanDeleteAnnotation(user domain.User, ann domain.Annotation) bool {
	return ann.AuthorID == user.ID || user.IsAdmin
}

// CanCreateGroupLayer reports whether user may create a layer scoped to
// groupID. Only members of the target group qualify.
func CanCreateGroupLayer(groupID string, memberGroupIDs []string) bool {
	if groupID == "" {
		return false
	}
	for _, id := range memberGroupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}

// CanDeleteGroup allows the creator and admins.
func CanDeleteGroup(user domain.User, group domain.StudyGroup) bool {
	return group.CreatorID == user.ID || user.IsAdmin
}

// FilterLayers returns the subset of layers visible to user, preserving order.
func FilterLayers(user domain.User, layers []domain.AnnotationLayer, memberGroupIDs []string) []domain.AnnotationLayer {
	visible := make([]domain.AnnotationLayer, 0, len(layers))
	for _, layer := range layers {
		if CanViewLayer(user, layer, memberGroupIDs) {
			visible = append(visible, layer)
		}
	}
	return visible
}
