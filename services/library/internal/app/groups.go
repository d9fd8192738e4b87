package app

import (
	"fmt"
	"strings"
	"time"

	"publicindex/internal/util"
	"publicindex/pkg/access"
	"publicindex/pkg/domain"
)

// GroupDetail is a study group with its roster.
type GroupDetail struct {
	Group       domain.StudyGroup `json:"group"`
	Members     []domain.User     `json:"members"`
	MemberCount int               `json:"memberCount"`
}

// GroupSummary is a directory entry: a group plus its size and whether the
// caller belongs to it.
type GroupSummary struct {
	domain.StudyGroup
	MemberCount int  `json:"memberCount"`
	IsMember    bool `json:"isMember"`
}

// CreateGroup starts a new study group with the caller as creator and first
// member. Group names are unique, case-sensitively.
func (a *App) CreateGroup(user domain.User, name, description string) (domain.StudyGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.StudyGroup{}, domain.Invalid("name", "required")
	}
	group := domain.StudyGroup{
		ID:          util.NewID(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatorID:   user.ID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := a.store.CreateGroup(group); err != nil {
		return domain.StudyGroup{}, err
	}
	return group, nil
}

// SearchGroups lists the group directory, optionally filtered by name.
func (a *App) SearchGroups(user domain.User, query string) ([]GroupSummary, error) {
	groups, err := a.store.SearchGroups(query)
	if err != nil {
		return nil, err
	}
	mine, err := a.store.ListGroupIDsByMember(user.ID)
	if err != nil {
		return nil, err
	}
	memberOf := make(map[string]bool, len(mine))
	for _, id := range mine {
		memberOf[id] = true
	}
	summaries := make([]GroupSummary, 0, len(groups))
	for _, g := range groups {
		count, err := a.store.CountMembers(g.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, GroupSummary{
			StudyGroup:  g,
			MemberCount: count,
			IsMember:    memberOf[g.ID],
		})
	}
	return summaries, nil
}

// GetGroupDetail returns one group with its member roster. The roster is
// visible to members and admins only.
func (a *App) GetGroupDetail(user domain.User, groupID string) (GroupDetail, error) {
	group, ok, err := a.store.GetGroup(groupID)
	if err != nil {
		return GroupDetail{}, err
	}
	if !ok {
		return GroupDetail{}, fmt.Errorf("group %s: %w", groupID, domain.ErrNotFound)
	}
	if !user.IsAdmin {
		member, err := a.store.IsMember(groupID, user.ID)
		if err != nil {
			return GroupDetail{}, err
		}
		if !member {
			return GroupDetail{}, fmt.Errorf("members only: %w", domain.ErrPermissionDenied)
		}
	}
	members, err := a.store.ListMembers(groupID)
	if err != nil {
		return GroupDetail{}, err
	}
	return GroupDetail{Group: group, Members: members, MemberCount: len(members)}, nil
}

// MyGroups lists the groups the caller belongs to.
func (a *App) MyGroups(user domain.User) ([]domain.StudyGroup, error) {
	return a.store.ListGroupsByMember(user.ID)
}

// JoinGroup enrolls the caller. Joining a group twice is a no-op.
func (a *App) JoinGroup(user domain.User, groupID string) error {
	if _, ok, err := a.store.GetGroup(groupID); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("group %s: %w", groupID, domain.ErrNotFound)
	}
	return a.store.AddMember(groupID, user.ID)
}

// LeaveGroup removes the caller from a group. The creator cannot leave their
// own group; they can only delete it.
func (a *App) LeaveGroup(user domain.User, groupID string) error {
	group, ok, err := a.store.GetGroup(groupID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("group %s: %w", groupID, domain.ErrNotFound)
	}
	if group.CreatorID == user.ID {
		return fmt.Errorf("creator cannot leave the group: %w", domain.ErrInvalidState)
	}
	return a.store.RemoveMember(groupID, user.ID)
}

// DeleteGroup removes a group. Only the creator or an admin may do this.
// The group's annotation layers survive as private layers of their creators.
func (a *App) DeleteGroup(user domain.User, groupID string) error {
	group, ok, err := a.store.GetGroup(groupID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("group %s: %w", groupID, domain.ErrNotFound)
	}
	if !access.CanDeleteGroup(user, group) {
		return fmt.Errorf("only the creator or an admin can delete a group: %w", domain.ErrPermissionDenied)
	}
	return a.store.DeleteGroup(groupID)
}
