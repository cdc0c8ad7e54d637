package services

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/access"
	"github.com/playbojio/playbojio-api/internal/database"
	"github.com/playbojio/playbojio-api/internal/dto"
	"github.com/playbojio/playbojio-api/internal/models"
	"gorm.io/gorm"
)

type GroupService struct {
	db *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

func (s *GroupService) Create(ownerID uuid.UUID, req *dto.GroupRequest) (*dto.GroupResponse, error) {
	group := models.Group{ID: uuid.New(), OwnerID: ownerID}
	applyGroupRequest(&group, req)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}
		return tx.Create(&models.GroupMember{GroupID: group.ID, UserID: ownerID, IsAdmin: true, JoinedAt: now()}).Error
	})
	if err != nil {
		return nil, err
	}

	slog.Info("group created", "action", "group.create", "user_id", ownerID.String(), "group_id", group.ID.String())
	return s.Get(group.ID, &ownerID)
}

func (s *GroupService) Update(groupID, ownerID uuid.UUID, req *dto.GroupRequest) (*dto.GroupResponse, error) {
	group, err := s.owned(s.db, groupID, ownerID)
	if err != nil {
		return nil, err
	}
	applyGroupRequest(group, req)
	if err := s.db.Save(group).Error; err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}
	return s.Get(groupID, &ownerID)
}

// Delete removes the group and everything attached to it. Sessions and events
// that were linked to it survive with the link dropped.
func (s *GroupService) Delete(groupID, ownerID uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.owned(tx.Scopes(database.ForUpdate), groupID, ownerID); err != nil {
			return err
		}
		return deleteGroups(tx, []uuid.UUID{groupID})
	})
	if err != nil {
		return err
	}
	slog.Info("group deleted", "action", "group.delete", "user_id", ownerID.String(), "group_id", groupID.String())
	return nil
}

func (s *GroupService) owned(tx *gorm.DB, groupID, ownerID uuid.UUID) (*models.Group, error) {
	var group models.Group
	if err := first(tx, &group, ErrGroupNotFound, "id = ?", groupID); err != nil {
		return nil, err
	}
	if group.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return &group, nil
}

// Get returns a group the actor may see. Private groups look absent to
// outsiders.
func (s *GroupService) Get(groupID uuid.UUID, actor *uuid.UUID) (*dto.GroupResponse, error) {
	group, err := visibleGroup(s.db, groupID, actor)
	if err != nil {
		return nil, err
	}
	out, err := s.describe([]models.Group{*group}, actor)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func visibleGroup(tx *gorm.DB, groupID uuid.UUID, actor *uuid.UUID) (*models.Group, error) {
	var group models.Group
	if err := first(tx, &group, ErrGroupNotFound, "id = ?", groupID); err != nil {
		return nil, err
	}
	ok, err := access.CanView(groupTarget(tx, &group), actor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrGroupNotFound
	}
	return &group, nil
}

func (s *GroupService) describe(groups []models.Group, actor *uuid.UUID) ([]dto.GroupResponse, error) {
	ids := make([]uuid.UUID, len(groups))
	owners := make([]uuid.UUID, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
		owners[i] = g.OwnerID
	}
	counts, err := countBy(s.db, "group_members", "group_id", ids)
	if err != nil {
		return nil, err
	}
	users, err := usersByID(s.db, owners)
	if err != nil {
		return nil, err
	}

	roles := map[uuid.UUID]models.GroupMember{}
	if actor != nil && len(ids) > 0 {
		var rows []models.GroupMember
		if err := s.db.Where("user_id = ? AND group_id IN ?", *actor, ids).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to load memberships: %w", err)
		}
		for _, r := range rows {
			roles[r.GroupID] = r
		}
	}

	out := make([]dto.GroupResponse, len(groups))
	for i, g := range groups {
		m, member := roles[g.ID]
		out[i] = dto.GroupResponse{
			Group:       g,
			OwnerName:   users[g.OwnerID].DisplayName,
			MemberCount: counts[g.ID],
			IsMember:    member,
			IsAdmin:     member && m.IsAdmin,
			IsOwner:     actor != nil && g.OwnerID == *actor,
		}
	}
	return out, nil
}

func (s *GroupService) ListMine(userID uuid.UUID) ([]dto.GroupResponse, error) {
	var groups []models.Group
	if err := s.db.Scopes(database.MemberOf(userID)).Order("name ASC").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return s.describe(groups, &userID)
}

// ListPublic lists public groups, optionally filtered by name.
func (s *GroupService) ListPublic(q string, actor *uuid.UUID) ([]dto.GroupResponse, error) {
	query := s.db.Where("visibility = ?", models.GroupPublic)
	if strings.TrimSpace(q) != "" {
		query = query.Where(likeWhere("name"), likePattern(q))
	}
	var groups []models.Group
	if err := query.Order("name ASC").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return s.describe(groups, actor)
}

// Join adds the user to a public group. Private groups answer with
// ErrApprovalRequired and are entered through a join request or invitation.
func (s *GroupService) Join(groupID, userID uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := first(tx.Scopes(database.ForUpdate), &group, ErrGroupNotFound, "id = ?", groupID); err != nil {
			return err
		}

		f := access.JoinFacts{
			Visible:          true,
			RequiresApproval: group.Visibility == models.GroupPrivate,
			Capacity:         access.Capacity{Unlimited: true},
		}
		var err error
		if f.Member, err = exists(tx, &models.GroupMember{}, "group_id = ? AND user_id = ?", groupID, userID); err != nil {
			return err
		}
		if f.Blacklisted, err = groupBlacklisted(tx, groupID, userID); err != nil {
			return err
		}
		if d := access.Decide(f); d.Outcome != access.Admit {
			return d.Reason
		}
		return addMember(tx, groupID, userID)
	})
	if err != nil {
		return err
	}
	slog.Info("group join", "action", "group.join", "user_id", userID.String(), "group_id", groupID.String())
	return nil
}

func (s *GroupService) Leave(groupID, userID uuid.UUID) error {
	var group models.Group
	if err := first(s.db, &group, ErrGroupNotFound, "id = ?", groupID); err != nil {
		return err
	}
	if group.OwnerID == userID {
		return ErrOwnerCannotLeave
	}
	result := s.db.Where("group_id = ? AND user_id = ?", groupID, userID).Delete(&models.GroupMember{})
	if result.Error != nil {
		return fmt.Errorf("failed to leave group: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotMember
	}
	return nil
}

// RemoveMember lets the owner or an admin drop someone from the roster.
func (s *GroupService) RemoveMember(groupID, actor, targetID uuid.UUID) error {
	group, err := requireGroupAdmin(s.db, groupID, actor)
	if err != nil {
		return err
	}
	if targetID == group.OwnerID {
		return ErrCannotRemoveOwner
	}
	result := s.db.Where("group_id = ? AND user_id = ?", groupID, targetID).Delete(&models.GroupMember{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove member: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotMember
	}
	slog.Info("group member removed", "action", "group.remove_member", "user_id", actor.String(), "group_id", groupID.String(), "target_id", targetID.String())
	return nil
}

// PromoteToAdmin grants admin to a member. Promoting an admin is a no-op.
func (s *GroupService) PromoteToAdmin(groupID, ownerID, targetID uuid.UUID) error {
	if _, err := s.owned(s.db, groupID, ownerID); err != nil {
		return err
	}
	result := s.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, targetID).
		Update("is_admin", true)
	if result.Error != nil {
		return fmt.Errorf("failed to promote member: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		member, err := exists(s.db, &models.GroupMember{}, "group_id = ? AND user_id = ?", groupID, targetID)
		if err != nil {
			return err
		}
		if !member {
			return ErrNotMember
		}
	}
	return nil
}

// Members lists the roster, admins first then by join time.
func (s *GroupService) Members(groupID uuid.UUID, actor *uuid.UUID) ([]dto.MemberResponse, error) {
	if _, err := visibleGroup(s.db, groupID, actor); err != nil {
		return nil, err
	}
	var rows []models.GroupMember
	err := s.db.Preload("User").
		Where("group_id = ?", groupID).
		Order("is_admin DESC").Order("joined_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	out := make([]dto.MemberResponse, len(rows))
	for i, r := range rows {
		out[i] = dto.MemberResponse{UserID: r.UserID, DisplayName: r.User.DisplayName, AvatarURL: r.User.AvatarURL, IsAdmin: r.IsAdmin, JoinedAt: r.JoinedAt}
	}
	return out, nil
}

func (s *GroupService) Blacklist(groupID, actor uuid.UUID) ([]dto.BlacklistEntryResponse, error) {
	if _, err := requireGroupAdmin(s.db, groupID, actor); err != nil {
		return nil, err
	}
	var rows []models.GroupBlacklist
	if err := s.db.Preload("BlacklistedUser").Where("group_id = ?", groupID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list group blacklist: %w", err)
	}
	out := make([]dto.BlacklistEntryResponse, len(rows))
	for i, r := range rows {
		by := r.BlacklistedByUserID
		out[i] = dto.BlacklistEntryResponse{
			UserID: r.BlacklistedUserID, DisplayName: r.BlacklistedUser.DisplayName, AvatarURL: r.BlacklistedUser.AvatarURL,
			BlacklistedByUserID: &by, Reason: r.Reason, CreatedAt: r.CreatedAt,
		}
	}
	return out, nil
}

// AddToBlacklist bars a user from the group. Their membership and any pending
// request or invitation go in the same transaction.
func (s *GroupService) AddToBlacklist(groupID, actor, targetID uuid.UUID, reason *string) error {
	if targetID == actor {
		return ErrSelfBlacklist
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := first(tx.Scopes(database.ForUpdate), &models.Group{}, ErrGroupNotFound, "id = ?", groupID); err != nil {
			return err
		}
		group, err := requireGroupAdmin(tx, groupID, actor)
		if err != nil {
			return err
		}
		if targetID == group.OwnerID {
			return ErrCannotBlacklistOwner
		}
		if _, err := requireUser(tx, targetID); err != nil {
			return err
		}

		entry := models.GroupBlacklist{
			ID:                  uuid.New(),
			GroupID:             groupID,
			BlacklistedUserID:   targetID,
			BlacklistedByUserID: actor,
			Reason:              trimReason(reason),
		}
		if err := insertBlacklistEntry(tx, &entry, "group_id = ? AND blacklisted_user_id = ?", groupID, targetID); err != nil {
			return err
		}
		return runSteps(tx, []step{
			{"group membership", &models.GroupMember{}, "group_id = ? AND user_id = ?", []interface{}{groupID, targetID}},
			{"pending join requests", &models.GroupJoinRequest{}, "group_id = ? AND user_id = ? AND status = ?", []interface{}{groupID, targetID, models.RequestPending}},
			{"pending invitations", &models.GroupInvitation{}, "group_id = ? AND invited_user_id = ? AND status = ?", []interface{}{groupID, targetID, models.RequestPending}},
		})
	})
	if err != nil {
		return err
	}
	slog.Info("group blacklist add", "action", "group.blacklist", "user_id", actor.String(), "group_id", groupID.String(), "target_id", targetID.String())
	return nil
}

func (s *GroupService) RemoveFromBlacklist(groupID, actor, targetID uuid.UUID) error {
	if _, err := requireGroupAdmin(s.db, groupID, actor); err != nil {
		return err
	}
	return deleteBlacklistEntry(s.db, &models.GroupBlacklist{}, "group_id = ? AND blacklisted_user_id = ?", groupID, targetID)
}

func applyGroupRequest(group *models.Group, req *dto.GroupRequest) {
	group.Name = strings.TrimSpace(req.Name)
	group.Description = req.Description
	group.ProfileImageURL = req.ProfileImageURL
	group.CoverImageURL = req.CoverImageURL
	group.Visibility = req.Visibility
}

func addMember(tx *gorm.DB, groupID, userID uuid.UUID) error {
	if err := tx.Create(&models.GroupMember{GroupID: groupID, UserID: userID, JoinedAt: now()}).Error; err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

func groupBlacklisted(tx *gorm.DB, groupID, userID uuid.UUID) (bool, error) {
	return exists(tx, &models.GroupBlacklist{}, "group_id = ? AND blacklisted_user_id = ?", groupID, userID)
}

// requireMember fails with ErrNotGroupMember unless userID is on the roster.
func requireMember(tx *gorm.DB, groupID, userID uuid.UUID) error {
	var group models.Group
	if err := first(tx, &group, ErrGroupNotFound, "id = ?", groupID); err != nil {
		return err
	}
	member, err := exists(tx, &models.GroupMember{}, "group_id = ? AND user_id = ?", groupID, userID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotGroupMember
	}
	return nil
}

// requireGroupAdmin loads the group and checks that actor owns it or holds admin.
func requireGroupAdmin(tx *gorm.DB, groupID, actor uuid.UUID) (*models.Group, error) {
	var group models.Group
	if err := first(tx, &group, ErrGroupNotFound, "id = ?", groupID); err != nil {
		return nil, err
	}
	if group.OwnerID == actor {
		return &group, nil
	}
	admin, err := exists(tx, &models.GroupMember{}, "group_id = ? AND user_id = ? AND is_admin = ?", groupID, actor, true)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, ErrNotGroupAdmin
	}
	return &group, nil
}
