package services

import (
	"fmt"

	"github.com/playbojio/playbojio-api/internal/apperr"
)

var (
	ErrUserNotFound       = fmt.Errorf("user %w", apperr.ErrNotFound)
	ErrSessionNotFound    = fmt.Errorf("session %w", apperr.ErrNotFound)
	ErrEventNotFound      = fmt.Errorf("event %w", apperr.ErrNotFound)
	ErrGroupNotFound      = fmt.Errorf("group %w", apperr.ErrNotFound)
	ErrRequestNotFound    = fmt.Errorf("request %w", apperr.ErrNotFound)
	ErrInvitationNotFound = fmt.Errorf("invitation %w", apperr.ErrNotFound)
	ErrBlacklistNotFound  = fmt.Errorf("blacklist entry %w", apperr.ErrNotFound)
	ErrNotMember          = fmt.Errorf("member %w", apperr.ErrNotFound)
	ErrNotFriends         = fmt.Errorf("friendship %w", apperr.ErrNotFound)

	ErrNotHost           = fmt.Errorf("%w: only the host can do this", apperr.ErrForbidden)
	ErrNotOrganizer      = fmt.Errorf("%w: only the organizer can do this", apperr.ErrForbidden)
	ErrNotOwner          = fmt.Errorf("%w: only the group owner can do this", apperr.ErrForbidden)
	ErrNotGroupAdmin     = fmt.Errorf("%w: only group admins can do this", apperr.ErrForbidden)
	ErrNotGroupMember    = fmt.Errorf("%w: only group members can see this", apperr.ErrForbidden)
	ErrNotRecipient      = fmt.Errorf("%w: this request is not addressed to you", apperr.ErrForbidden)
	ErrNotSender         = fmt.Errorf("%w: only the sender can cancel this request", apperr.ErrForbidden)
	ErrCannotRemoveOwner = fmt.Errorf("%w: the group owner cannot be removed", apperr.ErrForbidden)
	ErrBlockedBetween    = fmt.Errorf("%w: one of you has blacklisted the other", apperr.ErrForbidden)

	ErrAlreadyBlacklisted = fmt.Errorf("%w: user is already blacklisted", apperr.ErrConflict)
	ErrAlreadyFriends     = fmt.Errorf("%w: already friends", apperr.ErrConflict)
	ErrAlreadyMember      = fmt.Errorf("%w: user is already a member", apperr.ErrConflict)
	ErrRequestPending     = fmt.Errorf("%w: a pending request already exists", apperr.ErrConflict)
	ErrInvitationPending  = fmt.Errorf("%w: a pending invitation already exists", apperr.ErrConflict)

	ErrHostCannotLeave      = fmt.Errorf("%w: the host cannot leave their own session", apperr.ErrInvalidState)
	ErrOrganizerCannotLeave = fmt.Errorf("%w: the organizer cannot leave their own event", apperr.ErrInvalidState)
	ErrOwnerCannotLeave     = fmt.Errorf("%w: the owner cannot leave their own group", apperr.ErrInvalidState)
	ErrCannotBlacklistOwner = fmt.Errorf("%w: the owner cannot be blacklisted", apperr.ErrInvalidState)
	ErrSelfBlacklist        = fmt.Errorf("%w: you cannot blacklist yourself", apperr.ErrInvalidState)
	ErrSelfFriend           = fmt.Errorf("%w: you cannot befriend yourself", apperr.ErrInvalidState)
	ErrNotPending           = fmt.Errorf("%w: request is no longer pending", apperr.ErrInvalidState)
	ErrEventRequired        = fmt.Errorf("%w: event sessions need an event_id", apperr.ErrInvalidState)
	ErrGroupIsPublic        = fmt.Errorf("%w: public groups can be joined directly", apperr.ErrInvalidState)
	ErrInvalidTimeRange     = fmt.Errorf("%w: end must be after start", apperr.ErrInvalidState)
	ErrQueryTooShort        = fmt.Errorf("%w: search query must be at least 2 characters", apperr.ErrInvalidState)
	ErrEventCancelled       = fmt.Errorf("%w: event has been cancelled", apperr.ErrInvalidState)
	ErrNotAttending         = fmt.Errorf("%w: you are not attending", apperr.ErrInvalidState)
)
