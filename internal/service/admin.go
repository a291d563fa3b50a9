package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/apperr"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/permission"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/repository"
)

const (
	adminPageSize    = 20
	adminMaxPageSize = 100
	maxReasonLength  = 1000
)

// AdminService backs the admin console
type AdminService struct {
	store     AdminStore
	settings  *SettingsService
	publisher Publisher
	logger    *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(store AdminStore, settings *SettingsService, publisher Publisher, logger *zap.Logger) *AdminService {
	return &AdminService{
		store:     store,
		settings:  settings,
		publisher: publisher,
		logger:    logger,
	}
}

// Stats returns the dashboard counters
func (s *AdminService) Stats(ctx context.Context) (*model.AdminStats, error) {
	users, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	listings, err := s.store.CountListingsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.store.CountBookingsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.store.CountPendingModeration(ctx)
	if err != nil {
		return nil, err
	}
	return &model.AdminStats{
		Users:             users,
		ListingsByStatus:  listings,
		BookingsByStatus:  bookings,
		PendingModeration: pending,
	}, nil
}

// ListUsers pages through users matching q
func (s *AdminService) ListUsers(ctx context.Context, q string, page, pageSize int) (*model.UserPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = adminPageSize
	}
	if pageSize > adminMaxPageSize {
		pageSize = adminMaxPageSize
	}

	users, total, err := s.store.ListUsers(ctx, strings.TrimSpace(q), page, pageSize)
	if err != nil {
		return nil, err
	}
	return &model.UserPage{Items: users, Total: total, Page: page, PageSize: pageSize}, nil
}

// UpdateUser changes another user's role or status. Changes that touch an
// ADMIN or SUPER_ADMIN account need manage_admins.
func (s *AdminService) UpdateUser(ctx context.Context, actor *model.User, id string, p model.UserPatch) (*model.User, error) {
	if p.Role == nil && p.Status == nil {
		return nil, apperr.BadRequest("role or status is required")
	}
	if actor.ID == id {
		return nil, apperr.Forbidden("you cannot change your own role or status")
	}

	target, err := s.store.GetUserByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}

	role, status := target.Role, target.Status
	if p.Role != nil {
		if !p.Role.Valid() {
			return nil, apperr.BadRequest("unknown role %q", *p.Role)
		}
		role = *p.Role
	}
	if p.Status != nil {
		if *p.Status != model.UserActive && *p.Status != model.UserSuspended {
			return nil, apperr.BadRequest("status must be ACTIVE or SUSPENDED")
		}
		status = *p.Status
	}

	touchesAdmin := permission.IsAdminRole(target.Role) || permission.IsAdminRole(role)
	if touchesAdmin && !permission.Has(actor.Role, permission.ManageAdmins) {
		return nil, apperr.Forbidden("changing administrator accounts requires %s", permission.ManageAdmins)
	}

	if err := s.store.UpdateUserAccess(ctx, id, role, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}

	s.logger.Info("user access changed",
		zap.String("actor_id", actor.ID),
		zap.String("user_id", id),
		zap.String("role", string(role)),
		zap.String("status", string(status)))

	target.Role, target.Status = role, status
	return target, nil
}

// SetListingStatus lets an admin change any listing's status
func (s *AdminService) SetListingStatus(ctx context.Context, id string, status model.ListingStatus) error {
	status = model.ListingStatus(strings.ToUpper(string(status)))
	if !status.Valid() {
		return apperr.BadRequest("unknown listing status %q", status)
	}
	err := s.store.SetListingStatus(ctx, id, status)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("listing not found")
	}
	return err
}

// Report files a moderation item on behalf of any signed-in user
func (s *AdminService) Report(ctx context.Context, reporterID string, req model.ReportRequest) (*model.ModerationItem, error) {
	target := model.ModerationTarget(strings.ToUpper(string(req.TargetType)))
	if !target.Valid() {
		return nil, apperr.BadRequest("targetType must be LISTING, USER or MESSAGE")
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" || len([]rune(reason)) > maxReasonLength {
		return nil, apperr.BadRequest("reason must be between 1 and %d characters", maxReasonLength)
	}
	if strings.TrimSpace(req.TargetID) == "" {
		return nil, apperr.BadRequest("targetId is required")
	}

	item := &model.ModerationItem{
		ID:         uuid.NewString(),
		TargetType: target,
		TargetID:   req.TargetID,
		Reason:     reason,
		ReporterID: reporterID,
		Status:     model.ModerationPending,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.CreateReport(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ListModeration returns items in the given status (PENDING when empty)
func (s *AdminService) ListModeration(ctx context.Context, status string) ([]model.ModerationItem, error) {
	st := model.ModerationPending
	if status != "" {
		st = model.ModerationStatus(strings.ToUpper(status))
	}
	switch st {
	case model.ModerationPending, model.ModerationResolved, model.ModerationDismissed:
	default:
		return nil, apperr.BadRequest("status must be PENDING, RESOLVED or DISMISSED")
	}
	return s.store.ListModeration(ctx, st)
}

// Resolve closes a pending moderation item and notifies the reporter.
// Blocking a USER follows the same rules as UpdateUser: no self-suspension,
// and administrator accounts need manage_admins.
func (s *AdminService) Resolve(ctx context.Context, actor *model.User, id string, req model.ResolveRequest) (*model.ModerationItem, error) {
	var block bool
	switch strings.ToLower(req.Action) {
	case "block":
		block = true
	case "dismiss":
	default:
		return nil, apperr.BadRequest("action must be block or dismiss")
	}

	res := repository.Resolution{
		ResolverID: actor.ID,
		Block:      block,
		Note:       strings.TrimSpace(req.Note),
		Authorize: func(item *model.ModerationItem) error {
			return s.authorizeBlock(ctx, actor, item)
		},
	}
	item, notification, err := s.store.ResolveModeration(ctx, id, res, moderationNotification)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperr.NotFound("moderation item not found")
	case errors.Is(err, repository.ErrAlreadyResolved):
		return nil, apperr.Conflict("moderation item is already closed")
	case err != nil:
		return nil, err
	}

	s.logger.Info("moderation item closed",
		zap.String("item_id", item.ID),
		zap.String("status", string(item.Status)),
		zap.String("resolver_id", actor.ID))

	s.publisher.Publish(ctx, notification)
	return item, nil
}

func (s *AdminService) authorizeBlock(ctx context.Context, actor *model.User, item *model.ModerationItem) error {
	if item.TargetType != model.TargetUser {
		return nil
	}
	if item.TargetID == actor.ID {
		return apperr.Forbidden("you cannot block your own account")
	}

	target, err := s.store.GetUserByID(ctx, item.TargetID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if permission.IsAdminRole(target.Role) && !permission.Has(actor.Role, permission.ManageAdmins) {
		return apperr.Forbidden("suspending administrator accounts requires %s", permission.ManageAdmins)
	}
	return nil
}

// Settings returns every platform setting
func (s *AdminService) Settings(ctx context.Context) ([]model.Setting, error) {
	return s.settings.List(ctx)
}

// UpdateSetting stores one platform setting
func (s *AdminService) UpdateSetting(ctx context.Context, key string, value model.JSONValue) (*model.Setting, error) {
	return s.settings.Update(ctx, key, value)
}

func moderationNotification(item *model.ModerationItem) *model.Notification {
	outcome := "dismissed"
	if item.Status == model.ModerationResolved {
		outcome = "actioned"
	}
	return &model.Notification{
		ID:        uuid.NewString(),
		UserID:    item.ReporterID,
		Type:      model.NotificationModeration,
		Title:     "Report " + outcome,
		Body:      fmt.Sprintf("Your report on %s %s was %s", strings.ToLower(string(item.TargetType)), item.TargetID, outcome),
		CreatedAt: time.Now().UTC(),
	}
}
