package inapp

import (
	"context"

	"crm_portal_backend/internal/notification/sse"
	"crm_portal_backend/platform/logger"

	"github.com/google/uuid"
)

// Service persists notifications and mirrors them to connected clients.
type Service struct {
	repo *Repository
	sse  *sse.Service
	log  *logger.Logger
}

// NewService creates the in-app notification service.
func NewService(repo *Repository, sseSvc *sse.Service, log *logger.Logger) *Service {
	return &Service{repo: repo, sse: sseSvc, log: log}
}

// SendParams describes one notification to deliver.
type SendParams struct {
	UserID       uuid.UUID
	Title        string
	Content      string
	ResourceID   *uuid.UUID
	ResourceType string
	Category     string
}

// Send persists the notification and pushes it over SSE when the user has a
// live connection.
func (s *Service) Send(ctx context.Context, p SendParams) error {
	var resourceType *string
	if p.ResourceType != "" {
		resourceType = &p.ResourceType
	}

	notif, err := s.repo.Create(ctx, CreateParams{
		UserID:       p.UserID,
		Title:        p.Title,
		Content:      p.Content,
		ResourceID:   p.ResourceID,
		ResourceType: resourceType,
		Category:     p.Category,
	})
	if err != nil {
		s.log.Error("failed to persist in-app notification", "error", err, "user_id", p.UserID.String())
		return err
	}

	if s.sse != nil {
		s.sse.Publish(p.UserID, sse.Event{
			Type:    sse.EventInAppNotification,
			Message: p.Title,
			Data:    notif,
		})
	}
	return nil
}

// List returns a page of the user's notifications.
func (s *Service) List(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return s.repo.List(ctx, userID, pageSize, (page-1)*pageSize)
}

// CountUnread returns the user's unread count.
func (s *Service) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead flags one notification as read.
func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, userID, id)
}

// MarkAllRead flags all of the user's notifications as read.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// Delete removes one notification.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}
