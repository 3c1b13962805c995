package notification

import (
	"context"
	"fmt"
	"time"

	"go-docdist/internal/features/distribution"
	"go-docdist/internal/features/history"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type NotificationService interface {
	// DistributionEvent stores and pushes a notification for one lifecycle
	// transition. Failures are logged, never surfaced to the caller: the
	// transition has already committed.
	DistributionEvent(ctx context.Context, d *distribution.Distribution, action history.Action, actorID string)
	// StaleDistributionReminder nudges the destination about a distribution
	// that has been sitting in "sent" past the reminder cutoff.
	StaleDistributionReminder(ctx context.Context, d *distribution.Distribution)

	ListByDepartment(ctx context.Context, departmentID primitive.ObjectID, page, limit int64) ([]Notification, int64, error)
	CountUnread(ctx context.Context, departmentID primitive.ObjectID) (int64, error)
	MarkAsRead(ctx context.Context, id, departmentID primitive.ObjectID) error
	MarkAllAsRead(ctx context.Context, departmentID primitive.ObjectID) error
}

type NotificationServiceImpl struct {
	Repo   NotificationRepository
	Hub    *Hub
	Logger *zap.Logger
}

func NewNotificationService(repo NotificationRepository, hub *Hub, logger *zap.Logger) NotificationService {
	return &NotificationServiceImpl{
		Repo:   repo,
		Hub:    hub,
		Logger: logger,
	}
}

// eventText maps a lifecycle action to a title and message template. The
// recipient is always the department that has to react next.
func eventText(action history.Action, number string) (title, message string) {
	switch action {
	case history.ActionCreated:
		return "Distribution created", fmt.Sprintf("Distribution %s has been created and is being prepared", number)
	case history.ActionVerifiedBySender:
		return "Distribution verified by sender", fmt.Sprintf("Distribution %s has been verified and is ready to send", number)
	case history.ActionSent:
		return "Distribution sent", fmt.Sprintf("Distribution %s has been sent and awaits receipt", number)
	case history.ActionReceived:
		return "Distribution received", fmt.Sprintf("Distribution %s has been received at its destination", number)
	case history.ActionVerifiedByReceiver:
		return "Distribution verified by receiver", fmt.Sprintf("Distribution %s has been verified by the receiver", number)
	case history.ActionCompleted:
		return "Distribution completed", fmt.Sprintf("Distribution %s has been completed", number)
	default:
		return "Distribution updated", fmt.Sprintf("Distribution %s has been updated", number)
	}
}

// recipient picks which department's inbox gets the event: sender-side
// actions notify the destination, receiver-side actions notify the origin.
func recipient(d *distribution.Distribution, action history.Action) primitive.ObjectID {
	switch action {
	case history.ActionReceived, history.ActionVerifiedByReceiver, history.ActionCompleted:
		return d.OriginDepartmentID
	default:
		return d.DestinationDepartmentID
	}
}

func (s *NotificationServiceImpl) DistributionEvent(ctx context.Context, d *distribution.Distribution, action history.Action, actorID string) {
	title, message := eventText(action, d.Number)
	s.deliver(ctx, &Notification{
		ID:             primitive.NewObjectID(),
		DepartmentID:   recipient(d, action),
		DistributionID: d.ID,
		Number:         d.Number,
		Action:         string(action),
		Title:          title,
		Message:        message,
		ActorID:        actorID,
		CreatedAt:      time.Now(),
	})
}

func (s *NotificationServiceImpl) StaleDistributionReminder(ctx context.Context, d *distribution.Distribution) {
	s.deliver(ctx, &Notification{
		ID:             primitive.NewObjectID(),
		DepartmentID:   d.DestinationDepartmentID,
		DistributionID: d.ID,
		Number:         d.Number,
		Action:         "reminder",
		Title:          "Distribution awaiting receipt",
		Message:        fmt.Sprintf("Distribution %s was sent but has not been received yet", d.Number),
		ActorID:        "system",
		CreatedAt:      time.Now(),
	})
}

func (s *NotificationServiceImpl) deliver(ctx context.Context, n *Notification) {
	if err := s.Repo.Insert(ctx, n); err != nil {
		s.Logger.Error("failed to store notification",
			zap.String("number", n.Number),
			zap.String("action", n.Action),
			zap.Error(err),
		)
		return
	}
	s.Hub.Broadcast(n)
}

func (s *NotificationServiceImpl) ListByDepartment(ctx context.Context, departmentID primitive.ObjectID, page, limit int64) ([]Notification, int64, error) {
	return s.Repo.ListByDepartment(ctx, departmentID, page, limit)
}

func (s *NotificationServiceImpl) CountUnread(ctx context.Context, departmentID primitive.ObjectID) (int64, error) {
	return s.Repo.CountUnread(ctx, departmentID)
}

func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, id, departmentID primitive.ObjectID) error {
	return s.Repo.MarkAsRead(ctx, id, departmentID)
}

func (s *NotificationServiceImpl) MarkAllAsRead(ctx context.Context, departmentID primitive.ObjectID) error {
	return s.Repo.MarkAllAsRead(ctx, departmentID)
}
