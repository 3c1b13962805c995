package cron_feature

import (
	"context"
	"testing"
	"time"

	"go-docdist/internal/config"
	"go-docdist/internal/features/distribution"
	"go-docdist/internal/features/history"
	"go-docdist/internal/features/notification"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type stubDistRepo struct {
	stale []distribution.Distribution
}

func (s *stubDistRepo) Insert(ctx context.Context, d *distribution.Distribution) error { return nil }
func (s *stubDistRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*distribution.Distribution, error) {
	return nil, nil
}
func (s *stubDistRepo) List(ctx context.Context, filter distribution.ListFilter) ([]distribution.Distribution, int64, error) {
	return nil, 0, nil
}
func (s *stubDistRepo) AdvanceStatus(ctx context.Context, id primitive.ObjectID, from distribution.Status, set bson.M) (bool, error) {
	return false, nil
}
func (s *stubDistRepo) UpdateDraft(ctx context.Context, id primitive.ObjectID, set bson.M) (bool, error) {
	return false, nil
}
func (s *stubDistRepo) SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return false, nil
}
func (s *stubDistRepo) ListStaleSent(ctx context.Context, before time.Time) ([]distribution.Distribution, error) {
	return s.stale, nil
}
func (s *stubDistRepo) EnsureIndexes(ctx context.Context) error { return nil }

type recordingNotifications struct {
	reminded []string
}

func (s *recordingNotifications) DistributionEvent(ctx context.Context, d *distribution.Distribution, action history.Action, actorID string) {
}

func (s *recordingNotifications) StaleDistributionReminder(ctx context.Context, d *distribution.Distribution) {
	s.reminded = append(s.reminded, d.Number)
}

func (s *recordingNotifications) ListByDepartment(ctx context.Context, departmentID primitive.ObjectID, page, limit int64) ([]notification.Notification, int64, error) {
	return nil, 0, nil
}

func (s *recordingNotifications) CountUnread(ctx context.Context, departmentID primitive.ObjectID) (int64, error) {
	return 0, nil
}

func (s *recordingNotifications) MarkAsRead(ctx context.Context, id, departmentID primitive.ObjectID) error {
	return nil
}

func (s *recordingNotifications) MarkAllAsRead(ctx context.Context, departmentID primitive.ObjectID) error {
	return nil
}

func TestRunStaleSentCheckDeliversReminders(t *testing.T) {
	stale := []distribution.Distribution{
		{ID: primitive.NewObjectID(), Number: "26/FIN/INV/0001", Status: distribution.StatusSent},
		{ID: primitive.NewObjectID(), Number: "26/FIN/INV/0002", Status: distribution.StatusSent},
	}
	repo := &stubDistRepo{stale: stale}
	notifications := &recordingNotifications{}
	service := &ReminderServiceImpl{
		Distributions: repo,
		Notifications: notifications,
		Config:        &config.Config{ReminderSchedule: "0 8 * * *", ReminderStaleDays: 3},
		Logger:        zap.NewNop(),
	}

	count, err := service.RunStaleSentCheck(context.Background())
	if err != nil {
		t.Fatalf("RunStaleSentCheck failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 reminders, got %d", count)
	}
	if len(notifications.reminded) != 2 {
		t.Fatalf("Expected 2 delivered reminders, got %d", len(notifications.reminded))
	}
	if notifications.reminded[0] != "26/FIN/INV/0001" {
		t.Errorf("Unexpected reminder order: %v", notifications.reminded)
	}
}

func TestInitializeSchedulerRejectsBadSchedule(t *testing.T) {
	service := &ReminderServiceImpl{
		Distributions: &stubDistRepo{},
		Notifications: &recordingNotifications{},
		Config:        &config.Config{ReminderSchedule: "not a schedule"},
		Logger:        zap.NewNop(),
	}

	if err := service.InitializeScheduler(context.Background()); err == nil {
		t.Fatal("Expected an error for an invalid schedule")
	}
}
