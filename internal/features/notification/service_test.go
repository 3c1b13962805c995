package notification

import (
	"context"
	"testing"

	"go-docdist/internal/features/distribution"
	"go-docdist/internal/features/history"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type mockNotificationRepo struct {
	inserted []Notification
}

func (m *mockNotificationRepo) Insert(ctx context.Context, n *Notification) error {
	m.inserted = append(m.inserted, *n)
	return nil
}

func (m *mockNotificationRepo) ListByDepartment(ctx context.Context, departmentID primitive.ObjectID, page, limit int64) ([]Notification, int64, error) {
	return nil, 0, nil
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, departmentID primitive.ObjectID) (int64, error) {
	return 0, nil
}

func (m *mockNotificationRepo) MarkAsRead(ctx context.Context, id, departmentID primitive.ObjectID) error {
	return nil
}

func (m *mockNotificationRepo) MarkAllAsRead(ctx context.Context, departmentID primitive.ObjectID) error {
	return nil
}

func TestDistributionEventRoutesToCounterparty(t *testing.T) {
	repo := &mockNotificationRepo{}
	service := NewNotificationService(repo, NewHub(zap.NewNop()), zap.NewNop())

	origin := primitive.NewObjectID()
	dest := primitive.NewObjectID()
	dist := &distribution.Distribution{
		ID:                      primitive.NewObjectID(),
		Number:                  "26/FIN/INV/0001",
		OriginDepartmentID:      origin,
		DestinationDepartmentID: dest,
	}
	ctx := context.Background()
	actor := primitive.NewObjectID().Hex()

	cases := []struct {
		action history.Action
		want   primitive.ObjectID
	}{
		{history.ActionCreated, dest},
		{history.ActionVerifiedBySender, dest},
		{history.ActionSent, dest},
		{history.ActionReceived, origin},
		{history.ActionVerifiedByReceiver, origin},
		{history.ActionCompleted, origin},
	}
	for _, tc := range cases {
		service.DistributionEvent(ctx, dist, tc.action, actor)
	}

	if len(repo.inserted) != len(cases) {
		t.Fatalf("Expected %d notifications, got %d", len(cases), len(repo.inserted))
	}
	for i, tc := range cases {
		got := repo.inserted[i]
		if got.DepartmentID != tc.want {
			t.Errorf("Action %s: expected department %s, got %s", tc.action, tc.want.Hex(), got.DepartmentID.Hex())
		}
		if got.Number != dist.Number || got.Action != string(tc.action) {
			t.Errorf("Action %s: unexpected payload %+v", tc.action, got)
		}
	}
}

func TestStaleReminderTargetsDestination(t *testing.T) {
	repo := &mockNotificationRepo{}
	service := NewNotificationService(repo, NewHub(zap.NewNop()), zap.NewNop())

	dest := primitive.NewObjectID()
	dist := &distribution.Distribution{
		ID:                      primitive.NewObjectID(),
		Number:                  "26/FIN/INV/0007",
		OriginDepartmentID:      primitive.NewObjectID(),
		DestinationDepartmentID: dest,
	}

	service.StaleDistributionReminder(context.Background(), dist)

	if len(repo.inserted) != 1 {
		t.Fatalf("Expected 1 reminder, got %d", len(repo.inserted))
	}
	got := repo.inserted[0]
	if got.DepartmentID != dest {
		t.Errorf("Reminder must target the destination, got %s", got.DepartmentID.Hex())
	}
	if got.Action != "reminder" || got.ActorID != "system" {
		t.Errorf("Unexpected reminder payload: %+v", got)
	}
}
