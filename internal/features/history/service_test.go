package history

import (
	"context"
	"testing"

	common_models "go-docdist/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockHistoryRepo struct {
	entries []Entry
}

func (m *mockHistoryRepo) Create(ctx context.Context, entry Entry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockHistoryRepo) ListByDistribution(ctx context.Context, distributionID primitive.ObjectID) ([]Entry, error) {
	var out []Entry
	for _, e := range m.entries {
		if e.DistributionID == distributionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockHistoryRepo) EnsureIndexes(ctx context.Context) error { return nil }

type mockUserFinder struct {
	users []common_models.User
}

func (m *mockUserFinder) FindByIDs(ctx context.Context, ids []string) ([]common_models.User, error) {
	return m.users, nil
}

func TestRecordAssignsIDAndTimestamp(t *testing.T) {
	repo := &mockHistoryRepo{}
	service := NewHistoryService(repo, &mockUserFinder{})

	distID := primitive.NewObjectID()
	err := service.Record(context.Background(), Entry{
		DistributionID: distID,
		Action:         ActionCreated,
		ActorID:        primitive.NewObjectID().Hex(),
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("Expected 1 stored entry, got %d", len(repo.entries))
	}
	stored := repo.entries[0]
	if stored.ID.IsZero() {
		t.Errorf("Expected an assigned id")
	}
	if stored.CreatedAt.IsZero() {
		t.Errorf("Expected an assigned timestamp")
	}
}

func TestListPopulatesActorNames(t *testing.T) {
	userID := primitive.NewObjectID()
	repo := &mockHistoryRepo{}
	finder := &mockUserFinder{users: []common_models.User{
		{ID: userID, Username: "alex.finance"},
	}}
	service := NewHistoryService(repo, finder)
	ctx := context.Background()

	distID := primitive.NewObjectID()
	entries := []Entry{
		{DistributionID: distID, Action: ActionCreated, ActorID: userID.Hex()},
		{DistributionID: distID, Action: ActionSent, ActorID: primitive.NewObjectID().Hex()},
		{DistributionID: distID, Action: ActionCompleted, ActorID: "system"},
	}
	for _, e := range entries {
		if err := service.Record(ctx, e); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	listed, err := service.ListByDistribution(ctx, distID)
	if err != nil {
		t.Fatalf("ListByDistribution failed: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(listed))
	}
	if listed[0].ActorName != "alex.finance" {
		t.Errorf("Expected resolved actor name, got %q", listed[0].ActorName)
	}
	if listed[1].ActorName != "Unknown User" {
		t.Errorf("Expected Unknown User for missing actor, got %q", listed[1].ActorName)
	}
	if listed[2].ActorName != "System" {
		t.Errorf("Expected System for system actor, got %q", listed[2].ActorName)
	}
}
