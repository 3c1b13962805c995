package history

import (
	"context"
	"time"

	common_models "go-docdist/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserFinder interface {
	FindByIDs(ctx context.Context, ids []string) ([]common_models.User, error)
}

type HistoryService interface {
	// Record appends one entry. Called by the engine inside the same
	// transaction as the state change the entry describes.
	Record(ctx context.Context, entry Entry) error
	ListByDistribution(ctx context.Context, distributionID primitive.ObjectID) ([]Entry, error)
}

type HistoryServiceImpl struct {
	Repo     HistoryRepository
	UserRepo UserFinder
}

func NewHistoryService(repo HistoryRepository, userRepo UserFinder) HistoryService {
	return &HistoryServiceImpl{
		Repo:     repo,
		UserRepo: userRepo,
	}
}

func (s *HistoryServiceImpl) Record(ctx context.Context, entry Entry) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return s.Repo.Create(ctx, entry)
}

func (s *HistoryServiceImpl) ListByDistribution(ctx context.Context, distributionID primitive.ObjectID) ([]Entry, error) {
	entries, err := s.Repo.ListByDistribution(ctx, distributionID)
	if err != nil {
		return nil, err
	}

	// Collect actor IDs
	actorIDs := make([]string, 0)
	uniqueIDs := make(map[string]bool)
	for _, entry := range entries {
		if entry.ActorID != "" && entry.ActorID != "system" && !uniqueIDs[entry.ActorID] {
			uniqueIDs[entry.ActorID] = true
			actorIDs = append(actorIDs, entry.ActorID)
		}
	}

	// Batch fetch users
	userMap := make(map[string]string)
	if len(actorIDs) > 0 {
		users, err := s.UserRepo.FindByIDs(ctx, actorIDs)
		if err == nil {
			for _, user := range users {
				userMap[user.ID.Hex()] = user.Username
			}
		}
	}

	for i, entry := range entries {
		if entry.ActorID == "" || entry.ActorID == "system" {
			entries[i].ActorName = "System"
		} else if name, ok := userMap[entry.ActorID]; ok {
			entries[i].ActorName = name
		} else {
			entries[i].ActorName = "Unknown User"
		}
	}

	return entries, nil
}
