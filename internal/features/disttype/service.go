package disttype

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TypeService interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*DistributionType, error)
	Code(ctx context.Context, id primitive.ObjectID) (string, error)
	List(ctx context.Context) ([]DistributionType, error)
}

type TypeServiceImpl struct {
	Repo TypeRepository
}

func NewTypeService(repo TypeRepository) TypeService {
	return &TypeServiceImpl{Repo: repo}
}

func (s *TypeServiceImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*DistributionType, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *TypeServiceImpl) Code(ctx context.Context, id primitive.ObjectID) (string, error) {
	dt, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if dt == nil {
		return "", fmt.Errorf("distribution type %s not found", id.Hex())
	}
	return dt.Code, nil
}

func (s *TypeServiceImpl) List(ctx context.Context) ([]DistributionType, error) {
	return s.Repo.List(ctx)
}
