package department

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DepartmentService interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*Department, error)
	// LocationCode resolves a department to its physical location code.
	LocationCode(ctx context.Context, id primitive.ObjectID) (string, error)
	List(ctx context.Context) ([]Department, error)
}

type DepartmentServiceImpl struct {
	Repo DepartmentRepository
}

func NewDepartmentService(repo DepartmentRepository) DepartmentService {
	return &DepartmentServiceImpl{Repo: repo}
}

func (s *DepartmentServiceImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*Department, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DepartmentServiceImpl) LocationCode(ctx context.Context, id primitive.ObjectID) (string, error) {
	dept, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if dept == nil {
		return "", fmt.Errorf("department %s not found", id.Hex())
	}
	return dept.LocationCode, nil
}

func (s *DepartmentServiceImpl) List(ctx context.Context) ([]Department, error) {
	return s.Repo.List(ctx)
}
