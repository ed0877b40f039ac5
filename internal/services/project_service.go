package services

import (
	"context"

	apperrors "github.com/fbedussi/ganpro/internal/errors"
	model "github.com/fbedussi/ganpro/internal/models"
	repository "github.com/fbedussi/ganpro/internal/repositories"
)

type ProjectService struct {
	projects *repository.ProjectRepository
}

func NewProjectService(projects *repository.ProjectRepository) *ProjectService {
	return &ProjectService{projects: projects}
}

func (s *ProjectService) CreateProject(ctx context.Context, name string) (*model.Project, error) {
	if name == "" {
		return nil, &apperrors.Validation{Fields: map[string]string{"name": "Name is required"}}
	}

	project := model.Project{Name: name}
	if err := s.projects.Create(ctx, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id uint) (*model.Project, error) {
	return s.projects.FindByID(ctx, id)
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]model.Project, error) {
	return s.projects.List(ctx)
}
