package kanban_services

import (
	"context"

	"github.com/JulianKoehler/kanban-backend/internal/model/kanban_model"
	"github.com/JulianKoehler/kanban-backend/internal/repository/kanban_repository"
)

type StageService struct {
	Repo *kanban_repository.StageRepo
}

func NewStageService(r *kanban_repository.StageRepo) *StageService {
	return &StageService{Repo: r}
}

func (s *StageService) CreateStage(ctx context.Context, userID string, data kanban_model.StageCreate) (*kanban_model.StageResponse, error) {
	return s.Repo.CreateStage(ctx, userID, data)
}
