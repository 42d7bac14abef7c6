package kanban_services

import (
	"context"

	"github.com/JulianKoehler/kanban-backend/internal/model/kanban_model"
	"github.com/JulianKoehler/kanban-backend/internal/repository/kanban_repository"
)

type SubtaskService struct {
	Repo *kanban_repository.SubtaskRepo
}

func NewSubtaskService(r *kanban_repository.SubtaskRepo) *SubtaskService {
	return &SubtaskService{Repo: r}
}

func (s *SubtaskService) ToggleComplete(ctx context.Context, subtaskID, userID string) (*kanban_model.SubtaskResponse, error) {
	return s.Repo.ToggleComplete(ctx, subtaskID, userID)
}
