package kanban_services

import (
	"context"

	"github.com/JulianKoehler/kanban-backend/internal/model/kanban_model"
	"github.com/JulianKoehler/kanban-backend/internal/reconcile"
	"github.com/JulianKoehler/kanban-backend/internal/repository/kanban_repository"
)

type TaskService struct {
	Repo *kanban_repository.TaskRepo
}

func NewTaskService(r *kanban_repository.TaskRepo) *TaskService {
	return &TaskService{Repo: r}
}

func (s *TaskService) CreateTask(ctx context.Context, userID string, data kanban_model.TaskCreate, subtasks []reconcile.Edit[kanban_model.SubtaskEdit]) (*kanban_model.TaskResponse, error) {
	return s.Repo.CreateTask(ctx, userID, data, subtasks)
}

func (s *TaskService) UpdateTask(ctx context.Context, taskID, userID string, data kanban_model.TaskUpdate, subtasks []reconcile.Edit[kanban_model.SubtaskEdit]) (*kanban_model.TaskResponse, error) {
	return s.Repo.UpdateTask(ctx, taskID, userID, data, subtasks)
}

func (s *TaskService) MoveTask(ctx context.Context, taskID, newStageID, userID string) (*kanban_model.TaskResponse, error) {
	return s.Repo.MoveTask(ctx, taskID, newStageID, userID)
}

func (s *TaskService) AssignUser(ctx context.Context, taskID, assigneeID, userID string) (*kanban_model.TaskResponse, error) {
	return s.Repo.AssignUser(ctx, taskID, assigneeID, userID)
}

func (s *TaskService) DeleteTask(ctx context.Context, taskID, userID string) (*kanban_model.TaskDeleteResponse, error) {
	return s.Repo.DeleteTask(ctx, taskID, userID)
}
