package kanban_services

import (
	"context"

	"github.com/JulianKoehler/kanban-backend/internal/model/kanban_model"
	"github.com/JulianKoehler/kanban-backend/internal/reconcile"
	"github.com/JulianKoehler/kanban-backend/internal/repository/kanban_repository"
)

type BoardService struct {
	Repo *kanban_repository.BoardRepo
}

func NewBoardService(r *kanban_repository.BoardRepo) *BoardService {
	return &BoardService{Repo: r}
}

func (s *BoardService) GetUserBoards(ctx context.Context, userID string) (*kanban_model.BoardListReturn, error) {
	return s.Repo.GetUserBoards(ctx, userID)
}

func (s *BoardService) GetBoardData(ctx context.Context, boardID, userID string) (*kanban_model.BoardDataReturn, error) {
	return s.Repo.GetBoardData(ctx, boardID, userID)
}

func (s *BoardService) CreateBoard(ctx context.Context, title, ownerID string, stages []reconcile.Edit[kanban_model.StageEdit], contributors []kanban_model.ContributorEdit) (*kanban_model.BoardCreateResponse, error) {
	return s.Repo.CreateBoard(ctx, title, ownerID, stages, contributors)
}

func (s *BoardService) UpdateBoard(ctx context.Context, boardID, userID, title, ownerID string, stages []reconcile.Edit[kanban_model.StageEdit], contributors []kanban_model.ContributorEdit) (*kanban_model.BoardDataReturn, error) {
	return s.Repo.UpdateBoard(ctx, boardID, userID, title, ownerID, stages, contributors)
}

func (s *BoardService) ChangeOwner(ctx context.Context, boardID, newOwnerID, userID string) (*kanban_model.BoardDataReturn, error) {
	return s.Repo.ChangeOwner(ctx, boardID, newOwnerID, userID)
}

func (s *BoardService) DeleteBoard(ctx context.Context, boardID, userID string) error {
	return s.Repo.DeleteBoard(ctx, boardID, userID)
}
