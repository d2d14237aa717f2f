package service

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/inkboard/inkboard/internal/model"
	appErr "github.com/inkboard/inkboard/internal/pkg/errors"
	"github.com/inkboard/inkboard/internal/repo"
)

type BoardService struct {
	boards   *repo.BoardRepo
	versions *repo.VersionRepo
	maxKeep  int
}

func NewBoardService(boards *repo.BoardRepo, versions *repo.VersionRepo, maxKeep int) *BoardService {
	return &BoardService{boards: boards, versions: versions, maxKeep: maxKeep}
}

type BoardCreateInput struct {
	Title       string
	Description string
}

func (s *BoardService) Create(ctx context.Context, ownerID string, input BoardCreateInput) (*model.Board, error) {
	if input.Title == "" {
		return nil, appErr.ErrInvalid
	}
	now := nowUnix()
	board := &model.Board{
		ID:            newShareToken(),
		Title:         input.Title,
		Description:   input.Description,
		OwnerID:       ownerID,
		ShareToken:    newShareToken(),
		Objects:       []model.BoardObject{},
		Version:       0,
		Collaborators: []string{},
		Ctime:         now,
		Mtime:         now,
	}
	if err := s.boards.Create(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

func (s *BoardService) List(ctx context.Context, userID string) ([]*model.Board, error) {
	return s.boards.ListForUser(ctx, userID)
}

// Get loads a board the caller owns or collaborates on. The snapshot it
// returns seeds the client's document model and history.
func (s *BoardService) Get(ctx context.Context, userID, boardID string) (*model.Board, error) {
	board, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !board.HasAccess(userID) {
		return nil, appErr.ErrForbidden
	}
	return board, nil
}

// GetByShareToken resolves a share link and enrolls the caller as a
// collaborator on first visit.
func (s *BoardService) GetByShareToken(ctx context.Context, userID, token string) (*model.Board, error) {
	board, err := s.boards.GetByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !board.HasAccess(userID) {
		if err := s.boards.AddCollaborator(ctx, board.ID, userID, nowUnix()); err != nil {
			return nil, err
		}
		board.Collaborators = append(board.Collaborators, userID)
	}
	return board, nil
}

type BoardUpdateInput struct {
	Title       string
	Description string
}

func (s *BoardService) Update(ctx context.Context, userID, boardID string, input BoardUpdateInput) (*model.Board, error) {
	board, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board.OwnerID != userID {
		return nil, appErr.ErrForbidden
	}
	if err := s.boards.UpdateMeta(ctx, boardID, input.Title, input.Description, nowUnix()); err != nil {
		return nil, err
	}
	return s.boards.GetByID(ctx, boardID)
}

func (s *BoardService) Delete(ctx context.Context, userID, boardID string) error {
	board, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return err
	}
	if board.OwnerID != userID {
		return appErr.ErrForbidden
	}
	if err := s.boards.Delete(ctx, boardID); err != nil {
		return err
	}
	return s.versions.DeleteByBoard(ctx, boardID)
}

// SaveSnapshot persists a document snapshot flowing through the relay and
// records it in the version table. The hub calls this on every board_update;
// a failure here never blocks the fan-out.
func (s *BoardService) SaveSnapshot(ctx context.Context, boardID string, objects []model.BoardObject, version int64) error {
	if err := s.boards.UpdateObjects(ctx, boardID, objects, version, nowUnix()); err != nil {
		return err
	}
	record := &model.BoardVersion{
		ID:      newID(),
		BoardID: boardID,
		Version: version,
		Objects: objects,
		Ctime:   nowUnix(),
	}
	if err := s.versions.Insert(ctx, record); err != nil {
		// The current state is already saved; losing one history row is
		// tolerable.
		logutil.GetLogger(ctx).Warn("record board version failed",
			zap.String("board_id", boardID), zap.Error(err))
	}
	return nil
}

func (s *BoardService) ListVersions(ctx context.Context, userID, boardID string, limit uint) ([]*model.BoardVersion, error) {
	if _, err := s.Get(ctx, userID, boardID); err != nil {
		return nil, err
	}
	return s.versions.ListByBoard(ctx, boardID, limit)
}

// PruneVersions enforces the per-board retention cap; the cron job calls it.
func (s *BoardService) PruneVersions(ctx context.Context) (int64, error) {
	return s.versions.Prune(ctx, s.maxKeep)
}
