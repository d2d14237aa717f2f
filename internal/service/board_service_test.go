package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkboard/inkboard/internal/model"
	appErr "github.com/inkboard/inkboard/internal/pkg/errors"
	"github.com/inkboard/inkboard/internal/repo"
)

func newBoardService(t *testing.T) *BoardService {
	t.Helper()
	db := newTestDB(t)
	return NewBoardService(repo.NewBoardRepo(db), repo.NewVersionRepo(db), 3)
}

func TestBoards_CreateAndAccess(t *testing.T) {
	svc := newBoardService(t)
	ctx := context.Background()

	board, err := svc.Create(ctx, "u1", BoardCreateInput{Title: "plan"})
	require.NoError(t, err)
	require.NotEmpty(t, board.ID)
	require.NotEmpty(t, board.ShareToken)
	require.Equal(t, int64(0), board.Version)

	got, err := svc.Get(ctx, "u1", board.ID)
	require.NoError(t, err)
	require.Equal(t, "plan", got.Title)

	_, err = svc.Get(ctx, "stranger", board.ID)
	require.ErrorIs(t, err, appErr.ErrForbidden)

	_, err = svc.Create(ctx, "u1", BoardCreateInput{})
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestBoards_ShareTokenEnrollsCollaborator(t *testing.T) {
	svc := newBoardService(t)
	ctx := context.Background()

	board, err := svc.Create(ctx, "u1", BoardCreateInput{Title: "plan"})
	require.NoError(t, err)

	joined, err := svc.GetByShareToken(ctx, "u2", board.ShareToken)
	require.NoError(t, err)
	require.Contains(t, joined.Collaborators, "u2")

	// Once enrolled, direct access works.
	_, err = svc.Get(ctx, "u2", board.ID)
	require.NoError(t, err)

	listed, err := svc.List(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestBoards_UpdateAndDeleteOwnerOnly(t *testing.T) {
	svc := newBoardService(t)
	ctx := context.Background()

	board, err := svc.Create(ctx, "u1", BoardCreateInput{Title: "plan"})
	require.NoError(t, err)
	_, err = svc.GetByShareToken(ctx, "u2", board.ShareToken)
	require.NoError(t, err)

	_, err = svc.Update(ctx, "u2", board.ID, BoardUpdateInput{Title: "hijacked"})
	require.ErrorIs(t, err, appErr.ErrForbidden)
	require.ErrorIs(t, svc.Delete(ctx, "u2", board.ID), appErr.ErrForbidden)

	updated, err := svc.Update(ctx, "u1", board.ID, BoardUpdateInput{Title: "renamed"})
	require.NoError(t, err)
	require.Equal(t, "renamed", updated.Title)

	require.NoError(t, svc.Delete(ctx, "u1", board.ID))
	_, err = svc.Get(ctx, "u1", board.ID)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestBoards_SnapshotAndRetention(t *testing.T) {
	svc := newBoardService(t)
	ctx := context.Background()

	board, err := svc.Create(ctx, "u1", BoardCreateInput{Title: "plan"})
	require.NoError(t, err)

	for v := int64(1); v <= 5; v++ {
		objects := []model.BoardObject{{
			ID:   "o1",
			Kind: model.KindRectangle,
			Data: &model.RectangleData{Width: float64(v)},
		}}
		require.NoError(t, svc.SaveSnapshot(ctx, board.ID, objects, v))
	}

	got, err := svc.Get(ctx, "u1", board.ID)
	require.NoError(t, err)
	require.Equal(t, int64(5), got.Version)

	versions, err := svc.ListVersions(ctx, "u1", board.ID, 0)
	require.NoError(t, err)
	require.Len(t, versions, 5)

	_, err = svc.ListVersions(ctx, "stranger", board.ID, 0)
	require.ErrorIs(t, err, appErr.ErrForbidden)

	pruned, err := svc.PruneVersions(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), pruned)

	versions, err = svc.ListVersions(ctx, "u1", board.ID, 0)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	require.Equal(t, int64(5), versions[0].Version)
}
