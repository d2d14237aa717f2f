package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/didi/gendry/builder"

	"github.com/inkboard/inkboard/internal/model"
	appErr "github.com/inkboard/inkboard/internal/pkg/errors"
)

var boardFields = []string{"id", "title", "description", "owner_id", "share_token", "objects", "version", "collaborators", "ctime", "mtime"}

type BoardRepo struct {
	db *sql.DB
}

func NewBoardRepo(db *sql.DB) *BoardRepo {
	return &BoardRepo{db: db}
}

func (r *BoardRepo) Create(ctx context.Context, board *model.Board) error {
	objects, err := encodeObjects(board.Objects)
	if err != nil {
		return err
	}
	collaborators, err := json.Marshal(board.Collaborators)
	if err != nil {
		return err
	}
	data := map[string]interface{}{
		"id":            board.ID,
		"title":         board.Title,
		"description":   board.Description,
		"owner_id":      board.OwnerID,
		"share_token":   board.ShareToken,
		"objects":       objects,
		"version":       board.Version,
		"collaborators": string(collaborators),
		"ctime":         board.Ctime,
		"mtime":         board.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("boards", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *BoardRepo) GetByID(ctx context.Context, id string) (*model.Board, error) {
	return r.getOne(ctx, map[string]interface{}{"id": id})
}

func (r *BoardRepo) GetByShareToken(ctx context.Context, token string) (*model.Board, error) {
	return r.getOne(ctx, map[string]interface{}{"share_token": token})
}

// ListForUser returns boards the user owns or collaborates on, most recently
// modified first. Collaborators are stored as a JSON array of user ids, so
// membership is matched on the quoted id.
func (r *BoardRepo) ListForUser(ctx context.Context, userID string) ([]*model.Board, error) {
	where := map[string]interface{}{
		"_or": []map[string]interface{}{
			{"owner_id": userID},
			{"collaborators like": fmt.Sprintf("%%%q%%", userID)},
		},
		"_orderby": "mtime desc",
	}
	sqlStr, args, err := builder.BuildSelect("boards", where, boardFields)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var boards []*model.Board
	for rows.Next() {
		board, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		boards = append(boards, board)
	}
	return boards, rows.Err()
}

func (r *BoardRepo) UpdateMeta(ctx context.Context, boardID, title, description string, mtime int64) error {
	update := map[string]interface{}{"mtime": mtime}
	if title != "" {
		update["title"] = title
	}
	if description != "" {
		update["description"] = description
	}
	return r.update(ctx, boardID, update)
}

// UpdateObjects persists a document snapshot as the board's current state.
func (r *BoardRepo) UpdateObjects(ctx context.Context, boardID string, objects []model.BoardObject, version int64, mtime int64) error {
	encoded, err := encodeObjects(objects)
	if err != nil {
		return err
	}
	return r.update(ctx, boardID, map[string]interface{}{
		"objects": encoded,
		"version": version,
		"mtime":   mtime,
	})
}

func (r *BoardRepo) AddCollaborator(ctx context.Context, boardID, userID string, mtime int64) error {
	board, err := r.GetByID(ctx, boardID)
	if err != nil {
		return err
	}
	for _, id := range board.Collaborators {
		if id == userID {
			return nil
		}
	}
	collaborators, err := json.Marshal(append(board.Collaborators, userID))
	if err != nil {
		return err
	}
	return r.update(ctx, boardID, map[string]interface{}{
		"collaborators": string(collaborators),
		"mtime":         mtime,
	})
}

func (r *BoardRepo) Delete(ctx context.Context, boardID string) error {
	sqlStr, args, err := builder.BuildDelete("boards", map[string]interface{}{"id": boardID})
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *BoardRepo) update(ctx context.Context, boardID string, update map[string]interface{}) error {
	sqlStr, args, err := builder.BuildUpdate("boards", map[string]interface{}{"id": boardID}, update)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *BoardRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.Board, error) {
	sqlStr, args, err := builder.BuildSelect("boards", where, boardFields)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	return scanBoard(rows)
}

func scanBoard(rows *sql.Rows) (*model.Board, error) {
	var (
		board         model.Board
		objects       string
		collaborators string
	)
	if err := rows.Scan(&board.ID, &board.Title, &board.Description, &board.OwnerID, &board.ShareToken,
		&objects, &board.Version, &collaborators, &board.Ctime, &board.Mtime); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(objects), &board.Objects); err != nil {
		return nil, fmt.Errorf("decode board objects: %w", err)
	}
	if err := json.Unmarshal([]byte(collaborators), &board.Collaborators); err != nil {
		return nil, fmt.Errorf("decode collaborators: %w", err)
	}
	return &board, nil
}

func encodeObjects(objects []model.BoardObject) (string, error) {
	if objects == nil {
		objects = []model.BoardObject{}
	}
	encoded, err := json.Marshal(objects)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}
