package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/didi/gendry/builder"

	"github.com/inkboard/inkboard/internal/model"
)

type VersionRepo struct {
	db *sql.DB
}

func NewVersionRepo(db *sql.DB) *VersionRepo {
	return &VersionRepo{db: db}
}

func (r *VersionRepo) Insert(ctx context.Context, version *model.BoardVersion) error {
	objects, err := encodeObjects(version.Objects)
	if err != nil {
		return err
	}
	data := map[string]interface{}{
		"id":         version.ID,
		"board_id":   version.BoardID,
		"version":    version.Version,
		"objects":    objects,
		"created_by": version.CreatedBy,
		"ctime":      version.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("board_versions", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *VersionRepo) ListByBoard(ctx context.Context, boardID string, limit uint) ([]*model.BoardVersion, error) {
	where := map[string]interface{}{
		"board_id": boardID,
		"_orderby": "ctime desc, version desc",
	}
	if limit > 0 {
		where["_limit"] = []uint{0, limit}
	}
	sqlStr, args, err := builder.BuildSelect("board_versions", where,
		[]string{"id", "board_id", "version", "objects", "created_by", "ctime"})
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var versions []*model.BoardVersion
	for rows.Next() {
		var (
			v       model.BoardVersion
			objects string
		)
		if err := rows.Scan(&v.ID, &v.BoardID, &v.Version, &objects, &v.CreatedBy, &v.Ctime); err != nil {
			return nil, err
		}
		if err := decodeObjects(objects, &v.Objects); err != nil {
			return nil, err
		}
		versions = append(versions, &v)
	}
	return versions, rows.Err()
}

func (r *VersionRepo) DeleteByBoard(ctx context.Context, boardID string) error {
	sqlStr, args, err := builder.BuildDelete("board_versions", map[string]interface{}{"board_id": boardID})
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// Prune keeps the newest maxKeep snapshots per board and deletes the rest.
// The ranked subquery has no gendry equivalent, so this one is raw SQL.
func (r *VersionRepo) Prune(ctx context.Context, maxKeep int) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM board_versions WHERE id IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (
					PARTITION BY board_id ORDER BY ctime DESC, version DESC
				) AS rank
				FROM board_versions
			) WHERE rank > ?
		)`, maxKeep)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func decodeObjects(encoded string, dst *[]model.BoardObject) error {
	if encoded == "" {
		*dst = nil
		return nil
	}
	return json.Unmarshal([]byte(encoded), dst)
}
