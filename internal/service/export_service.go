package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/inkboard/inkboard/internal/filestore"
	"github.com/inkboard/inkboard/internal/model"
)

// ExportService writes point-in-time board snapshots to the configured file
// store so a board can be archived or imported elsewhere.
type ExportService struct {
	boards *BoardService
	store  filestore.Store
}

func NewExportService(boards *BoardService, store filestore.Store) *ExportService {
	return &ExportService{boards: boards, store: store}
}

type ExportResult struct {
	Key     string `json:"key"`
	URL     string `json:"url"`
	Version int64  `json:"version"`
}

type boardExport struct {
	BoardID    string              `json:"board_id"`
	Title      string              `json:"title"`
	Version    int64               `json:"version"`
	ExportedAt string              `json:"exported_at"`
	Objects    []model.BoardObject `json:"objects"`
}

// Export snapshots the board the caller has access to and stores it as JSON.
func (s *ExportService) Export(ctx context.Context, userID, boardID, baseURL string) (*ExportResult, error) {
	board, err := s.boards.Get(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}
	payload := boardExport{
		BoardID:    board.ID,
		Title:      board.Title,
		Version:    board.Version,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Objects:    board.Objects,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("board-%s-v%d.json", board.ID, board.Version)
	reader := newByteReader(data)
	if err := s.store.Save(ctx, key, reader, int64(len(data))); err != nil {
		return nil, err
	}
	return &ExportResult{
		Key:     key,
		URL:     s.store.URL(key, baseURL),
		Version: board.Version,
	}, nil
}

// Open serves a previously exported artifact; only the local store supports
// this, s3 exports are fetched through their public URL.
func (s *ExportService) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.store.Open(ctx, key)
}

type byteReader struct {
	*bytes.Reader
}

func newByteReader(data []byte) *byteReader {
	return &byteReader{Reader: bytes.NewReader(data)}
}

func (r *byteReader) Close() error {
	return nil
}
