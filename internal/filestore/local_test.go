package filestore

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkboard/inkboard/internal/config"
)

type memFile struct {
	*bytes.Reader
}

func (f memFile) Close() error { return nil }

func TestLocalStore_SaveOpenRoundTrip(t *testing.T) {
	store, err := New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": t.TempDir()},
	})
	require.NoError(t, err)

	content := []byte(`{"board_id":"b1"}`)
	err = store.Save(context.Background(), "board-b1-v1.json", memFile{bytes.NewReader(content)}, int64(len(content)))
	require.NoError(t, err)

	file, err := store.Open(context.Background(), "board-b1-v1.json")
	require.NoError(t, err)
	defer file.Close()
	got, err := io.ReadAll(file)
	require.NoError(t, err)
	require.Equal(t, content, got)
}

func TestLocalStore_RejectsPathKeys(t *testing.T) {
	store, err := New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": t.TempDir()},
	})
	require.NoError(t, err)

	err = store.Save(context.Background(), "../escape.json", memFile{bytes.NewReader(nil)}, 0)
	require.Error(t, err)
	_, err = store.Open(context.Background(), "a/b.json")
	require.Error(t, err)
}

func TestLocalStore_URL(t *testing.T) {
	store, err := New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": t.TempDir(), "public_url": "https://cdn.example.com/exports"},
	})
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/exports/k.json", store.URL("k.json", "http://ignored"))

	plain, err := New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": t.TempDir()},
	})
	require.NoError(t, err)
	require.Equal(t, "http://host/api/v1/files/k.json", plain.URL("k.json", "http://host"))
}

func TestNew_UnknownType(t *testing.T) {
	_, err := New(config.FileStoreConfig{Type: "ftp"})
	require.Error(t, err)
	_, err = New(config.FileStoreConfig{})
	require.Error(t, err)
}
