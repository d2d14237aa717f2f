package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appErr "github.com/inkboard/inkboard/internal/pkg/errors"
	"github.com/inkboard/inkboard/internal/repo"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := repo.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repo.ApplyMigrations(db))
	return db
}

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(repo.NewUserRepo(newTestDB(t)), []byte("test-secret"), time.Hour)
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "a@b.c", "Alice", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.NotEmpty(t, token)
	require.NotEqual(t, "hunter22", user.PasswordHash)

	loggedIn, token, err := svc.Login(ctx, "a@b.c", "hunter22")
	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)
	require.NotEmpty(t, token)

	me, err := svc.Me(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "Alice", me.Name)
}

func TestAuth_LoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "a@b.c", "Alice", "hunter22")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "a@b.c", "wrong")
	require.ErrorIs(t, err, appErr.ErrUnauthorized)

	_, _, err = svc.Login(ctx, "nobody@b.c", "hunter22")
	require.ErrorIs(t, err, appErr.ErrUnauthorized)
}

func TestAuth_RegisterValidatesAndConflicts(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "", "Alice", "pw")
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, _, err = svc.Register(ctx, "a@b.c", "Alice", "pw")
	require.NoError(t, err)
	_, _, err = svc.Register(ctx, "a@b.c", "Again", "pw")
	require.ErrorIs(t, err, appErr.ErrConflict)
}
