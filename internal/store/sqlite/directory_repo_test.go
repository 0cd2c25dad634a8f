package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zanonyme_go/internal/domain"
	"zanonyme_go/internal/store/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.Migrate(db))
	return db
}

func seedAccount(t *testing.T, db *sql.DB, id string) *domain.Account {
	t.Helper()
	a := &domain.Account{
		ID:          id,
		Email:       id + "@example.com",
		DisplayName: "User " + id,
		Role:        domain.RoleUser,
		Status:      domain.AccountActive,
		CreatedAt:   time.Now().UTC(),
		LastLoginAt: time.Now().UTC(),
	}
	require.NoError(t, sqlite.NewAccountRepo(db).Create(context.Background(), a))
	return a
}

func TestDirectoryClaim(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := sqlite.NewDirectoryRepo(db)
	accounts := sqlite.NewAccountRepo(db)

	seedAccount(t, db, "uid-1")
	seedAccount(t, db, "uid-2")

	t.Run("FirstClaim", func(t *testing.T) {
		err := repo.Claim(ctx, &domain.UsernameEntry{Username: "john-doe", OwnerID: "uid-1", DisplayName: "John"}, "")
		require.NoError(t, err)

		entry, err := repo.Get(ctx, "john-doe")
		require.NoError(t, err)
		assert.Equal(t, "uid-1", entry.OwnerID)

		// the account row mirrors the claim
		a, err := accounts.GetByID(ctx, "uid-1")
		require.NoError(t, err)
		assert.Equal(t, "john-doe", a.Username)
	})

	t.Run("TakenByOther", func(t *testing.T) {
		err := repo.Claim(ctx, &domain.UsernameEntry{Username: "john-doe", OwnerID: "uid-2"}, "")
		assert.ErrorIs(t, err, domain.ErrUsernameTaken)

		// loser's account is untouched
		a, err := accounts.GetByID(ctx, "uid-2")
		require.NoError(t, err)
		assert.Empty(t, a.Username)
	})

	t.Run("ReclaimByOwnerRefreshesFields", func(t *testing.T) {
		err := repo.Claim(ctx, &domain.UsernameEntry{Username: "john-doe", OwnerID: "uid-1", DisplayName: "Johnny"}, "john-doe")
		require.NoError(t, err)

		entry, err := repo.Get(ctx, "john-doe")
		require.NoError(t, err)
		assert.Equal(t, "Johnny", entry.DisplayName)
	})

	t.Run("MoveReleasesOld", func(t *testing.T) {
		err := repo.Claim(ctx, &domain.UsernameEntry{Username: "johnny", OwnerID: "uid-1"}, "john-doe")
		require.NoError(t, err)

		old, err := repo.Get(ctx, "john-doe")
		require.NoError(t, err)
		assert.Nil(t, old)

		// the released slot is free for someone else
		err = repo.Claim(ctx, &domain.UsernameEntry{Username: "john-doe", OwnerID: "uid-2"}, "")
		require.NoError(t, err)
	})

	t.Run("GetMissing", func(t *testing.T) {
		entry, err := repo.Get(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, entry)
	})
}

func TestMessageRateWindow(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	messages := sqlite.NewMessageRepo(db)

	seedAccount(t, db, "uid-1")

	now := time.Now().UTC()
	insert := func(id string, fingerprint string, createdAt time.Time) {
		require.NoError(t, messages.Create(ctx, &domain.Message{
			ID:          id,
			RecipientID: "uid-1",
			Content:     "hello",
			Status:      domain.MessageNew,
			CreatedAt:   createdAt,
			Fingerprint: fingerprint,
			LinkName:    "Work",
		}))
	}

	insert("m1", "fp-1", now.Add(-10*time.Minute))
	insert("m2", "fp-1", now.Add(-30*time.Minute))
	insert("m3", "fp-1", now.Add(-2*time.Hour))
	insert("m4", "fp-2", now.Add(-5*time.Minute))

	n, err := messages.CountRecent(ctx, "uid-1", "fp-1", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = messages.CountRecent(ctx, "uid-1", "fp-2", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = messages.CountRecent(ctx, "uid-other", "fp-1", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestBulkOpsScopedToRecipient(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	messages := sqlite.NewMessageRepo(db)

	seedAccount(t, db, "uid-1")
	seedAccount(t, db, "uid-2")

	mk := func(id, recipient string) {
		require.NoError(t, messages.Create(ctx, &domain.Message{
			ID:          id,
			RecipientID: recipient,
			Content:     "hello",
			Status:      domain.MessageNew,
			CreatedAt:   time.Now().UTC(),
			LinkName:    "Work",
		}))
	}
	mk("a", "uid-1")
	mk("b", "uid-1")
	mk("c", "uid-2")

	// ids belonging to someone else are silently skipped
	require.NoError(t, messages.BulkUpdateStatus(ctx, "uid-1", []string{"a", "b", "c"}, domain.MessageArchived))

	got, err := messages.GetByID(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, domain.MessageNew, got.Status)

	got, err = messages.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.MessageArchived, got.Status)

	require.NoError(t, messages.BulkDelete(ctx, "uid-1", []string{"a", "b", "c"}))
	got, err = messages.GetByID(ctx, "c")
	require.NoError(t, err)
	require.NotNil(t, got)

	got, err = messages.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got)
}
