package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"message-admin/internal/domain"
)

func setupBadgerRepo(t *testing.T) *BadgerMessageRepository {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	repo, err := NewBadgerMessageRepository(db)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = repo.Close()
		_ = db.Close()
	})
	return repo
}

func repositories(t *testing.T) map[string]MessageRepository {
	return map[string]MessageRepository{
		"memory": NewMemoryMessageRepository(),
		"badger": setupBadgerRepo(t),
	}
}

func TestMessageRepository_CreateAndFind(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			ctx := context.Background()

			created, err := repo.Create(ctx, domain.MessageDraft{MessageText: "hello"})
			req.NoError(err)
			req.Positive(created.ID)
			req.False(created.CreatedAt.IsZero())

			found, err := repo.FindUnique(ctx, created.ID)
			req.NoError(err)
			req.Equal("hello", found.MessageText)
			req.Equal(created.ID, found.ID)
			req.True(created.CreatedAt.Equal(found.CreatedAt))
		})
	}
}

func TestMessageRepository_FindManyKeepsInsertionOrder(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			ctx := context.Background()

			empty, err := repo.FindMany(ctx)
			req.NoError(err)
			req.NotNil(empty)
			req.Empty(empty)

			texts := []string{"first", "second", "third", "fourth", "fifth", "sixth", "seventh", "eighth", "ninth", "tenth", "eleventh"}
			for _, text := range texts {
				_, err := repo.Create(ctx, domain.MessageDraft{MessageText: text})
				req.NoError(err)
			}

			all, err := repo.FindMany(ctx)
			req.NoError(err)
			req.Len(all, len(texts))
			for i, m := range all {
				req.Equal(texts[i], m.MessageText)
			}
		})
	}
}

func TestMessageRepository_UpdateAndDelete(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			ctx := context.Background()

			created, err := repo.Create(ctx, domain.MessageDraft{MessageText: "draft"})
			req.NoError(err)

			text := "final"
			updated, err := repo.Update(ctx, created.ID, domain.MessagePatch{MessageText: &text})
			req.NoError(err)
			req.Equal("final", updated.MessageText)
			req.True(created.CreatedAt.Equal(updated.CreatedAt))

			deleted, err := repo.Delete(ctx, created.ID)
			req.NoError(err)
			req.Equal(created.ID, deleted.ID)

			_, err = repo.FindUnique(ctx, created.ID)
			req.True(errors.Is(err, ErrNotFound))
		})
	}
}

func TestMessageRepository_MissingRecords(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			ctx := context.Background()
			text := "x"

			_, err := repo.FindUnique(ctx, 42)
			req.ErrorIs(err, ErrNotFound)
			_, err = repo.Update(ctx, 42, domain.MessagePatch{MessageText: &text})
			req.ErrorIs(err, ErrNotFound)
			_, err = repo.Delete(ctx, 42)
			req.ErrorIs(err, ErrNotFound)
			req.NoError(repo.Ping(ctx))
		})
	}
}

func TestBadgerMessageRepository_IDsSurviveReopen(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	ctx := context.Background()

	db, err := badger.Open(badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	repo, err := NewBadgerMessageRepository(db)
	req.NoError(err)
	first, err := repo.Create(ctx, domain.MessageDraft{MessageText: "before restart"})
	req.NoError(err)
	req.NoError(repo.Close())
	req.NoError(db.Close())

	db, err = badger.Open(badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()
	repo, err = NewBadgerMessageRepository(db)
	req.NoError(err)
	defer repo.Close()

	second, err := repo.Create(ctx, domain.MessageDraft{MessageText: "after restart"})
	req.NoError(err)
	req.Greater(second.ID, first.ID)

	all, err := repo.FindMany(ctx)
	req.NoError(err)
	req.Len(all, 2)
	req.Equal("before restart", all[0].MessageText)
}

func TestTranslatePgError(t *testing.T) {
	r := require.New(t)

	notFound := translatePgError(pgx.ErrNoRows)
	r.ErrorIs(notFound, ErrNotFound)
	r.ErrorIs(notFound, pgx.ErrNoRows)

	wrapped := translatePgError(fmt.Errorf("scan message: %w", pgx.ErrNoRows))
	r.ErrorIs(wrapped, ErrNotFound)

	connErr := errors.New("connection reset by peer")
	r.Same(connErr, translatePgError(connErr))
	r.NotErrorIs(translatePgError(connErr), ErrNotFound)
}
