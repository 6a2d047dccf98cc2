package service_test

import (
	"context"
	"testing"

	"github.com/baramej/library-system/library/internal/errs"
	"github.com/baramej/library-system/library/internal/model"
	"github.com/stretchr/testify/require"
)

func TestService_CreateBook_PublicationDate(t *testing.T) {
	t.Parallel()

	t.Run("future publication date", func(t *testing.T) {
		t.Parallel()
		repo := defaultFakeRepo()
		svc := newTestService(repo, &fakeSender{})

		_, err := svc.CreateBook(context.Background(), model.CreateBookRequest{
			Name:            "Tomorrow's News",
			AuthorID:        1,
			PublicationDate: model.SomeDate(testToday.AddDays(1)),
		})
		require.ErrorIs(t, err, errs.ErrInvalidDateRange)
	})

	t.Run("published today", func(t *testing.T) {
		t.Parallel()
		repo := defaultFakeRepo()
		svc := newTestService(repo, &fakeSender{})

		book, err := svc.CreateBook(context.Background(), model.CreateBookRequest{
			Name:            "Fresh Off the Press",
			AuthorID:        1,
			PublicationDate: model.SomeDate(testToday),
			AvailableCopies: 1,
		})
		require.NoError(t, err)
		require.Equal(t, model.SomeDate(testToday), book.PublicationDate)
		require.True(t, book.IsAvailable)
	})

	t.Run("no publication date", func(t *testing.T) {
		t.Parallel()
		repo := defaultFakeRepo()
		svc := newTestService(repo, &fakeSender{})

		_, err := svc.CreateBook(context.Background(), model.CreateBookRequest{
			Name:     "Undated Manuscript",
			AuthorID: 1,
		})
		require.NoError(t, err)
	})
}

func TestService_UpdateBook_PublicationDate(t *testing.T) {
	t.Parallel()

	repo := defaultFakeRepo()
	svc := newTestService(repo, &fakeSender{})

	_, err := svc.UpdateBook(context.Background(), repo.book.BookUid, model.CreateBookRequest{
		Name:            "The Pragmatic Programmer",
		AuthorID:        1,
		PublicationDate: model.SomeDate(testToday.AddDays(30)),
	})
	require.ErrorIs(t, err, errs.ErrInvalidDateRange)
}
