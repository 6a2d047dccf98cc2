package service_test

import (
	"context"
	"testing"

	"github.com/baramej/library-system/library/internal/model"
	"github.com/baramej/library-system/library/internal/notify"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestService_RunOverdueSweep(t *testing.T) {
	t.Parallel()

	repo := defaultFakeRepo()
	repo.sweepLoans = []model.Loan{
		{
			ID:         21,
			Reference:  "LN-00021",
			State:      model.LoanStateBorrowed,
			BorrowDate: testToday.AddDays(-20),
			DueDate:    testToday.AddDays(-6),
			FinePerDay: 0.5,
		},
		{
			ID:         22,
			Reference:  "LN-00022",
			State:      model.LoanStateBorrowed,
			BorrowDate: testToday.AddDays(-15),
			DueDate:    testToday.AddDays(-1),
			FinePerDay: 0.5,
		},
	}
	svc := newTestService(repo, &fakeSender{})

	swept, err := svc.RunOverdueSweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, swept)
	require.Equal(t, []int{21, 22}, repo.markedOverdue)
	require.Equal(t, []string{
		"Loan is now overdue by 6 days. Fine: 3.00",
		"Loan is now overdue by 1 days. Fine: 0.50",
	}, repo.notes)

	// second run finds the same rows but the conditional update already
	// happened, so nothing is swept again
	swept, err = svc.RunOverdueSweep(context.Background())
	require.NoError(t, err)
	require.Zero(t, swept)
	require.Len(t, repo.markedOverdue, 2)
	require.Len(t, repo.notes, 2)
}

func TestService_RunDueReminders(t *testing.T) {
	t.Parallel()

	dueSoon := []model.Loan{
		{
			ID:         31,
			Reference:  "LN-00031",
			MemberName: "Ada Lovelace",
			Email:      "ada@example.com",
			BookName:   "The Pragmatic Programmer",
			State:      model.LoanStateBorrowed,
			BorrowDate: testToday.AddDays(-12),
			DueDate:    testToday.AddDays(2),
			FinePerDay: 0.5,
		},
	}

	t.Run("sends and flags once", func(t *testing.T) {
		t.Parallel()
		repo := defaultFakeRepo()
		repo.dueSoonLoans = dueSoon
		sender := &fakeSender{}
		svc := newTestService(repo, sender)

		sent, err := svc.RunDueReminders(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, sent)
		require.Equal(t, []int{31}, repo.dueFlagsSet)
		require.Len(t, sender.sent, 1)
		require.Equal(t, notify.KindDueSoon, sender.sent[0].Kind)
		require.Equal(t, "ada@example.com", sender.sent[0].Email)
	})

	t.Run("send failure leaves the flag unset", func(t *testing.T) {
		t.Parallel()
		repo := defaultFakeRepo()
		repo.dueSoonLoans = dueSoon
		sender := &fakeSender{err: errors.New("broker down")}
		svc := newTestService(repo, sender)

		sent, err := svc.RunDueReminders(context.Background())
		require.NoError(t, err)
		require.Zero(t, sent)
		require.Empty(t, repo.dueFlagsSet)
	})
}

func TestService_RunOverdueReminders(t *testing.T) {
	t.Parallel()

	repo := defaultFakeRepo()
	repo.overdueLoans = []model.Loan{
		{
			ID:         41,
			Reference:  "LN-00041",
			MemberName: "Ada Lovelace",
			Email:      "ada@example.com",
			BookName:   "The Pragmatic Programmer",
			State:      model.LoanStateOverdue,
			BorrowDate: testToday.AddDays(-20),
			DueDate:    testToday.AddDays(-6),
			FinePerDay: 0.5,
		},
	}
	sender := &fakeSender{}
	svc := newTestService(repo, sender)

	sent, err := svc.RunOverdueReminders(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, sent)
	require.Equal(t, []int{41}, repo.overdueFlagsSet)
	require.Len(t, sender.sent, 1)
	require.Equal(t, notify.KindOverdue, sender.sent[0].Kind)
	require.Equal(t, 6, sender.sent[0].OverdueDays)
	require.InDelta(t, 3.0, sender.sent[0].FineAmount, 1e-9)
}

func TestService_DeliverNotification(t *testing.T) {
	t.Parallel()

	repo := defaultFakeRepo()
	svc := newTestService(repo, &fakeSender{})

	err := svc.DeliverNotification(context.Background(), notify.Message{
		Kind:        notify.KindOverdue,
		LoanID:      41,
		MemberName:  "Ada Lovelace",
		Email:       "ada@example.com",
		BookName:    "The Pragmatic Programmer",
		OverdueDays: 6,
		FineAmount:  3.0,
	})
	require.NoError(t, err)
	require.Equal(t, []string{
		`overdue: Dear Ada Lovelace, the book "The Pragmatic Programmer" is overdue by 6 days. Accrued fine: 3.00.`,
	}, repo.notificationRows)
}
