package service_test

import (
	"context"
	"testing"

	"github.com/baramej/library-system/library/internal/errs"
	"github.com/baramej/library-system/library/internal/model"
	"github.com/stretchr/testify/require"
)

func TestService_ProcessScan(t *testing.T) {
	t.Parallel()

	t.Run("auto with no active loan borrows", func(t *testing.T) {
		t.Parallel()
		repo := defaultFakeRepo()
		svc := newTestService(repo, &fakeSender{})

		result, err := svc.ProcessScan(context.Background(), model.ScanRequest{
			MemberBarcode: "M123",
			BookBarcode:   "B456",
			Operation:     model.ScanAuto,
		})
		require.NoError(t, err)
		require.Equal(t, model.ScanBorrow, result.Operation)
		require.Equal(t, "LN-00001", result.Loan.Reference)
		require.Contains(t, result.Message, "Book borrowed successfully!")
		require.Contains(t, result.Message, "Ada Lovelace (MBR-0007)")
		require.Equal(t, []int{-1}, repo.adjustments)
	})

	t.Run("auto with active loan returns", func(t *testing.T) {
		t.Parallel()
		repo := defaultFakeRepo()
		repo.activePair = &model.Loan{
			ID:         11,
			Reference:  "LN-00011",
			State:      model.LoanStateBorrowed,
			BorrowDate: testToday.AddDays(-20),
			DueDate:    testToday.AddDays(-6),
			FinePerDay: 0.5,
			BookName:   "The Pragmatic Programmer",
		}
		repo.loanForUpdate = *repo.activePair
		svc := newTestService(repo, &fakeSender{})

		result, err := svc.ProcessScan(context.Background(), model.ScanRequest{
			MemberBarcode: "M123",
			BookBarcode:   "B456",
		})
		require.NoError(t, err)
		require.Equal(t, model.ScanReturn, result.Operation)
		require.Equal(t, model.LoanStateReturned, result.Loan.State)
		require.Contains(t, result.Message, "Book returned successfully!")
		require.Contains(t, result.Message, "OVERDUE: 6 days")
		require.Contains(t, result.Message, "Fine: $3.00")
		require.Equal(t, []int{1}, repo.adjustments)
	})

	t.Run("explicit return without active loan", func(t *testing.T) {
		t.Parallel()
		repo := defaultFakeRepo()
		svc := newTestService(repo, &fakeSender{})

		_, err := svc.ProcessScan(context.Background(), model.ScanRequest{
			MemberBarcode: "M123",
			BookBarcode:   "B456",
			Operation:     model.ScanReturn,
		})
		require.ErrorIs(t, err, errs.ErrNotFound)
		require.Contains(t, err.Error(), `no active loan found for member "Ada Lovelace" and book "The Pragmatic Programmer"`)
	})

	t.Run("unknown member barcode", func(t *testing.T) {
		t.Parallel()
		repo := defaultFakeRepo()
		svc := newTestService(repo, &fakeSender{})

		_, err := svc.ProcessScan(context.Background(), model.ScanRequest{
			MemberBarcode: "NOPE",
			BookBarcode:   "B456",
		})
		require.ErrorIs(t, err, errs.ErrNotFound)
		require.Contains(t, err.Error(), "no member found with barcode: NOPE")
	})

	t.Run("unknown book barcode", func(t *testing.T) {
		t.Parallel()
		repo := defaultFakeRepo()
		svc := newTestService(repo, &fakeSender{})

		_, err := svc.ProcessScan(context.Background(), model.ScanRequest{
			MemberBarcode: "M123",
			BookBarcode:   "NOPE",
		})
		require.ErrorIs(t, err, errs.ErrNotFound)
		require.Contains(t, err.Error(), "no book found with barcode: NOPE")
	})
}
