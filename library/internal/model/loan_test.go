package model_test

import (
	"testing"
	"time"

	"github.com/baramej/library-system/library/internal/model"
	"github.com/stretchr/testify/require"
)

func TestLoan_ComputeDerived(t *testing.T) {
	t.Parallel()

	borrow := model.NewDate(2026, time.January, 1)
	due := borrow.AddDays(14)

	var tests = []struct {
		name        string
		loan        model.Loan
		today       model.Date
		duration    int
		overdueDays int
		fine        float64
	}{
		{
			name: "borrowed before due date",
			loan: model.Loan{
				BorrowDate: borrow,
				DueDate:    due,
				State:      model.LoanStateBorrowed,
				FinePerDay: 0.5,
			},
			today:       borrow.AddDays(10),
			duration:    10,
			overdueDays: 0,
			fine:        0,
		},
		{
			name: "six days past due",
			loan: model.Loan{
				BorrowDate: borrow,
				DueDate:    due,
				State:      model.LoanStateBorrowed,
				FinePerDay: 0.5,
			},
			today:       borrow.AddDays(20),
			duration:    20,
			overdueDays: 6,
			fine:        3.0,
		},
		{
			name: "fine frozen at return date",
			loan: model.Loan{
				BorrowDate: borrow,
				DueDate:    due,
				ReturnDate: model.SomeDate(borrow.AddDays(20)),
				State:      model.LoanStateOverdue,
				FinePerDay: 0.5,
			},
			today:       borrow.AddDays(40),
			duration:    20,
			overdueDays: 6,
			fine:        3.0,
		},
		{
			name: "returned loan keeps the frozen fine",
			loan: model.Loan{
				BorrowDate: borrow,
				DueDate:    due,
				ReturnDate: model.SomeDate(borrow.AddDays(20)),
				State:      model.LoanStateReturned,
				FinePerDay: 0.5,
			},
			today:       borrow.AddDays(40),
			duration:    20,
			overdueDays: 6,
			fine:        3.0,
		},
		{
			name: "returned in time accrues nothing",
			loan: model.Loan{
				BorrowDate: borrow,
				DueDate:    due,
				ReturnDate: model.SomeDate(borrow.AddDays(10)),
				State:      model.LoanStateReturned,
				FinePerDay: 0.5,
			},
			today:       borrow.AddDays(40),
			duration:    10,
			overdueDays: 0,
			fine:        0,
		},
		{
			name: "cancelled loan accrues nothing",
			loan: model.Loan{
				BorrowDate: borrow,
				DueDate:    due,
				State:      model.LoanStateCancelled,
				FinePerDay: 0.5,
			},
			today:       borrow.AddDays(40),
			duration:    40,
			overdueDays: 0,
			fine:        0,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.loan.ComputeDerived(tt.today)
			require.Equal(t, tt.duration, tt.loan.BorrowDuration)
			require.Equal(t, tt.overdueDays, tt.loan.OverdueDays)
			require.Equal(t, tt.overdueDays > 0, tt.loan.IsOverdue)
			require.InDelta(t, tt.fine, tt.loan.FineAmount, 1e-9)
		})
	}
}
