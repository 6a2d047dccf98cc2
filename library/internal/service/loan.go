package service

import (
	"context"

	"github.com/baramej/library-system/library/internal/errs"
	"github.com/baramej/library-system/library/internal/model"
	"github.com/pkg/errors"
)

// CreateLoan opens a loan in state draft or borrowed. The policy check, the
// ledger insert and the availability decrement run in one transaction so
// concurrent requests cannot oversell copies.
func (s *Service) CreateLoan(ctx context.Context, req model.CreateLoanRequest) (model.Loan, error) {
	today := s.today()

	state := req.State
	if state == "" {
		state = model.LoanStateBorrowed
	}
	borrowDate := today
	if req.BorrowDate != nil {
		borrowDate = *req.BorrowDate
	}

	var loan model.Loan
	err := s.repo.WithinTx(ctx, func(ctx context.Context) error {
		member, err := s.repo.LockMember(ctx, req.MemberID)
		if err != nil {
			return errors.Wrapf(err, "member %s", req.MemberID)
		}
		book, err := s.repo.LockBookByUid(ctx, req.BookUid)
		if err != nil {
			return errors.Wrapf(err, "book %s", req.BookUid)
		}

		dueDate := borrowDate.AddDays(member.MaxLoanDays)
		if req.DueDate != nil {
			dueDate = *req.DueDate
		}
		if dueDate.Before(borrowDate.Time) {
			return errors.Wrap(errs.ErrInvalidDateRange, "due date cannot be before borrow date")
		}

		if state == model.LoanStateBorrowed {
			if err := s.checkBorrowPolicy(ctx, member, book, today); err != nil {
				return err
			}
		}

		reference, err := s.repo.NextLoanReference(ctx)
		if err != nil {
			return err
		}

		loan, err = s.repo.InsertLoan(ctx, model.Loan{
			Reference:  reference,
			MemberID:   member.ID,
			BookID:     book.ID,
			StaffID:    req.StaffID,
			BorrowDate: borrowDate,
			DueDate:    dueDate,
			State:      state,
		})
		if err != nil {
			return err
		}

		if state == model.LoanStateBorrowed {
			return s.repo.AdjustAvailableCopies(ctx, book.ID, -1)
		}
		return nil
	})
	if err != nil {
		return model.Loan{}, err
	}

	loan.ComputeDerived(today)
	return loan, nil
}

// checkBorrowPolicy enforces membership status, the concurrent-loan limit and
// book availability. Callers must hold the member and book row locks so the
// loan count and the copy counter stay put until commit.
func (s *Service) checkBorrowPolicy(ctx context.Context, member model.Member, book model.Book, today model.Date) error {
	active, err := s.repo.CountActiveLoans(ctx, member.ID)
	if err != nil {
		return err
	}
	member.ActiveLoanCount = active
	if ok, reason := member.CanBorrow(active, today); !ok {
		return errors.Wrap(errs.ErrPolicyViolation, reason)
	}
	if book.AvailableCopies < 1 {
		return errors.Wrapf(errs.ErrPolicyViolation, "book %q is not available (0 copies available)", book.Name)
	}
	return nil
}

// TransitionLoan applies confirm, return or cancel to the loan. Transitions
// outside the allowed table are silent no-ops. The state write and its paired
// availability update commit atomically.
func (s *Service) TransitionLoan(ctx context.Context, reference string, action model.LoanAction) (model.Loan, error) {
	today := s.today()

	var loan model.Loan
	err := s.repo.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		loan, err = s.repo.GetLoanForUpdate(ctx, reference)
		if err != nil {
			return errors.Wrapf(err, "loan %s", reference)
		}

		switch action {
		case model.LoanActionConfirm:
			if loan.State != model.LoanStateDraft {
				return nil
			}
			book, err := s.repo.LockBook(ctx, loan.BookID)
			if err != nil {
				return err
			}
			member, err := s.repo.LockMember(ctx, loan.MemberNo)
			if err != nil {
				return err
			}
			if err := s.checkBorrowPolicy(ctx, member, book, today); err != nil {
				return err
			}
			loan.State = model.LoanStateBorrowed
			if err := s.repo.UpdateLoanState(ctx, loan.ID, loan.State, loan.ReturnDate); err != nil {
				return err
			}
			if err := s.repo.AdjustAvailableCopies(ctx, loan.BookID, -1); err != nil {
				return err
			}
			return s.repo.InsertLoanNote(ctx, loan.ID,
				"Loan confirmed for book \""+loan.BookName+"\"")

		case model.LoanActionReturn:
			if loan.State != model.LoanStateBorrowed && loan.State != model.LoanStateOverdue {
				return nil
			}
			if !loan.ReturnDate.Valid {
				loan.ReturnDate = model.SomeDate(today)
			}
			if loan.ReturnDate.Date.Before(loan.BorrowDate.Time) {
				return errors.Wrap(errs.ErrInvalidDateRange, "return date cannot be before borrow date")
			}
			loan.State = model.LoanStateReturned
			if err := s.repo.UpdateLoanState(ctx, loan.ID, loan.State, loan.ReturnDate); err != nil {
				return err
			}
			if err := s.repo.AdjustAvailableCopies(ctx, loan.BookID, 1); err != nil {
				return err
			}
			return s.repo.InsertLoanNote(ctx, loan.ID,
				"Book \""+loan.BookName+"\" returned")

		case model.LoanActionCancel:
			if loan.State != model.LoanStateDraft && loan.State != model.LoanStateBorrowed {
				return nil
			}
			fromBorrowed := loan.State == model.LoanStateBorrowed
			loan.State = model.LoanStateCancelled
			if err := s.repo.UpdateLoanState(ctx, loan.ID, loan.State, loan.ReturnDate); err != nil {
				return err
			}
			if fromBorrowed {
				if err := s.repo.AdjustAvailableCopies(ctx, loan.BookID, 1); err != nil {
					return err
				}
			}
			return s.repo.InsertLoanNote(ctx, loan.ID, "Loan cancelled")
		}
		return nil
	})
	if err != nil {
		return model.Loan{}, err
	}

	loan.ComputeDerived(today)
	return loan, nil
}

func (s *Service) GetLoan(ctx context.Context, reference string) (model.Loan, error) {
	loan, err := s.repo.GetLoan(ctx, reference)
	if err != nil {
		return model.Loan{}, err
	}
	loan.ComputeDerived(s.today())
	return loan, nil
}

func (s *Service) ListLoans(ctx context.Context, state string, page, size int) (model.ListLoans, error) {
	list, err := s.repo.ListLoans(ctx, state, page, size)
	if err != nil {
		return model.ListLoans{}, err
	}
	today := s.today()
	for i := range list.Items {
		list.Items[i].ComputeDerived(today)
	}
	return list, nil
}
