package service

import (
	"context"
	"fmt"

	"github.com/baramej/library-system/library/internal/errs"
	"github.com/baramej/library-system/library/internal/model"
	"github.com/pkg/errors"
)

// ProcessScan resolves the scanned barcodes and dispatches to loan creation
// or the returning transition. With operation auto, an existing active loan
// for the (member, book) pair means return, otherwise borrow.
func (s *Service) ProcessScan(ctx context.Context, req model.ScanRequest) (model.ScanResult, error) {
	member, err := s.repo.GetMemberByBarcode(ctx, req.MemberBarcode)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.ScanResult{}, errors.Wrapf(errs.ErrNotFound, "no member found with barcode: %s", req.MemberBarcode)
		}
		return model.ScanResult{}, err
	}
	book, err := s.repo.GetBookByBarcode(ctx, req.BookBarcode)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.ScanResult{}, errors.Wrapf(errs.ErrNotFound, "no book found with barcode: %s", req.BookBarcode)
		}
		return model.ScanResult{}, err
	}

	operation := req.Operation
	if operation == "" || operation == model.ScanAuto {
		if _, err := s.repo.GetActiveLoanForPair(ctx, member.ID, book.ID); err == nil {
			operation = model.ScanReturn
		} else if errors.Is(err, errs.ErrNotFound) {
			operation = model.ScanBorrow
		} else {
			return model.ScanResult{}, err
		}
	}

	if operation == model.ScanBorrow {
		return s.scanBorrow(ctx, member, book)
	}
	return s.scanReturn(ctx, member, book)
}

func (s *Service) scanBorrow(ctx context.Context, member model.Member, book model.Book) (model.ScanResult, error) {
	loan, err := s.CreateLoan(ctx, model.CreateLoanRequest{
		MemberID: member.MemberID,
		BookUid:  book.BookUid,
		State:    model.LoanStateBorrowed,
	})
	if err != nil {
		return model.ScanResult{}, err
	}

	message := fmt.Sprintf("Book borrowed successfully!\n\nMember: %s (%s)\nBook: %s\nDue Date: %s\nReference: %s",
		member.Name, member.MemberID, book.Name, loan.DueDate, loan.Reference)

	return model.ScanResult{
		Operation: model.ScanBorrow,
		Message:   message,
		Loan:      loan,
	}, nil
}

func (s *Service) scanReturn(ctx context.Context, member model.Member, book model.Book) (model.ScanResult, error) {
	active, err := s.repo.GetActiveLoanForPair(ctx, member.ID, book.ID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.ScanResult{}, errors.Wrapf(errs.ErrNotFound,
				"no active loan found for member %q and book %q", member.Name, book.Name)
		}
		return model.ScanResult{}, err
	}

	loan, err := s.TransitionLoan(ctx, active.Reference, model.LoanActionReturn)
	if err != nil {
		return model.ScanResult{}, err
	}

	message := fmt.Sprintf("Book returned successfully!\n\nMember: %s (%s)\nBook: %s\nBorrowed: %s\nReturned: %s",
		member.Name, member.MemberID, book.Name, loan.BorrowDate, loan.ReturnDate.Date)
	if loan.OverdueDays > 0 {
		message += fmt.Sprintf("\n\nOVERDUE: %d days\nFine: $%.2f", loan.OverdueDays, loan.FineAmount)
	}

	return model.ScanResult{
		Operation: model.ScanReturn,
		Message:   message,
		Loan:      loan,
	}, nil
}
