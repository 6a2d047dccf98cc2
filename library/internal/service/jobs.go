package service

import (
	"context"
	"fmt"

	"github.com/baramej/library-system/library/internal/model"
	"github.com/baramej/library-system/library/internal/notify"
	"go.uber.org/zap"
)

// RunOverdueSweep flags borrowed loans past their due date as overdue and
// records an audit note with the overdue days and fine at that moment.
// Running it twice in the same day changes nothing the second time.
func (s *Service) RunOverdueSweep(ctx context.Context) (int, error) {
	today := s.today()

	loans, err := s.repo.ListLoansDueForSweep(ctx, today)
	if err != nil {
		return 0, err
	}

	var swept int
	for _, loan := range loans {
		loan := loan
		err := s.repo.WithinTx(ctx, func(ctx context.Context) error {
			updated, err := s.repo.MarkLoanOverdue(ctx, loan.ID)
			if err != nil || !updated {
				return err
			}
			loan.State = model.LoanStateOverdue
			loan.ComputeDerived(today)
			swept++
			return s.repo.InsertLoanNote(ctx, loan.ID,
				fmt.Sprintf("Loan is now overdue by %d days. Fine: %.2f", loan.OverdueDays, loan.FineAmount))
		})
		if err != nil {
			s.log.Error("overdue sweep", zap.String("reference", loan.Reference), zap.Error(err))
			continue
		}
	}
	return swept, nil
}

// RunDueReminders notifies members whose loans fall due in exactly two days.
// Each loan is reminded at most once; members without an email are filtered
// out and keep the flag unset.
func (s *Service) RunDueReminders(ctx context.Context) (int, error) {
	today := s.today()

	loans, err := s.repo.ListDueSoonLoans(ctx, today.AddDays(2))
	if err != nil {
		return 0, err
	}

	var sent int
	for _, loan := range loans {
		loan.ComputeDerived(today)
		if err := s.sendReminder(ctx, notify.KindDueSoon, loan); err != nil {
			// keep the flag unset, the next run retries this loan
			s.log.Error("due reminder", zap.String("reference", loan.Reference), zap.Error(err))
			continue
		}
		if err := s.repo.SetDueReminderSent(ctx, loan.ID); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// RunOverdueReminders notifies members with overdue loans that have not been
// reminded yet. The filter keeps matching until the flag is set, so a failed
// send is retried on the next run.
func (s *Service) RunOverdueReminders(ctx context.Context) (int, error) {
	today := s.today()

	loans, err := s.repo.ListOverdueReminderLoans(ctx)
	if err != nil {
		return 0, err
	}

	var sent int
	for _, loan := range loans {
		loan.ComputeDerived(today)
		if err := s.sendReminder(ctx, notify.KindOverdue, loan); err != nil {
			s.log.Error("overdue reminder", zap.String("reference", loan.Reference), zap.Error(err))
			continue
		}
		if err := s.repo.SetOverdueReminderSent(ctx, loan.ID); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func (s *Service) sendReminder(ctx context.Context, kind notify.Kind, loan model.Loan) error {
	return s.sender.Send(ctx, notify.Message{
		Kind:        kind,
		LoanID:      loan.ID,
		Reference:   loan.Reference,
		MemberName:  loan.MemberName,
		Email:       loan.Email,
		BookName:    loan.BookName,
		DueDate:     loan.DueDate,
		OverdueDays: loan.OverdueDays,
		FineAmount:  loan.FineAmount,
	})
}

// DeliverNotification is the mail-gateway boundary: the notification worker
// records each delivered message in the notification table.
func (s *Service) DeliverNotification(ctx context.Context, msg notify.Message) error {
	var body string
	switch msg.Kind {
	case notify.KindDueSoon:
		body = fmt.Sprintf("Dear %s, the book %q is due on %s. Please return it in time.",
			msg.MemberName, msg.BookName, msg.DueDate)
	case notify.KindOverdue:
		body = fmt.Sprintf("Dear %s, the book %q is overdue by %d days. Accrued fine: %.2f.",
			msg.MemberName, msg.BookName, msg.OverdueDays, msg.FineAmount)
	default:
		body = fmt.Sprintf("Dear %s, please check the status of the book %q.", msg.MemberName, msg.BookName)
	}
	return s.repo.InsertNotification(ctx, msg.LoanID, string(msg.Kind), msg.Email, body)
}
