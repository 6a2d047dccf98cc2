package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/baramej/library-system/library/internal/model"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

var loanColumns = []string{
	"l.id", "l.reference", "l.member_id", "l.book_id", "l.staff_id",
	"m.member_id as member_no", "m.name as member_name", "m.email",
	"b.book_uid", "b.name as book_name",
	"t.fine_per_day",
	"l.borrow_date", "l.due_date", "l.return_date", "l.state",
	"l.due_reminder_sent", "l.overdue_reminder_sent",
}

func (r *repository) loanQuery() sq.SelectBuilder {
	return qb.Select(loanColumns...).
		From(loanTableName + " l").
		Join(fmt.Sprintf("%s m on m.id = l.member_id", memberTableName)).
		Join(fmt.Sprintf("%s b on b.id = l.book_id", bookTableName)).
		Join(fmt.Sprintf("%s t on t.id = m.member_type_id", memberTypeTableName))
}

func (r *repository) getLoan(ctx context.Context, q sq.SelectBuilder) (model.Loan, error) {
	query, args, err := q.Limit(1).ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	var loan model.Loan
	if err := sqlx.GetContext(ctx, r.ext(ctx), &loan, query, args...); err != nil {
		return model.Loan{}, wrapErr(err)
	}
	return loan, nil
}

func (r *repository) selectLoans(ctx context.Context, q sq.SelectBuilder) ([]model.Loan, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var loans []model.Loan
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &loans, query, args...); err != nil {
		return nil, wrapErr(err)
	}
	return loans, nil
}

// NextLoanReference issues the next human-readable reference from the
// database sequence, unique and monotonic per install.
func (r *repository) NextLoanReference(ctx context.Context) (string, error) {
	var n int64
	if err := sqlx.GetContext(ctx, r.ext(ctx), &n, `select nextval('loan_reference_seq')`); err != nil {
		return "", wrapErr(err)
	}
	return fmt.Sprintf("LN-%05d", n), nil
}

func (r *repository) InsertLoan(ctx context.Context, loan model.Loan) (model.Loan, error) {
	query, args, err := qb.Insert(loanTableName).
		Columns("reference", "member_id", "book_id", "staff_id", "borrow_date", "due_date", "state").
		Values(loan.Reference, loan.MemberID, loan.BookID, loan.StaffID, loan.BorrowDate, loan.DueDate, loan.State).
		Suffix("returning reference").
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	var ref string
	if err := sqlx.GetContext(ctx, r.ext(ctx), &ref, query, args...); err != nil {
		r.log.Error("InsertLoan", zap.String("q", query), zap.Any("args", args))
		return model.Loan{}, wrapErr(err)
	}
	return r.GetLoan(ctx, ref)
}

func (r *repository) GetLoan(ctx context.Context, reference string) (model.Loan, error) {
	return r.getLoan(ctx, r.loanQuery().Where(sq.Eq{"l.reference": reference}))
}

// GetLoanForUpdate locks the loan row for a state transition; must run inside
// WithinTx.
func (r *repository) GetLoanForUpdate(ctx context.Context, reference string) (model.Loan, error) {
	return r.getLoan(ctx, r.loanQuery().Where(sq.Eq{"l.reference": reference}).Suffix("for update of l"))
}

func (r *repository) ListLoans(ctx context.Context, state string, page, size int) (model.ListLoans, error) {
	q := r.loanQuery().OrderBy("l.borrow_date desc", "l.id desc")
	if state != "" {
		q = q.Where(sq.Eq{"l.state": state})
	}
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}
	loans, err := r.selectLoans(ctx, q)
	if err != nil {
		return model.ListLoans{}, err
	}
	return model.ListLoans{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(loans),
		},
		Items: loans,
	}, nil
}

func (r *repository) ListLoansByMember(ctx context.Context, memberID int) ([]model.Loan, error) {
	return r.selectLoans(ctx, r.loanQuery().
		Where(sq.Eq{"l.member_id": memberID}).
		OrderBy("l.borrow_date desc", "l.id desc"))
}

func (r *repository) ListActiveLoansByMember(ctx context.Context, memberID int) ([]model.Loan, error) {
	return r.selectLoans(ctx, r.loanQuery().
		Where(sq.Eq{"l.member_id": memberID}).
		Where(sq.Eq{"l.state": model.ActiveLoanStates}).
		OrderBy("l.due_date"))
}

func (r *repository) UpdateLoanState(ctx context.Context, loanID int, state model.LoanState, returnDate model.NullDate) error {
	query, args, err := qb.Update(loanTableName).
		Set("state", state).
		Set("return_date", returnDate).
		Where(sq.Eq{"id": loanID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.ext(ctx).ExecContext(ctx, query, args...)
	return wrapErr(err)
}

// CountActiveLoans counts the member's loans in state borrowed, the figure
// the concurrent-loan limit is checked against.
func (r *repository) CountActiveLoans(ctx context.Context, memberID int) (int, error) {
	q := `
	select count(*) from loan
	where member_id = $1 and state = 'borrowed'
`
	var count int
	if err := sqlx.GetContext(ctx, r.ext(ctx), &count, q, memberID); err != nil {
		return 0, wrapErr(err)
	}
	return count, nil
}

func (r *repository) GetActiveLoanForPair(ctx context.Context, memberID, bookID int) (model.Loan, error) {
	return r.getLoan(ctx, r.loanQuery().
		Where(sq.Eq{"l.member_id": memberID}).
		Where(sq.Eq{"l.book_id": bookID}).
		Where(sq.Eq{"l.state": model.ActiveLoanStates}).
		OrderBy("l.id desc"))
}

func (r *repository) ListLoansDueForSweep(ctx context.Context, today model.Date) ([]model.Loan, error) {
	return r.selectLoans(ctx, r.loanQuery().
		Where(sq.Eq{"l.state": model.LoanStateBorrowed}).
		Where(sq.Lt{"l.due_date": today}).
		OrderBy("l.due_date"))
}

// MarkLoanOverdue flips borrowed to overdue; reports false when another run
// already did, which keeps the sweep idempotent.
func (r *repository) MarkLoanOverdue(ctx context.Context, loanID int) (bool, error) {
	q := `
update loan
    set state = 'overdue'
where id = $1 and state = 'borrowed'`
	res, err := r.ext(ctx).ExecContext(ctx, q, loanID)
	if err != nil {
		return false, wrapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *repository) InsertLoanNote(ctx context.Context, loanID int, body string) error {
	query, args, err := qb.Insert(loanNoteTableName).
		Columns("loan_id", "body").
		Values(loanID, body).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.ext(ctx).ExecContext(ctx, query, args...)
	return wrapErr(err)
}

func (r *repository) ListDueSoonLoans(ctx context.Context, target model.Date) ([]model.Loan, error) {
	return r.selectLoans(ctx, r.loanQuery().
		Where(sq.Eq{"l.state": model.LoanStateBorrowed}).
		Where(sq.Eq{"l.due_date": target}).
		Where(sq.Eq{"l.due_reminder_sent": false}).
		Where(sq.NotEq{"m.email": ""}).
		OrderBy("l.id"))
}

func (r *repository) ListOverdueReminderLoans(ctx context.Context) ([]model.Loan, error) {
	return r.selectLoans(ctx, r.loanQuery().
		Where(sq.Eq{"l.state": model.LoanStateOverdue}).
		Where(sq.Eq{"l.overdue_reminder_sent": false}).
		Where(sq.NotEq{"m.email": ""}).
		OrderBy("l.id"))
}

func (r *repository) SetDueReminderSent(ctx context.Context, loanID int) error {
	_, err := r.ext(ctx).ExecContext(ctx, `update loan set due_reminder_sent = true where id = $1`, loanID)
	return wrapErr(err)
}

func (r *repository) SetOverdueReminderSent(ctx context.Context, loanID int) error {
	_, err := r.ext(ctx).ExecContext(ctx, `update loan set overdue_reminder_sent = true where id = $1`, loanID)
	return wrapErr(err)
}

func (r *repository) InsertNotification(ctx context.Context, loanID int, kind, email, body string) error {
	query, args, err := qb.Insert(notificationTableName).
		Columns("loan_id", "kind", "email", "body").
		Values(loanID, kind, email, body).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.ext(ctx).ExecContext(ctx, query, args...)
	return wrapErr(err)
}
