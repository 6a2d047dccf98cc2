package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/baramej/library-system/library/internal/errs"
	"github.com/baramej/library-system/library/internal/model"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	// WithinTx runs fn in one database transaction; every Repository call made
	// with the ctx passed to fn joins that transaction.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error

	CreateBook(ctx context.Context, bookUid string, req model.CreateBookRequest) (model.Book, error)
	ListBooks(ctx context.Context, showAll bool, page, size int) (model.ListBooks, error)
	GetBook(ctx context.Context, bookUid string) (model.Book, error)
	GetBookByBarcode(ctx context.Context, barcode string) (model.Book, error)
	LockBook(ctx context.Context, bookID int) (model.Book, error)
	LockBookByUid(ctx context.Context, bookUid string) (model.Book, error)
	UpdateBook(ctx context.Context, bookUid string, req model.CreateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, bookUid string) error
	AdjustAvailableCopies(ctx context.Context, bookID, delta int) error

	CreateAuthor(ctx context.Context, name string) (model.Author, error)
	ListAuthors(ctx context.Context) ([]model.Author, error)
	CreateCategory(ctx context.Context, c model.Category) (model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreatePublisher(ctx context.Context, p model.Publisher) (model.Publisher, error)
	ListPublishers(ctx context.Context) ([]model.Publisher, error)
	CreateLocation(ctx context.Context, l model.Location) (model.Location, error)
	ListLocations(ctx context.Context) ([]model.Location, error)
	CreateStaff(ctx context.Context, s model.Staff) (model.Staff, error)
	ListStaff(ctx context.Context) ([]model.Staff, error)
	CreateEvent(ctx context.Context, e model.Event) (model.Event, error)
	ListEvents(ctx context.Context) ([]model.Event, error)

	CreateMemberType(ctx context.Context, req model.CreateMemberTypeRequest) (model.MemberType, error)
	ListMemberTypes(ctx context.Context) ([]model.MemberType, error)
	GetMemberTypeByCode(ctx context.Context, code string) (model.MemberType, error)
	UpdateMemberType(ctx context.Context, code string, req model.CreateMemberTypeRequest) (model.MemberType, error)
	DeleteMemberType(ctx context.Context, code string) error

	CreateMember(ctx context.Context, req model.CreateMemberRequest, typeID int, startDate model.Date) (model.Member, error)
	ListMembers(ctx context.Context, page, size int) (model.ListMembers, error)
	GetMember(ctx context.Context, memberID string) (model.Member, error)
	GetMemberByBarcode(ctx context.Context, barcode string) (model.Member, error)
	LockMember(ctx context.Context, memberID string) (model.Member, error)
	UpdateMember(ctx context.Context, memberID string, req model.CreateMemberRequest, typeID int, active bool) (model.Member, error)
	DeleteMember(ctx context.Context, memberID string) error

	NextLoanReference(ctx context.Context) (string, error)
	InsertLoan(ctx context.Context, loan model.Loan) (model.Loan, error)
	GetLoan(ctx context.Context, reference string) (model.Loan, error)
	GetLoanForUpdate(ctx context.Context, reference string) (model.Loan, error)
	ListLoans(ctx context.Context, state string, page, size int) (model.ListLoans, error)
	ListLoansByMember(ctx context.Context, memberID int) ([]model.Loan, error)
	ListActiveLoansByMember(ctx context.Context, memberID int) ([]model.Loan, error)
	UpdateLoanState(ctx context.Context, loanID int, state model.LoanState, returnDate model.NullDate) error
	CountActiveLoans(ctx context.Context, memberID int) (int, error)
	GetActiveLoanForPair(ctx context.Context, memberID, bookID int) (model.Loan, error)
	ListLoansDueForSweep(ctx context.Context, today model.Date) ([]model.Loan, error)
	MarkLoanOverdue(ctx context.Context, loanID int) (bool, error)
	InsertLoanNote(ctx context.Context, loanID int, body string) error
	ListDueSoonLoans(ctx context.Context, target model.Date) ([]model.Loan, error)
	ListOverdueReminderLoans(ctx context.Context) ([]model.Loan, error)
	SetDueReminderSent(ctx context.Context, loanID int) error
	SetOverdueReminderSent(ctx context.Context, loanID int) error
	InsertNotification(ctx context.Context, loanID int, kind, email, body string) error

	CreateReservation(ctx context.Context, uid string, memberID, bookID int, date model.Date) (model.Reservation, error)
	ListReservationsByMember(ctx context.Context, memberID int) ([]model.Reservation, error)
	CancelReservation(ctx context.Context, uid string) error
	CreateReview(ctx context.Context, memberID, bookID, rating int, text string) (model.Review, error)
	ListReviewsByBook(ctx context.Context, bookID int) ([]model.Review, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	authorTableName       = `author`
	categoryTableName     = `category`
	publisherTableName    = `publisher`
	locationTableName     = `location`
	staffTableName        = `staff`
	eventTableName        = `event`
	bookTableName         = `book`
	memberTypeTableName   = `member_type`
	memberTableName       = `member`
	loanTableName         = `loan`
	loanNoteTableName     = `loan_note`
	notificationTableName = `notification`
	reservationTableName  = `reservation`
	reviewTableName       = `review`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type txKey struct{}

func (r *repository) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ext resolves the executor: the ambient transaction when present, the pool
// otherwise.
func (r *repository) ext(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return r.db
}

// wrapErr translates driver errors into the service error taxonomy.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errs.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return errors.Wrap(errs.ErrUniqueViolation, pgErr.ConstraintName)
		case pgerrcode.ForeignKeyViolation:
			return errors.Wrap(errs.ErrPolicyViolation, pgErr.ConstraintName)
		case pgerrcode.CheckViolation:
			return errors.Wrap(errs.ErrPolicyViolation, pgErr.ConstraintName)
		}
	}
	return err
}
