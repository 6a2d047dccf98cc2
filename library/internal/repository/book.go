package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/baramej/library-system/library/internal/errs"
	"github.com/baramej/library-system/library/internal/model"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

var bookColumns = []string{
	"b.id", "b.book_uid", "b.name",
	"coalesce(b.barcode, '') as barcode",
	"coalesce(b.isbn, '') as isbn",
	"b.author_id", "a.name as author",
	"b.category_id", "b.publisher_id", "b.location_id",
	"b.publication_date", "b.pages", "b.language", "b.available_copies",
	"(select count(*) from loan l where l.book_id = b.id and l.state in ('borrowed', 'overdue')) as active_loan_count",
}

func (r *repository) bookQuery() sq.SelectBuilder {
	return qb.Select(bookColumns...).
		From(bookTableName + " b").
		Join(fmt.Sprintf("%s a on a.id = b.author_id", authorTableName))
}

func (r *repository) getBook(ctx context.Context, q sq.SelectBuilder) (model.Book, error) {
	query, args, err := q.Limit(1).ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := sqlx.GetContext(ctx, r.ext(ctx), &book, query, args...); err != nil {
		return model.Book{}, wrapErr(err)
	}
	book.ComputeDerived()
	return book, nil
}

func (r *repository) GetBook(ctx context.Context, bookUid string) (model.Book, error) {
	return r.getBook(ctx, r.bookQuery().Where(sq.Eq{"book_uid": bookUid}))
}

func (r *repository) GetBookByBarcode(ctx context.Context, barcode string) (model.Book, error) {
	return r.getBook(ctx, r.bookQuery().Where(sq.Eq{"b.barcode": barcode}))
}

// LockBook loads a book by id with a row lock; must run inside WithinTx so
// availability checks and the copy-counter update are atomic.
func (r *repository) LockBook(ctx context.Context, bookID int) (model.Book, error) {
	return r.getBook(ctx, r.bookQuery().Where(sq.Eq{"b.id": bookID}).Suffix("for update of b"))
}

func (r *repository) LockBookByUid(ctx context.Context, bookUid string) (model.Book, error) {
	return r.getBook(ctx, r.bookQuery().Where(sq.Eq{"b.book_uid": bookUid}).Suffix("for update of b"))
}

func (r *repository) ListBooks(ctx context.Context, showAll bool, page, size int) (model.ListBooks, error) {
	q := r.bookQuery().OrderBy("b.name")
	if !showAll {
		q = q.Where(sq.Gt{"b.available_copies": 0})
	}
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	var books []model.Book
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &books, query, args...); err != nil {
		return model.ListBooks{}, wrapErr(err)
	}
	for i := range books {
		books[i].ComputeDerived()
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(books),
		},
		Items: books,
	}, nil
}

func (r *repository) CreateBook(ctx context.Context, bookUid string, req model.CreateBookRequest) (model.Book, error) {
	query, args, err := qb.Insert(bookTableName).
		Columns("book_uid", "name", "barcode", "isbn", "author_id", "category_id",
			"publisher_id", "location_id", "publication_date", "pages", "language", "available_copies").
		Values(bookUid, req.Name,
			sq.Expr("nullif(?, '')", req.Barcode),
			sq.Expr("nullif(?, '')", req.ISBN),
			req.AuthorID, req.CategoryID, req.PublisherID, req.LocationID,
			req.PublicationDate, req.Pages, req.Language, req.AvailableCopies).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var id int
	if err := sqlx.GetContext(ctx, r.ext(ctx), &id, query, args...); err != nil {
		r.log.Error("CreateBook", zap.String("q", query), zap.Any("args", args))
		return model.Book{}, wrapErr(err)
	}
	return r.GetBook(ctx, bookUid)
}

func (r *repository) UpdateBook(ctx context.Context, bookUid string, req model.CreateBookRequest) (model.Book, error) {
	query, args, err := qb.Update(bookTableName).
		Set("name", req.Name).
		Set("barcode", sq.Expr("nullif(?, '')", req.Barcode)).
		Set("isbn", sq.Expr("nullif(?, '')", req.ISBN)).
		Set("author_id", req.AuthorID).
		Set("category_id", req.CategoryID).
		Set("publisher_id", req.PublisherID).
		Set("location_id", req.LocationID).
		Set("publication_date", req.PublicationDate).
		Set("pages", req.Pages).
		Set("language", req.Language).
		Set("available_copies", req.AvailableCopies).
		Where(sq.Eq{"book_uid": bookUid}).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var id int
	if err := sqlx.GetContext(ctx, r.ext(ctx), &id, query, args...); err != nil {
		return model.Book{}, wrapErr(err)
	}
	return r.GetBook(ctx, bookUid)
}

func (r *repository) DeleteBook(ctx context.Context, bookUid string) error {
	query, args, err := qb.Delete(bookTableName).
		Where(sq.Eq{"book_uid": bookUid}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.ext(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return wrapErr(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// AdjustAvailableCopies moves copies in or out of circulation; the check
// constraint on available_copies rejects a negative result.
func (r *repository) AdjustAvailableCopies(ctx context.Context, bookID, delta int) error {
	q := `
update book
    set available_copies = available_copies + $2
where id = $1`
	_, err := r.ext(ctx).ExecContext(ctx, q, bookID, delta)
	return wrapErr(err)
}
