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

var reservationColumns = []string{
	"r.id", "r.reservation_uid", "r.book_id", "b.book_uid",
	"r.member_id", "m.member_id as member_no", "r.reservation_date", "r.status",
}

func (r *repository) reservationQuery() sq.SelectBuilder {
	return qb.Select(reservationColumns...).
		From(reservationTableName + " r").
		Join(fmt.Sprintf("%s b on b.id = r.book_id", bookTableName)).
		Join(fmt.Sprintf("%s m on m.id = r.member_id", memberTableName))
}

func (r *repository) CreateReservation(ctx context.Context, uid string, memberID, bookID int, date model.Date) (model.Reservation, error) {
	query, args, err := qb.Insert(reservationTableName).
		Columns("reservation_uid", "member_id", "book_id", "reservation_date", "status").
		Values(uid, memberID, bookID, date, model.ReservationReserved).
		Suffix("returning reservation_uid").
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	var out string
	if err := sqlx.GetContext(ctx, r.ext(ctx), &out, query, args...); err != nil {
		r.log.Error("CreateReservation", zap.String("q", query), zap.Any("args", args))
		return model.Reservation{}, wrapErr(err)
	}
	return r.getReservation(ctx, out)
}

func (r *repository) getReservation(ctx context.Context, uid string) (model.Reservation, error) {
	query, args, err := r.reservationQuery().
		Where(sq.Eq{"reservation_uid": uid}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	var res model.Reservation
	if err := sqlx.GetContext(ctx, r.ext(ctx), &res, query, args...); err != nil {
		return model.Reservation{}, wrapErr(err)
	}
	return res, nil
}

func (r *repository) ListReservationsByMember(ctx context.Context, memberID int) ([]model.Reservation, error) {
	query, args, err := r.reservationQuery().
		Where(sq.Eq{"r.member_id": memberID}).
		OrderBy("r.reservation_date desc", "r.id desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Reservation
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &items, query, args...); err != nil {
		return nil, wrapErr(err)
	}
	return items, nil
}

func (r *repository) CancelReservation(ctx context.Context, uid string) error {
	q := `
update reservation
    set status = 'canceled'
where reservation_uid = $1 and status = 'reserved'`
	res, err := r.ext(ctx).ExecContext(ctx, q, uid)
	if err != nil {
		return wrapErr(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repository) CreateReview(ctx context.Context, memberID, bookID, rating int, text string) (model.Review, error) {
	query, args, err := qb.Insert(reviewTableName).
		Columns("member_id", "book_id", "rating", "review").
		Values(memberID, bookID, rating, text).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.Review{}, err
	}
	var id int
	if err := sqlx.GetContext(ctx, r.ext(ctx), &id, query, args...); err != nil {
		return model.Review{}, wrapErr(err)
	}
	return r.getReview(ctx, id)
}

func (r *repository) getReview(ctx context.Context, id int) (model.Review, error) {
	query, args, err := qb.Select("r.id", "r.book_id", "r.member_id",
		"m.member_id as member_no", "r.rating", "coalesce(r.review, '') as review").
		From(reviewTableName+" r").
		Join(fmt.Sprintf("%s m on m.id = r.member_id", memberTableName)).
		Where(sq.Eq{"r.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Review{}, err
	}
	var rev model.Review
	if err := sqlx.GetContext(ctx, r.ext(ctx), &rev, query, args...); err != nil {
		return model.Review{}, wrapErr(err)
	}
	return rev, nil
}

func (r *repository) ListReviewsByBook(ctx context.Context, bookID int) ([]model.Review, error) {
	query, args, err := qb.Select("r.id", "r.book_id", "r.member_id",
		"m.member_id as member_no", "r.rating", "coalesce(r.review, '') as review").
		From(reviewTableName+" r").
		Join(fmt.Sprintf("%s m on m.id = r.member_id", memberTableName)).
		Where(sq.Eq{"r.book_id": bookID}).
		OrderBy("r.id desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Review
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &items, query, args...); err != nil {
		return nil, wrapErr(err)
	}
	return items, nil
}
