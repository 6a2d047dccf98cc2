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

var memberTypeColumns = []string{
	"id", "code", "name", "sequence", "max_concurrent_loans", "max_loan_days",
	"fine_per_day", "active", "coalesce(description, '') as description",
	"(select count(*) from member m where m.member_type_id = member_type.id) as member_count",
}

func (r *repository) CreateMemberType(ctx context.Context, req model.CreateMemberTypeRequest) (model.MemberType, error) {
	query, args, err := qb.Insert(memberTypeTableName).
		Columns("code", "name", "sequence", "max_concurrent_loans", "max_loan_days", "fine_per_day", "description").
		Values(req.Code, req.Name, req.Sequence, req.MaxConcurrentLoans, req.MaxLoanDays, req.FinePerDay, req.Description).
		Suffix("returning code").
		ToSql()
	if err != nil {
		return model.MemberType{}, err
	}
	var code string
	if err := sqlx.GetContext(ctx, r.ext(ctx), &code, query, args...); err != nil {
		r.log.Error("CreateMemberType", zap.String("q", query), zap.Any("args", args))
		return model.MemberType{}, wrapErr(err)
	}
	return r.GetMemberTypeByCode(ctx, code)
}

func (r *repository) GetMemberTypeByCode(ctx context.Context, code string) (model.MemberType, error) {
	query, args, err := qb.Select(memberTypeColumns...).
		From(memberTypeTableName).
		Where(sq.Eq{"code": code}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.MemberType{}, err
	}
	var mt model.MemberType
	if err := sqlx.GetContext(ctx, r.ext(ctx), &mt, query, args...); err != nil {
		return model.MemberType{}, wrapErr(err)
	}
	return mt, nil
}

func (r *repository) ListMemberTypes(ctx context.Context) ([]model.MemberType, error) {
	query, args, err := qb.Select(memberTypeColumns...).
		From(memberTypeTableName).
		OrderBy("sequence", "name").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.MemberType
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &items, query, args...); err != nil {
		return nil, wrapErr(err)
	}
	return items, nil
}

func (r *repository) UpdateMemberType(ctx context.Context, code string, req model.CreateMemberTypeRequest) (model.MemberType, error) {
	query, args, err := qb.Update(memberTypeTableName).
		Set("name", req.Name).
		Set("sequence", req.Sequence).
		Set("max_concurrent_loans", req.MaxConcurrentLoans).
		Set("max_loan_days", req.MaxLoanDays).
		Set("fine_per_day", req.FinePerDay).
		Set("description", req.Description).
		Where(sq.Eq{"code": code}).
		Suffix("returning code").
		ToSql()
	if err != nil {
		return model.MemberType{}, err
	}
	var out string
	if err := sqlx.GetContext(ctx, r.ext(ctx), &out, query, args...); err != nil {
		return model.MemberType{}, wrapErr(err)
	}
	return r.GetMemberTypeByCode(ctx, out)
}

func (r *repository) DeleteMemberType(ctx context.Context, code string) error {
	query, args, err := qb.Delete(memberTypeTableName).
		Where(sq.Eq{"code": code}).
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

var memberColumns = []string{
	"m.id", "m.member_id", "m.name",
	"coalesce(m.barcode, '') as barcode",
	"m.email", "coalesce(m.phone, '') as phone", "coalesce(m.address, '') as address",
	"m.active", "m.member_type_id",
	"t.code as member_type_code", "t.max_concurrent_loans", "t.max_loan_days", "t.fine_per_day",
	"m.membership_start_date", "m.membership_end_date",
	"(select count(*) from loan l where l.member_id = m.id and l.state = 'borrowed') as active_loan_count",
	"(select count(*) from loan l where l.member_id = m.id and l.state = 'overdue') as overdue_loan_count",
	"(select count(*) from loan l where l.member_id = m.id) as total_loans",
}

func (r *repository) memberQuery() sq.SelectBuilder {
	return qb.Select(memberColumns...).
		From(memberTableName + " m").
		Join(fmt.Sprintf("%s t on t.id = m.member_type_id", memberTypeTableName))
}

func (r *repository) getMember(ctx context.Context, q sq.SelectBuilder) (model.Member, error) {
	query, args, err := q.Limit(1).ToSql()
	if err != nil {
		return model.Member{}, err
	}
	var m model.Member
	if err := sqlx.GetContext(ctx, r.ext(ctx), &m, query, args...); err != nil {
		return model.Member{}, wrapErr(err)
	}
	return m, nil
}

func (r *repository) GetMember(ctx context.Context, memberID string) (model.Member, error) {
	return r.getMember(ctx, r.memberQuery().Where(sq.Eq{"m.member_id": memberID}))
}

func (r *repository) GetMemberByBarcode(ctx context.Context, barcode string) (model.Member, error) {
	return r.getMember(ctx, r.memberQuery().Where(sq.Eq{"m.barcode": barcode}))
}

// LockMember loads a member with a row lock; must run inside WithinTx so the
// concurrent-loan count cannot change under the borrow policy check.
func (r *repository) LockMember(ctx context.Context, memberID string) (model.Member, error) {
	return r.getMember(ctx, r.memberQuery().Where(sq.Eq{"m.member_id": memberID}).Suffix("for update of m"))
}

func (r *repository) ListMembers(ctx context.Context, page, size int) (model.ListMembers, error) {
	q := r.memberQuery().OrderBy("m.name")
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return model.ListMembers{}, err
	}
	var members []model.Member
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &members, query, args...); err != nil {
		return model.ListMembers{}, wrapErr(err)
	}
	return model.ListMembers{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(members),
		},
		Items: members,
	}, nil
}

func (r *repository) CreateMember(ctx context.Context, req model.CreateMemberRequest, typeID int, startDate model.Date) (model.Member, error) {
	query, args, err := qb.Insert(memberTableName).
		Columns("member_id", "name", "barcode", "email", "phone", "address",
			"member_type_id", "membership_start_date", "membership_end_date").
		Values(req.MemberID, req.Name,
			sq.Expr("nullif(?, '')", req.Barcode),
			req.Email, req.Phone, req.Address,
			typeID, startDate, req.MembershipEndDate).
		Suffix("returning member_id").
		ToSql()
	if err != nil {
		return model.Member{}, err
	}
	var memberID string
	if err := sqlx.GetContext(ctx, r.ext(ctx), &memberID, query, args...); err != nil {
		r.log.Error("CreateMember", zap.String("q", query), zap.Any("args", args))
		return model.Member{}, wrapErr(err)
	}
	return r.GetMember(ctx, memberID)
}

func (r *repository) UpdateMember(ctx context.Context, memberID string, req model.CreateMemberRequest, typeID int, active bool) (model.Member, error) {
	query, args, err := qb.Update(memberTableName).
		Set("name", req.Name).
		Set("barcode", sq.Expr("nullif(?, '')", req.Barcode)).
		Set("email", req.Email).
		Set("phone", req.Phone).
		Set("address", req.Address).
		Set("member_type_id", typeID).
		Set("membership_end_date", req.MembershipEndDate).
		Set("active", active).
		Where(sq.Eq{"member_id": memberID}).
		Suffix("returning member_id").
		ToSql()
	if err != nil {
		return model.Member{}, err
	}
	var out string
	if err := sqlx.GetContext(ctx, r.ext(ctx), &out, query, args...); err != nil {
		return model.Member{}, wrapErr(err)
	}
	return r.GetMember(ctx, out)
}

func (r *repository) DeleteMember(ctx context.Context, memberID string) error {
	query, args, err := qb.Delete(memberTableName).
		Where(sq.Eq{"member_id": memberID}).
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
