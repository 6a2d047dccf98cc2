package repository

import (
	"context"

	"github.com/baramej/library-system/library/internal/model"
	"github.com/jmoiron/sqlx"
)

func (r *repository) CreateAuthor(ctx context.Context, name string) (model.Author, error) {
	query, args, err := qb.Insert(authorTableName).
		Columns("name").
		Values(name).
		Suffix("returning id, name").
		ToSql()
	if err != nil {
		return model.Author{}, err
	}
	var a model.Author
	if err := sqlx.GetContext(ctx, r.ext(ctx), &a, query, args...); err != nil {
		return model.Author{}, wrapErr(err)
	}
	return a, nil
}

func (r *repository) ListAuthors(ctx context.Context) ([]model.Author, error) {
	query, args, err := qb.Select("id", "name").
		From(authorTableName).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Author
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &items, query, args...); err != nil {
		return nil, wrapErr(err)
	}
	return items, nil
}

func (r *repository) CreateCategory(ctx context.Context, c model.Category) (model.Category, error) {
	query, args, err := qb.Insert(categoryTableName).
		Columns("name", "description").
		Values(c.Name, c.Description).
		Suffix("returning id, name, coalesce(description, '') as description").
		ToSql()
	if err != nil {
		return model.Category{}, err
	}
	var out model.Category
	if err := sqlx.GetContext(ctx, r.ext(ctx), &out, query, args...); err != nil {
		return model.Category{}, wrapErr(err)
	}
	return out, nil
}

func (r *repository) ListCategories(ctx context.Context) ([]model.Category, error) {
	query, args, err := qb.Select("id", "name", "coalesce(description, '') as description").
		From(categoryTableName).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Category
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &items, query, args...); err != nil {
		return nil, wrapErr(err)
	}
	return items, nil
}

func (r *repository) CreatePublisher(ctx context.Context, p model.Publisher) (model.Publisher, error) {
	query, args, err := qb.Insert(publisherTableName).
		Columns("name", "address").
		Values(p.Name, p.Address).
		Suffix("returning id, name, coalesce(address, '') as address").
		ToSql()
	if err != nil {
		return model.Publisher{}, err
	}
	var out model.Publisher
	if err := sqlx.GetContext(ctx, r.ext(ctx), &out, query, args...); err != nil {
		return model.Publisher{}, wrapErr(err)
	}
	return out, nil
}

func (r *repository) ListPublishers(ctx context.Context) ([]model.Publisher, error) {
	query, args, err := qb.Select("id", "name", "coalesce(address, '') as address").
		From(publisherTableName).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Publisher
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &items, query, args...); err != nil {
		return nil, wrapErr(err)
	}
	return items, nil
}

func (r *repository) CreateLocation(ctx context.Context, l model.Location) (model.Location, error) {
	query, args, err := qb.Insert(locationTableName).
		Columns("name", "code", "address").
		Values(l.Name, l.Code, l.Address).
		Suffix("returning id, name, code, coalesce(address, '') as address").
		ToSql()
	if err != nil {
		return model.Location{}, err
	}
	var out model.Location
	if err := sqlx.GetContext(ctx, r.ext(ctx), &out, query, args...); err != nil {
		return model.Location{}, wrapErr(err)
	}
	return out, nil
}

func (r *repository) ListLocations(ctx context.Context) ([]model.Location, error) {
	query, args, err := qb.Select("id", "name", "code", "coalesce(address, '') as address").
		From(locationTableName).
		OrderBy("code").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Location
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &items, query, args...); err != nil {
		return nil, wrapErr(err)
	}
	return items, nil
}

func (r *repository) CreateStaff(ctx context.Context, s model.Staff) (model.Staff, error) {
	query, args, err := qb.Insert(staffTableName).
		Columns("name", "role").
		Values(s.Name, s.Role).
		Suffix("returning id, name, coalesce(role, '') as role").
		ToSql()
	if err != nil {
		return model.Staff{}, err
	}
	var out model.Staff
	if err := sqlx.GetContext(ctx, r.ext(ctx), &out, query, args...); err != nil {
		return model.Staff{}, wrapErr(err)
	}
	return out, nil
}

func (r *repository) ListStaff(ctx context.Context) ([]model.Staff, error) {
	query, args, err := qb.Select("id", "name", "coalesce(role, '') as role").
		From(staffTableName).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Staff
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &items, query, args...); err != nil {
		return nil, wrapErr(err)
	}
	return items, nil
}

func (r *repository) CreateEvent(ctx context.Context, e model.Event) (model.Event, error) {
	query, args, err := qb.Insert(eventTableName).
		Columns("name", "event_date", "description", "location", "organizer_id", "book_id").
		Values(e.Name, e.EventDate, e.Description, e.Location, e.OrganizerID, e.BookID).
		Suffix("returning id, name, event_date, coalesce(description, '') as description, coalesce(location, '') as location, organizer_id, book_id").
		ToSql()
	if err != nil {
		return model.Event{}, err
	}
	var out model.Event
	if err := sqlx.GetContext(ctx, r.ext(ctx), &out, query, args...); err != nil {
		return model.Event{}, wrapErr(err)
	}
	return out, nil
}

func (r *repository) ListEvents(ctx context.Context) ([]model.Event, error) {
	query, args, err := qb.Select("id", "name", "event_date",
		"coalesce(description, '') as description",
		"coalesce(location, '') as location",
		"organizer_id", "book_id").
		From(eventTableName).
		OrderBy("event_date").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Event
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &items, query, args...); err != nil {
		return nil, wrapErr(err)
	}
	return items, nil
}
