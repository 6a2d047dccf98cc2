package service

import (
	"context"

	"github.com/baramej/library-system/library/internal/errs"
	"github.com/baramej/library-system/library/internal/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func (s *Service) checkPublicationDate(req model.CreateBookRequest) error {
	if req.PublicationDate.Valid && req.PublicationDate.Date.After(s.today().Time) {
		return errors.Wrap(errs.ErrInvalidDateRange, "publication date cannot be in the future")
	}
	return nil
}

func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	if err := s.checkPublicationDate(req); err != nil {
		return model.Book{}, err
	}
	book, err := s.repo.CreateBook(ctx, uuid.NewString(), req)
	if err != nil {
		return model.Book{}, err
	}
	book.ComputeDerived()
	return book, nil
}

func (s *Service) ListBooks(ctx context.Context, showAll bool, page, size int) (model.ListBooks, error) {
	list, err := s.repo.ListBooks(ctx, showAll, page, size)
	if err != nil {
		return model.ListBooks{}, err
	}
	for i := range list.Items {
		list.Items[i].ComputeDerived()
	}
	return list, nil
}

func (s *Service) GetBook(ctx context.Context, bookUid string) (model.Book, error) {
	book, err := s.repo.GetBook(ctx, bookUid)
	if err != nil {
		return model.Book{}, err
	}
	book.ComputeDerived()
	return book, nil
}

func (s *Service) GetBookByBarcode(ctx context.Context, barcode string) (model.Book, error) {
	book, err := s.repo.GetBookByBarcode(ctx, barcode)
	if err != nil {
		return model.Book{}, err
	}
	book.ComputeDerived()
	return book, nil
}

func (s *Service) UpdateBook(ctx context.Context, bookUid string, req model.CreateBookRequest) (model.Book, error) {
	if err := s.checkPublicationDate(req); err != nil {
		return model.Book{}, err
	}
	book, err := s.repo.UpdateBook(ctx, bookUid, req)
	if err != nil {
		return model.Book{}, err
	}
	book.ComputeDerived()
	return book, nil
}

// DeleteBook fails with a policy violation while loans still reference the
// book (restrict semantics, enforced by the schema).
func (s *Service) DeleteBook(ctx context.Context, bookUid string) error {
	return s.repo.DeleteBook(ctx, bookUid)
}

func (s *Service) CreateAuthor(ctx context.Context, name string) (model.Author, error) {
	return s.repo.CreateAuthor(ctx, name)
}

func (s *Service) ListAuthors(ctx context.Context) ([]model.Author, error) {
	return s.repo.ListAuthors(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, c model.Category) (model.Category, error) {
	return s.repo.CreateCategory(ctx, c)
}

func (s *Service) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreatePublisher(ctx context.Context, p model.Publisher) (model.Publisher, error) {
	return s.repo.CreatePublisher(ctx, p)
}

func (s *Service) ListPublishers(ctx context.Context) ([]model.Publisher, error) {
	return s.repo.ListPublishers(ctx)
}

func (s *Service) CreateLocation(ctx context.Context, l model.Location) (model.Location, error) {
	return s.repo.CreateLocation(ctx, l)
}

func (s *Service) ListLocations(ctx context.Context) ([]model.Location, error) {
	return s.repo.ListLocations(ctx)
}

func (s *Service) CreateStaff(ctx context.Context, st model.Staff) (model.Staff, error) {
	return s.repo.CreateStaff(ctx, st)
}

func (s *Service) ListStaff(ctx context.Context) ([]model.Staff, error) {
	return s.repo.ListStaff(ctx)
}

func (s *Service) CreateEvent(ctx context.Context, e model.Event) (model.Event, error) {
	return s.repo.CreateEvent(ctx, e)
}

func (s *Service) ListEvents(ctx context.Context) ([]model.Event, error) {
	return s.repo.ListEvents(ctx)
}
