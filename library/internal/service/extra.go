package service

import (
	"context"

	"github.com/baramej/library-system/library/internal/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func (s *Service) CreateReservation(ctx context.Context, req model.CreateReservationRequest) (model.Reservation, error) {
	member, err := s.repo.GetMember(ctx, req.MemberID)
	if err != nil {
		return model.Reservation{}, errors.Wrapf(err, "member %s", req.MemberID)
	}
	book, err := s.repo.GetBook(ctx, req.BookUid)
	if err != nil {
		return model.Reservation{}, errors.Wrapf(err, "book %s", req.BookUid)
	}
	return s.repo.CreateReservation(ctx, uuid.NewString(), member.ID, book.ID, s.today())
}

func (s *Service) ListReservations(ctx context.Context, memberID string) ([]model.Reservation, error) {
	member, err := s.repo.GetMember(ctx, memberID)
	if err != nil {
		return nil, errors.Wrapf(err, "member %s", memberID)
	}
	return s.repo.ListReservationsByMember(ctx, member.ID)
}

func (s *Service) CancelReservation(ctx context.Context, reservationUid string) error {
	return s.repo.CancelReservation(ctx, reservationUid)
}

func (s *Service) CreateReview(ctx context.Context, req model.CreateReviewRequest) (model.Review, error) {
	member, err := s.repo.GetMember(ctx, req.MemberID)
	if err != nil {
		return model.Review{}, errors.Wrapf(err, "member %s", req.MemberID)
	}
	book, err := s.repo.GetBook(ctx, req.BookUid)
	if err != nil {
		return model.Review{}, errors.Wrapf(err, "book %s", req.BookUid)
	}
	return s.repo.CreateReview(ctx, member.ID, book.ID, req.Rating, req.Review)
}

func (s *Service) ListReviews(ctx context.Context, bookUid string) ([]model.Review, error) {
	book, err := s.repo.GetBook(ctx, bookUid)
	if err != nil {
		return nil, errors.Wrapf(err, "book %s", bookUid)
	}
	return s.repo.ListReviewsByBook(ctx, book.ID)
}
