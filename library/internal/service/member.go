package service

import (
	"context"

	"github.com/baramej/library-system/library/internal/errs"
	"github.com/baramej/library-system/library/internal/model"
	"github.com/pkg/errors"
)

func (s *Service) CreateMemberType(ctx context.Context, req model.CreateMemberTypeRequest) (model.MemberType, error) {
	return s.repo.CreateMemberType(ctx, req)
}

func (s *Service) ListMemberTypes(ctx context.Context) ([]model.MemberType, error) {
	return s.repo.ListMemberTypes(ctx)
}

func (s *Service) UpdateMemberType(ctx context.Context, code string, req model.CreateMemberTypeRequest) (model.MemberType, error) {
	return s.repo.UpdateMemberType(ctx, code, req)
}

func (s *Service) DeleteMemberType(ctx context.Context, code string) error {
	return s.repo.DeleteMemberType(ctx, code)
}

func (s *Service) CreateMember(ctx context.Context, req model.CreateMemberRequest) (model.Member, error) {
	today := s.today()
	if req.MembershipEndDate.Valid {
		start := today
		if req.MembershipStartDate != nil {
			start = *req.MembershipStartDate
		}
		if req.MembershipEndDate.Date.Before(start.Time) {
			return model.Member{}, errors.Wrap(errs.ErrInvalidDateRange, "membership end date cannot be before start date")
		}
	}
	mt, err := s.repo.GetMemberTypeByCode(ctx, req.MemberTypeCode)
	if err != nil {
		return model.Member{}, errors.Wrapf(err, "member type %s", req.MemberTypeCode)
	}
	start := today
	if req.MembershipStartDate != nil {
		start = *req.MembershipStartDate
	}
	member, err := s.repo.CreateMember(ctx, req, mt.ID, start)
	if err != nil {
		return model.Member{}, err
	}
	return s.enrichMember(ctx, member)
}

func (s *Service) ListMembers(ctx context.Context, page, size int) (model.ListMembers, error) {
	list, err := s.repo.ListMembers(ctx, page, size)
	if err != nil {
		return model.ListMembers{}, err
	}
	today := s.today()
	for i := range list.Items {
		list.Items[i].ComputeDerived(today)
	}
	return list, nil
}

func (s *Service) GetMember(ctx context.Context, memberID string) (model.Member, error) {
	member, err := s.repo.GetMember(ctx, memberID)
	if err != nil {
		return model.Member{}, err
	}
	return s.enrichMember(ctx, member)
}

// enrichMember fills the derived fields; total fines sum the fine of every
// loan currently in borrowed or overdue, recomputed against today.
func (s *Service) enrichMember(ctx context.Context, member model.Member) (model.Member, error) {
	today := s.today()
	member.ComputeDerived(today)

	active, err := s.repo.ListActiveLoansByMember(ctx, member.ID)
	if err != nil {
		return model.Member{}, err
	}
	var fines float64
	for _, loan := range active {
		fines += loan.ComputeFineAmount(today)
	}
	member.TotalFines = fines
	return member, nil
}

func (s *Service) UpdateMember(ctx context.Context, memberID string, req model.CreateMemberRequest, active bool) (model.Member, error) {
	current, err := s.repo.GetMember(ctx, memberID)
	if err != nil {
		return model.Member{}, err
	}
	if req.MembershipEndDate.Valid && req.MembershipEndDate.Date.Before(current.MembershipStartDate.Time) {
		return model.Member{}, errors.Wrap(errs.ErrInvalidDateRange, "membership end date cannot be before start date")
	}
	mt, err := s.repo.GetMemberTypeByCode(ctx, req.MemberTypeCode)
	if err != nil {
		return model.Member{}, errors.Wrapf(err, "member type %s", req.MemberTypeCode)
	}
	member, err := s.repo.UpdateMember(ctx, memberID, req, mt.ID, active)
	if err != nil {
		return model.Member{}, err
	}
	return s.enrichMember(ctx, member)
}

func (s *Service) DeleteMember(ctx context.Context, memberID string) error {
	return s.repo.DeleteMember(ctx, memberID)
}

func (s *Service) ListMemberLoans(ctx context.Context, memberID string) ([]model.Loan, error) {
	member, err := s.repo.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	loans, err := s.repo.ListLoansByMember(ctx, member.ID)
	if err != nil {
		return nil, err
	}
	today := s.today()
	for i := range loans {
		loans[i].ComputeDerived(today)
	}
	return loans, nil
}
