package service_test

import (
	"context"
	"testing"

	"github.com/baramej/library-system/library/internal/errs"
	"github.com/baramej/library-system/library/internal/model"
	"github.com/stretchr/testify/require"
)

func TestService_CreateMember(t *testing.T) {
	t.Parallel()

	studentType := model.MemberType{
		ID:                 2,
		Code:               "STUDENT",
		Name:               "Student",
		MaxConcurrentLoans: 3,
		MaxLoanDays:        14,
		FinePerDay:         0.5,
	}

	t.Run("defaults start date to today", func(t *testing.T) {
		t.Parallel()
		repo := defaultFakeRepo()
		repo.memberType = studentType
		svc := newTestService(repo, &fakeSender{})

		member, err := svc.CreateMember(context.Background(), model.CreateMemberRequest{
			MemberID:       "MBR-0008",
			Name:           "Grace Hopper",
			MemberTypeCode: "STUDENT",
		})
		require.NoError(t, err)
		require.Equal(t, testToday, member.MembershipStartDate)
		require.Equal(t, model.MembershipActive, member.MembershipStatus)
		require.Equal(t, 14, member.MaxLoanDays)
	})

	t.Run("end date before start date", func(t *testing.T) {
		t.Parallel()
		repo := defaultFakeRepo()
		repo.memberType = studentType
		svc := newTestService(repo, &fakeSender{})

		start := testToday
		_, err := svc.CreateMember(context.Background(), model.CreateMemberRequest{
			MemberID:            "MBR-0008",
			Name:                "Grace Hopper",
			MemberTypeCode:      "STUDENT",
			MembershipStartDate: &start,
			MembershipEndDate:   model.SomeDate(testToday.AddDays(-1)),
		})
		require.ErrorIs(t, err, errs.ErrInvalidDateRange)
	})

	t.Run("unknown member type", func(t *testing.T) {
		t.Parallel()
		repo := defaultFakeRepo()
		repo.memberType = studentType
		svc := newTestService(repo, &fakeSender{})

		_, err := svc.CreateMember(context.Background(), model.CreateMemberRequest{
			MemberID:       "MBR-0008",
			Name:           "Grace Hopper",
			MemberTypeCode: "VIP",
		})
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestService_UpdateMember(t *testing.T) {
	t.Parallel()

	studentType := model.MemberType{
		ID:                 2,
		Code:               "STUDENT",
		Name:               "Student",
		MaxConcurrentLoans: 3,
		MaxLoanDays:        14,
		FinePerDay:         0.5,
	}

	t.Run("end date before stored start date", func(t *testing.T) {
		t.Parallel()
		repo := defaultFakeRepo()
		repo.memberType = studentType
		repo.member.MembershipStartDate = testToday
		svc := newTestService(repo, &fakeSender{})

		_, err := svc.UpdateMember(context.Background(), "MBR-0007", model.CreateMemberRequest{
			MemberID:          "MBR-0007",
			Name:              "Ada Lovelace",
			MemberTypeCode:    "STUDENT",
			MembershipEndDate: model.SomeDate(testToday.AddDays(-1)),
		}, true)
		require.ErrorIs(t, err, errs.ErrInvalidDateRange)
	})

	t.Run("end date on the start date", func(t *testing.T) {
		t.Parallel()
		repo := defaultFakeRepo()
		repo.memberType = studentType
		repo.member.MembershipStartDate = testToday
		svc := newTestService(repo, &fakeSender{})

		member, err := svc.UpdateMember(context.Background(), "MBR-0007", model.CreateMemberRequest{
			MemberID:          "MBR-0007",
			Name:              "Ada Lovelace",
			MemberTypeCode:    "STUDENT",
			MembershipEndDate: model.SomeDate(testToday),
		}, true)
		require.NoError(t, err)
		require.Equal(t, model.SomeDate(testToday), member.MembershipEndDate)
	})

	t.Run("unknown member", func(t *testing.T) {
		t.Parallel()
		repo := defaultFakeRepo()
		repo.memberType = studentType
		svc := newTestService(repo, &fakeSender{})

		_, err := svc.UpdateMember(context.Background(), "MBR-9999", model.CreateMemberRequest{
			MemberID:       "MBR-9999",
			Name:           "Nobody",
			MemberTypeCode: "STUDENT",
		}, true)
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestService_GetMember_TotalFines(t *testing.T) {
	t.Parallel()

	repo := defaultFakeRepo()
	repo.activeLoanRows = []model.Loan{
		{
			State:      model.LoanStateOverdue,
			BorrowDate: testToday.AddDays(-20),
			DueDate:    testToday.AddDays(-6),
			FinePerDay: 0.5,
		},
		{
			State:      model.LoanStateBorrowed,
			BorrowDate: testToday.AddDays(-3),
			DueDate:    testToday.AddDays(11),
			FinePerDay: 0.5,
		},
	}
	svc := newTestService(repo, &fakeSender{})

	member, err := svc.GetMember(context.Background(), "MBR-0007")
	require.NoError(t, err)
	require.InDelta(t, 3.0, member.TotalFines, 1e-9)
	require.Equal(t, model.MembershipActive, member.MembershipStatus)
}
