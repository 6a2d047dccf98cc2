package model_test

import (
	"testing"
	"time"

	"github.com/baramej/library-system/library/internal/model"
	"github.com/stretchr/testify/require"
)

func TestMember_Status(t *testing.T) {
	t.Parallel()

	today := model.NewDate(2026, time.June, 15)

	var tests = []struct {
		name   string
		member model.Member
		want   model.MembershipStatus
	}{
		{
			name:   "active, no end date",
			member: model.Member{Active: true},
			want:   model.MembershipActive,
		},
		{
			name:   "active until end date",
			member: model.Member{Active: true, MembershipEndDate: model.SomeDate(today)},
			want:   model.MembershipActive,
		},
		{
			name:   "expired membership",
			member: model.Member{Active: true, MembershipEndDate: model.SomeDate(today.AddDays(-1))},
			want:   model.MembershipInactive,
		},
		{
			name:   "suspended beats expired",
			member: model.Member{Active: false, MembershipEndDate: model.SomeDate(today.AddDays(-1))},
			want:   model.MembershipSuspended,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.member.Status(today))
		})
	}
}

func TestMember_CanBorrow(t *testing.T) {
	t.Parallel()

	today := model.NewDate(2026, time.June, 15)
	member := model.Member{
		Name:               "Ada Lovelace",
		Active:             true,
		MaxConcurrentLoans: 3,
	}

	ok, reason := member.CanBorrow(2, today)
	require.True(t, ok)
	require.Empty(t, reason)

	ok, reason = member.CanBorrow(3, today)
	require.False(t, ok)
	require.Equal(t, "member Ada Lovelace has reached the maximum of 3 concurrent loans", reason)

	suspended := member
	suspended.Active = false
	ok, reason = suspended.CanBorrow(0, today)
	require.False(t, ok)
	require.Equal(t, "member Ada Lovelace has suspended membership", reason)
}
