package model

import "fmt"

type MembershipStatus string

const (
	MembershipActive    MembershipStatus = "active"
	MembershipInactive  MembershipStatus = "inactive"
	MembershipSuspended MembershipStatus = "suspended"
)

type MemberType struct {
	ID                 int     `json:"id" db:"id"`
	Code               string  `json:"code" db:"code"`
	Name               string  `json:"name" db:"name"`
	Sequence           int     `json:"sequence" db:"sequence"`
	MaxConcurrentLoans int     `json:"maxConcurrentLoans" db:"max_concurrent_loans"`
	MaxLoanDays        int     `json:"maxLoanDays" db:"max_loan_days"`
	FinePerDay         float64 `json:"finePerDay" db:"fine_per_day"`
	Active             bool    `json:"active" db:"active"`
	Description        string  `json:"description" db:"description"`
	MemberCount        int     `json:"memberCount" db:"member_count"`
}

// DisplayName renders the tier as "[CODE] Name".
func (t MemberType) DisplayName() string {
	return fmt.Sprintf("[%s] %s", t.Code, t.Name)
}

type CreateMemberTypeRequest struct {
	Code               string  `json:"code" validate:"required"`
	Name               string  `json:"name" validate:"required"`
	Sequence           int     `json:"sequence"`
	MaxConcurrentLoans int     `json:"maxConcurrentLoans" validate:"required,gt=0"`
	MaxLoanDays        int     `json:"maxLoanDays" validate:"required,gt=0"`
	FinePerDay         float64 `json:"finePerDay" validate:"gte=0"`
	Description        string  `json:"description"`
}

type Member struct {
	ID                  int      `json:"-" db:"id"`
	MemberID            string   `json:"memberId" db:"member_id"`
	Name                string   `json:"name" db:"name"`
	Barcode             string   `json:"barcode" db:"barcode"`
	Email               string   `json:"email" db:"email"`
	Phone               string   `json:"phone" db:"phone"`
	Address             string   `json:"address" db:"address"`
	Active              bool     `json:"active" db:"active"`
	MemberTypeID        int      `json:"-" db:"member_type_id"`
	MemberTypeCode      string   `json:"memberTypeCode" db:"member_type_code"`
	MaxConcurrentLoans  int      `json:"maxConcurrentLoans" db:"max_concurrent_loans"`
	MaxLoanDays         int      `json:"maxLoanDays" db:"max_loan_days"`
	FinePerDay          float64  `json:"finePerDay" db:"fine_per_day"`
	MembershipStartDate Date     `json:"membershipStartDate" db:"membership_start_date"`
	MembershipEndDate   NullDate `json:"membershipEndDate" db:"membership_end_date"`

	// derived, see ComputeDerived
	MembershipStatus MembershipStatus `json:"membershipStatus" db:"-"`

	ActiveLoanCount  int     `json:"activeLoanCount" db:"active_loan_count"`
	OverdueLoanCount int     `json:"overdueLoanCount" db:"overdue_loan_count"`
	TotalLoans       int     `json:"totalLoans" db:"total_loans"`
	TotalFines       float64 `json:"totalFines" db:"-"`
}

// Status derives the membership status for the given day: suspended beats
// inactive beats active.
func (m Member) Status(today Date) MembershipStatus {
	switch {
	case !m.Active:
		return MembershipSuspended
	case m.MembershipEndDate.Valid && m.MembershipEndDate.Date.Before(today.Time):
		return MembershipInactive
	default:
		return MembershipActive
	}
}

func (m *Member) ComputeDerived(today Date) {
	m.MembershipStatus = m.Status(today)
}

// CanBorrow reports whether the member may take one more loan, with a
// human-readable reason when not. activeLoans is the count of the member's
// loans currently in state borrowed.
func (m Member) CanBorrow(activeLoans int, today Date) (bool, string) {
	if st := m.Status(today); st != MembershipActive {
		return false, fmt.Sprintf("member %s has %s membership", m.Name, st)
	}
	if activeLoans >= m.MaxConcurrentLoans {
		return false, fmt.Sprintf("member %s has reached the maximum of %d concurrent loans", m.Name, m.MaxConcurrentLoans)
	}
	return true, ""
}

type ListMembers struct {
	Paging
	Items []Member `json:"items"`
}

type CreateMemberRequest struct {
	MemberID            string   `json:"memberId" validate:"required"`
	Name                string   `json:"name" validate:"required"`
	Barcode             string   `json:"barcode"`
	Email               string   `json:"email" validate:"omitempty,email"`
	Phone               string   `json:"phone"`
	Address             string   `json:"address"`
	MemberTypeCode      string   `json:"memberTypeCode" validate:"required"`
	MembershipStartDate *Date    `json:"membershipStartDate"`
	MembershipEndDate   NullDate `json:"membershipEndDate"`
}
