package errs

import (
	"errors"
)

var (
	// ErrNotFound covers unresolved lookups: unknown barcode, uid or reference,
	// and a return with no matching active loan.
	ErrNotFound = errors.New("not found")

	// ErrPolicyViolation covers lending policy failures: membership not active,
	// concurrent-loan limit reached, no available copies, referenced records.
	ErrPolicyViolation = errors.New("policy violation")

	// ErrInvalidDateRange covers due/return dates before the borrow date.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrUniqueViolation covers duplicate barcode/isbn/member_id/reference/code.
	ErrUniqueViolation = errors.New("unique violation")
)
