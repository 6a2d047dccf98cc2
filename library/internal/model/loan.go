package model

type LoanState string

const (
	LoanStateDraft     LoanState = "draft"
	LoanStateBorrowed  LoanState = "borrowed"
	LoanStateReturned  LoanState = "returned"
	LoanStateOverdue   LoanState = "overdue"
	LoanStateCancelled LoanState = "cancelled"
)

// ActiveLoanStates are the states in which a loan holds a copy out of
// circulation.
var ActiveLoanStates = []string{string(LoanStateBorrowed), string(LoanStateOverdue)}

type LoanAction string

const (
	LoanActionConfirm LoanAction = "confirm"
	LoanActionReturn  LoanAction = "return"
	LoanActionCancel  LoanAction = "cancel"
)

type Loan struct {
	ID        int    `json:"-" db:"id"`
	Reference string `json:"reference" db:"reference"`
	MemberID  int    `json:"-" db:"member_id"`
	BookID    int    `json:"-" db:"book_id"`
	StaffID   *int   `json:"staffId" db:"staff_id"`

	MemberNo   string  `json:"memberId" db:"member_no"`
	MemberName string  `json:"memberName" db:"member_name"`
	Email      string  `json:"-" db:"email"`
	BookUid    string  `json:"bookUid" db:"book_uid"`
	BookName   string  `json:"bookName" db:"book_name"`
	FinePerDay float64 `json:"-" db:"fine_per_day"`

	BorrowDate Date      `json:"borrowDate" db:"borrow_date"`
	DueDate    Date      `json:"dueDate" db:"due_date"`
	ReturnDate NullDate  `json:"returnDate" db:"return_date"`
	State      LoanState `json:"state" db:"state"`

	DueReminderSent     bool `json:"dueReminderSent" db:"due_reminder_sent"`
	OverdueReminderSent bool `json:"overdueReminderSent" db:"overdue_reminder_sent"`

	// derived, see ComputeDerived
	BorrowDuration int     `json:"borrowDuration" db:"-"`
	IsOverdue      bool    `json:"isOverdue" db:"-"`
	OverdueDays    int     `json:"overdueDays" db:"-"`
	FineAmount     float64 `json:"fineAmount" db:"-"`
}

// EffectiveDate is the return date once set, otherwise today. Using the
// return date freezes overdue days and the fine after the book comes back.
func (l Loan) EffectiveDate(today Date) Date {
	if l.ReturnDate.Valid {
		return l.ReturnDate.Date
	}
	return today
}

func (l Loan) ComputeBorrowDuration(today Date) int {
	return l.EffectiveDate(today).DaysSince(l.BorrowDate)
}

func (l Loan) ComputeOverdueDays(today Date) int {
	if l.State == LoanStateDraft || l.State == LoanStateCancelled {
		return 0
	}
	if days := l.EffectiveDate(today).DaysSince(l.DueDate); days > 0 {
		return days
	}
	return 0
}

func (l Loan) ComputeFineAmount(today Date) float64 {
	return float64(l.ComputeOverdueDays(today)) * l.FinePerDay
}

// ComputeDerived recomputes the read-only calculator fields. Pure function of
// committed state and the supplied day; call after every read or write.
func (l *Loan) ComputeDerived(today Date) {
	l.BorrowDuration = l.ComputeBorrowDuration(today)
	l.OverdueDays = l.ComputeOverdueDays(today)
	l.IsOverdue = l.OverdueDays > 0
	l.FineAmount = l.ComputeFineAmount(today)
}

type ListLoans struct {
	Paging
	Items []Loan `json:"items"`
}

type CreateLoanRequest struct {
	MemberID   string    `json:"memberId" validate:"required"`
	BookUid    string    `json:"bookUid" validate:"required"`
	StaffID    *int      `json:"staffId"`
	State      LoanState `json:"state" validate:"omitempty,oneof=draft borrowed"`
	BorrowDate *Date     `json:"borrowDate"`
	DueDate    *Date     `json:"dueDate"`
}

type ReservationStatus string

const (
	ReservationReserved ReservationStatus = "reserved"
	ReservationCanceled ReservationStatus = "canceled"
)

type Reservation struct {
	ID              int               `json:"-" db:"id"`
	ReservationUid  string            `json:"reservationUid" db:"reservation_uid"`
	BookID          int               `json:"-" db:"book_id"`
	BookUid         string            `json:"bookUid" db:"book_uid"`
	MemberID        int               `json:"-" db:"member_id"`
	MemberNo        string            `json:"memberId" db:"member_no"`
	ReservationDate Date              `json:"reservationDate" db:"reservation_date"`
	Status          ReservationStatus `json:"status" db:"status"`
}

type CreateReservationRequest struct {
	MemberID string `json:"memberId" validate:"required"`
	BookUid  string `json:"bookUid" validate:"required"`
}

type Review struct {
	ID       int    `json:"id" db:"id"`
	BookID   int    `json:"-" db:"book_id"`
	MemberID int    `json:"-" db:"member_id"`
	MemberNo string `json:"memberId" db:"member_no"`
	Rating   int    `json:"rating" db:"rating"`
	Review   string `json:"review" db:"review"`
}

type CreateReviewRequest struct {
	MemberID string `json:"memberId" validate:"required"`
	BookUid  string `json:"bookUid" validate:"required"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Review   string `json:"review"`
}
