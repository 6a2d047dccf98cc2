package handler

import (
	"context"

	"github.com/baramej/library-system/library/internal/model"
	"github.com/baramej/library-system/library/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var (
	_ CatalogService     = (*service.Service)(nil)
	_ MemberService      = (*service.Service)(nil)
	_ LoanService        = (*service.Service)(nil)
	_ CheckoutService    = (*service.Service)(nil)
	_ JobService         = (*service.Service)(nil)
	_ ReservationService = (*service.Service)(nil)
)

type CatalogService interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	ListBooks(ctx context.Context, showAll bool, page, size int) (model.ListBooks, error)
	GetBook(ctx context.Context, bookUid string) (model.Book, error)
	GetBookByBarcode(ctx context.Context, barcode string) (model.Book, error)
	UpdateBook(ctx context.Context, bookUid string, req model.CreateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, bookUid string) error
	CreateAuthor(ctx context.Context, name string) (model.Author, error)
	ListAuthors(ctx context.Context) ([]model.Author, error)
	CreateCategory(ctx context.Context, c model.Category) (model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreatePublisher(ctx context.Context, p model.Publisher) (model.Publisher, error)
	ListPublishers(ctx context.Context) ([]model.Publisher, error)
	CreateLocation(ctx context.Context, l model.Location) (model.Location, error)
	ListLocations(ctx context.Context) ([]model.Location, error)
	CreateStaff(ctx context.Context, st model.Staff) (model.Staff, error)
	ListStaff(ctx context.Context) ([]model.Staff, error)
	CreateEvent(ctx context.Context, e model.Event) (model.Event, error)
	ListEvents(ctx context.Context) ([]model.Event, error)
}

type MemberService interface {
	CreateMemberType(ctx context.Context, req model.CreateMemberTypeRequest) (model.MemberType, error)
	ListMemberTypes(ctx context.Context) ([]model.MemberType, error)
	UpdateMemberType(ctx context.Context, code string, req model.CreateMemberTypeRequest) (model.MemberType, error)
	DeleteMemberType(ctx context.Context, code string) error
	CreateMember(ctx context.Context, req model.CreateMemberRequest) (model.Member, error)
	ListMembers(ctx context.Context, page, size int) (model.ListMembers, error)
	GetMember(ctx context.Context, memberID string) (model.Member, error)
	UpdateMember(ctx context.Context, memberID string, req model.CreateMemberRequest, active bool) (model.Member, error)
	DeleteMember(ctx context.Context, memberID string) error
	ListMemberLoans(ctx context.Context, memberID string) ([]model.Loan, error)
}

type LoanService interface {
	CreateLoan(ctx context.Context, req model.CreateLoanRequest) (model.Loan, error)
	ListLoans(ctx context.Context, state string, page, size int) (model.ListLoans, error)
	GetLoan(ctx context.Context, reference string) (model.Loan, error)
	TransitionLoan(ctx context.Context, reference string, action model.LoanAction) (model.Loan, error)
}

type CheckoutService interface {
	ProcessScan(ctx context.Context, req model.ScanRequest) (model.ScanResult, error)
}

type JobService interface {
	RunOverdueSweep(ctx context.Context) (int, error)
	RunDueReminders(ctx context.Context) (int, error)
	RunOverdueReminders(ctx context.Context) (int, error)
}

type ReservationService interface {
	CreateReservation(ctx context.Context, req model.CreateReservationRequest) (model.Reservation, error)
	ListReservations(ctx context.Context, memberID string) ([]model.Reservation, error)
	CancelReservation(ctx context.Context, reservationUid string) error
	CreateReview(ctx context.Context, req model.CreateReviewRequest) (model.Review, error)
	ListReviews(ctx context.Context, bookUid string) ([]model.Review, error)
}
