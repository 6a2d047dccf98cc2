package handler

import (
	"net/http"

	md "github.com/baramej/library-system/pkg/middleware"

	"github.com/baramej/library-system/library/internal/errs"
	"github.com/baramej/library-system/pkg/validate"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Handler struct {
	catalogSvc     CatalogService
	memberSvc      MemberService
	loanSvc        LoanService
	checkoutSvc    CheckoutService
	jobSvc         JobService
	reservationSvc ReservationService
	log            *zap.Logger
}

func New(
	catalogSvc CatalogService,
	memberSvc MemberService,
	loanSvc LoanService,
	checkoutSvc CheckoutService,
	jobSvc JobService,
	reservationSvc ReservationService,
	log *zap.Logger,
) *Handler {
	return &Handler{
		catalogSvc:     catalogSvc,
		memberSvc:      memberSvc,
		loanSvc:        loanSvc,
		checkoutSvc:    checkoutSvc,
		jobSvc:         jobSvc,
		reservationSvc: reservationSvc,
		log:            log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.GET("/books", h.ListBooks)
	api.POST("/books", h.CreateBook)
	api.GET("/books/barcode/:barcode", h.GetBookByBarcode)
	api.GET("/books/:bookUid", h.GetBook)
	api.PUT("/books/:bookUid", h.UpdateBook)
	api.DELETE("/books/:bookUid", h.DeleteBook)
	api.GET("/books/:bookUid/reviews", h.ListReviews)

	api.GET("/authors", h.ListAuthors)
	api.POST("/authors", h.CreateAuthor)
	api.GET("/categories", h.ListCategories)
	api.POST("/categories", h.CreateCategory)
	api.GET("/publishers", h.ListPublishers)
	api.POST("/publishers", h.CreatePublisher)
	api.GET("/locations", h.ListLocations)
	api.POST("/locations", h.CreateLocation)
	api.GET("/staff", h.ListStaff)
	api.POST("/staff", h.CreateStaff)
	api.GET("/events", h.ListEvents)
	api.POST("/events", h.CreateEvent)

	api.GET("/member-types", h.ListMemberTypes)
	api.POST("/member-types", h.CreateMemberType)
	api.PUT("/member-types/:code", h.UpdateMemberType)
	api.DELETE("/member-types/:code", h.DeleteMemberType)

	api.GET("/members", h.ListMembers)
	api.POST("/members", h.CreateMember)
	api.GET("/members/:memberId", h.GetMember)
	api.PUT("/members/:memberId", h.UpdateMember)
	api.DELETE("/members/:memberId", h.DeleteMember)
	api.GET("/members/:memberId/loans", h.ListMemberLoans)
	api.GET("/members/:memberId/reservations", h.ListReservations)

	api.GET("/loans", h.ListLoans)
	api.POST("/loans", h.CreateLoan)
	api.GET("/loans/:reference", h.GetLoan)
	api.POST("/loans/:reference/confirm", h.ConfirmLoan)
	api.POST("/loans/:reference/return", h.ReturnLoan)
	api.POST("/loans/:reference/cancel", h.CancelLoan)

	api.POST("/scan", h.ProcessScan)

	api.POST("/reservations", h.CreateReservation)
	api.POST("/reservations/:reservationUid/cancel", h.CancelReservation)
	api.POST("/reviews", h.CreateReview)

	api.POST("/jobs/overdue-sweep", h.RunOverdueSweep)
	api.POST("/jobs/due-reminders", h.RunDueReminders)
	api.POST("/jobs/overdue-reminders", h.RunOverdueReminders)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps the service error taxonomy onto HTTP status codes.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrPolicyViolation),
		errors.Is(err, errs.ErrUniqueViolation):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrInvalidDateRange):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
