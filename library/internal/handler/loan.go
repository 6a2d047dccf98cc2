package handler

import (
	"context"
	"net/http"

	"github.com/baramej/library-system/library/internal/model"
	"github.com/labstack/echo/v4"
)

func (h *Handler) CreateLoan(c echo.Context) error {
	var req model.CreateLoanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	loan, err := h.loanSvc.CreateLoan(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, loan)
}

func (h *Handler) ListLoans(c echo.Context) error {
	page, size, err := pagingParams(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	loans, err := h.loanSvc.ListLoans(c.Request().Context(), c.QueryParam("state"), page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *Handler) GetLoan(c echo.Context) error {
	loan, err := h.loanSvc.GetLoan(c.Request().Context(), c.Param("reference"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) transitionLoan(c echo.Context, action model.LoanAction) error {
	reference := c.Param("reference")
	if reference == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "reference is empty")
	}
	loan, err := h.loanSvc.TransitionLoan(c.Request().Context(), reference, action)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) ConfirmLoan(c echo.Context) error {
	return h.transitionLoan(c, model.LoanActionConfirm)
}

func (h *Handler) ReturnLoan(c echo.Context) error {
	return h.transitionLoan(c, model.LoanActionReturn)
}

func (h *Handler) CancelLoan(c echo.Context) error {
	return h.transitionLoan(c, model.LoanActionCancel)
}

func (h *Handler) ProcessScan(c echo.Context) error {
	var req model.ScanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.checkoutSvc.ProcessScan(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) RunOverdueSweep(c echo.Context) error {
	return h.runJob(c, h.jobSvc.RunOverdueSweep)
}

func (h *Handler) RunDueReminders(c echo.Context) error {
	return h.runJob(c, h.jobSvc.RunDueReminders)
}

func (h *Handler) RunOverdueReminders(c echo.Context) error {
	return h.runJob(c, h.jobSvc.RunOverdueReminders)
}

func (h *Handler) runJob(c echo.Context, job func(ctx context.Context) (int, error)) error {
	processed, err := job(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"processed": processed})
}
