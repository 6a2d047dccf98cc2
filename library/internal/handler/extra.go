package handler

import (
	"net/http"

	"github.com/baramej/library-system/library/internal/model"
	"github.com/labstack/echo/v4"
)

func (h *Handler) CreateReservation(c echo.Context) error {
	var req model.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	reservation, err := h.reservationSvc.CreateReservation(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, reservation)
}

func (h *Handler) ListReservations(c echo.Context) error {
	reservations, err := h.reservationSvc.ListReservations(c.Request().Context(), c.Param("memberId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, reservations)
}

func (h *Handler) CancelReservation(c echo.Context) error {
	if err := h.reservationSvc.CancelReservation(c.Request().Context(), c.Param("reservationUid")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CreateReview(c echo.Context) error {
	var req model.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	review, err := h.reservationSvc.CreateReview(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, review)
}

func (h *Handler) ListReviews(c echo.Context) error {
	reviews, err := h.reservationSvc.ListReviews(c.Request().Context(), c.Param("bookUid"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, reviews)
}
