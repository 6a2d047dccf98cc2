package handler

import (
	"net/http"
	"strconv"

	"github.com/baramej/library-system/library/internal/model"
	"github.com/labstack/echo/v4"
)

func (h *Handler) ListMemberTypes(c echo.Context) error {
	items, err := h.memberSvc.ListMemberTypes(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateMemberType(c echo.Context) error {
	var req model.CreateMemberTypeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	mt, err := h.memberSvc.CreateMemberType(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, mt)
}

func (h *Handler) UpdateMemberType(c echo.Context) error {
	var req model.CreateMemberTypeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.Code = c.Param("code")
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	mt, err := h.memberSvc.UpdateMemberType(c.Request().Context(), c.Param("code"), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, mt)
}

func (h *Handler) DeleteMemberType(c echo.Context) error {
	if err := h.memberSvc.DeleteMemberType(c.Request().Context(), c.Param("code")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListMembers(c echo.Context) error {
	page, size, err := pagingParams(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	members, err := h.memberSvc.ListMembers(c.Request().Context(), page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, members)
}

func (h *Handler) CreateMember(c echo.Context) error {
	var req model.CreateMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	member, err := h.memberSvc.CreateMember(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, member)
}

func (h *Handler) GetMember(c echo.Context) error {
	member, err := h.memberSvc.GetMember(c.Request().Context(), c.Param("memberId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, member)
}

func (h *Handler) UpdateMember(c echo.Context) error {
	var req model.CreateMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	active := true
	if activeParam := c.QueryParam("active"); activeParam != "" {
		var err error
		if active, err = strconv.ParseBool(activeParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "active is invalid")
		}
	}
	member, err := h.memberSvc.UpdateMember(c.Request().Context(), c.Param("memberId"), req, active)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, member)
}

func (h *Handler) DeleteMember(c echo.Context) error {
	if err := h.memberSvc.DeleteMember(c.Request().Context(), c.Param("memberId")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListMemberLoans(c echo.Context) error {
	loans, err := h.memberSvc.ListMemberLoans(c.Request().Context(), c.Param("memberId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loans)
}
