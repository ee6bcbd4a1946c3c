package inventory

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medsync/medsync/internal/platform/auth"
	"github.com/medsync/medsync/pkg/apperr"
	"github.com/medsync/medsync/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(auth.ReadRoles...))
	read.GET("/resources", h.ListResources)
	read.GET("/resources/alerts", h.ListAlerts)
	read.GET("/resources/:id", h.GetResource)
	read.GET("/hospitals/:id/available-resources", h.ListEligible)

	write := api.Group("", auth.RequireRole(auth.WriteRoles...))
	write.POST("/resources", h.CreateResource)
	write.PUT("/resources/:id", h.UpdateResource)
}

func (h *Handler) CreateResource(c echo.Context) error {
	var r Resource
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateResource(c.Request().Context(), &r); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) GetResource(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	r, err := h.svc.GetResource(c.Request().Context(), id)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) UpdateResource(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var r Resource
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r.ID = id
	if err := h.svc.UpdateResource(c.Request().Context(), &r); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) ListResources(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{}
	for _, k := range []string{"type", "hospital_id", "status"} {
		if v := c.QueryParam(k); v != "" {
			params[k] = v
		}
	}
	items, total, err := h.svc.SearchResources(c.Request().Context(), params, pg.Limit, pg.Offset)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	if items == nil {
		items = []*Resource{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListAlerts(c echo.Context) error {
	items, err := h.svc.ListAlerts(c.Request().Context())
	if err != nil {
		return apperr.ToHTTP(err)
	}
	if items == nil {
		items = []*Resource{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": items, "total": len(items)})
}

func (h *Handler) ListEligible(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.EligibleResources(c.Request().Context(), id)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": items, "total": len(items)})
}
