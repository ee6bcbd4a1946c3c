package hospital

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
	read.GET("/hospitals", h.ListHospitals)
	read.GET("/hospitals/:id", h.GetHospital)

	write := api.Group("", auth.RequireRole(auth.WriteRoles...))
	write.POST("/hospitals", h.CreateHospital)
	write.PUT("/hospitals/:id", h.UpdateHospital)
}

func (h *Handler) CreateHospital(c echo.Context) error {
	var body Hospital
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateHospital(c.Request().Context(), &body); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, body)
}

func (h *Handler) GetHospital(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	hosp, err := h.svc.GetHospital(c.Request().Context(), id)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, hosp)
}

func (h *Handler) UpdateHospital(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body Hospital
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	body.ID = id
	if err := h.svc.UpdateHospital(c.Request().Context(), &body); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, body)
}

func (h *Handler) ListHospitals(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{}
	for _, k := range []string{"status", "city", "name"} {
		if v := c.QueryParam(k); v != "" {
			params[k] = v
		}
	}
	items, total, err := h.svc.SearchHospitals(c.Request().Context(), params, pg.Limit, pg.Offset)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	if items == nil {
		items = []*Hospital{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
