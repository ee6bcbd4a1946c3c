package sharing

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

// RegisterRoutes mounts the request workflow. Requests are never deleted,
// so there is no DELETE route.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(auth.ReadRoles...))
	read.GET("/resource-requests", h.ListRequests)
	read.GET("/resource-requests/summary", h.GetSummary)
	read.GET("/resource-requests/:id", h.GetRequest)

	write := api.Group("", auth.RequireRole(auth.WriteRoles...))
	write.POST("/resource-requests", h.CreateRequest)
	write.POST("/resource-requests/:id/approve", h.ApproveRequest)
	write.POST("/resource-requests/:id/reject", h.RejectRequest)
	write.POST("/resource-requests/:id/fulfill", h.FulfillRequest)
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (h *Handler) CreateRequest(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r, err := h.svc.CreateRequest(c.Request().Context(), in)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) GetRequest(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	r, err := h.svc.GetRequest(c.Request().Context(), id)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) ListRequests(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, err := h.svc.ListRequests(c.Request().Context(), c.QueryParam("status"), c.QueryParam("sort"))
	if err != nil {
		return apperr.ToHTTP(err)
	}
	page := pagination.Page(items, pg)
	return c.JSON(http.StatusOK, pagination.NewResponse(page, len(items), pg.Limit, pg.Offset))
}

func (h *Handler) GetSummary(c echo.Context) error {
	sum, err := h.svc.Summary(c.Request().Context())
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *Handler) ApproveRequest(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in ApproveInput
	// an empty body approves the full requested quantity
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r, err := h.svc.Approve(c.Request().Context(), id, in)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) RejectRequest(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in RejectInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r, err := h.svc.Reject(c.Request().Context(), id, in)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) FulfillRequest(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	r, err := h.svc.Fulfill(c.Request().Context(), id)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, r)
}
