package scale

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/thmestatistica/apollo-pendencias/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "medico", "fisioterapeuta", "recepcao"))
	readGroup.GET("/escalas", h.ListScales)
	readGroup.GET("/escalas/associacoes", h.ListAssociations)
	readGroup.GET("/escalas/associacoes/:id", h.GetAssociation)

	writeGroup := api.Group("", auth.RequireRole("admin"))
	writeGroup.POST("/escalas", h.CreateScale)
	writeGroup.PUT("/escalas/associacoes/:id", h.UpdateAssociation)
	writeGroup.DELETE("/escalas/:formId", h.DeleteScale)
}

func (h *Handler) CreateScale(c echo.Context) error {
	var in CreateScaleInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	assoc, err := h.svc.CreateScale(c.Request().Context(), in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusCreated, assoc)
}

func (h *Handler) DeleteScale(c echo.Context) error {
	formID, err := uuid.Parse(c.Param("formId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid formId")
	}
	if err := h.svc.DeleteScale(c.Request().Context(), formID); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetAssociation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	assoc, err := h.svc.GetAssociation(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "associacao not found")
	}
	return c.JSON(http.StatusOK, assoc)
}

func (h *Handler) UpdateAssociation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var a Association
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a.ID = id
	if err := h.svc.UpdateAssociation(c.Request().Context(), &a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListAssociations(c echo.Context) error {
	assocs, err := h.svc.ListAssociations(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, assocs)
}

func (h *Handler) ListScales(c echo.Context) error {
	formsList, err := h.svc.ListForms(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, formsList)
}
