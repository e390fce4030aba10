package pendency

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/thmestatistica/apollo-pendencias/internal/platform/auth"
	"github.com/thmestatistica/apollo-pendencias/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "medico", "fisioterapeuta", "recepcao"))
	readGroup.GET("/pendencias", h.Worklist)
	readGroup.GET("/pendencias/:id", h.GetPendency)

	writeGroup := api.Group("", auth.RequireRole("admin", "medico", "fisioterapeuta"))
	writeGroup.POST("/pendencias", h.CreatePendency)
	writeGroup.POST("/pendencias/:id/preencher", h.Fill)
	writeGroup.POST("/pendencias/:id/nao-se-aplica", h.MarkNotApplicable)
	writeGroup.POST("/pendencias/:id/aplicada-nao-registrada", h.MarkAppliedNotRecorded)
	writeGroup.POST("/pendencias/:id/nao-realizada", h.MarkNotDone)

	adminGroup := api.Group("", auth.RequireRole("admin"))
	adminGroup.DELETE("/pendencias/:id", h.DeletePendency)
}

func transitionError(err error) error {
	switch {
	case errors.Is(err, ErrMissingServerID), errors.Is(err, ErrConfirmationRequired), errors.Is(err, ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrLocked):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) CreatePendency(c echo.Context) error {
	var p Pendency
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreatePendency(c.Request().Context(), &p); err != nil {
		if DefaultConflictClassifier(err) {
			return echo.NewHTTPError(http.StatusConflict, "pendencia already exists")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPendency(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetPendency(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "pendencia not found")
	}
	view, err := h.svc.EffectiveView(c.Request().Context(), auth.SessionIDFromContext(c.Request().Context()), p)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) Worklist(c echo.Context) error {
	pg := pagination.FromContext(c)

	var filter ListFilter
	if raw := c.QueryParam("pacienteId"); raw != "" {
		pid, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid pacienteId")
		}
		filter.PacienteID = pid
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := Status(raw)
		if !status.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		filter.Status = status
	}

	views, total, err := h.svc.Worklist(c.Request().Context(), auth.SessionIDFromContext(c.Request().Context()), filter, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(views, total, pg.Limit, pg.Offset))
}

func (h *Handler) Fill(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.Fill(c.Request().Context(), auth.SessionIDFromContext(c.Request().Context()), id)
	if err != nil {
		return transitionError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) MarkNotApplicable(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.MarkNotApplicable(c.Request().Context(), auth.SessionIDFromContext(c.Request().Context()), id)
	if err != nil {
		return transitionError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) MarkAppliedNotRecorded(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Confirmado bool `json:"confirmado"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.MarkAppliedNotRecorded(c.Request().Context(), auth.SessionIDFromContext(c.Request().Context()), id, body.Confirmado)
	if err != nil {
		return transitionError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) MarkNotDone(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.MarkNotDone(c.Request().Context(), auth.SessionIDFromContext(c.Request().Context()), id); err != nil {
		return transitionError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeletePendency(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeletePendency(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
