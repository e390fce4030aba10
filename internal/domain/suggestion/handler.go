package suggestion

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/thmestatistica/apollo-pendencias/internal/domain/pendency"
	"github.com/thmestatistica/apollo-pendencias/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	group := api.Group("", auth.RequireRole("admin", "medico", "fisioterapeuta"))
	group.POST("/pacientes/:id/sugestoes", h.Generate)
	group.GET("/pacientes/:id/sugestoes/avaliacao", h.Probe)
	group.GET("/sugestoes/avaliacao", h.ProbeAll)
	group.GET("/sugestoes/rascunhos", h.ListDrafts)
	group.PUT("/sugestoes/rascunhos/:id", h.UpdateDraft)
	group.DELETE("/sugestoes/rascunhos/:id", h.RemoveDraft)
	group.DELETE("/sugestoes/rascunhos", h.DiscardDrafts)
	group.POST("/sugestoes/salvar", h.SaveBatch)
}

func (h *Handler) Generate(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var refOverride *time.Time
	if raw := c.QueryParam("dataReferencia"); raw != "" {
		parsed, ok := pendency.ParseEndTime(raw)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid dataReferencia")
		}
		refOverride = &parsed
	}

	eval, err := h.svc.Generate(c.Request().Context(), auth.SessionIDFromContext(c.Request().Context()), patientID, refOverride)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, eval)
}

func (h *Handler) Probe(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	eval, err := h.svc.Probe(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, eval)
}

func (h *Handler) ProbeAll(c echo.Context) error {
	results, err := h.svc.ProbeAll(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, results)
}

func (h *Handler) ListDrafts(c echo.Context) error {
	drafts := h.svc.Drafts(auth.SessionIDFromContext(c.Request().Context()))
	return c.JSON(http.StatusOK, drafts)
}

func (h *Handler) UpdateDraft(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var draft Suggestion
	if err := c.Bind(&draft); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	draft.ID = id
	if err := h.svc.UpdateDraft(auth.SessionIDFromContext(c.Request().Context()), draft); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, draft)
}

func (h *Handler) RemoveDraft(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.RemoveDraft(auth.SessionIDFromContext(c.Request().Context()), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DiscardDrafts(c echo.Context) error {
	h.svc.DiscardDrafts(auth.SessionIDFromContext(c.Request().Context()))
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SaveBatch(c echo.Context) error {
	result, err := h.svc.SaveBatch(c.Request().Context(), auth.SessionIDFromContext(c.Request().Context()))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	status := http.StatusOK
	if !result.Accepted() {
		status = http.StatusMultiStatus
	}
	return c.JSON(status, result)
}
