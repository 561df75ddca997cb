package controllerImp

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fraatlas/pkg/analysis/service"
	"fraatlas/pkg/claim/repository"
	"fraatlas/pkg/logger"
)

type AnalysisCtrl struct{ svc service.AnalysisService }

func New(svc service.AnalysisService) *AnalysisCtrl { return &AnalysisCtrl{svc} }

func (h *AnalysisCtrl) Get(c echo.Context) error {
	rec, err := h.svc.Analyze(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}
	if err != nil {
		logger.FromContext(c.Request().Context()).Error("analysis failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, rec)
}
