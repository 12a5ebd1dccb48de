package handler

import (
	"net/http"

	"gamecatalog/internal/delivery/api/response"
	"gamecatalog/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AnalyticsHandlerParams holds dependencies for AnalyticsHandler, injected by Fx.
type AnalyticsHandlerParams struct {
	fx.In

	AnalyticsUC usecase.AnalyticsUsecase
}

// AnalyticsHandler serves the live stream dashboard.
type AnalyticsHandler struct {
	analyticsUC usecase.AnalyticsUsecase
}

// NewAnalyticsHandler is the constructor for AnalyticsHandler
func NewAnalyticsHandler(params AnalyticsHandlerParams) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsUC: params.AnalyticsUC,
	}
}

// StreamDashboard handles GET /api/v1/analytics/:id
func (h *AnalyticsHandler) StreamDashboard(c echo.Context) error {
	gameID, err := gameIDParam(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	dashboard, err := h.analyticsUC.StreamDashboard(c.Request().Context(), gameID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, dashboard)
}
