package handler

import (
	"net/http"

	"gamecatalog/internal/delivery/api/response"
	"gamecatalog/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// FacetHandlerParams holds dependencies for FacetHandler, injected by Fx.
type FacetHandlerParams struct {
	fx.In

	FacetUC usecase.FacetUsecase
}

// FacetHandler serves the filter taxonomy.
type FacetHandler struct {
	facetUC usecase.FacetUsecase
}

// NewFacetHandler is the constructor for FacetHandler
func NewFacetHandler(params FacetHandlerParams) *FacetHandler {
	return &FacetHandler{
		facetUC: params.FacetUC,
	}
}

// ListFilters handles GET /api/v1/filters
func (h *FacetHandler) ListFilters(c echo.Context) error {
	facets, err := h.facetUC.List(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, facets)
}
