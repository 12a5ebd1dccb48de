package handler

import (
	"log/slog"
	"net/http"

	"gamecatalog/internal/delivery/api/response"
	"gamecatalog/internal/delivery/api/validator"
	"gamecatalog/internal/domain/entity"
	"gamecatalog/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// GameHandlerParams holds dependencies for GameHandler, injected by Fx.
type GameHandlerParams struct {
	fx.In

	GameUC    usecase.GameUsecase
	CatalogUC usecase.CatalogUsecase
	Logger    *slog.Logger
}

// GameHandler serves the catalog listing, autocomplete and game detail.
type GameHandler struct {
	gameUC    usecase.GameUsecase
	catalogUC usecase.CatalogUsecase
	logger    *slog.Logger
}

// NewGameHandler is the constructor for GameHandler
func NewGameHandler(params GameHandlerParams) *GameHandler {
	return &GameHandler{
		gameUC:    params.GameUC,
		catalogUC: params.CatalogUC,
		logger:    params.Logger,
	}
}

// ListGamesRequest holds the catalog query string.
type ListGamesRequest struct {
	Page      int    `query:"page" validate:"omitempty,gte=1,lte=10000"`
	Search    string `query:"search" validate:"max=200"`
	Platform  string `query:"platform" validate:"max=200"`
	Genre     string `query:"genre" validate:"max=200"`
	Year      int    `query:"year" validate:"omitempty,gte=1950,lte=2100"`
	Developer string `query:"developer" validate:"max=200"`
	Mode      string `query:"mode" validate:"max=200"`
}

// ListGames handles GET /api/v1/games
func (h *GameHandler) ListGames(c echo.Context) error {
	var req ListGamesRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid catalog query")
	}

	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, validator.FieldErrors(err))
	}

	page, err := h.catalogUC.Page(c.Request().Context(), entity.CatalogQuery{
		Page:      req.Page,
		Search:    req.Search,
		Platform:  req.Platform,
		Genre:     req.Genre,
		Year:      req.Year,
		Developer: req.Developer,
		Mode:      req.Mode,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, page)
}

// GetGame handles GET /api/v1/games/:id
func (h *GameHandler) GetGame(c echo.Context) error {
	id, err := gameIDParam(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	game, err := h.gameUC.Get(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, game)
}

// Suggestions handles GET /api/v1/suggestions?q=
func (h *GameHandler) Suggestions(c echo.Context) error {
	suggestions, err := h.catalogUC.Suggestions(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, suggestions)
}
