package handler

import (
	"log/slog"
	"net/http"

	"gamecatalog/internal/delivery/api/response"
	"gamecatalog/internal/delivery/api/validator"
	deliverycontext "gamecatalog/internal/delivery/context"
	"gamecatalog/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ReviewHandlerParams holds dependencies for ReviewHandler, injected by Fx.
type ReviewHandlerParams struct {
	fx.In

	ReviewUC usecase.ReviewUsecase
	Logger   *slog.Logger
}

// ReviewHandler holds dependencies for review-related handlers
type ReviewHandler struct {
	reviewUC usecase.ReviewUsecase
	logger   *slog.Logger
}

// NewReviewHandler is the constructor for ReviewHandler
func NewReviewHandler(params ReviewHandlerParams) *ReviewHandler {
	return &ReviewHandler{
		reviewUC: params.ReviewUC,
		logger:   params.Logger,
	}
}

// SubmitReviewRequest represents the request body for submitting a review
type SubmitReviewRequest struct {
	Rating  *int   `json:"rating" validate:"required"`
	Comment string `json:"comment"`
}

// SubmitReview handles PUT /api/v1/games/:id/reviews
func (h *ReviewHandler) SubmitReview(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	gameID, err := gameIDParam(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req SubmitReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid review input")
	}

	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, validator.FieldErrors(err))
	}

	review, err := h.reviewUC.Upsert(c.Request().Context(), usecase.ReviewInput{
		UserID:  userID,
		GameID:  gameID,
		Rating:  *req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, review)
}

// ListReviews handles GET /api/v1/games/:id/reviews
func (h *ReviewHandler) ListReviews(c echo.Context) error {
	gameID, err := gameIDParam(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	reviews, err := h.reviewUC.ListByGame(c.Request().Context(), gameID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, reviews)
}

// ReviewStats handles GET /api/v1/games/:id/reviews/stats
func (h *ReviewHandler) ReviewStats(c echo.Context) error {
	gameID, err := gameIDParam(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	stats, err := h.reviewUC.Stats(c.Request().Context(), gameID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, stats)
}
