package handler

import (
	"strconv"

	domainerrors "gamecatalog/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

// gameIDParam parses the :id path segment as a positive game id.
func gameIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domainerrors.ErrInvalidGameID
	}

	return id, nil
}
