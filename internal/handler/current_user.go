package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskboard/internal/auth"
)

// currentUserID extracts the authenticated caller's id from the claims placed
// on the context by the JWT middleware.
func currentUserID(c echo.Context) (uint, error) {
	claims, ok := c.Get("user").(*auth.Claims)
	if !ok || claims.UserID == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return claims.UserID, nil
}
