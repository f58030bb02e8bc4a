package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// fail writes the error envelope used across the API:
// {"success": false, "message": ...}.
func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": false, "message": message})
}

// failStorage is fail for data-access failures. The driver error string is
// passed through as a debug aid, matching the legacy backend; it is not
// treated as a security boundary.
func failStorage(c echo.Context, message string, err error) error {
	return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": message, "error": err.Error()})
}
