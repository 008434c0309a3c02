package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxActor extracts the resolved actor identity injected by the Auth
// middleware and performs a fast-fail check before any service call: both
// claims must be present, otherwise the token is structurally valid but
// operationally unusable.
func ctxActor(c echo.Context) (actorID, role string, err error) {
	actorID, _ = c.Get("user_id").(string)
	role, _ = c.Get("role").(string)
	if actorID == "" || role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return actorID, role, nil
}
