package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// requireAdminRoles lets through administrators granted one of roles.
// It must run after the JWT middleware.
func requireAdminRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if !claims.IsAdmin || !claims.hasAnyRole(roles...) {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}
