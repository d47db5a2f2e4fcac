package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/startupsl/backend/core/permission"
)

// roleMiddleware only lets subjects with one of roles through.
func roleMiddleware(roles ...permission.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sub, err := getContextSubject(ctx)
			if err != nil {
				return err
			}
			for _, role := range roles {
				if sub.Role == role {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

func adminMiddleware() echo.MiddlewareFunc {
	return roleMiddleware(permission.RoleAdmin)
}
