package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/todo-render/internal/core/domain"
)

// RBAC lets a request through only when its session has one of the allowed
// roles. Missing sessions yield domain.ErrUnauthenticated, other roles
// domain.ErrForbidden; the HTTP error handler decides how each is shown.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, ok := SessionFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}
			if _, ok := allowed[sess.Role]; !ok {
				return fmt.Errorf("%w: role %s", domain.ErrForbidden, sess.Role)
			}
			return next(c)
		}
	}
}
