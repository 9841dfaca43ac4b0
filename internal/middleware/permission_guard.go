package middleware

import (
	"net/http"

	"foodorder/internal/domain/model"
	"foodorder/internal/usecase"

	"github.com/labstack/echo/v4"
)

// contextのロールが権限pを持っているか確認します。
func RequirePermission(p model.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := ActorFromContext(c)
			if !actor.Authenticated() {
				return errUnauthorized()
			}
			if !actor.Can(p) {
				return usecase.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
