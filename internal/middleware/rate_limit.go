package middleware

import (
	"net/http"
	"time"

	"foodorder/internal/usecase"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// IPごとのレート制限。storeがnilならプロセス内メモリで数える
func RateLimit(store echomw.RateLimiterStore, rps float64, burst int, expiresIn time.Duration) echo.MiddlewareFunc {
	if store == nil {
		store = echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(rps),
			Burst:     burst,
			ExpiresIn: expiresIn,
		})
	}

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return usecase.NewHTTPError(http.StatusForbidden, "could not identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return usecase.NewHTTPError(http.StatusTooManyRequests, "too many requests, please try again later")
		},
	})
}
