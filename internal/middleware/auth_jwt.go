package middleware

import (
	"net/http"
	"strings"

	"foodorder/internal/config"
	"foodorder/internal/domain/model"
	"foodorder/internal/usecase"
	auth "foodorder/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey       = "user_id"       // int64
	CtxUserRoleKey     = "user_role"     // model.Role
	CtxTokenVersionKey = "token_version" // int
)

// bearerAuth用のJWT検証ミドルウェア。
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTTL)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return errUnauthorized()
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return errUnauthorized()
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return errUnauthorized()
			}

			//JWTをパースして検証する
			claims, err := issuer.Parse(rawToken)
			if err != nil {
				return errUnauthorized()
			}

			userID, err := claims.UserID()
			if err != nil || userID <= 0 {
				return errUnauthorized()
			}
			if !claims.Role.Valid() || claims.TokenVersion < 0 {
				return errUnauthorized()
			}

			//contextへ保存
			c.Set(CtxUserIDKey, userID)
			c.Set(CtxUserRoleKey, claims.Role)
			c.Set(CtxTokenVersionKey, claims.TokenVersion)

			return next(c)
		}
	}
}

// contextから操作ユーザーを取り出す。未認証ならゼロ値
func ActorFromContext(c echo.Context) usecase.Actor {
	userID, _ := c.Get(CtxUserIDKey).(int64)
	role, _ := c.Get(CtxUserRoleKey).(model.Role)
	return usecase.Actor{UserID: userID, Role: role}
}

func errUnauthorized() error {
	return usecase.NewHTTPError(http.StatusUnauthorized, "unauthorized")
}
