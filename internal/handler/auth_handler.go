package handler

import (
	"errors"
	"net/http"
	"time"

	"foodorder/internal/config"
	"foodorder/internal/domain/model"
	"foodorder/internal/middleware"
	"foodorder/internal/repository"
	"foodorder/internal/usecase"
	auth "foodorder/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

const refreshCookieName = "refresh"

type AuthHandler struct {
	registerUC   *auth.RegisterUserUsecase // 会員登録usecase
	loginUC      *auth.LoginUsecase        // ログインusecase
	refreshUC    *auth.RefreshUsecase
	logoutUC     *auth.LogoutUsecase
	profileUC    *auth.ProfileUsecase
	refreshTTL   time.Duration // refresh cookie の有効期限
	cookieSecure bool
}

// DIコンストラクタ
func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	refreshUC *auth.RefreshUsecase,
	logoutUC *auth.LogoutUsecase,
	profileUC *auth.ProfileUsecase,
	cfg config.Config,
) *AuthHandler {
	return &AuthHandler{
		registerUC:   registerUC,
		loginUC:      loginUC,
		refreshUC:    refreshUC,
		logoutUC:     logoutUC,
		profileUC:    profileUC,
		refreshTTL:   cfg.RefreshTTL,
		cookieSecure: cfg.IsProduction(),
	}
}

// /auth/register のリクエストボディ。
type registerRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=11,max=16,phone"`
	Password string `json:"password" validate:"required,min=8"`
}

// /auth/login のリクエストボディ。
type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// cookieが無い時はbodyから
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type updateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,min=11,max=16,phone"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

type tokenResponse struct {
	User         *model.User         `json:"user,omitempty"`
	Token        auth.JwtAccessToken `json:"token"`
	RefreshToken string              `json:"refresh_token"`
}

func (h *AuthHandler) RegisterRoutes(g *echo.Group, cfg config.Config, userRepo repository.UserRepository) {
	a := g.Group("/auth")
	a.POST("/register", h.Register)
	a.POST("/login", h.Login)
	a.POST("/refresh", h.Refresh)

	authed := authChain(cfg, userRepo)
	a.POST("/logout", h.Logout, authed...)
	a.GET("/profile", h.Profile, authed...)
	a.PUT("/profile", h.UpdateProfile, authed...)
}

// RegisterはPOST /auth/registerのハンドラ
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Name:     middleware.SanitizeText(req.Name),
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return mapAuthError(err)
	}

	return respond(c, http.StatusCreated, "user registered successfully", out)
}

// LoginはPOST /auth/login のハンドラ。
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	// User-Agentを取得（refreshtokenに紐付ける）
	out, side, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return mapAuthError(err)
	}

	h.setRefreshCookie(c, side.PlainRefreshToken)
	return respond(c, http.StatusOK, "logged in successfully", tokenResponse{
		User:         &out.User,
		Token:        out.Token,
		RefreshToken: side.PlainRefreshToken,
	})
}

// POST /auth/refresh。古いトークンは使用済みになる
func (h *AuthHandler) Refresh(c echo.Context) error {
	plain, err := h.refreshTokenFrom(c)
	if err != nil {
		return err
	}

	out, side, err := h.refreshUC.Execute(c.Request().Context(), auth.RefreshInput{
		RefreshToken: plain,
		UserAgent:    c.Request().UserAgent(),
	})
	if err != nil {
		h.clearRefreshCookie(c)
		return mapAuthError(err)
	}

	h.setRefreshCookie(c, side.PlainRefreshToken)
	return respond(c, http.StatusOK, "token refreshed successfully", tokenResponse{
		Token:        out.Token,
		RefreshToken: side.PlainRefreshToken,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	plain, err := h.refreshTokenFrom(c)
	if err != nil {
		return err
	}

	if err := h.logoutUC.Execute(c.Request().Context(), actorFrom(c).UserID, plain); err != nil {
		return mapAuthError(err)
	}

	h.clearRefreshCookie(c)
	return respond(c, http.StatusOK, "logged out successfully", nil)
}

func (h *AuthHandler) Profile(c echo.Context) error {
	user, err := h.profileUC.Get(c.Request().Context(), actorFrom(c).UserID)
	if err != nil {
		return mapAuthError(err)
	}
	return respond(c, http.StatusOK, "profile loaded successfully", user)
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Name != nil {
		name := middleware.SanitizeText(*req.Name)
		req.Name = &name
	}

	user, err := h.profileUC.Update(c.Request().Context(), actorFrom(c).UserID, auth.UpdateProfileInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return mapAuthError(err)
	}
	return respond(c, http.StatusOK, "profile updated successfully", user)
}

func (h *AuthHandler) refreshTokenFrom(c echo.Context) (string, error) {
	if ck, err := c.Cookie(refreshCookieName); err == nil && ck.Value != "" {
		return ck.Value, nil
	}

	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return "", usecase.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.RefreshToken == "" {
		return "", usecase.NewHTTPError(http.StatusBadRequest, "refresh token is required")
	}
	return req.RefreshToken, nil
}

// refreshtoken をCookieにセット。
func (h *AuthHandler) setRefreshCookie(c echo.Context, plainRefresh string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    plainRefresh,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(h.refreshTTL),
	})
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// authパッケージのエラーをHTTPへ
func mapAuthError(err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidEmailFormat),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrInvalidName),
		errors.Is(err, auth.ErrInvalidRole):
		return usecase.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrWeakPassword):
		return usecase.NewHTTPError(http.StatusBadRequest, "password must contain at least one lowercase letter, one uppercase letter and one number")
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		return usecase.NewHTTPError(http.StatusConflict, "user already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return usecase.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, auth.ErrInvalidRefreshToken), errors.Is(err, auth.ErrRefreshTokenReused):
		return usecase.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	case errors.Is(err, auth.ErrUserInactive), errors.Is(err, auth.ErrForbidden):
		return usecase.NewHTTPError(http.StatusForbidden, "forbidden")
	case errors.Is(err, auth.ErrUserNotFound):
		return usecase.NewHTTPError(http.StatusNotFound, "user not found")
	default:
		return &usecase.HTTPError{Status: http.StatusInternalServerError, Code: usecase.CodeInternal, Message: "internal error", Err: err}
	}
}
