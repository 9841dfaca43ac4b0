package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"foodorder/internal/config"
	"foodorder/internal/handler"
	"foodorder/internal/logger"
	"foodorder/internal/middleware"
	"foodorder/internal/validator"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Server はechoの起動と停止を持つ。
type Server struct {
	echo *echo.Echo
	cfg  config.Config
	log  *logger.Logger
}

// New は共通ミドルウェアとルートを設定したechoを作る。
// rateStoreがnilならメモリでレート制限する。
func New(cfg config.Config, log *logger.Logger, rateStore echomw.RateLimiterStore, deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = handler.NewErrorHandler(log)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(log.RequestLogger())
	e.Use(middleware.Tracing())
	e.Use(echomw.SecureWithConfig(echomw.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' data:",
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     allowOrigins(cfg.FEURL),
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderAcceptEncoding, "Accept-Language"},
		AllowCredentials: cfg.FEURL != "*",
	}))
	e.Use(echomw.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RateLimit(rateStore, cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.RateLimitWin))
	e.Use(middleware.Sanitize())

	// アップロード画像の公開
	e.Static("/uploads", cfg.UploadDir)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	RegisterRoutes(e, cfg, deps)

	return &Server{echo: e, cfg: cfg, log: log}
}

// テストやmainからハンドラを直接叩く用
func (s *Server) Echo() *echo.Echo { return s.echo }

// Start はShutdownされるまでブロックする。
func (s *Server) Start() error {
	addr := s.cfg.Port
	if !strings.HasPrefix(addr, ":") {
		addr = ":" + addr
	}
	s.log.Info("server starting", "addr", addr, "env", s.cfg.GoEnv)

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.echo.Shutdown(ctx)
}

func allowOrigins(feURL string) []string {
	if feURL == "" || feURL == "*" {
		return []string{"*"}
	}
	origins := strings.Split(feURL, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}
