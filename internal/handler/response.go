package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"foodorder/internal/config"
	"foodorder/internal/infra/storage"
	"foodorder/internal/logger"
	"foodorder/internal/middleware"
	"foodorder/internal/repository"
	"foodorder/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 全レスポンス共通の形
type Envelope struct {
	Status  int    `json:"status"`
	Success string `json:"success"` // "success" / "fail"
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type errorData struct {
	Code usecase.ErrorCode `json:"code"`
}

// 成功レスポンス
func respond(c echo.Context, status int, message string, data any) error {
	if data == nil {
		data = struct{}{}
	}
	return c.JSON(status, Envelope{
		Status:  status,
		Success: "success",
		Message: localize(c, message),
		Data:    data,
	})
}

// writeError はエラーをHTTPErrorにそろえて書く。
func writeError(c echo.Context, err error) error {
	he := toHTTPError(err)

	message := he.Message
	if wantsArabic(c) {
		if ar, ok := arabicByStatus[he.Status]; ok && genericStatus(he.Status) {
			message = ar
		}
	}

	return c.JSON(he.Status, Envelope{
		Status:  he.Status,
		Success: "fail",
		Message: message,
		Data:    errorData{Code: he.Code},
	})
}

func toHTTPError(err error) *usecase.HTTPError {
	if he, ok := usecase.AsHTTPError(err); ok {
		if he.Status >= http.StatusInternalServerError {
			// 中身はログだけ
			return &usecase.HTTPError{Status: he.Status, Code: usecase.CodeInternal, Message: "something went wrong", Err: he.Err}
		}
		return he
	}

	var ee *echo.HTTPError
	if errors.As(err, &ee) {
		msg := http.StatusText(ee.Code)
		if s, ok := ee.Message.(string); ok && s != "" {
			msg = s
		}
		out, _ := usecase.NewHTTPError(ee.Code, strings.ToLower(msg)).(*usecase.HTTPError)
		if ee.Code >= http.StatusInternalServerError {
			out.Message = "something went wrong"
		}
		return out
	}

	return &usecase.HTTPError{Status: http.StatusInternalServerError, Code: usecase.CodeInternal, Message: "something went wrong", Err: err}
}

// echoのHTTPErrorHandler。500系は原因をログに出す
func NewErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		he := toHTTPError(err)
		if he.Status >= http.StatusInternalServerError {
			cause := err
			if he.Err != nil {
				cause = he.Err
			}
			log.Error("request failed",
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"method", c.Request().Method,
				"path", c.Path(),
				"error", cause.Error(),
			)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(he.Status)
			return
		}
		_ = writeError(c, err)
	}
}

// =====================
// 認証
// =====================

// JWT + token_version + (必要なら) 権限
func authChain(cfg config.Config, userRepo repository.UserRepository, extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	chain := []echo.MiddlewareFunc{
		middleware.AuthJWT(cfg),
		middleware.TokenVersionGuard(userRepo),
	}
	return append(chain, extra...)
}

func actorFrom(c echo.Context) usecase.Actor {
	return middleware.ActorFromContext(c)
}

// =====================
// 入力
// =====================

// bindしてvalidate
func bindAndValidate(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	return c.Validate(dst)
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, usecase.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// 空ならdef
func queryInt(c echo.Context, name string, def int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, usecase.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return n, nil
}

// multipartの"image"を取り出す。無ければnil
func readImage(c echo.Context, maxBytes int64) (*usecase.ImageUpload, func(), error) {
	noop := func() {}

	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, usecase.NewHTTPError(http.StatusBadRequest, "invalid image upload")
	}

	if err := storage.CheckImage(fh.Filename, fh.Size, maxBytes); err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, noop, usecase.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
		}
		return nil, noop, usecase.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	f, err := fh.Open()
	if err != nil {
		return nil, noop, usecase.NewHTTPError(http.StatusBadRequest, "invalid image upload")
	}
	return &usecase.ImageUpload{Filename: fh.Filename, Content: f}, func() { _ = f.Close() }, nil
}
