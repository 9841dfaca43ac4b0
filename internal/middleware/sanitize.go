package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"
)

// タグは全部落とす
var strictPolicy = bluemonday.StrictPolicy()

// 自由入力テキストからHTMLを取り除く。
func SanitizeText(s string) string {
	return strictPolicy.Sanitize(s)
}

// クエリとパスパラメータのXSS対策。ボディはhandlerでSanitizeTextを通す
func Sanitize() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.URL.RawQuery != "" {
				q := req.URL.Query()
				for key, values := range q {
					for i, v := range values {
						values[i] = SanitizeText(v)
					}
					q[key] = values
				}
				req.URL.RawQuery = q.Encode()
			}

			if names := c.ParamNames(); len(names) > 0 {
				values := c.ParamValues()
				cleaned := make([]string, len(values))
				for i, v := range values {
					cleaned[i] = SanitizeText(v)
				}
				c.SetParamValues(cleaned...)
			}

			return next(c)
		}
	}
}
