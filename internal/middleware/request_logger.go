package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	HeaderRequestID  = "X-Request-ID"
	CtxRequestIDKey  = "request_id"
	maxRequestIDSize = 64
)

// 1リクエスト1行のアクセスログ。request_idが無ければuuidを振る
func RequestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			rid := req.Header.Get(HeaderRequestID)
			if rid == "" || len(rid) > maxRequestIDSize {
				rid = uuid.NewString()
			}
			c.Set(CtxRequestIDKey, rid)
			c.Response().Header().Set(HeaderRequestID, rid)

			start := time.Now()
			err := next(c)
			if err != nil {
				//echoのエラーハンドラでstatusを確定させる
				c.Error(err)
			}

			status := c.Response().Status
			entry := log.WithFields(logrus.Fields{
				"request_id": rid,
				"method":     req.Method,
				"path":       req.URL.Path,
				"route":      c.Path(),
				"status":     status,
				"latency_ms": time.Since(start).Milliseconds(),
			})
			if uid, ok := c.Get(CtxUserIDKey).(int64); ok {
				entry = entry.WithField("user_id", uid)
			}

			switch {
			case status >= 500:
				entry.Error("request")
			case status >= 400:
				entry.Warn("request")
			default:
				entry.Info("request")
			}
			return nil
		}
	}
}
