// Package server はechoの組み立て（ミドルウェア・ルート登録）。
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/metrics"
	"storefront/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// ルート登録に使うhandler一式
type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Feedback     *handler.FeedbackHandler
	Cart         *handler.CartHandler
	Wishlist     *handler.WishlistHandler
	Order        *handler.OrderHandler
	AdminProduct *handler.AdminProductHandler
}

func New(cfg config.Config, log logrus.FieldLogger, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	//外側から順に
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))
	e.Use(metrics.Middleware())

	RegisterRoutes(e, cfg, h)
	return e
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	h.Auth.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)
	h.Feedback.RegisterRoutes(e, cfg)
	h.Cart.RegisterRoutes(e, cfg)
	h.Wishlist.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
	h.AdminProduct.RegisterRoutes(e, cfg)
}

// Start はブロックする。Shutdownで止めたときはnilを返す
func Start(e *echo.Echo, addr string) error {
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func Shutdown(ctx context.Context, e *echo.Echo, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return e.Shutdown(ctx)
}
