package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/glorimarket/cart_service/internal/jwtmiddleware"
	"github.com/glorimarket/cart_service/internal/logging"
	"github.com/labstack/echo/v4"
)

type Deps struct {
	CartHandler *CartHTTP
	JWTSecret   []byte
	Logger      *slog.Logger
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	if d.Logger != nil {
		e.Use(requestLogger(d.Logger))
	}

	authMW := jwtmiddleware.New(d.JWTSecret)

	cart := e.Group("/cart")
	cart.Use(authMW.RequireAuth)

	cart.GET("", d.CartHandler.GetCart)
	cart.PATCH("/items/:id", d.CartHandler.AdjustItem)
	cart.DELETE("/items/:id", d.CartHandler.DeleteItem)
}

func requestLogger(l *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := logging.IntoContext(req.Context(), l.With("method", req.Method, "path", req.URL.Path))
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
