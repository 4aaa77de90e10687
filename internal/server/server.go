package server

import (
	"context"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nikolayk812/storefront/internal/handler"
	"github.com/nikolayk812/storefront/internal/middleware"
)

type Server struct {
	echo         *echo.Echo
	cartHandler  *handler.CartHandler
	orderHandler *handler.OrderHandler
}

func New(cartHandler *handler.CartHandler, orderHandler *handler.OrderHandler) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	s := &Server{
		echo:         e,
		cartHandler:  cartHandler,
		orderHandler: orderHandler,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/api/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api := s.echo.Group("/api", middleware.RequireCustomerID)

	cart := api.Group("/cart")
	cart.GET("", s.cartHandler.GetCart)
	cart.POST("", s.cartHandler.AddLine)
	cart.DELETE("", s.cartHandler.Clear)
	cart.GET("/count", s.cartHandler.Count)
	cart.PUT("/:productId", s.cartHandler.SetQuantity)
	cart.DELETE("/:productId", s.cartHandler.RemoveLine)

	orders := api.Group("/orders")
	orders.POST("/checkout", s.orderHandler.Checkout)
	orders.GET("", s.orderHandler.ListOrders)
	orders.GET("/:id", s.orderHandler.GetOrder)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
