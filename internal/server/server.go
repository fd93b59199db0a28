package server

import (
	"app/internal/handler"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func Start(addr string, stockH *handler.StockHandler, catalogH *handler.CatalogHandler) error {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	stockH.RegisterRoutes(e)
	catalogH.RegisterRoutes(e)

	return e.Start(addr)
}
