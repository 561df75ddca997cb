package router

import (
	"github.com/labstack/echo/v4"

	"fraatlas/pkg/middleware"
)

func New(
	e *echo.Echo,
	requireAuth bool,
	claimCtrl interface {
		Create(echo.Context) error
		List(echo.Context) error
		Get(echo.Context) error
		Update(echo.Context) error
		Import(echo.Context) error
		Export(echo.Context) error
		Stats(echo.Context) error
	},
	analysisCtrl interface{ Get(echo.Context) error },
	scanCtrl interface{ Scan(echo.Context) error },
	authCtrl interface {
		DevLogin(echo.Context) error
		WhoAmI(echo.Context) error
	},
	healthCtrl interface{ Health(echo.Context) error },
	metrics echo.HandlerFunc,
) *echo.Echo {
	e.GET("/health", healthCtrl.Health)
	e.GET("/metrics", metrics)
	e.GET("/devlogin", authCtrl.DevLogin)

	api := e.Group("", middleware.Bearer(requireAuth))
	api.GET("/whoami", authCtrl.WhoAmI)

	api.POST("/claims", claimCtrl.Create)
	api.GET("/claims", claimCtrl.List)
	api.GET("/claims/stats", claimCtrl.Stats)
	api.GET("/claims/export", claimCtrl.Export)
	api.POST("/claims/import", claimCtrl.Import)
	api.GET("/claims/:id", claimCtrl.Get)
	api.PUT("/claims/:id", claimCtrl.Update)
	api.GET("/claims/:id/analysis", analysisCtrl.Get)

	api.POST("/scan", scanCtrl.Scan)
	return e
}
