package controller

import "github.com/labstack/echo/v4"

type ClaimController interface {
	Create(c echo.Context) error
	List(c echo.Context) error
	Get(c echo.Context) error
	Update(c echo.Context) error
	Import(c echo.Context) error
	Export(c echo.Context) error
	Stats(c echo.Context) error
}
