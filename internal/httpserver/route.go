package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/qr_menu/internal/db"
	"github.com/Skotchmaster/qr_menu/internal/hub"
	authmw "github.com/Skotchmaster/qr_menu/internal/middleware/auth"
)

type Deps struct {
	DB            *gorm.DB
	Hub           *hub.Hub
	AuthHandler   *AuthHTTP
	MenuHandler   *MenuHTTP
	TableHandler  *TableHTTP
	OrderHandler  *OrderHTTP
	UploadHandler *UploadHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := db.Ping(c.Request().Context(), d.DB); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	staff := authmw.RequireSession(d.AuthHandler.Svc)

	e.GET("/ws", d.Hub.ServeWS)

	api := e.Group("/api")
	api.GET("/ws", d.Hub.ServeWS)

	auth := api.Group("/auth")
	auth.POST("/session", d.AuthHandler.CreateSession)
	auth.GET("/me", d.AuthHandler.Me, staff)
	auth.POST("/logout", d.AuthHandler.Logout)

	menu := api.Group("/menu")
	menu.GET("", d.MenuHandler.ListMenu)
	menu.GET("/search", d.MenuHandler.SearchMenu)
	menu.GET("/:id", d.MenuHandler.GetMenuItem)
	menu.POST("", d.MenuHandler.CreateMenuItem, staff)
	menu.PUT("/:id", d.MenuHandler.UpdateMenuItem, staff)
	menu.DELETE("/:id", d.MenuHandler.DeleteMenuItem, staff)

	tables := api.Group("/tables")
	tables.POST("", d.TableHandler.CreateTable, staff)
	tables.GET("", d.TableHandler.ListTables, staff)
	tables.GET("/qr-bulk", d.TableHandler.BulkQR, staff)
	tables.GET("/:id", d.TableHandler.GetTable)
	tables.GET("/:id/qr", d.TableHandler.TableQR)
	tables.DELETE("/:id", d.TableHandler.DeleteTable, staff)

	orders := api.Group("/orders")
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("", d.OrderHandler.ListOrders, staff)
	orders.PUT("/:id/status", d.OrderHandler.UpdateStatus, staff)

	if d.UploadHandler != nil {
		// multipart framing on top of the file itself
		limit := echomw.BodyLimit(strconv.FormatInt(d.UploadHandler.maxBytes()+64<<10, 10))
		api.POST("/upload", d.UploadHandler.UploadImage, staff, limit)
		if d.UploadHandler.Dir != "" {
			e.Static("/uploads", d.UploadHandler.Dir)
		}
	}
}
