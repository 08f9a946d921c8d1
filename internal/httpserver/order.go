package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/qr_menu/internal/logging"
	"github.com/Skotchmaster/qr_menu/internal/models"
	"github.com/Skotchmaster/qr_menu/internal/service"
	"github.com/Skotchmaster/qr_menu/internal/transport"
	"github.com/Skotchmaster/qr_menu/internal/util"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	tableID, err := uuid.Parse(req.TableID)
	if err != nil {
		l.Warn("create_order_error", "status", 404, "reason", "table_id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "table not found")
	}

	order, err := h.Svc.CreateOrder(ctx, tableID, req.Lines())
	if err != nil {
		return fail(l, "create_order", err, "table not found")
	}

	l.Info("create_order_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.OrderPageSize)
	offset, limit := util.Calculate(page, size, util.OrderPageSize)

	orders, err := h.Svc.ListOrders(ctx, models.OrderStatus(c.QueryParam("status")), offset, limit)
	if err != nil {
		return fail(l, "list_orders", err, "")
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_order_status_error", "status", 404, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	var req transport.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_order_status_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateStatus(ctx, id, models.OrderStatus(req.Status))
	if err != nil {
		return fail(l, "update_order_status", err, "order not found")
	}

	l.Info("update_order_status_success", "order_id", order.ID, "status", order.Status)
	return c.JSON(http.StatusOK, order)
}
