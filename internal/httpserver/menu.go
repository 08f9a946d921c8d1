package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/qr_menu/internal/logging"
	"github.com/Skotchmaster/qr_menu/internal/service"
	"github.com/Skotchmaster/qr_menu/internal/transport"
	"github.com/Skotchmaster/qr_menu/internal/util"
)

const maxSearchPageSize = 100

type MenuHTTP struct {
	Svc *service.MenuService
}

func (h *MenuHTTP) ListMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.list")

	items, err := h.Svc.ListMenuItems(ctx)
	if err != nil {
		return fail(l, "list_menu", err, "")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *MenuHTTP) GetMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.get")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_menu_item_error", "status", 404, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "menu item not found")
	}

	item, err := h.Svc.GetMenuItem(ctx, id)
	if err != nil {
		return fail(l, "get_menu_item", err, "menu item not found")
	}
	return c.JSON(http.StatusOK, item)
}

func (h *MenuHTTP) SearchMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size, maxSearchPageSize)

	total, items, err := h.Svc.SearchMenuItems(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return fail(l, "search_menu", err, "")
	}

	l.Info("search_menu_success", "total", total)
	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *MenuHTTP) CreateMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.create")

	var req transport.CreateMenuItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_menu_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.CreateMenuItem(ctx, req)
	if err != nil {
		return fail(l, "create_menu_item", err, "")
	}

	l.Info("create_menu_item_success", "id", item.ID)
	return c.JSON(http.StatusCreated, item)
}

func (h *MenuHTTP) UpdateMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.update")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_menu_item_error", "status", 404, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "menu item not found")
	}

	var req transport.PatchMenuItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_menu_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.PatchMenuItem(ctx, req, id)
	if err != nil {
		return fail(l, "update_menu_item", err, "menu item not found")
	}

	l.Info("update_menu_item_success", "id", item.ID)
	return c.JSON(http.StatusOK, item)
}

func (h *MenuHTTP) DeleteMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_menu_item_error", "status", 404, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "menu item not found")
	}

	if err := h.Svc.DeleteMenuItem(ctx, id); err != nil {
		return fail(l, "delete_menu_item", err, "menu item not found")
	}

	l.Info("delete_menu_item_success", "id", id)
	return c.JSON(http.StatusOK, map[string]string{"message": "menu item deleted"})
}
