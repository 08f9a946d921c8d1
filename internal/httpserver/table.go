package httpserver

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/qr_menu/internal/logging"
	"github.com/Skotchmaster/qr_menu/internal/qr"
	"github.com/Skotchmaster/qr_menu/internal/service"
	"github.com/Skotchmaster/qr_menu/internal/transport"
)

type TableHTTP struct {
	Svc *service.TableService
}

func (h *TableHTTP) CreateTable(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "table.create")

	var req transport.CreateTableRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_table_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	t, err := h.Svc.CreateTable(ctx, req.TableNumber)
	if err != nil {
		return fail(l, "create_table", err, "")
	}

	l.Info("create_table_success", "id", t.ID, "table_number", t.Number)
	return c.JSON(http.StatusCreated, t)
}

func (h *TableHTTP) ListTables(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "table.list")

	tables, err := h.Svc.ListTables(ctx)
	if err != nil {
		return fail(l, "list_tables", err, "")
	}
	return c.JSON(http.StatusOK, tables)
}

func (h *TableHTTP) GetTable(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "table.get")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_table_error", "status", 404, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "table not found")
	}

	t, err := h.Svc.GetTable(ctx, id)
	if err != nil {
		return fail(l, "get_table", err, "table not found")
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TableHTTP) DeleteTable(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "table.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_table_error", "status", 404, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "table not found")
	}

	if err := h.Svc.DeleteTable(ctx, id); err != nil {
		return fail(l, "delete_table", err, "table not found")
	}

	l.Info("delete_table_success", "id", id)
	return c.JSON(http.StatusOK, map[string]string{"message": "table deleted"})
}

func (h *TableHTTP) TableQR(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "table.qr")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("table_qr_error", "status", 404, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "table not found")
	}

	png, t, err := h.Svc.QRCode(ctx, id)
	if err != nil {
		return fail(l, "table_qr", err, "table not found")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", qr.FileName(*t)))
	return c.Blob(http.StatusOK, "image/png", png)
}

func (h *TableHTTP) BulkQR(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "table.qr_bulk")

	tables, err := h.Svc.ExportQRCodes(ctx)
	if err != nil {
		return fail(l, "table_qr_bulk", err, "no tables found")
	}

	var buf bytes.Buffer
	if err := service.WriteQRArchive(&buf, tables); err != nil {
		return fail(l, "table_qr_bulk", err, "")
	}

	l.Info("table_qr_bulk_success", "tables", len(tables))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="table-qr-codes.zip"`)
	return c.Blob(http.StatusOK, "application/zip", buf.Bytes())
}
