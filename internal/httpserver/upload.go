package httpserver

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/qr_menu/internal/logging"
	"github.com/Skotchmaster/qr_menu/internal/upload"
)

const DefaultUploadMaxBytes = 5 << 20

type UploadHTTP struct {
	Store    upload.Store
	MaxBytes int64
	// Dir is served at /uploads when set.
	Dir string
}

func (h *UploadHTTP) maxBytes() int64 {
	if h.MaxBytes > 0 {
		return h.MaxBytes
	}
	return DefaultUploadMaxBytes
}

func (h *UploadHTTP) UploadImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload.image")

	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
			l.Warn("upload_image_error", "status", 413, "reason", "file too large", "error", err)
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file too large")
		}
		l.Warn("upload_image_error", "status", 400, "reason", "no file uploaded", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "No file uploaded")
	}
	if fh.Size > h.maxBytes() {
		l.Warn("upload_image_error", "status", 413, "reason", "file too large", "size", fh.Size)
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file too large")
	}

	f, err := fh.Open()
	if err != nil {
		l.Error("upload_image_error", "status", 500, "reason", "cannot open file", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Upload failed")
	}
	defer f.Close()

	head := make([]byte, upload.SniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		l.Error("upload_image_error", "status", 500, "reason", "cannot read file", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Upload failed")
	}
	head = head[:n]

	ext, ok := upload.Sniff(head)
	if !ok {
		l.Warn("upload_image_error", "status", 400, "reason", "not a png or jpeg")
		return echo.NewHTTPError(http.StatusBadRequest, "only PNG and JPEG images are accepted")
	}

	name := uuid.NewString() + ext
	url, err := h.Store.Save(ctx, name, io.MultiReader(bytes.NewReader(head), f))
	if err != nil {
		l.Error("upload_image_error", "status", 500, "reason", "store failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Upload failed")
	}

	l.Info("upload_image_success", "public_id", name, "size", fh.Size)
	return c.JSON(http.StatusOK, map[string]string{"url": url, "public_id": name})
}
