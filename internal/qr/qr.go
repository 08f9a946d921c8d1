package qr

import (
	"archive/zip"
	"fmt"
	"io"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/Skotchmaster/qr_menu/internal/models"
)

const DefaultSize = 512

func PNG(payload string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

func FileName(t models.Table) string {
	return fmt.Sprintf("table-%d-qr.png", t.Number)
}

// Archive writes a zip holding one code image per table.
func Archive(w io.Writer, tables []models.Table, size int) error {
	zw := zip.NewWriter(w)
	for _, t := range tables {
		png, err := PNG(t.QRCodeData, size)
		if err != nil {
			return err
		}
		f, err := zw.Create(FileName(t))
		if err != nil {
			return fmt.Errorf("zip entry: %w", err)
		}
		if _, err := f.Write(png); err != nil {
			return fmt.Errorf("zip write: %w", err)
		}
	}
	return zw.Close()
}
