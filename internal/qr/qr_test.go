package qr

import (
	"archive/zip"
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/qr_menu/internal/models"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestPNG(t *testing.T) {
	b, err := PNG("https://menu.example.com/menu/abc", 256)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(b, pngMagic))

	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}

func TestArchive(t *testing.T) {
	tables := []models.Table{
		{Number: 1, QRCodeData: "https://menu.example.com/menu/1"},
		{Number: 12, QRCodeData: "https://menu.example.com/menu/12"},
	}

	var buf bytes.Buffer
	require.NoError(t, Archive(&buf, tables, 128))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "table-1-qr.png", zr.File[0].Name)
	assert.Equal(t, "table-12-qr.png", zr.File[1].Name)
}
