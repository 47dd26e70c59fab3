package decode

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/require"
)

// qrImage renders payload as a QR code with a quiet zone.
func qrImage(t *testing.T, payload string, size int) *image.Gray {
	t.Helper()
	matrix, err := qrcode.NewQRCodeWriter().Encode(payload, gozxing.BarcodeFormat_QR_CODE, size, size, nil)
	require.NoError(t, err)

	img := image.NewGray(image.Rect(0, 0, matrix.GetWidth(), matrix.GetHeight()))
	for y := 0; y < matrix.GetHeight(); y++ {
		for x := 0; x < matrix.GetWidth(); x++ {
			if matrix.Get(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.png")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestDecodeFile(t *testing.T) {
	tests := []string{
		"https://example.com/path?q=1",
		"plain text payload",
		"WIFI:S:home;T:WPA;P:secret;;",
	}

	for _, payload := range tests {
		t.Run(payload, func(t *testing.T) {
			path := writePNG(t, qrImage(t, payload, 256))

			got, found, err := QR{}.Decode(context.Background(), path)
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, payload, got)
		})
	}
}

func TestDecodeNoCode(t *testing.T) {
	blank := image.NewGray(image.Rect(0, 0, 200, 200))
	draw.Draw(blank, blank.Bounds(), image.White, image.Point{}, draw.Src)
	path := writePNG(t, blank)

	got, found, err := QR{}.Decode(context.Background(), path)
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, got)
}

func TestDecodeCodeInsideLargerCapture(t *testing.T) {
	canvas := image.NewGray(image.Rect(0, 0, 800, 600))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	code := qrImage(t, "https://example.org", 200)
	draw.Draw(canvas, code.Bounds().Add(image.Pt(420, 250)), code, image.Point{}, draw.Src)

	got, found, err := QR{}.DecodeImage(canvas)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "https://example.org", got)
}

func TestDecodeJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, qrImage(t, "jpeg payload", 300), &jpeg.Options{Quality: 95}))

	got, found, err := QR{}.DecodeBytes(buf.Bytes())
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "jpeg payload", got)
}

func TestDecodeMissingFile(t *testing.T) {
	_, found, err := QR{}.Decode(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
	require.False(t, found)
}

func TestDecodeCorruptImage(t *testing.T) {
	_, found, err := QR{}.DecodeBytes([]byte("not an image"))
	require.Error(t, err)
	require.False(t, found)
}

func TestDecodeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := QR{}.Decode(ctx, "unused.png")
	require.ErrorIs(t, err, context.Canceled)
}
