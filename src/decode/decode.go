// Package decode finds QR codes in captured images using gozxing.
package decode

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/go-faster/errors"
	"github.com/makiuchi-d/gozxing"
	multiqr "github.com/makiuchi-d/gozxing/multi/qrcode"
	"github.com/makiuchi-d/gozxing/qrcode"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// QR decodes QR codes only; other symbologies are ignored.
type QR struct{}

func (QR) Decode(ctx context.Context, path string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", false, errors.Wrap(err, "open capture")
	}
	defer f.Close()

	return QR{}.DecodeReader(f)
}

// DecodeReader decodes an encoded image (PNG, JPEG, GIF, BMP, TIFF or WebP).
func (q QR) DecodeReader(r io.Reader) (string, bool, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return "", false, errors.Wrap(err, "decode image")
	}
	return q.DecodeImage(img)
}

// DecodeBytes is DecodeReader over an in-memory buffer.
func (q QR) DecodeBytes(data []byte) (string, bool, error) {
	return q.DecodeReader(bytes.NewReader(data))
}

// DecodeImage returns the first QR payload in img.
func (QR) DecodeImage(img image.Image) (string, bool, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", false, errors.Wrap(err, "binarize image")
	}

	results, err := multiqr.NewQRCodeMultiReader().DecodeMultiple(bmp, nil)
	if err == nil {
		for _, r := range results {
			if text := r.GetText(); text != "" {
				return text, true, nil
			}
		}
	} else if !isMiss(err) {
		return "", false, errors.Wrap(err, "scan qr codes")
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		if isMiss(err) {
			return "", false, nil
		}
		return "", false, errors.Wrap(err, "scan qr code")
	}
	return result.GetText(), true, nil
}

// isMiss reports whether err means "no readable code" rather than a failure.
func isMiss(err error) bool {
	var (
		notFound gozxing.NotFoundException
		checksum gozxing.ChecksumException
		format   gozxing.FormatException
	)
	return errors.As(err, &notFound) || errors.As(err, &checksum) || errors.As(err, &format)
}
