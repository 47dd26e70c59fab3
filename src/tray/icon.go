package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

const (
	templateIconSize = 44
	AppIconSize      = 1024
)

var (
	gradientStart = color.RGBA{R: 0, G: 122, B: 255, A: 255}
	gradientEnd   = color.RGBA{R: 175, G: 82, B: 222, A: 255}
)

// TemplateIcon renders the menu-bar glyph: viewfinder corners around three
// QR finder squares, black on transparent so macOS can tint it.
func TemplateIcon() []byte {
	return encode(drawViewfinder(templateIconSize, color.NRGBA{A: 255}, nil))
}

// AppIcon renders the application icon: the same glyph in white on a
// diagonal blue to purple gradient.
func AppIcon() []byte {
	return encode(drawViewfinder(AppIconSize, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, gradient))
}

func encode(img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

func gradient(x, y, size int) color.NRGBA {
	// Top-left to bottom-right.
	t := float64(x+y) / float64(2*(size-1))
	lerp := func(a, b uint8) uint8 { return uint8(float64(a) + (float64(b)-float64(a))*t) }
	return color.NRGBA{
		R: lerp(gradientStart.R, gradientEnd.R),
		G: lerp(gradientStart.G, gradientEnd.G),
		B: lerp(gradientStart.B, gradientEnd.B),
		A: 255,
	}
}

func drawViewfinder(size int, fg color.NRGBA, background func(x, y, size int) color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	if background != nil {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				img.SetNRGBA(x, y, background(x, y, size))
			}
		}
	}

	fill := func(x0, y0, x1, y1 int) {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				img.SetNRGBA(x, y, fg)
			}
		}
	}

	// The glyph occupies the middle 60% of the app icon and the full template icon.
	margin := size / 20
	if background != nil {
		margin = size / 5
	}
	lo, hi := margin, size-margin
	span := hi - lo
	stroke := max(span/12, 2)
	arm := span / 4

	// Viewfinder corners.
	fill(lo, lo, lo+arm, lo+stroke)
	fill(lo, lo, lo+stroke, lo+arm)
	fill(hi-arm, lo, hi, lo+stroke)
	fill(hi-stroke, lo, hi, lo+arm)
	fill(lo, hi-stroke, lo+arm, hi)
	fill(lo, hi-arm, lo+stroke, hi)
	fill(hi-arm, hi-stroke, hi, hi)
	fill(hi-stroke, hi-arm, hi, hi)

	// Finder squares: top-left, top-right and bottom-left.
	inset := lo + span/5
	far := hi - span/5
	square := span / 5
	finder := func(x, y int) {
		fill(x, y, x+square, y+square)
		if hole := square / 3; hole > 0 && background == nil {
			for yy := y + hole; yy < y+square-hole; yy++ {
				for xx := x + hole; xx < x+square-hole; xx++ {
					img.SetNRGBA(xx, yy, color.NRGBA{})
				}
			}
		}
	}
	finder(inset, inset)
	finder(far-square, inset)
	finder(inset, far-square)
	return img
}
