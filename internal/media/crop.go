package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"
)

// MaxUploadSize is the client-side upload cap, enforced again here.
const MaxUploadSize = 5 << 20

const jpegQuality = 90

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file exceeds size limit")
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// ValidateUpload rejects non-image MIME types and oversized files before
// any decoding or network work happens.
func ValidateUpload(mimeType string, size int64) error {
	if !allowedTypes[mimeType] {
		return ErrUnsupportedType
	}
	if size > MaxUploadSize {
		return ErrTooLarge
	}
	return nil
}

// Rect is a crop rectangle in display space.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Crop rasterizes the visible crop rectangle at source resolution. The
// rectangle was drawn against an image rendered at dispW x dispH, so it is
// scaled by the ratio between displayed and natural dimensions before
// cutting. Output is JPEG; identical input and rectangle produce identical
// bytes.
func Crop(src []byte, rect Rect, dispW, dispH float64) ([]byte, error) {
	if dispW <= 0 || dispH <= 0 {
		return nil, fmt.Errorf("invalid display dimensions %gx%g", dispW, dispH)
	}
	if rect.Width <= 0 || rect.Height <= 0 {
		return nil, fmt.Errorf("invalid crop rectangle %gx%g", rect.Width, rect.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	scaleX := float64(bounds.Dx()) / dispW
	scaleY := float64(bounds.Dy()) / dispH

	x0 := bounds.Min.X + int(rect.X*scaleX)
	y0 := bounds.Min.Y + int(rect.Y*scaleY)
	x1 := x0 + int(rect.Width*scaleX)
	y1 := y0 + int(rect.Height*scaleY)

	crop := image.Rect(x0, y0, x1, y1).Intersect(bounds)
	if crop.Empty() {
		return nil, fmt.Errorf("crop rectangle is outside the image")
	}

	out := image.NewRGBA(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	draw.Draw(out, out.Bounds(), img, crop.Min, draw.Src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	return buf.Bytes(), nil
}
