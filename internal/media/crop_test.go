package media_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shaqyru-backend/internal/media"
)

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidateUpload(t *testing.T) {
	assert.NoError(t, media.ValidateUpload("image/jpeg", 1024))
	assert.NoError(t, media.ValidateUpload("image/png", media.MaxUploadSize))
	assert.NoError(t, media.ValidateUpload("image/gif", 1))

	assert.ErrorIs(t, media.ValidateUpload("application/pdf", 1024), media.ErrUnsupportedType)
	assert.ErrorIs(t, media.ValidateUpload("image/svg+xml", 1024), media.ErrUnsupportedType)
	assert.ErrorIs(t, media.ValidateUpload("image/jpeg", media.MaxUploadSize+1), media.ErrTooLarge)
}

func TestCrop_Deterministic(t *testing.T) {
	src := pngImage(t, 200, 100)
	rect := media.Rect{X: 10, Y: 10, Width: 80, Height: 40}

	first, err := media.Crop(src, rect, 200, 100)
	require.NoError(t, err)
	second, err := media.Crop(src, rect, 200, 100)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same input and rectangle must produce identical bytes")
}

func TestCrop_ScalesDisplayCoordinates(t *testing.T) {
	src := pngImage(t, 200, 100)

	// Rectangle drawn on a half-size preview covers twice the natural pixels.
	out, err := media.Crop(src, media.Rect{X: 0, Y: 0, Width: 50, Height: 25}, 100, 50)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestCrop_ClampsOutOfBoundsRect(t *testing.T) {
	src := pngImage(t, 100, 100)

	out, err := media.Crop(src, media.Rect{X: 80, Y: 80, Width: 50, Height: 50}, 100, 100)
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestCrop_RejectsGarbage(t *testing.T) {
	_, err := media.Crop([]byte("not an image"), media.Rect{Width: 10, Height: 10}, 10, 10)
	assert.Error(t, err)
}
