package helpers

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func decodeDataURL(t *testing.T, s string) image.Image {
	t.Helper()
	require.True(t, strings.HasPrefix(s, "data:image/jpeg;base64,"))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s, "data:image/jpeg;base64,"))
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestContextImageB64_Downscales(t *testing.T) {
	out, err := ContextImageB64(testJPEG(t, 320, 240), 160, 160, MaxContextImageSize, 75)
	require.NoError(t, err)

	img := decodeDataURL(t, out)
	assert.Equal(t, 160, img.Bounds().Dx())
	assert.Equal(t, 120, img.Bounds().Dy())
}

func TestContextImageB64_NeverUpscales(t *testing.T) {
	out, err := ContextImageB64(testJPEG(t, 64, 48), MaxImageWidth, MaxImageHeight, MaxContextImageSize, 75)
	require.NoError(t, err)

	img := decodeDataURL(t, out)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestContextImageB64_RejectsNonJPEG(t *testing.T) {
	_, err := ContextImageB64([]byte("not an image"), 100, 100, 1000, 75)
	assert.ErrorIs(t, err, ErrNotJPEG)
}

func TestCompressAndResizeImage_ReturnsLastStepWhenTooLarge(t *testing.T) {
	img, err := jpeg.Decode(bytes.NewReader(testJPEG(t, 200, 200)))
	require.NoError(t, err)

	out, err := CompressAndResizeImage(img, 200, 200, 1, 90)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
