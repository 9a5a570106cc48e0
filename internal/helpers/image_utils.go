package helpers

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/rs/zerolog/log"
)

const (
	// Maximum image dimensions for compression
	MaxImageWidth  = 800
	MaxImageHeight = 600

	// Maximum context image size (in bytes)
	MaxContextImageSize = 500 * 1024
)

var ErrNotJPEG = errors.New("data is not a JPEG image")

// isJPEGData checks if the byte slice contains JPEG data by checking magic bytes
func isJPEGData(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	// JPEG magic bytes: FF D8
	return data[0] == 0xFF && data[1] == 0xD8
}

// CompressAndResizeImage shrinks img to fit maxWidth x maxHeight (never
// upscaling) and lowers the JPEG quality in steps until it fits targetSizeBytes.
// The last step is returned even when it is still too large.
func CompressAndResizeImage(img image.Image, maxWidth, maxHeight int, targetSizeBytes int, quality int) ([]byte, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("empty image")
	}

	scaleX := float64(maxWidth) / float64(width)
	scaleY := float64(maxHeight) / float64(height)
	scale := scaleX
	if scaleY < scaleX {
		scale = scaleY
	}

	// Don't upscale images
	if scale > 1.0 {
		scale = 1.0
	}

	newWidth := int(float64(width) * scale)
	newHeight := int(float64(height) * scale)

	if scale < 1.0 {
		resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		for y := 0; y < newHeight; y++ {
			for x := 0; x < newWidth; x++ {
				srcX := bounds.Min.X + int(float64(x)/scale)
				srcY := bounds.Min.Y + int(float64(y)/scale)
				resized.Set(x, y, img.At(srcX, srcY))
			}
		}
		img = resized
	}

	qualities := []int{quality, quality - 25, quality - 50}
	for i, q := range qualities {
		if q < 1 {
			q = 1
		}
		if q > 100 {
			q = 100
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
			return nil, err
		}

		if buf.Len() <= targetSizeBytes || i == len(qualities)-1 {
			log.Debug().
				Int("compressed_size", buf.Len()).
				Int("quality", q).
				Int("width", newWidth).
				Int("height", newHeight).
				Msg("Image compressed")
			return buf.Bytes(), nil
		}
	}
	return nil, fmt.Errorf("unable to compress image to target size")
}

// ContextImageB64 turns an encoded JPEG frame into a compressed data URL.
func ContextImageB64(frameJPEG []byte, maxWidth, maxHeight, targetSizeBytes, quality int) (string, error) {
	if !isJPEGData(frameJPEG) {
		return "", ErrNotJPEG
	}

	img, err := jpeg.Decode(bytes.NewReader(frameJPEG))
	if err != nil {
		return "", fmt.Errorf("decode context image: %w", err)
	}

	compressed, err := CompressAndResizeImage(img, maxWidth, maxHeight, targetSizeBytes, quality)
	if err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(compressed), nil
}
