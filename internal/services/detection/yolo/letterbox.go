// Package yolo holds the tensor math around a YOLOv8-style detection head:
// letterbox geometry and output decoding. It has no OpenCV dependency.
package yolo

import (
	"image"
	"math"
)

// PadValue is the gray used for letterbox borders.
const PadValue = 114

// Letterbox describes how a SrcW x SrcH frame is scaled and padded into a
// Size x Size network input.
type Letterbox struct {
	Size       int
	SrcW, SrcH int
	Scale      float64
	NewW, NewH int

	Left, Top, Right, Bottom int
}

func NewLetterbox(srcW, srcH, size int) Letterbox {
	r := math.Min(float64(size)/float64(srcH), float64(size)/float64(srcW))
	newW := int(math.Round(float64(srcW) * r))
	newH := int(math.Round(float64(srcH) * r))
	dw := float64(size-newW) / 2
	dh := float64(size-newH) / 2

	return Letterbox{
		Size:   size,
		SrcW:   srcW,
		SrcH:   srcH,
		Scale:  r,
		NewW:   newW,
		NewH:   newH,
		Left:   int(math.Round(dw - 0.1)),
		Right:  int(math.Round(dw + 0.1)),
		Top:    int(math.Round(dh - 0.1)),
		Bottom: int(math.Round(dh + 0.1)),
	}
}

// ToSource maps a center/size box in network input pixels back to the source
// frame, clipped to its bounds.
func (l Letterbox) ToSource(cx, cy, w, h float32) image.Rectangle {
	x1 := (float64(cx) - float64(w)/2 - float64(l.Left)) / l.Scale
	y1 := (float64(cy) - float64(h)/2 - float64(l.Top)) / l.Scale
	x2 := (float64(cx) + float64(w)/2 - float64(l.Left)) / l.Scale
	y2 := (float64(cy) + float64(h)/2 - float64(l.Top)) / l.Scale

	return image.Rect(
		int(clamp(x1, float64(l.SrcW))),
		int(clamp(y1, float64(l.SrcH))),
		int(clamp(x2, float64(l.SrcW))),
		int(clamp(y2, float64(l.SrcH))),
	)
}

func clamp(v, hi float64) float64 {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}

// StrideAligned rounds size up to a multiple of stride.
func StrideAligned(size, stride int) int {
	if stride <= 0 {
		return size
	}
	return int(math.Ceil(float64(size)/float64(stride))) * stride
}
