package overlay

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"epi-monitor-go/internal/models"
)

var (
	Green = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Red   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// Style holds the drawing parameters for boxes, labels and the status line.
type Style struct {
	BoxColor      color.RGBA
	BoxThickness  int
	LabelScale    float64
	LabelOffsetY  int
	TextThickness int
	StatusOrigin  image.Point
	StatusScale   float64
	FontFace      gocv.HersheyFont
}

func DefaultStyle() Style {
	return Style{
		BoxColor:      Green,
		BoxThickness:  2,
		LabelScale:    0.6,
		LabelOffsetY:  5,
		TextThickness: 2,
		StatusOrigin:  image.Pt(10, 30),
		StatusScale:   0.9,
		FontFace:      gocv.FontHersheySimplex,
	}
}

// DrawDetections draws a box and a "{label} {score}" caption for each detection.
func DrawDetections(mat *gocv.Mat, dets []models.Detection, style Style) {
	if mat == nil {
		return
	}
	for _, d := range dets {
		gocv.Rectangle(mat, d.Box, style.BoxColor, style.BoxThickness)
		org := image.Pt(d.Box.Min.X, d.Box.Min.Y-style.LabelOffsetY)
		gocv.PutTextWithParams(mat, d.Caption(), org, style.FontFace, style.LabelScale, style.BoxColor, style.TextThickness, gocv.LineAA, false)
	}
}

// StatusColor is green when compliant and red otherwise.
func StatusColor(st models.ComplianceStatus) color.RGBA {
	if st.OK {
		return Green
	}
	return Red
}

// DrawStatus writes the compliance line at the top left of the frame.
func DrawStatus(mat *gocv.Mat, st models.ComplianceStatus, style Style) {
	if mat == nil {
		return
	}
	gocv.PutTextWithParams(mat, st.Text, style.StatusOrigin, style.FontFace, style.StatusScale, StatusColor(st), style.TextThickness, gocv.LineAA, false)
}

// Annotate draws detections and then the status line.
func Annotate(mat *gocv.Mat, dets []models.Detection, st models.ComplianceStatus, style Style) {
	DrawDetections(mat, dets, style)
	DrawStatus(mat, st, style)
}
