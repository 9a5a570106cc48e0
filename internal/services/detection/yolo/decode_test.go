package yolo

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type anchor struct {
	cx, cy, w, h float32
	scores       []float32
}

// headOutput lays anchors out as [1, 4+nc, N], or [1, N, 4+nc] when transposed.
func headOutput(nc int, anchors []anchor, transposed bool) Output {
	ch, n := 4+nc, len(anchors)
	data := make([]float32, ch*n)
	for i, a := range anchors {
		vals := append([]float32{a.cx, a.cy, a.w, a.h}, a.scores...)
		for c, v := range vals {
			if transposed {
				data[i*ch+c] = v
			} else {
				data[c*n+i] = v
			}
		}
	}
	if transposed {
		return Output{Data: data, Dims: []int{1, n, ch}}
	}
	return Output{Data: data, Dims: []int{1, ch, n}}
}

func testAnchors() []anchor {
	return []anchor{
		{cx: 100, cy: 300, w: 10, h: 10, scores: []float32{0.1, 0.05, 0}},
		{cx: 480, cy: 480, w: 96, h: 48, scores: []float32{0.1, 0.9, 0.3}},
		{cx: 200, cy: 400, w: 20, h: 20, scores: []float32{0, 0, 0.2}},
		{cx: 10, cy: 255, w: 40, h: 30, scores: []float32{0.5, 0, 0}},
	}
}

func TestNewLetterbox(t *testing.T) {
	lb := NewLetterbox(1280, 720, 960)

	assert.Equal(t, 0.75, lb.Scale)
	assert.Equal(t, 960, lb.NewW)
	assert.Equal(t, 540, lb.NewH)
	assert.Equal(t, 0, lb.Left)
	assert.Equal(t, 0, lb.Right)
	assert.Equal(t, 210, lb.Top)
	assert.Equal(t, 210, lb.Bottom)
}

func TestNewLetterbox_OddPadding(t *testing.T) {
	lb := NewLetterbox(641, 480, 640)

	assert.Equal(t, 640, lb.NewW)
	assert.Equal(t, 479, lb.NewH)
	assert.Equal(t, 0, lb.Top)
	assert.Equal(t, 1, lb.Bottom)
	assert.Equal(t, lb.Size, lb.NewH+lb.Top+lb.Bottom)
}

func TestDecode(t *testing.T) {
	lb := NewLetterbox(1280, 720, 960)

	for _, transposed := range []bool{false, true} {
		cands, err := Decode(headOutput(3, testAnchors(), transposed), 3, 0.25, lb)
		require.NoError(t, err)
		require.Len(t, cands, 2, "transposed=%v", transposed)

		assert.Equal(t, 1, cands[0].ClassID)
		assert.Equal(t, float32(0.9), cands[0].Score)
		assert.Equal(t, image.Rect(576, 328, 704, 392), cands[0].Box)

		assert.Equal(t, 0, cands[1].ClassID)
		assert.Equal(t, image.Rect(0, 40, 40, 80), cands[1].Box, "box is clipped to the frame")
	}
}

func TestDecode_InfersLayoutWithoutClassCount(t *testing.T) {
	lb := NewLetterbox(1280, 720, 960)
	// Anchors outnumber channels, as in any real head output.
	anchors := append(testAnchors(), testAnchors()...)

	a, err := Decode(headOutput(3, anchors, false), 0, 0.25, lb)
	require.NoError(t, err)
	b, err := Decode(headOutput(3, anchors, true), 0, 0.25, lb)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 4)
}

func TestDecode_SparseClassIDs(t *testing.T) {
	lb := NewLetterbox(960, 960, 960)
	scores := func(id int) []float32 {
		s := make([]float32, 8)
		if id >= 0 {
			s[id] = 0.9
		}
		return s
	}
	// Fewer anchors than channels: only the class count settles the layout.
	anchors := []anchor{
		{cx: 480, cy: 480, w: 96, h: 48, scores: scores(7)},
		{cx: 100, cy: 100, w: 10, h: 10, scores: scores(-1)},
		{cx: 200, cy: 200, w: 10, h: 10, scores: scores(-1)},
	}

	cands, err := Decode(headOutput(8, anchors, false), 8, 0.25, lb)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, 7, cands[0].ClassID)
	assert.Equal(t, image.Rect(432, 456, 528, 504), cands[0].Box)
}

func TestDecode_ShapeErrors(t *testing.T) {
	lb := NewLetterbox(640, 640, 640)

	testCases := []struct {
		name string
		out  Output
	}{
		{name: "batch of two", out: Output{Data: make([]float32, 2*7*3), Dims: []int{2, 7, 3}}},
		{name: "data size mismatch", out: Output{Data: make([]float32, 5), Dims: []int{1, 7, 3}}},
		{name: "too few channels", out: Output{Data: make([]float32, 4*4), Dims: []int{1, 4, 4}}},
		{name: "rank four", out: Output{Data: make([]float32, 1), Dims: []int{1, 1, 1, 1}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.out, 0, 0.25, lb)
			assert.ErrorIs(t, err, ErrUnexpectedShape)
		})
	}
}

func TestNMSInputs_OffsetsByClass(t *testing.T) {
	cands := []Candidate{
		{ClassID: 0, Score: 0.8, Box: image.Rect(0, 0, 10, 10)},
		{ClassID: 2, Score: 0.6, Box: image.Rect(0, 0, 10, 10)},
	}

	boxes, scores := NMSInputs(cands)

	assert.Equal(t, image.Rect(0, 0, 10, 10), boxes[0])
	assert.Equal(t, image.Rect(2*MaxWH, 2*MaxWH, 2*MaxWH+10, 2*MaxWH+10), boxes[1])
	assert.Equal(t, []float32{0.8, 0.6}, scores)
	assert.False(t, boxes[0].Overlaps(boxes[1]))
}

func TestSelect(t *testing.T) {
	cands := []Candidate{{Score: 0.3}, {Score: 0.9}, {Score: 0.5}}

	kept := Select(cands, []int{0, 1, 2, 7}, 2)

	require.Len(t, kept, 2)
	assert.Equal(t, float32(0.9), kept[0].Score)
	assert.Equal(t, float32(0.5), kept[1].Score)
}

func TestStrideAligned(t *testing.T) {
	assert.Equal(t, 960, StrideAligned(960, 32))
	assert.Equal(t, 672, StrideAligned(650, 32))
	assert.Equal(t, 650, StrideAligned(650, 0))
}
