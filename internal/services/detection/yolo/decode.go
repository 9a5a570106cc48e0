package yolo

import (
	"errors"
	"fmt"
	"image"
	"sort"
)

var ErrUnexpectedShape = errors.New("unexpected output shape")

// Candidate is one decoded box before non-maximum suppression.
type Candidate struct {
	ClassID int
	Score   float32
	Box     image.Rectangle
}

// Output is a raw network output tensor.
type Output struct {
	Data []float32
	Dims []int
}

// layout resolves the output into anchors x channels, in either orientation.
type layout struct {
	anchors, channels int
	channelFirst      bool
}

func (o Output) layout(numClasses int) (layout, error) {
	dims := o.Dims
	if len(dims) == 3 {
		if dims[0] != 1 {
			return layout{}, fmt.Errorf("%w: batch %d", ErrUnexpectedShape, dims[0])
		}
		dims = dims[1:]
	}
	if len(dims) != 2 {
		return layout{}, fmt.Errorf("%w: %v", ErrUnexpectedShape, o.Dims)
	}
	a, b := dims[0], dims[1]
	if a*b != len(o.Data) {
		return layout{}, fmt.Errorf("%w: %v does not hold %d values", ErrUnexpectedShape, o.Dims, len(o.Data))
	}

	var l layout
	switch {
	case numClasses > 0 && a == 4+numClasses:
		l = layout{anchors: b, channels: a, channelFirst: true}
	case numClasses > 0 && b == 4+numClasses:
		l = layout{anchors: a, channels: b}
	case a <= b:
		l = layout{anchors: b, channels: a, channelFirst: true}
	default:
		l = layout{anchors: a, channels: b}
	}
	if l.channels <= 4 {
		return layout{}, fmt.Errorf("%w: %d channels", ErrUnexpectedShape, l.channels)
	}
	return l, nil
}

// Decode turns a [1, 4+nc, N] (or [1, N, 4+nc]) head output into candidates
// whose best class score reaches conf. Boxes are mapped back through lb.
func Decode(out Output, numClasses int, conf float32, lb Letterbox) ([]Candidate, error) {
	l, err := out.layout(numClasses)
	if err != nil {
		return nil, err
	}

	at := func(anchor, ch int) float32 {
		if l.channelFirst {
			return out.Data[ch*l.anchors+anchor]
		}
		return out.Data[anchor*l.channels+ch]
	}

	var cands []Candidate
	for i := 0; i < l.anchors; i++ {
		best, bestScore := -1, float32(0)
		for c := 4; c < l.channels; c++ {
			if s := at(i, c); best < 0 || s > bestScore {
				best, bestScore = c-4, s
			}
		}
		if bestScore < conf {
			continue
		}
		box := lb.ToSource(at(i, 0), at(i, 1), at(i, 2), at(i, 3))
		if box.Empty() {
			continue
		}
		cands = append(cands, Candidate{ClassID: best, Score: bestScore, Box: box})
	}
	return cands, nil
}

// MaxWH offsets boxes per class so a class-agnostic NMS never suppresses
// across classes.
const MaxWH = 7680

// NMSInputs returns class-offset boxes and scores for a class-agnostic NMS.
func NMSInputs(cands []Candidate) ([]image.Rectangle, []float32) {
	boxes := make([]image.Rectangle, len(cands))
	scores := make([]float32, len(cands))
	for i, c := range cands {
		off := image.Pt(c.ClassID*MaxWH, c.ClassID*MaxWH)
		boxes[i] = c.Box.Add(off)
		scores[i] = c.Score
	}
	return boxes, scores
}

// Select keeps the candidates at indices, best score first, at most max of them.
func Select(cands []Candidate, indices []int, max int) []Candidate {
	kept := make([]Candidate, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(cands) {
			kept = append(kept, cands[i])
		}
	}
	sort.SliceStable(kept, func(a, b int) bool { return kept[a].Score > kept[b].Score })
	if max > 0 && len(kept) > max {
		kept = kept[:max]
	}
	return kept
}
