// Package classes holds the model's class id to name table and loads it from
// the sidecar files a trainer leaves next to exported weights.
package classes

import (
	"errors"
	"sort"
)

var ErrNoClasses = errors.New("class table is empty")

// Table maps class ids to names. It is read-only once built.
type Table struct {
	names map[int]string
	ids   []int
}

func New(names map[int]string) Table {
	t := Table{names: make(map[int]string, len(names)), ids: make([]int, 0, len(names))}
	for id, name := range names {
		t.names[id] = name
		t.ids = append(t.ids, id)
	}
	sort.Ints(t.ids)
	return t
}

// FromList numbers names by position.
func FromList(names []string) Table {
	m := make(map[int]string, len(names))
	for i, n := range names {
		m[i] = n
	}
	return New(m)
}

func (t Table) Name(id int) (string, bool) {
	n, ok := t.names[id]
	return n, ok
}

// IDs returns the class ids in ascending order.
func (t Table) IDs() []int {
	out := make([]int, len(t.ids))
	copy(out, t.ids)
	return out
}

func (t Table) Len() int { return len(t.ids) }

// MaxID returns the highest class id, or -1 for an empty table. A model
// trained on a sparse names map still has MaxID+1 class channels.
func (t Table) MaxID() int {
	if len(t.ids) == 0 {
		return -1
	}
	return t.ids[len(t.ids)-1]
}
