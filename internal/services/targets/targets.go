// Package targets resolves the wanted PPE class names against a model's class table.
package targets

import (
	"strings"

	"epi-monitor-go/internal/services/classes"
)

// Wishlist is the default set of classes the monitor looks for.
var Wishlist = []string{"Helmet", "Glasses"}

// Set is the resolved target classes. IDs and Labels are parallel and follow
// the wishlist order; labels are spelled the way the model spells them.
type Set struct {
	IDs       []int
	Labels    []string
	Unmatched []string

	byID map[int]string
}

// Resolve matches wishlist entries case-insensitively against table.
func Resolve(table classes.Table, wishlist []string) Set {
	index := make(map[string]int, table.Len())
	for _, id := range table.IDs() {
		name, _ := table.Name(id)
		index[strings.ToLower(name)] = id
	}

	s := Set{byID: make(map[int]string)}
	for _, want := range wishlist {
		id, ok := index[strings.ToLower(want)]
		if !ok {
			s.Unmatched = append(s.Unmatched, want)
			continue
		}
		label, _ := table.Name(id)
		s.IDs = append(s.IDs, id)
		s.Labels = append(s.Labels, label)
		s.byID[id] = label
	}
	return s
}

func (s Set) Empty() bool { return len(s.IDs) == 0 }

func (s Set) Contains(id int) bool {
	_, ok := s.byID[id]
	return ok
}

// Label returns the model's name for a target id.
func (s Set) Label(id int) (string, bool) {
	l, ok := s.byID[id]
	return l, ok
}
