package targets

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"epi-monitor-go/internal/services/classes"
)

func TestResolve(t *testing.T) {
	testCases := []struct {
		name          string
		table         map[int]string
		wantIDs       []int
		wantLabels    []string
		wantUnmatched []string
	}{
		{
			name:       "both present",
			table:      map[int]string{0: "Helmet", 1: "Glasses", 2: "Vest"},
			wantIDs:    []int{0, 1},
			wantLabels: []string{"Helmet", "Glasses"},
		},
		{
			name:       "case variants keep the model spelling",
			table:      map[int]string{0: "HELMET", 1: "glasses", 2: "Vest"},
			wantIDs:    []int{0, 1},
			wantLabels: []string{"HELMET", "glasses"},
		},
		{
			name:          "only helmet",
			table:         map[int]string{3: "person", 7: "helmet"},
			wantIDs:       []int{7},
			wantLabels:    []string{"helmet"},
			wantUnmatched: []string{"Glasses"},
		},
		{
			name:          "no match",
			table:         map[int]string{0: "person", 1: "vest"},
			wantUnmatched: []string{"Helmet", "Glasses"},
		},
		{
			name:       "duplicate names resolve to the highest id",
			table:      map[int]string{0: "helmet", 4: "Helmet", 5: "Glasses"},
			wantIDs:    []int{4, 5},
			wantLabels: []string{"Helmet", "Glasses"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := Resolve(classes.New(tc.table), Wishlist)

			assert.Equal(t, tc.wantIDs, s.IDs)
			assert.Equal(t, tc.wantLabels, s.Labels)
			assert.Equal(t, tc.wantUnmatched, s.Unmatched)
			assert.Equal(t, len(tc.wantIDs) == 0, s.Empty())
		})
	}
}

func TestSet_Contains(t *testing.T) {
	s := Resolve(classes.New(map[int]string{0: "Helmet", 1: "Glasses", 2: "Vest"}), Wishlist)

	assert.True(t, s.Contains(0))
	assert.True(t, s.Contains(1))
	assert.False(t, s.Contains(2))

	label, ok := s.Label(1)
	assert.True(t, ok)
	assert.Equal(t, "Glasses", label)
}
