package classes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable_MaxID(t *testing.T) {
	sparse := New(map[int]string{0: "person", 5: "helmet", 7: "glasses"})
	assert.Equal(t, 3, sparse.Len())
	assert.Equal(t, 7, sparse.MaxID())

	assert.Equal(t, 2, FromList([]string{"a", "b", "c"}).MaxID())
	assert.Equal(t, -1, New(nil).MaxID())
}
