package classes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParseYAML(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want map[int]string
	}{
		{
			name: "list form",
			raw:  "nc: 3\nnames: ['Helmet', 'Glasses', 'Vest']\n",
			want: map[int]string{0: "Helmet", 1: "Glasses", 2: "Vest"},
		},
		{
			name: "map form",
			raw:  "path: ../datasets/sh17\nnames:\n  0: person\n  5: helmet\n  7: glasses\n",
			want: map[int]string{0: "person", 5: "helmet", 7: "glasses"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			table, err := ParseYAML([]byte(tc.raw))
			require.NoError(t, err)
			assert.Equal(t, len(tc.want), table.Len())
			for id, name := range tc.want {
				got, ok := table.Name(id)
				assert.True(t, ok)
				assert.Equal(t, name, got)
			}
		})
	}
}

func TestParseYAML_Errors(t *testing.T) {
	_, err := ParseYAML([]byte("nc: 2\nnames: [a]\n"))
	assert.ErrorContains(t, err, "nc is 2")

	_, err = ParseYAML([]byte("train: images/train\n"))
	assert.ErrorIs(t, err, ErrNoClasses)

	_, err = ParseYAML([]byte("names: helmet\n"))
	assert.Error(t, err)
}

func TestParseLines_SkipsBlankLines(t *testing.T) {
	table := ParseLines([]byte("Helmet\n\n  Glasses \r\nVest\n\n"))

	assert.Equal(t, []int{0, 1, 2}, table.IDs())
	name, _ := table.Name(1)
	assert.Equal(t, "Glasses", name)
}

func TestResolve_SidecarSearchOrder(t *testing.T) {
	dir := t.TempDir()
	weights := filepath.Join(dir, "best.onnx")

	_, _, err := Resolve(weights, "")
	require.Error(t, err)

	writeFile(t, filepath.Join(dir, "best.names"), "from-names\n")
	table, used, err := Resolve(weights, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "best.names"), used)
	name, _ := table.Name(0)
	assert.Equal(t, "from-names", name)

	writeFile(t, filepath.Join(dir, "classes.txt"), "from-classes\n")
	_, used, err = Resolve(weights, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "classes.txt"), used)

	writeFile(t, filepath.Join(dir, "data.yaml"), "names: [from-yaml]\n")
	table, used, err = Resolve(weights, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data.yaml"), used)
	name, _ = table.Name(0)
	assert.Equal(t, "from-yaml", name)
}

func TestResolve_ExplicitPathWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "data.yaml"), "names: [sidecar]\n")
	explicit := filepath.Join(dir, "custom.txt")
	writeFile(t, explicit, "Helmet\nGlasses\n")

	table, used, err := Resolve(filepath.Join(dir, "best.onnx"), explicit)
	require.NoError(t, err)
	assert.Equal(t, explicit, used)
	assert.Equal(t, 2, table.Len())
}

func TestLoad_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classes.txt")
	writeFile(t, path, "\n\n")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrNoClasses)
}
