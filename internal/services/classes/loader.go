package classes

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Candidates lists the sidecar files searched for a weights file, in order.
func Candidates(weights string) []string {
	dir := filepath.Dir(weights)
	stem := strings.TrimSuffix(weights, filepath.Ext(weights))
	return []string{
		filepath.Join(dir, "data.yaml"),
		filepath.Join(dir, "classes.txt"),
		stem + ".names",
	}
}

// Find returns the first existing sidecar for weights.
func Find(weights string) (string, error) {
	for _, p := range Candidates(weights) {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("no class names file found for %s (tried %s)", weights, strings.Join(Candidates(weights), ", "))
}

// Resolve loads the table from namesPath, or from the sidecar of weights when
// namesPath is empty. It returns the file actually used.
func Resolve(weights, namesPath string) (Table, string, error) {
	path := namesPath
	if path == "" {
		var err error
		if path, err = Find(weights); err != nil {
			return Table{}, "", err
		}
	}
	t, err := Load(path)
	if err != nil {
		return Table{}, path, err
	}
	return t, path, nil
}

// Load reads a data.yaml style file (.yaml, .yml) or a one-name-per-line file.
func Load(path string) (Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read class names: %w", err)
	}

	var t Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		t, err = ParseYAML(raw)
	default:
		t = ParseLines(raw)
	}
	if err != nil {
		return Table{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if t.Len() == 0 {
		return Table{}, fmt.Errorf("%s: %w", path, ErrNoClasses)
	}
	return t, nil
}

type dataFile struct {
	NC    *int      `yaml:"nc"`
	Names yaml.Node `yaml:"names"`
}

// ParseYAML accepts `names` as a list or as an id to name map.
func ParseYAML(raw []byte) (Table, error) {
	var df dataFile
	if err := yaml.Unmarshal(raw, &df); err != nil {
		return Table{}, err
	}

	var t Table
	switch df.Names.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := df.Names.Decode(&list); err != nil {
			return Table{}, fmt.Errorf("names: %w", err)
		}
		t = FromList(list)
	case yaml.MappingNode:
		var m map[int]string
		if err := df.Names.Decode(&m); err != nil {
			return Table{}, fmt.Errorf("names: %w", err)
		}
		t = New(m)
	case 0:
		return Table{}, ErrNoClasses
	default:
		return Table{}, fmt.Errorf("names must be a list or a map")
	}

	if df.NC != nil && *df.NC != t.Len() {
		return Table{}, fmt.Errorf("nc is %d but %d names are listed", *df.NC, t.Len())
	}
	return t, nil
}

// ParseLines numbers the non-empty lines of raw from zero.
func ParseLines(raw []byte) Table {
	var names []string
	sc := bufio.NewScanner(bytes.NewReader(raw))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			names = append(names, line)
		}
	}
	return FromList(names)
}
