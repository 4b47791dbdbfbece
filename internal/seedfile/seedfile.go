// internal/seedfile/seedfile.go

// Package seedfile supplies base seeds for replica seed scaling. A replica
// runs with generator seed identity * (base + 1), so base 0 leaves the
// identity as the seed and any other source shifts every replica
// deterministically.
package seedfile

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Read parses a seed file: one unsigned 32-bit value per line, blank
// lines and #-comments skipped.
func Read(path string) ([]uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var values []uint64
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		v, err := strconv.ParseUint(text, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid seed value %q", path, line, text)
		}
		values = append(values, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s: no seed values", path)
	}
	return values, nil
}

// Source yields per-replica base seeds. The zero value yields 0 for every
// replica.
type Source struct {
	values []uint64
	seed   uint64
}

// Fixed returns a source that yields the same base for every replica.
func Fixed(seed uint64) Source {
	return Source{seed: seed}
}

// FromFile returns a source backed by a seed file; replica identity i
// maps to values[i mod len(values)].
func FromFile(path string) (Source, error) {
	values, err := Read(path)
	if err != nil {
		return Source{}, err
	}
	return Source{values: values}, nil
}

// BaseFor returns the base seed for one replica.
func (s Source) BaseFor(identity uint64) uint64 {
	if len(s.values) > 0 {
		return s.values[identity%uint64(len(s.values))]
	}
	return s.seed
}
