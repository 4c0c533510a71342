// Package seginfo names and parses segment files.
//
// Filename format: "<generation>.log", where generation is a decimal,
// monotonically increasing uint64 assigned when the segment is created.
// There is no timestamp or prefix component: generation order alone decides
// replay and compaction order.
package seginfo

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ignitekv/ignite/pkg/filesys"
)

const extension = ".log"

// GenerateName returns the filename for segment generation.
func GenerateName(generation uint64) string {
	return strconv.FormatUint(generation, 10) + extension
}

// ParseGeneration extracts the generation number from a segment path. It
// accepts either a bare filename or a full path.
func ParseGeneration(path string) (uint64, error) {
	name := filepath.Base(path)
	trimmed := strings.TrimSuffix(name, extension)
	if trimmed == name {
		return 0, fmt.Errorf("segment file %s is missing the %s extension", name, extension)
	}

	generation, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("segment file %s has a non-numeric generation: %w", name, err)
	}
	return generation, nil
}

// Discover lists every segment file generation present in dataDir, sorted
// ascending. Used at Open to rebuild the in-memory index by replay. Files
// with the .log extension whose name is not a decimal generation (such as
// the server's engine.log marker) are not segments and are skipped.
func Discover(dataDir string) ([]uint64, error) {
	paths, err := filesys.SearchFileExtensions(dataDir, nil, extension)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s for segment files: %w", dataDir, err)
	}

	generations := make([]uint64, 0, len(paths))
	for _, path := range paths {
		generation, err := ParseGeneration(path)
		if err != nil {
			continue
		}
		generations = append(generations, generation)
	}

	sort.Slice(generations, func(i, j int) bool { return generations[i] < generations[j] })
	return generations, nil
}

// NextGeneration returns one past the highest generation in an already
// sorted-ascending generations slice, or 1 if the slice is empty.
func NextGeneration(generations []uint64) uint64 {
	if len(generations) == 0 {
		return 1
	}
	return generations[len(generations)-1] + 1
}
