// Package sumfile reads go.sum checksum manifests.
//
// A go.sum file records two checksums per module version: one for the
// module's content and one for its go.mod file. Only the content
// checksums (the "h1:" lines without a "/go.mod" suffix) are relevant
// to go_repository rules, so go.mod entries are filtered out here.
package sumfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// goModMarker identifies lines that record go.mod checksums rather
// than module content checksums.
const goModMarker = "/go.mod"

// Index maps "module@version" keys to module content checksums.
type Index map[string]string

// Key builds the lookup key for a module at a version.
func Key(module, version string) string {
	return module + "@" + version
}

// Sum returns the checksum for a module at a version, or "" if the
// index has no entry for it.
func (i Index) Sum(module, version string) string {
	return i[Key(module, version)]
}

// Parse reads go.sum entries from r and builds a checksum index.
//
// Each line has the form "<module> <version> <checksum>". Blank lines,
// go.mod checksum lines, and lines with fewer than three fields are
// skipped. If a key appears more than once, the last occurrence wins,
// matching how the go command treats duplicate go.sum entries.
func Parse(r io.Reader) (Index, error) {
	index := make(Index)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.Contains(line, goModMarker) {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}

		index[Key(fields[0], fields[1])] = fields[2]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read go.sum: %w", err)
	}

	return index, nil
}

// ParseFile reads and parses the go.sum file at path.
func ParseFile(path string) (Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open go.sum: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}
