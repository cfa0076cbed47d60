// Package depsbzl rewrites and inspects go_repository rules in deps.bzl files.
package depsbzl

import (
	"fmt"
	"os"
	"regexp"

	"github.com/cespare/xxhash/v2"

	"github.com/albertocavalcante/bzlsum/internal/sumfile"
)

// repoPattern matches a go_repository rule with the canonical attribute
// order produced by gazelle update-repos: name, importpath, sum, version.
// Submatch groups capture the four attribute values.
var repoPattern = regexp.MustCompile(
	`go_repository\(\s*` +
		`name\s*=\s*"([^"]+)",\s*` +
		`importpath\s*=\s*"([^"]+)",\s*` +
		`sum\s*=\s*"([^"]+)",\s*` +
		`version\s*=\s*"([^"]+)",\s*\)`)

// Change describes one go_repository rule visited during an update.
type Change struct {
	Name       string
	ImportPath string
	Version    string
	OldSum     string
	NewSum     string
}

// Key returns the importpath@version key used to match the rule
// against go.sum entries.
func (c Change) Key() string {
	return sumfile.Key(c.ImportPath, c.Version)
}

// Report summarizes an update pass over a deps.bzl file.
type Report struct {
	// Updated lists rules whose sum was replaced with a new value.
	Updated []Change

	// Unchanged lists rules whose sum already matched go.sum.
	Unchanged []Change

	// Missing lists rules with no matching go.sum entry. These are
	// left exactly as they were.
	Missing []Change

	// Rewritten reports whether the file content actually changed
	// and was written back. Only set by UpdateFile.
	Rewritten bool
}

// Total returns the number of go_repository rules visited.
func (r Report) Total() int {
	return len(r.Updated) + len(r.Unchanged) + len(r.Missing)
}

// Update substitutes go_repository sum attributes in content using the
// checksum index and returns the rewritten text.
//
// Only the sum attribute of matching rules is replaced. The name,
// importpath, and version attributes, the rule's own formatting, and
// all text outside matched rules are preserved byte-for-byte. Rules
// with no matching index entry are left untouched. No rule is added
// or removed.
func Update(content string, sums sumfile.Index) (string, Report) {
	var report Report

	matches := repoPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content, report
	}

	var out []byte
	last := 0
	for _, m := range matches {
		// Group offsets: 1=name, 2=importpath, 3=sum, 4=version.
		change := Change{
			Name:       content[m[2]:m[3]],
			ImportPath: content[m[4]:m[5]],
			Version:    content[m[8]:m[9]],
			OldSum:     content[m[6]:m[7]],
		}

		newSum, ok := sums[change.Key()]
		if !ok {
			report.Missing = append(report.Missing, change)
			continue
		}

		change.NewSum = newSum
		if newSum == change.OldSum {
			report.Unchanged = append(report.Unchanged, change)
			continue
		}

		// Splice in the new sum, leaving the rest of the rule as-is.
		sumStart, sumEnd := m[6], m[7]
		out = append(out, content[last:sumStart]...)
		out = append(out, newSum...)
		last = sumEnd

		report.Updated = append(report.Updated, change)
	}

	if out == nil {
		return content, report
	}
	out = append(out, content[last:]...)
	return string(out), report
}

// UpdateFile rewrites the deps.bzl file at path in place using the
// checksum index.
//
// The file is read in full, substituted, and written back only when
// the content actually changed; a pass that updates nothing leaves the
// file untouched on disk.
func UpdateFile(path string, sums sumfile.Index) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	updated, report := Update(string(data), sums)

	if xxhash.Sum64String(updated) == xxhash.Sum64(data) {
		return report, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return report, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return report, fmt.Errorf("failed to write %s: %w", path, err)
	}

	report.Rewritten = true
	return report, nil
}
