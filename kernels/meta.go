package kernels

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// PathEscapeError reports a meta-kernel KERNELS_TO_LOAD entry that resolves
// outside its restrictToDir root (spec §4.7, §9: meta-kernels are treated
// as untrusted input).
type PathEscapeError struct {
	Entry string
	Root  string
}

func (e *PathEscapeError) Error() string {
	return fmt.Sprintf("kernels: meta-kernel entry %q escapes root %q", e.Entry, e.Root)
}

var kernelsToLoadPattern = regexp.MustCompile(`(?is)KERNELS_TO_LOAD\s*=\s*\(([^)]*)\)`)
var quotedEntryPattern = regexp.MustCompile(`'([^']*)'|"([^"]*)"`)

// ExpandedMeta is the result of expanding a meta-kernel: the list of
// kernels its KERNELS_TO_LOAD directive names (sanitized against root), and
// the meta-kernel's own text with that directive stripped, so a caller can
// furnish it for its remaining pool assignments alone (spec §4.7).
type ExpandedMeta struct {
	Kernels    []string
	Sanitized  string
}

// ExpandMetaKernel parses a meta-kernel's text, resolves each
// KERNELS_TO_LOAD entry against root (when root is non-empty), and returns
// both the resolved kernel list and the meta-kernel text with that
// directive removed.
func ExpandMetaKernel(text, restrictToDir string) (ExpandedMeta, error) {
	loc := kernelsToLoadPattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return ExpandedMeta{Sanitized: text}, nil
	}

	inner := text[loc[2]:loc[3]]
	matches := quotedEntryPattern.FindAllStringSubmatch(inner, -1)

	kernelsList := make([]string, 0, len(matches))
	for _, m := range matches {
		entry := m[1]
		if entry == "" {
			entry = m[2]
		}
		resolved, err := resolveEntry(entry, restrictToDir)
		if err != nil {
			return ExpandedMeta{}, err
		}
		kernelsList = append(kernelsList, resolved)
	}

	sanitized := text[:loc[0]] + text[loc[1]:]
	return ExpandedMeta{Kernels: kernelsList, Sanitized: sanitized}, nil
}

func resolveEntry(entry, restrictToDir string) (string, error) {
	if restrictToDir == "" {
		return entry, nil
	}
	root, err := filepath.Abs(restrictToDir)
	if err != nil {
		return "", err
	}
	candidate := entry
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(root, candidate)
	}
	candidate, err = filepath.Abs(candidate)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &PathEscapeError{Entry: entry, Root: root}
	}
	return candidate, nil
}
