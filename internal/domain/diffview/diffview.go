// Package diffview renders unified diffs between original and rewritten file
// contents for the preview mode. It uses github.com/pmezard/go-difflib to
// produce classic unified patches (---/+++ headers, @@ hunks).
package diffview

import (
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// FileDiff is the rendered diff for one file. Patch is empty when the
// rewritten content is identical to the original.
type FileDiff struct {
	Path  string
	Patch string
}

// Changed reports whether the diff has any content.
func (d FileDiff) Changed() bool { return d.Patch != "" }

// Unified renders a unified diff of original vs rewritten content for one
// relative path. Returns an empty patch when the two sides are equal.
func Unified(path, original, rewritten string) (FileDiff, error) {
	if original == rewritten {
		return FileDiff{Path: path}, nil
	}
	u := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(original),
		B:        splitLinesKeepNL(rewritten),
		FromFile: "original/" + path,
		ToFile:   "optimized/" + path,
		Context:  3,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return FileDiff{}, err
	}
	return FileDiff{Path: path, Patch: s}, nil
}

// splitLinesKeepNL splits into lines keeping newline characters, which
// produces better unified hunks. A trailing chunk without "\n" is kept as-is.
func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.SplitAfter(s, "\n")
}
