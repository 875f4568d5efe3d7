// Package fingerprint computes a deterministic digest over a set of input
// files. The digest identifies the exact content+path state of the set and
// drives incremental cache invalidation: equal fingerprint means the stored
// rewrite output is still valid.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// chunkSize bounds per-read memory so arbitrarily large files never need to
// fit in memory at once.
const chunkSize = 8 * 1024

// hashFile computes the hex SHA-256 of a file's contents, streaming in
// fixed-size chunks.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, chunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Fingerprint computes the combined digest for a set of files relative to
// baseDir. Files are ordered by slash-normalized relative path before
// combining, so the result is independent of absolute location, OS path
// separators, and the caller's enumeration order.
//
// Any unreadable file fails the whole operation with an error naming the
// file. Skipping would silently corrupt cache correctness.
func Fingerprint(files []string, baseDir string) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("fingerprint: empty file set")
	}

	type entry struct {
		rel    string
		digest string
	}
	entries := make([]entry, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(baseDir, f)
		if err != nil {
			return "", fmt.Errorf("relativize %s: %w", f, err)
		}
		digest, err := hashFile(f)
		if err != nil {
			return "", err
		}
		entries = append(entries, entry{rel: filepath.ToSlash(rel), digest: digest})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].rel < entries[j].rel })

	var combined strings.Builder
	for _, e := range entries {
		combined.WriteString(e.rel)
		combined.WriteString(e.digest)
	}
	sum := sha256.Sum256([]byte(combined.String()))
	return hex.EncodeToString(sum[:]), nil
}
