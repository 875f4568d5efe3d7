// Package bundle defines the wire format shared with the remote model: a
// single text blob holding zero or more files, each introduced by a header
// token embedding its relative path.
//
// Grammar:
//
//	bundle  = *segment
//	segment = header body
//	header  = "## File: " path " ##" newline
//	body    = text up to the next header token or end of input
//
// There is no escaping mechanism. If a file body contains the literal
// header token, Split will treat it as a new file boundary. This is a known
// structural risk of the format, inherited from the prompt contract with
// the model, and is deliberately not papered over with heuristics.
package bundle

import (
	"strings"
)

const (
	// HeaderToken introduces a file segment. The model is instructed to
	// reproduce this token exactly; the demultiplexer relies on it.
	HeaderToken = "## File: "
	// CloseToken terminates the path capture on the header line.
	CloseToken = " ##"
)

// FilePart is one named file inside a bundle.
type FilePart struct {
	Path    string
	Content string
}

// Join concatenates parts into a single bundle string using the header
// grammar. Join then Split reproduces the original parts exactly, provided
// no content contains the header token.
func Join(parts []FilePart) string {
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString("\n\n")
		sb.WriteString(HeaderToken)
		sb.WriteString(p.Path)
		sb.WriteString(CloseToken)
		sb.WriteString("\n")
		sb.WriteString(p.Content)
	}
	return sb.String()
}

// Split tokenizes a bundle into its file segments. A bundle with no header
// tokens yields an empty slice — the caller treats that as "nothing usable
// was produced", not as an error, since the raw text may still be
// informative to a human. Segments whose header line lacks the closing
// token are skipped: there is no path to attribute the body to.
func Split(s string) []FilePart {
	var parts []FilePart

	i := strings.Index(s, HeaderToken)
	for i >= 0 {
		rest := s[i+len(HeaderToken):]

		// Body of this segment runs to the next header token or EOF.
		next := strings.Index(rest, HeaderToken)
		segment := rest
		if next >= 0 {
			segment = rest[:next]
		}

		if part, ok := parseSegment(segment); ok {
			parts = append(parts, part)
		}

		if next < 0 {
			break
		}
		i += len(HeaderToken) + next
	}
	return parts
}

// parseSegment extracts the path and trimmed body from the text following a
// header token. Reports false when the header line is malformed.
func parseSegment(segment string) (FilePart, bool) {
	close := strings.Index(segment, CloseToken)
	if close < 0 {
		return FilePart{}, false
	}
	path := strings.TrimSpace(segment[:close])
	if path == "" || strings.ContainsAny(path, "\n\r") {
		return FilePart{}, false
	}
	body := strings.TrimSpace(segment[close+len(CloseToken):])
	return FilePart{Path: path, Content: body}, true
}
