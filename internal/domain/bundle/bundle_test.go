package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinSplitRoundTrip(t *testing.T) {
	parts := []FilePart{
		{Path: "Cargo.toml", Content: "[package]\nname=\"x\""},
		{Path: "src/main.rs", Content: "fn main() {\n    println!(\"hi\");\n}"},
		{Path: "src/lib.rs", Content: "pub fn f() -> u32 { 7 }"},
	}

	got := Split(Join(parts))
	require.Len(t, got, len(parts))
	for i := range parts {
		assert.Equal(t, parts[i].Path, got[i].Path)
		assert.Equal(t, parts[i].Content, got[i].Content)
	}
}

func TestSplitNoHeadersYieldsEmpty(t *testing.T) {
	cases := []string{
		"",
		"I could not process these files, sorry.",
		"## Files: not quite the token ##\ncontent",
	}
	for _, in := range cases {
		assert.Empty(t, Split(in))
	}
}

func TestSplitSingleSegment(t *testing.T) {
	in := "## File: src/main.rs ##\nfn main() {}\n"
	got := Split(in)
	require.Len(t, got, 1)
	assert.Equal(t, "src/main.rs", got[0].Path)
	assert.Equal(t, "fn main() {}", got[0].Content)
}

func TestSplitIgnoresPreamble(t *testing.T) {
	// Models often prepend commentary before the first header.
	in := "Here are your optimized files:\n\n## File: src/main.rs ##\nfn main() {}"
	got := Split(in)
	require.Len(t, got, 1)
	assert.Equal(t, "src/main.rs", got[0].Path)
}

func TestSplitTrimsBodies(t *testing.T) {
	in := "## File: a.rs ##\n\n\n  fn a() {}  \n\n## File: b.rs ##\nfn b() {}\n\n"
	got := Split(in)
	require.Len(t, got, 2)
	assert.Equal(t, "fn a() {}", got[0].Content)
	assert.Equal(t, "fn b() {}", got[1].Content)
}

func TestSplitSkipsMalformedHeader(t *testing.T) {
	// Missing close token: no path can be attributed, segment is dropped.
	in := "## File: src/main.rs\nfn main() {}"
	assert.Empty(t, Split(in))
}

func TestSplitHeaderTokenInsideBodyCreatesBoundary(t *testing.T) {
	// Documented fragility: the format has no escaping, so a body that
	// contains the literal header token is cut at that point.
	in := Join([]FilePart{
		{Path: "a.rs", Content: "// mentions ## File: b.rs ##\nfn a() {}"},
	})
	got := Split(in)
	require.Len(t, got, 2)
	assert.Equal(t, "a.rs", got[0].Path)
	assert.Equal(t, "b.rs", got[1].Path)
}

func TestSplitEmptyBody(t *testing.T) {
	in := "## File: empty.rs ##\n\n## File: other.rs ##\nfn x() {}"
	got := Split(in)
	require.Len(t, got, 2)
	assert.Equal(t, "", got[0].Content)
	assert.Equal(t, "fn x() {}", got[1].Content)
}
