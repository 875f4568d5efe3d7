package diffview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifiedNoChanges(t *testing.T) {
	d, err := Unified("src/main.rs", "fn main(){}\n", "fn main(){}\n")
	require.NoError(t, err)
	assert.False(t, d.Changed())
	assert.Empty(t, d.Patch)
}

func TestUnifiedRendersHunks(t *testing.T) {
	orig := "fn main() {\n    println!(\"a\");\n}\n"
	rewritten := "fn main() {\n    println!(\"b\");\n}\n"

	d, err := Unified("src/main.rs", orig, rewritten)
	require.NoError(t, err)
	assert.True(t, d.Changed())
	assert.Contains(t, d.Patch, "--- original/src/main.rs")
	assert.Contains(t, d.Patch, "+++ optimized/src/main.rs")
	assert.Contains(t, d.Patch, "-    println!(\"a\");")
	assert.Contains(t, d.Patch, "+    println!(\"b\");")
}

func TestUnifiedHandlesMissingTrailingNewline(t *testing.T) {
	d, err := Unified("a.rs", "fn a(){}", "fn a(){}\nfn b(){}")
	require.NoError(t, err)
	assert.True(t, d.Changed())
	assert.Contains(t, d.Patch, "+fn b(){}")
}
