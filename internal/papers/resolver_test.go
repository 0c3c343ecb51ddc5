package papers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseFilename(t *testing.T) {
	tests := []struct {
		subject string
		want    string
	}{
		{"Biochemistry", "Biochemistry"},
		{"Human Anatomy and Physiology I", "Human_Anatomy_and_Physiology_I"},
		{"Anatomy - Advanced", "Anatomy__Advanced"},
		{"A/B Testing", "AB_Testing"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BaseFilename(tt.subject), tt.subject)
	}
}

func TestPaths(t *testing.T) {
	r := NewResolver("bpharm_bot_18")

	prev, guess := r.Paths("2nd Semester", "Biochemistry")
	assert.Equal(t, filepath.Join("bpharm_bot_18", "2nd_Semester", "Biochemistry.pdf"), prev)
	assert.Equal(t, filepath.Join("bpharm_bot_18", "2nd_Semester", "Biochemistry_Guess.pdf"), guess)
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "2nd_Semester")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Biochemistry.pdf"), []byte("%PDF-"), 0o644))

	r := NewResolver(root)
	papers := r.Resolve("2nd Semester", "Biochemistry")
	require.Len(t, papers, 2)

	assert.Equal(t, KindPrevious, papers[0].Kind)
	assert.True(t, papers[0].Exists)
	assert.Equal(t, KindGuess, papers[1].Kind)
	assert.False(t, papers[1].Exists, "guess paper was not written")
}

func TestResolveIgnoresDirectories(t *testing.T) {
	root := t.TempDir()
	// A directory at the paper path must not count as a file.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "2nd_Semester", "Biochemistry.pdf"), 0o755))

	r := NewResolver(root)
	papers := r.Resolve("2nd Semester", "Biochemistry")
	assert.False(t, papers[0].Exists)
}
