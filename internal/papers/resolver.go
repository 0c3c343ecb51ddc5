// Package papers maps catalog subjects to PDF files on the local filesystem.
//
// Layout: <root>/<Semester_With_Underscores>/<Subject_With_Underscores>.pdf
// plus an optional companion <...>_Guess.pdf.
package papers

import (
	"os"
	"path/filepath"
	"strings"
)

// Kind distinguishes the two documents available per subject.
type Kind string

const (
	// KindPrevious is the previous-year paper.
	KindPrevious Kind = "previous"
	// KindGuess is the supplementary guess paper.
	KindGuess Kind = "guess"
)

// Paper describes one resolvable document.
type Paper struct {
	Kind   Kind
	Path   string
	Exists bool
}

// Resolver locates subject PDFs under a fixed root folder.
type Resolver struct {
	root string
}

// NewResolver returns a resolver rooted at the given paper folder.
func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

// BaseFilename derives the canonical file stem from a subject name:
// spaces become underscores, dashes and slashes are stripped.
func BaseFilename(subject string) string {
	r := strings.NewReplacer(" ", "_", "-", "", "/", "")
	return r.Replace(subject)
}

// folderName derives the semester directory name.
func folderName(semester string) string {
	return strings.ReplaceAll(semester, " ", "_")
}

// Paths returns the candidate paths for both documents without touching the
// filesystem.
func (r *Resolver) Paths(semester, subject string) (previous, guess string) {
	base := BaseFilename(subject)
	dir := filepath.Join(r.root, folderName(semester))
	return filepath.Join(dir, base+".pdf"), filepath.Join(dir, base+"_Guess.pdf")
}

// Resolve probes both documents for the subject. A missing file is not an
// error: callers report it to the user and continue with the other file.
func (r *Resolver) Resolve(semester, subject string) []Paper {
	prev, guess := r.Paths(semester, subject)
	return []Paper{
		{Kind: KindPrevious, Path: prev, Exists: fileExists(prev)},
		{Kind: KindGuess, Path: guess, Exists: fileExists(guess)},
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
