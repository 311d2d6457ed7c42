package template

import (
	"bytes"
	"io/fs"
	"sort"
	"unicode/utf8"
)

// binarySampleSize is how many leading bytes are inspected when deciding
// whether a file is binary
const binarySampleSize = 4096

// File is a single template entry: a path relative to the template root
// plus its content and permission bits from the archive
type File struct {
	Path string
	Mode fs.FileMode
	Body []byte
}

// IsBinary reports whether the file should be treated as a binary blob.
// A file is binary when its leading bytes contain a NUL byte or are not
// valid UTF-8; binary files are copied verbatim, with no substitution.
func (f File) IsBinary() bool {
	sample := f.Body
	if len(sample) > binarySampleSize {
		sample = sample[:binarySampleSize]
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}
	return !utf8.Valid(sample)
}

// Tree is the immutable, path-ordered set of files fetched from the
// template repository
type Tree struct {
	files []File
}

// NewTree builds a Tree from the given files, sorted by path
func NewTree(files []File) *Tree {
	sorted := make([]File, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})
	return &Tree{files: sorted}
}

// Files returns the tree's entries in path order
func (t *Tree) Files() []File {
	return t.files
}

// Len returns the number of files in the tree
func (t *Tree) Len() int {
	return len(t.files)
}
