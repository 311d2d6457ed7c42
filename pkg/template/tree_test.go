package template

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileIsBinary(t *testing.T) {
	tests := []struct {
		name string
		body []byte
		want bool
	}{
		{"plain ascii", []byte("import bpy\n"), false},
		{"utf8 text", []byte("maintainer = \"Jürgen\"\n"), false},
		{"empty file", nil, false},
		{"nul byte", []byte("PK\x00\x04"), true},
		{"invalid utf8", []byte{0xff, 0xfe, 0x41}, true},
		{"nul beyond sample window", append(bytes.Repeat([]byte("a"), binarySampleSize), 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := File{Path: "x", Body: tt.body}
			assert.Equal(t, tt.want, f.IsBinary())
		})
	}
}

func TestNewTreeSortsByPath(t *testing.T) {
	tree := NewTree([]File{
		{Path: "zeta/late.py"},
		{Path: "alpha/early.py"},
		{Path: "manifest.toml"},
	})

	assert.Equal(t, 3, tree.Len())
	assert.Equal(t, "alpha/early.py", tree.Files()[0].Path)
	assert.Equal(t, "manifest.toml", tree.Files()[1].Path)
	assert.Equal(t, "zeta/late.py", tree.Files()[2].Path)
}
