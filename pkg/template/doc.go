// Package template fetches the upstream add-on template repository.
// It downloads the branch zip archive, strips the single top-level
// directory GitHub wraps archives in, filters excluded paths, and
// exposes the result as an immutable file tree.
package template
