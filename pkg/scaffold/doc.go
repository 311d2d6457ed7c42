// Package scaffold writes a fetched template tree into a target
// directory. It applies the placeholder substitutions, runs an
// all-or-nothing conflict scan before the first write, and executes the
// write phase as a single synthfs pipeline.
package scaffold
