package scaffold

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/unclepomedev/blender-init/pkg/config"
	"github.com/unclepomedev/blender-init/pkg/errors"
	"github.com/unclepomedev/blender-init/pkg/logging"
	"github.com/unclepomedev/blender-init/pkg/template"
)

// Options defines the inputs for the Run command.
type Options struct {
	// AddonName replaces the name placeholder in paths and contents.
	AddonName string
	// Maintainer replaces the maintainer placeholder when non-empty.
	Maintainer string
	// TargetDir is the directory the template is written into.
	TargetDir string
	// Force overwrites colliding paths instead of aborting.
	Force bool
	// DryRun plans and reports without writing anything.
	DryRun bool
	// Config is the merged tool configuration.
	Config *config.Config
	// Tree is the fetched template.
	Tree *template.Tree
}

// Result reports what the scaffold did (or would do, under dry-run).
type Result struct {
	// FilesWritten lists the written paths relative to the target dir.
	FilesWritten []string
	// DryRun is true when nothing was actually written.
	DryRun bool
}

// Run writes the template tree into the target directory, applying the
// placeholder substitutions. The conflict scan runs before any write:
// unless Force is set, a single pre-existing path aborts the whole
// operation and the target directory is left untouched.
func Run(opts Options) (*Result, error) {
	log := logging.GetLogger("scaffold")
	log.Debug().
		Str("addon", opts.AddonName).
		Str("target", opts.TargetDir).
		Bool("force", opts.Force).
		Bool("dryRun", opts.DryRun).
		Msg("Executing scaffold")

	if err := ValidateAddonName(opts.AddonName); err != nil {
		return nil, err
	}
	if opts.Tree == nil || opts.Tree.Len() == 0 {
		return nil, errors.New(errors.ErrTemplateEmpty, "no template files to write")
	}

	plan, err := buildPlan(opts)
	if err != nil {
		return nil, err
	}
	plan = appendReadme(plan, opts)

	// Pre-flight collision check, before anything touches the disk
	conflicts := findConflicts(opts.TargetDir, plan)
	if len(conflicts) > 0 && !opts.Force {
		return nil, errors.Newf(errors.ErrConflict,
			"%d existing path(s) would be overwritten, first: %s",
			len(conflicts), conflicts[0]).
			WithDetail("conflicts", conflicts)
	}

	executor := newExecutor(opts.DryRun, opts.Force)
	if err := executor.write(opts.TargetDir, plan); err != nil {
		return nil, err
	}

	written := make([]string, 0, len(plan))
	for _, f := range plan {
		written = append(written, f.relPath)
	}

	log.Info().Int("files", len(written)).Bool("dryRun", opts.DryRun).Msg("Scaffold finished")

	return &Result{FilesWritten: written, DryRun: opts.DryRun}, nil
}

// ValidateAddonName rejects names that cannot form a path segment.
// It is cheap and filesystem-free, so callers can run it before the
// template download.
func ValidateAddonName(name string) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "add-on name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\:*?\"<>|") {
		return errors.Newf(errors.ErrInvalidInput,
			"add-on name contains invalid characters: %s", name)
	}
	return nil
}

// findConflicts returns every planned path, file or directory, that
// already exists under the target directory, sorted
func findConflicts(targetDir string, plan []plannedFile) []string {
	var conflicts []string

	for _, dir := range planDirs(plan) {
		if _, err := os.Lstat(filepath.Join(targetDir, filepath.FromSlash(dir))); err == nil {
			conflicts = append(conflicts, dir)
		}
	}
	for _, f := range plan {
		if _, err := os.Lstat(filepath.Join(targetDir, filepath.FromSlash(f.relPath))); err == nil {
			conflicts = append(conflicts, f.relPath)
		}
	}

	sort.Strings(conflicts)
	return conflicts
}

// Conflicts extracts the colliding paths from a conflict error, or nil
// for any other error
func Conflicts(err error) []string {
	if !errors.IsErrorCode(err, errors.ErrConflict) {
		return nil
	}
	details := errors.GetErrorDetails(err)
	if details == nil {
		return nil
	}
	conflicts, _ := details["conflicts"].([]string)
	return conflicts
}
