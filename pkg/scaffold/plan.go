package scaffold

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/unclepomedev/blender-init/pkg/errors"
)

// plannedFile is a single file the scaffold will write, with the
// placeholder substitutions already applied
type plannedFile struct {
	relPath string
	mode    fs.FileMode
	body    []byte
}

// buildPlan turns the fetched template tree into the list of files to
// write. Placeholder substitution happens here:
//   - the name placeholder is replaced in every path segment and in the
//     contents of text files;
//   - the maintainer placeholder is replaced in text contents only when a
//     maintainer was given, otherwise the token is left as-is;
//   - binary files are passed through untouched.
func buildPlan(opts Options) ([]plannedFile, error) {
	placeholders := opts.Config.Placeholders
	manifestPath := opts.Config.Template.Manifest

	var plan []plannedFile
	for _, f := range opts.Tree.Files() {
		// The name token never contains a path separator, so replacing
		// on the whole slash path renames every affected segment
		relPath := strings.ReplaceAll(f.Path, placeholders.Name, opts.AddonName)

		// Every destination must stay under the target directory, even
		// when the tree comes from a hostile archive
		if !filepath.IsLocal(filepath.FromSlash(relPath)) {
			return nil, errors.Newf(errors.ErrInvalidInput,
				"template path escapes the target directory: %s", relPath)
		}

		body := f.Body
		if !f.IsBinary() {
			text := strings.ReplaceAll(string(body), placeholders.Name, opts.AddonName)
			if opts.Maintainer != "" {
				text = strings.ReplaceAll(text, placeholders.Maintainer, opts.Maintainer)
			}
			body = []byte(text)
		}

		if f.Path == manifestPath {
			if err := validateManifest(relPath, body); err != nil {
				return nil, err
			}
		}

		plan = append(plan, plannedFile{relPath: relPath, mode: f.Mode, body: body})
	}

	sort.Slice(plan, func(i, j int) bool {
		return plan[i].relPath < plan[j].relPath
	})

	return plan, nil
}

// appendReadme adds the generated README.md to the plan. The upstream
// README is excluded from the template, so one is generated here — but a
// README already present in the target is kept rather than treated as a
// conflict; force regenerates it.
func appendReadme(plan []plannedFile, opts Options) []plannedFile {
	for _, f := range plan {
		if f.relPath == "README.md" {
			// The tree itself ships a README (custom exclude list);
			// the normal conflict rules apply to it
			return plan
		}
	}

	if _, err := os.Lstat(filepath.Join(opts.TargetDir, "README.md")); err == nil && !opts.Force {
		return plan
	}

	plan = append(plan, plannedFile{
		relPath: "README.md",
		mode:    0644,
		body:    renderReadme(opts.AddonName),
	})
	sort.Slice(plan, func(i, j int) bool {
		return plan[i].relPath < plan[j].relPath
	})
	return plan
}

// validateManifest checks that the extension manifest still parses as
// TOML after substitution, so a bad add-on name cannot produce a project
// Blender refuses to load
func validateManifest(relPath string, body []byte) error {
	var manifest map[string]interface{}
	if err := toml.Unmarshal(body, &manifest); err != nil {
		return errors.Wrapf(err, errors.ErrManifestInvalid,
			"manifest %s is not valid TOML after substitution", relPath)
	}
	return nil
}

// renderReadme produces the generated README content for the new add-on
func renderReadme(addonName string) []byte {
	return []byte(fmt.Sprintf("# %s\n\nDescription of %s.\n", addonName, addonName))
}

// planDirs returns the sorted set of directories implied by the planned
// file paths, relative to the target root
func planDirs(plan []plannedFile) []string {
	seen := make(map[string]bool)
	for _, f := range plan {
		dir := f.relPath
		for {
			idx := strings.LastIndex(dir, "/")
			if idx < 0 {
				break
			}
			dir = dir[:idx]
			if seen[dir] {
				break
			}
			seen[dir] = true
		}
	}

	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}
