package scaffold

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/core"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/arthur-debert/synthfs/pkg/synthfs/operations"
	"github.com/rs/zerolog"

	"github.com/unclepomedev/blender-init/pkg/errors"
	"github.com/unclepomedev/blender-init/pkg/logging"
)

// executor runs the write phase of a scaffold through a synthfs pipeline,
// so the whole plan executes as one batch
type executor struct {
	logger     zerolog.Logger
	dryRun     bool
	force      bool
	filesystem synthfs.FileSystem
}

func newExecutor(dryRun, force bool) *executor {
	return &executor{
		logger:     logging.GetLogger("scaffold.executor"),
		dryRun:     dryRun,
		force:      force,
		filesystem: filesystem.NewOSFileSystem("/"),
	}
}

// write materializes the plan under targetDir: missing parent directories
// first, then the file contents, in a single synthfs pipeline
func (e *executor) write(targetDir string, plan []plannedFile) error {
	if e.dryRun {
		for _, dir := range e.missingDirs(targetDir, plan) {
			e.logger.Info().Str("path", dir).Msg("Would create directory")
		}
		for _, f := range plan {
			e.logger.Info().
				Str("path", filepath.Join(targetDir, filepath.FromSlash(f.relPath))).
				Int("contentLen", len(f.body)).
				Msg("Would write file")
		}
		return nil
	}

	// Synthfs validation refuses to create over existing entries, so in
	// force mode colliding destinations are removed up front
	if e.force {
		for _, f := range plan {
			target := filepath.Join(targetDir, filepath.FromSlash(f.relPath))
			if _, err := os.Lstat(target); err == nil {
				e.logger.Debug().Str("target", target).
					Msg("Removing existing path to allow overwrite in force mode")
				if err := os.RemoveAll(target); err != nil {
					return errors.Wrapf(err, errors.ErrWriteFailed,
						"failed to remove existing path %s", target)
				}
			}
		}
	}

	var synthOps []synthfs.Operation

	for _, dir := range e.missingDirs(targetDir, plan) {
		op, err := e.createDirOperation(dir)
		if err != nil {
			return err
		}
		synthOps = append(synthOps, op)
	}

	for _, f := range plan {
		op, err := e.createFileOperation(targetDir, f)
		if err != nil {
			return err
		}
		synthOps = append(synthOps, op)
	}

	pipeline := synthfs.NewMemPipeline()
	for _, op := range synthOps {
		if err := pipeline.Add(op); err != nil {
			return errors.Wrap(err, errors.ErrInternal,
				"failed to add operation to pipeline")
		}
	}

	e.logger.Info().Int("operationCount", len(synthOps)).Msg("Executing write pipeline")

	result := synthfs.NewExecutor().Run(context.Background(), pipeline, e.filesystem)
	if result.GetError() != nil {
		e.logger.Error().Err(result.GetError()).Msg("Pipeline execution failed")
		return errors.Wrap(result.GetError(), errors.ErrWriteFailed,
			"failed to write template files")
	}

	return nil
}

// missingDirs returns the absolute paths of planned directories that do
// not exist yet, shallowest first
func (e *executor) missingDirs(targetDir string, plan []plannedFile) []string {
	var missing []string
	for _, dir := range planDirs(plan) {
		abs := filepath.Join(targetDir, filepath.FromSlash(dir))
		if _, err := os.Stat(abs); os.IsNotExist(err) {
			missing = append(missing, abs)
		}
	}
	return missing
}

func (e *executor) createDirOperation(target string) (synthfs.Operation, error) {
	relPath, err := filepath.Rel("/", target)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput,
			"failed to convert path: %s", target)
	}

	e.logger.Debug().Str("target", target).Msg("Creating directory operation")

	opID := core.OperationID(fmt.Sprintf("create-dir-%s", target))
	createOp := operations.NewCreateDirectoryOperation(opID, relPath)
	createOp.SetItem(&directoryItem{
		path: relPath,
		mode: 0755,
	})

	return synthfs.NewOperationsPackageAdapter(createOp), nil
}

func (e *executor) createFileOperation(targetDir string, f plannedFile) (synthfs.Operation, error) {
	target := filepath.Join(targetDir, filepath.FromSlash(f.relPath))
	relPath, err := filepath.Rel("/", target)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput,
			"failed to convert path: %s", target)
	}

	mode := f.mode
	if mode == 0 {
		mode = 0644
	}

	e.logger.Debug().
		Str("target", target).
		Str("mode", mode.String()).
		Int("contentLen", len(f.body)).
		Msg("Creating write file operation")

	opID := core.OperationID(fmt.Sprintf("write-file-%s", target))
	createOp := operations.NewCreateFileOperation(opID, relPath)
	createOp.SetItem(&fileItem{
		path:    relPath,
		content: f.body,
		mode:    mode,
	})

	return synthfs.NewOperationsPackageAdapter(createOp), nil
}

// Item types for synthfs operations

// fileItem implements the interface needed for file operations
type fileItem struct {
	path    string
	content []byte
	mode    fs.FileMode
}

func (f *fileItem) Path() string       { return f.path }
func (f *fileItem) Type() string       { return "file" }
func (f *fileItem) Content() []byte    { return f.content }
func (f *fileItem) Mode() fs.FileMode  { return f.mode }
func (f *fileItem) IsDir() bool        { return false }
func (f *fileItem) ModTime() time.Time { return time.Now() }
func (f *fileItem) Size() int64        { return int64(len(f.content)) }

// directoryItem implements the interface needed for directory operations
type directoryItem struct {
	path string
	mode fs.FileMode
}

func (d *directoryItem) Path() string       { return d.path }
func (d *directoryItem) Type() string       { return "directory" }
func (d *directoryItem) Mode() fs.FileMode  { return d.mode }
func (d *directoryItem) IsDir() bool        { return true }
func (d *directoryItem) ModTime() time.Time { return time.Now() }
func (d *directoryItem) Size() int64        { return 0 }
