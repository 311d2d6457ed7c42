package template

import (
	"archive/zip"
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/unclepomedev/blender-init/pkg/config"
	"github.com/unclepomedev/blender-init/pkg/errors"
	"github.com/unclepomedev/blender-init/pkg/logging"
)

// Fetcher downloads the template repository archive and decodes it into
// a Tree. It is a one-shot operation with no retries.
type Fetcher struct {
	client *http.Client
	cfg    config.TemplateConfig
	logger zerolog.Logger
}

// NewFetcher creates a Fetcher for the configured template repository
func NewFetcher(cfg config.TemplateConfig) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: 60 * time.Second},
		cfg:    cfg,
		logger: logging.GetLogger("template.fetcher"),
	}
}

// NewFetcherWithClient creates a Fetcher with a custom HTTP client
func NewFetcherWithClient(cfg config.TemplateConfig, client *http.Client) *Fetcher {
	return &Fetcher{
		client: client,
		cfg:    cfg,
		logger: logging.GetLogger("template.fetcher"),
	}
}

// Fetch downloads the branch archive and returns the template Tree.
// GitHub branch archives wrap everything in a single top-level directory
// named after the repo and ref; that prefix is stripped from every path.
func (f *Fetcher) Fetch(ctx context.Context) (*Tree, error) {
	url := f.cfg.ArchiveURL()
	f.logger.Debug().Str("url", url).Msg("Downloading template archive")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal,
			"failed to build request for %s", url)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDownloadFailed,
			"failed to download template from %s", f.cfg.Repo)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.ErrBadStatus,
			"unexpected status %d downloading template from %s", resp.StatusCode, f.cfg.Repo)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDownloadFailed,
			"failed to read archive body from %s", f.cfg.Repo)
	}

	f.logger.Debug().Int("bytes", len(data)).Msg("Archive downloaded")

	tree, err := f.decode(data)
	if err != nil {
		return nil, err
	}

	f.logger.Info().Int("files", tree.Len()).Msg("Template fetched")
	return tree, nil
}

// decode reads the zip archive into a Tree, stripping the single
// top-level directory and dropping excluded paths
func (f *Fetcher) decode(data []byte) (*Tree, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		// Since Go 1.20 the reader itself flags absolute and ".." entry
		// names; report those as a layout problem, not a corrupt zip
		if stderrors.Is(err, zip.ErrInsecurePath) {
			return nil, errors.Wrap(err, errors.ErrArchiveLayout,
				"template archive contains insecure entry paths")
		}
		return nil, errors.Wrap(err, errors.ErrArchiveInvalid,
			"template archive is not a valid zip file")
	}

	topDir := ""
	var files []File

	for _, entry := range zr.File {
		name := entry.Name
		dir, rest, found := strings.Cut(name, "/")
		if !found {
			// GitHub archives contain no root-level files
			return nil, errors.Newf(errors.ErrArchiveLayout,
				"unexpected root-level entry in archive: %s", name)
		}
		if topDir == "" {
			topDir = dir
		} else if dir != topDir {
			return nil, errors.New(errors.ErrArchiveLayout,
				"unexpected zip content: expected a single top-level directory")
		}
		if rest == "" || strings.HasSuffix(name, "/") {
			// Directory entries are implied by the file paths
			continue
		}
		if !filepath.IsLocal(filepath.FromSlash(rest)) {
			return nil, errors.Newf(errors.ErrArchiveLayout,
				"archive entry escapes the template root: %s", name)
		}
		if f.excluded(rest) {
			f.logger.Debug().Str("path", rest).Msg("Skipping excluded template file")
			continue
		}

		rc, err := entry.Open()
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrArchiveInvalid,
				"failed to open archive entry %s", name)
		}
		body, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrArchiveInvalid,
				"failed to read archive entry %s", name)
		}

		mode := entry.Mode().Perm()
		if mode == 0 {
			mode = 0644
		}

		files = append(files, File{Path: rest, Mode: mode, Body: body})
	}

	if len(files) == 0 {
		return nil, errors.New(errors.ErrTemplateEmpty,
			"template archive contains no usable files")
	}

	return NewTree(files), nil
}

func (f *Fetcher) excluded(relPath string) bool {
	for _, ex := range f.cfg.Exclude {
		if relPath == ex {
			return true
		}
	}
	return false
}
