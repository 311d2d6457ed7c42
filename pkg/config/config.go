package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/unclepomedev/blender-init/pkg/errors"
)

// Config holds the fully merged blender-init configuration
type Config struct {
	Template     TemplateConfig    `koanf:"template"`
	Placeholders PlaceholderConfig `koanf:"placeholders"`
}

// TemplateConfig describes where the upstream template lives and how to
// filter it
type TemplateConfig struct {
	// Repo is the "owner/name" of the template repository
	Repo string `koanf:"repo"`
	// Ref is the branch whose archive is downloaded
	Ref string `koanf:"ref"`
	// ArchiveHost is the base URL serving branch archives
	ArchiveHost string `koanf:"archive_host"`
	// Exclude lists template-relative paths that are never copied
	Exclude []string `koanf:"exclude"`
	// Manifest is the template-relative path of the Blender extension
	// manifest, validated after substitution
	Manifest string `koanf:"manifest"`
}

// PlaceholderConfig names the tokens rewritten during scaffolding
type PlaceholderConfig struct {
	// Name is replaced in both path segments and text file contents
	Name string `koanf:"name"`
	// Maintainer is replaced in text file contents when a maintainer is given
	Maintainer string `koanf:"maintainer"`
}

// ArchiveURL returns the zip archive URL for the configured repo and ref
func (t TemplateConfig) ArchiveURL() string {
	return fmt.Sprintf("%s/%s/zip/refs/heads/%s", t.ArchiveHost, t.Repo, t.Ref)
}

// RepoURL returns the browsable URL of the template repository
func (t TemplateConfig) RepoURL() string {
	return fmt.Sprintf("https://github.com/%s", t.Repo)
}

// Load builds the configuration by layering, in order: embedded defaults,
// the user config file (if present), and BLENDER_INIT_* env vars.
func Load() (*Config, error) {
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load built-in defaults")
	}

	// 2. User config file, if it exists
	userConfigPath := filepath.Join(xdg.ConfigHome, "blender-init", "config.toml")
	if _, err := os.Stat(userConfigPath); err == nil {
		if err := k.Load(file.Provider(userConfigPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse,
				"failed to load user config from %s", userConfigPath)
		}
	}

	// 3. Environment overrides: BLENDER_INIT_TEMPLATE_REF -> template.ref
	if err := k.Load(env.Provider("BLENDER_INIT_", ".", func(s string) string {
		return strings.Replace(
			strings.ToLower(strings.TrimPrefix(s, "BLENDER_INIT_")), "_", ".", 1)
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal config")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Template.Repo == "" {
		return errors.New(errors.ErrConfigParse, "template.repo must not be empty")
	}
	if c.Template.Ref == "" {
		return errors.New(errors.ErrConfigParse, "template.ref must not be empty")
	}
	if c.Placeholders.Name == "" {
		return errors.New(errors.ErrConfigParse, "placeholders.name must not be empty")
	}
	return nil
}
