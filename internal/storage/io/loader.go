package io

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/slok/renderci/internal/model"
)

// RunConfigYAMLRepository loads run configurations from YAML files.
type RunConfigYAMLRepository struct {
	fs fs.FS
}

// NewRunConfigYAMLRepository creates a new YAML run config repository.
func NewRunConfigYAMLRepository(filesystem fs.FS) *RunConfigYAMLRepository {
	return &RunConfigYAMLRepository{fs: filesystem}
}

// GetRunConfig loads a run configuration from a YAML file and returns a validated domain model.
func (r *RunConfigYAMLRepository) GetRunConfig(ctx context.Context, path string) (model.RunConfig, error) {
	data, err := fs.ReadFile(r.fs, fsPath(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.RunConfig{}, fmt.Errorf("reading run config file %s: %w", path, model.ErrNotFound)
		}
		return model.RunConfig{}, fmt.Errorf("reading run config file: %w", err)
	}

	if ctx.Err() != nil {
		return model.RunConfig{}, ctx.Err()
	}

	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return model.RunConfig{}, fmt.Errorf("parsing YAML: %w", err)
	}

	m := cfg.toModel()
	if err := m.Validate(); err != nil {
		return model.RunConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return m, nil
}

// RunConfig represents the YAML structure for the run configuration.
type RunConfig struct {
	Tasks []TaskConfig `yaml:"tasks"`
}

// TaskConfig represents the YAML structure of a task.
type TaskConfig struct {
	Name          string   `yaml:"name"`
	SceneConfig   string   `yaml:"scene_config"`
	RenderConfigs []string `yaml:"render_configs"`
}

func (c RunConfig) toModel() model.RunConfig {
	cfg := model.RunConfig{}
	for _, t := range c.Tasks {
		cfg.Tasks = append(cfg.Tasks, model.TaskConfig{
			Name:          t.Name,
			SceneConfig:   t.SceneConfig,
			RenderConfigs: t.RenderConfigs,
		})
	}
	return cfg
}

// RenderConfigTOMLRepository loads the descriptive fields of renderer configurations from TOML files.
type RenderConfigTOMLRepository struct {
	fs fs.FS
}

// NewRenderConfigTOMLRepository creates a new TOML render config repository.
func NewRenderConfigTOMLRepository(filesystem fs.FS) *RenderConfigTOMLRepository {
	return &RenderConfigTOMLRepository{fs: filesystem}
}

// GetRenderConfig loads a render configuration from a TOML file.
func (r *RenderConfigTOMLRepository) GetRenderConfig(ctx context.Context, path string) (model.RenderConfig, error) {
	data, err := fs.ReadFile(r.fs, fsPath(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.RenderConfig{}, fmt.Errorf("reading render config file %s: %w", path, model.ErrNotFound)
		}
		return model.RenderConfig{}, fmt.Errorf("reading render config file: %w", err)
	}

	if ctx.Err() != nil {
		return model.RenderConfig{}, ctx.Err()
	}

	var cfg RenderConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return model.RenderConfig{}, fmt.Errorf("parsing TOML: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return model.RenderConfig{}, fmt.Errorf("invalid render configuration: %w", err)
	}

	return cfg.toModel(), nil
}

// RenderConfig represents the TOML structure of a renderer configuration. Only the
// fields used to describe the rendered image are decoded.
type RenderConfig struct {
	Image   ImageConfig   `toml:"image"`
	Sampler SamplerConfig `toml:"sampler"`
}

// ImageConfig represents the TOML structure of the image section.
type ImageConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
	// SamplesPerPixel is used by simplified configs that don't have a sampler section.
	SamplesPerPixel int `toml:"samples_per_pixel"`
}

// SamplerConfig represents the TOML structure of the sampler section.
type SamplerConfig struct {
	Type            string `toml:"type"`
	SamplesPerPixel int    `toml:"samples_per_pixel"`
}

func (c RenderConfig) spp() int {
	if c.Sampler.SamplesPerPixel != 0 {
		return c.Sampler.SamplesPerPixel
	}
	return c.Image.SamplesPerPixel
}

func (c RenderConfig) validate() error {
	if c.Image.Width <= 0 {
		return fmt.Errorf("image.width must be positive, got: %d", c.Image.Width)
	}
	if c.Image.Height <= 0 {
		return fmt.Errorf("image.height must be positive, got: %d", c.Image.Height)
	}
	if c.Sampler.Type == "" {
		return fmt.Errorf("sampler.type is required")
	}
	if c.spp() <= 0 {
		return fmt.Errorf("samples per pixel must be positive, got: %d", c.spp())
	}
	return nil
}

func (c RenderConfig) toModel() model.RenderConfig {
	return model.RenderConfig{
		Width:           c.Image.Width,
		Height:          c.Image.Height,
		SamplerType:     c.Sampler.Type,
		SamplesPerPixel: c.spp(),
	}
}

// fsPath converts an OS path into an fs.FS path. Absolute paths are resolved
// from the filesystem root, so repositories created over os.DirFS("/") accept them.
func fsPath(path string) string {
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean(path)), "/")
}
