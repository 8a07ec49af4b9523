package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// RunConfig is the render matrix of a CI run.
type RunConfig struct {
	Tasks []TaskConfig
}

// TaskConfig declares a task: one scene rendered with each of the render configs in order.
type TaskConfig struct {
	Name          string
	SceneConfig   string
	RenderConfigs []string
}

// Jobs returns the render jobs of the task in declaration order.
func (t TaskConfig) Jobs() []RenderJob {
	jobs := make([]RenderJob, 0, len(t.RenderConfigs))
	for _, rc := range t.RenderConfigs {
		jobs = append(jobs, RenderJob{
			Task:         t.Name,
			SceneConfig:  t.SceneConfig,
			RenderConfig: rc,
		})
	}
	return jobs
}

// Validate checks the run configuration is usable.
func (c RunConfig) Validate() error {
	if len(c.Tasks) == 0 {
		return fmt.Errorf("at least one task is required: %w", ErrNotValid)
	}

	names := map[string]struct{}{}
	for i, t := range c.Tasks {
		if t.Name == "" {
			return fmt.Errorf("task %d: name is required: %w", i, ErrNotValid)
		}
		if t.Name == "." || t.Name == ".." || strings.ContainsAny(t.Name, `/\`) {
			return fmt.Errorf("task %q: name must be a single path segment: %w", t.Name, ErrNotValid)
		}
		if _, ok := names[t.Name]; ok {
			return fmt.Errorf("task %q is declared more than once: %w", t.Name, ErrNotValid)
		}
		names[t.Name] = struct{}{}

		if t.SceneConfig == "" {
			return fmt.Errorf("task %q: scene config is required: %w", t.Name, ErrNotValid)
		}
		if len(t.RenderConfigs) == 0 {
			return fmt.Errorf("task %q: at least one render config is required: %w", t.Name, ErrNotValid)
		}
		stems := map[string]string{}
		for _, job := range t.Jobs() {
			if job.RenderConfig == "" {
				return fmt.Errorf("task %q: render config path can't be empty: %w", t.Name, ErrNotValid)
			}
			// Job artifacts are named after the stem.
			if prev, ok := stems[job.Stem()]; ok {
				return fmt.Errorf("task %q: render configs %q and %q share the %q artifact name: %w", t.Name, prev, job.RenderConfig, job.Stem(), ErrNotValid)
			}
			stems[job.Stem()] = job.RenderConfig
		}
	}

	return nil
}

// Resolve returns a copy of the config with relative scene and render config
// paths joined to dir.
func (c RunConfig) Resolve(dir string) RunConfig {
	resolve := func(path string) string {
		if path == "" || filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(dir, path)
	}

	out := RunConfig{Tasks: make([]TaskConfig, 0, len(c.Tasks))}
	for _, t := range c.Tasks {
		renders := make([]string, 0, len(t.RenderConfigs))
		for _, rc := range t.RenderConfigs {
			renders = append(renders, resolve(rc))
		}
		out.Tasks = append(out.Tasks, TaskConfig{Name: t.Name, SceneConfig: resolve(t.SceneConfig), RenderConfigs: renders})
	}

	return out
}
