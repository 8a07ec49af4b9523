package renderci

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/slok/renderci/test/integration/testutils"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary    string
	Renderer  string
	RunConfig string
	// WorkDir is where the run config relative paths are resolved from.
	WorkDir string
}

func (c *Config) defaults() error {
	// go test changes the CWD to the test package directory, so every path must be absolute.
	for env, path := range map[string]string{
		"RENDERCI_INTEGRATION_BINARY":     c.Binary,
		"RENDERCI_INTEGRATION_RENDERER":   c.Renderer,
		"RENDERCI_INTEGRATION_RUN_CONFIG": c.RunConfig,
	} {
		if !filepath.IsAbs(path) {
			return fmt.Errorf("%s must be an absolute path, got %q", env, path)
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%q not found: %w", path, err)
		}
	}

	if c.WorkDir == "" {
		c.WorkDir = filepath.Dir(c.RunConfig)
	}

	return nil
}

// NewConfig loads integration test configuration from environment variables.
// If the config is invalid or the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "RENDERCI_INTEGRATION"
		envBinary     = "RENDERCI_INTEGRATION_BINARY"
		envRenderer   = "RENDERCI_INTEGRATION_RENDERER"
		envRunConfig  = "RENDERCI_INTEGRATION_RUN_CONFIG"
		envWorkDir    = "RENDERCI_INTEGRATION_WORK_DIR"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{
		Binary:    os.Getenv(envBinary),
		Renderer:  os.Getenv(envRenderer),
		RunConfig: os.Getenv(envRunConfig),
		WorkDir:   os.Getenv(envWorkDir),
	}

	if err := c.defaults(); err != nil {
		t.Skipf("Skipping due to invalid config: %s", err)
	}

	return c
}

// RunReport runs a local report (no uploads) into outputDir and returns the JSON summary.
func RunReport(ctx context.Context, config Config, outputDir string, extraArgs ...string) (stdout, stderr []byte, err error) {
	args := []string{
		"report",
		"--renderer", config.Renderer,
		"--config", config.RunConfig,
		"--output-dir", outputDir,
		"--commit-hash", "integration",
		"--commit-message", "renderci integration test",
		"--format", "json",
	}
	args = append(args, extraArgs...)

	// Run config paths are relative to the work dir.
	return testutils.RunRenderCI(ctx, config.WorkDir, nil, config.Binary, args, true)
}
