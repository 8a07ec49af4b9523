package link

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/slok/renderci/internal/model"
)

// LocalLinker links artifacts with paths relative to the report output directory,
// so the report and its artifacts can be moved together.
type LocalLinker struct {
	outputDir string
}

// NewLocalLinker returns a new local linker.
func NewLocalLinker(outputDir string) (*LocalLinker, error) {
	if outputDir == "" {
		return nil, fmt.Errorf("output dir is required")
	}
	return &LocalLinker{outputDir: outputDir}, nil
}

func (l *LocalLinker) ImageLink(_ context.Context, req ImageRequest) (string, error) {
	return l.relative(req.Path)
}

func (l *LocalLinker) LogLink(_ context.Context, _ model.RenderJob, logPath string) (string, error) {
	return l.relative(logPath)
}

// DiscardLossless keeps the lossless image next to the converted one.
func (l *LocalLinker) DiscardLossless(_ context.Context, _ string) error { return nil }

func (l *LocalLinker) relative(path string) (string, error) {
	rel, err := filepath.Rel(l.outputDir, path)
	if err != nil {
		return "", fmt.Errorf("%s is not relative to %s: %w", path, l.outputDir, err)
	}
	return filepath.ToSlash(rel), nil
}
