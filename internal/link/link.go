package link

import (
	"context"

	"github.com/slok/renderci/internal/model"
)

// ImageRequest is a rendered image that needs a reportable link.
type ImageRequest struct {
	Job    model.RenderJob
	Commit model.Commit
	// Path is the image location on disk.
	Path string
}

// Linker decides how job artifacts are referenced from the report. Implementations
// own every local/hosted decision so the report flow doesn't branch on the mode.
type Linker interface {
	// ImageLink returns the link of a rendered image.
	ImageLink(ctx context.Context, req ImageRequest) (string, error)
	// LogLink returns the link of a job log.
	LogLink(ctx context.Context, job model.RenderJob, logPath string) (string, error)
	// DiscardLossless is called with the lossless image once it has been converted.
	DiscardLossless(ctx context.Context, path string) error
}

//go:generate mockery --case underscore --output linkmock --outpkg linkmock --name Linker
