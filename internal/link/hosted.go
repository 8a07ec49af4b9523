package link

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/slok/renderci/internal/imgur"
	"github.com/slok/renderci/internal/log"
	"github.com/slok/renderci/internal/model"
)

// DefaultLogBaseURL is the bucket where CI logs are published by the pipeline.
const DefaultLogBaseURL = "https://storage.cloud.google.com/rust-ray-tracer"

// Uploader uploads images to the hosting service.
type Uploader interface {
	Upload(ctx context.Context, token string, req imgur.UploadRequest) (*model.UploadedImage, error)
}

//go:generate mockery --case underscore --output linkmock --outpkg linkmock --name Uploader

// HostedLinkerConfig is the configuration of the hosted linker.
type HostedLinkerConfig struct {
	Uploader    Uploader
	AccessToken string
	AlbumID     string
	// RunID identifies the CI run, log links are built with it.
	RunID string
	// LogBaseURL is where logs are published by an external step, DefaultLogBaseURL by default.
	LogBaseURL string
	Logger     log.Logger
}

func (c *HostedLinkerConfig) defaults() error {
	if c.RunID == "" {
		return fmt.Errorf("run id is required for hosted links: %w", model.ErrPrecondition)
	}
	if c.Uploader == nil {
		return fmt.Errorf("uploader is required")
	}
	if c.AccessToken == "" {
		return fmt.Errorf("access token is required for hosted links: %w", model.ErrPrecondition)
	}
	if c.AlbumID == "" {
		return fmt.Errorf("album id is required for hosted links: %w", model.ErrPrecondition)
	}
	if c.LogBaseURL == "" {
		c.LogBaseURL = DefaultLogBaseURL
	}
	c.LogBaseURL = strings.TrimSuffix(c.LogBaseURL, "/")
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "link.HostedLinker"})
	return nil
}

// HostedLinker uploads images to the hosting service and links logs to their
// published location. Local artifacts are removed once they are hosted.
type HostedLinker struct {
	uploader    Uploader
	accessToken string
	albumID     string
	runID       string
	logBaseURL  string
	logger      log.Logger
}

// NewHostedLinker returns a new hosted linker.
func NewHostedLinker(cfg HostedLinkerConfig) (*HostedLinker, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &HostedLinker{
		uploader:    cfg.Uploader,
		accessToken: cfg.AccessToken,
		albumID:     cfg.AlbumID,
		runID:       cfg.RunID,
		logBaseURL:  cfg.LogBaseURL,
		logger:      cfg.Logger,
	}, nil
}

func (h *HostedLinker) ImageLink(ctx context.Context, req ImageRequest) (string, error) {
	ext := strings.TrimPrefix(filepath.Ext(req.Path), ".")

	f, err := os.Open(req.Path)
	if err != nil {
		return "", fmt.Errorf("could not open image: %w", err)
	}
	defer f.Close()

	img, err := h.uploader.Upload(ctx, h.accessToken, imgur.UploadRequest{
		AlbumID:     h.albumID,
		Title:       fmt.Sprintf("%s - %s (%s)", req.Commit.Hash, req.Job.Task, req.Job.Stem()),
		Description: req.Commit.Message,
		Name:        fmt.Sprintf("%s.%s", req.Job.Task, ext),
		Type:        ext,
		Filename:    filepath.Base(req.Path),
		Image:       f,
	})
	if err != nil {
		return "", fmt.Errorf("could not upload %s: %w", req.Path, err)
	}
	f.Close()

	if err := os.Remove(req.Path); err != nil {
		return "", fmt.Errorf("could not remove uploaded image: %w", err)
	}

	h.logger.WithCtxValues(ctx).Infof("Uploaded %s to %s", req.Path, img.Link)

	return img.Link, nil
}

// LogLink returns the published log location. Logs are not uploaded here, an
// external step copies them to the bucket.
func (h *HostedLinker) LogLink(_ context.Context, job model.RenderJob, logPath string) (string, error) {
	if h.runID == "" {
		return "", fmt.Errorf("run id is required for hosted log links: %w", model.ErrPrecondition)
	}
	return fmt.Sprintf("%s/%s/%s/%s", h.logBaseURL, h.runID, job.Task, filepath.Base(logPath)), nil
}

func (h *HostedLinker) DiscardLossless(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not remove %s: %w", path, err)
	}
	return nil
}
