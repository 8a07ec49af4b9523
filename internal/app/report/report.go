package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/slok/renderci/internal/artifact"
	"github.com/slok/renderci/internal/conventions"
	"github.com/slok/renderci/internal/link"
	"github.com/slok/renderci/internal/log"
	"github.com/slok/renderci/internal/model"
	"github.com/slok/renderci/internal/process"
	"github.com/slok/renderci/internal/storage"
)

// Renderer writes a report document.
type Renderer interface {
	Render(w io.Writer, r model.Report) error
}

// ServiceConfig is the configuration for the report service.
type ServiceConfig struct {
	Runner                 process.Runner
	Converter              artifact.Converter
	Linker                 link.Linker
	RunConfigRepository    storage.RunConfigRepository
	RenderConfigRepository storage.RenderConfigRepository
	Renderer               Renderer
	// TimeNow is used to measure the job elapsed time, time.Now by default.
	TimeNow func() time.Time
	Logger  log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Runner == nil {
		return fmt.Errorf("runner is required")
	}
	if c.Converter == nil {
		return fmt.Errorf("converter is required")
	}
	if c.Linker == nil {
		return fmt.Errorf("linker is required")
	}
	if c.RunConfigRepository == nil {
		return fmt.Errorf("run config repository is required")
	}
	if c.RenderConfigRepository == nil {
		return fmt.Errorf("render config repository is required")
	}
	if c.Renderer == nil {
		return fmt.Errorf("renderer is required")
	}
	if c.TimeNow == nil {
		c.TimeNow = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Report"})
	return nil
}

// Service runs the render matrix of a CI run and writes its report.
type Service struct {
	runner    process.Runner
	converter artifact.Converter
	linker    link.Linker
	runRepo   storage.RunConfigRepository
	repo      storage.RenderConfigRepository
	renderer  Renderer
	timeNow   func() time.Time
	logger    log.Logger
}

// NewService creates a new report service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		runner:    cfg.Runner,
		converter: cfg.Converter,
		linker:    cfg.Linker,
		runRepo:   cfg.RunConfigRepository,
		repo:      cfg.RenderConfigRepository,
		renderer:  cfg.Renderer,
		timeNow:   cfg.TimeNow,
		logger:    cfg.Logger,
	}, nil
}

// Request is a report generation request.
type Request struct {
	RendererPath  string
	RunConfigPath string
	// WorkDir is where relative scene and render config paths are resolved from.
	// When empty they are passed as they are.
	WorkDir   string
	OutputDir string
	Commit    model.Commit
	ID        string
	// Compress converts the rendered images to JPEG before linking them.
	Compress bool
}

func (r Request) validate() error {
	if r.RendererPath == "" {
		return fmt.Errorf("renderer path is required: %w", model.ErrNotValid)
	}
	if r.RunConfigPath == "" {
		return fmt.Errorf("run config path is required: %w", model.ErrNotValid)
	}
	if r.OutputDir == "" {
		return fmt.Errorf("output dir is required: %w", model.ErrNotValid)
	}
	return nil
}

// Result is the outcome of a report generation.
type Result struct {
	Report     *model.Report
	ReportPath string
}

// Run renders every job of the run config sequentially and writes the report
// once all of them succeeded. Any error aborts the run and no report is written.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	// 1. Validate and pre-flight.
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	runCfg, err := s.runRepo.GetRunConfig(ctx, req.RunConfigPath)
	if err != nil {
		return nil, fmt.Errorf("could not load run config: %w", err)
	}
	if err := runCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run config: %w", err)
	}
	if req.WorkDir != "" {
		runCfg = runCfg.Resolve(req.WorkDir)
	}

	if err := s.runner.Check(ctx, req.RendererPath); err != nil {
		return nil, fmt.Errorf("renderer is not usable: %w", err)
	}

	// 2. Render the jobs.
	rep := &model.Report{ID: req.ID, Commit: req.Commit}
	for _, tc := range runCfg.Tasks {
		task := rep.AddTask(tc.Name)

		if err := os.MkdirAll(conventions.TaskDir(req.OutputDir, tc.Name), 0o755); err != nil {
			return nil, fmt.Errorf("could not create task %q directory: %w", tc.Name, err)
		}

		for _, job := range tc.Jobs() {
			res, err := s.runJob(ctx, req, job)
			if err != nil {
				return nil, fmt.Errorf("task %q job %q failed: %w", job.Task, job.Stem(), err)
			}
			task.Append(*res)
		}
	}

	// 3. Write the report.
	reportPath := conventions.ReportPath(req.OutputDir)
	if err := s.writeReport(reportPath, *rep); err != nil {
		return nil, err
	}

	s.logger.WithCtxValues(ctx).Infof("Report written to %s", reportPath)

	return &Result{Report: rep, ReportPath: reportPath}, nil
}

func (s *Service) runJob(ctx context.Context, req Request, job model.RenderJob) (*model.JobResult, error) {
	ctx = log.CtxWithValues(ctx, log.Kv{"task": job.Task, "job": job.Stem()})
	logger := s.logger.WithCtxValues(ctx)

	imagePath := conventions.JobImagePath(req.OutputDir, job)
	logPath := conventions.JobLogPath(req.OutputDir, job)

	elapsed, err := s.render(ctx, req.RendererPath, job, imagePath, logPath)
	if err != nil {
		return nil, err
	}
	logger.Infof("Rendered in %.2fs", elapsed.Seconds())

	if req.Compress {
		jpgPath := conventions.JobCompressedImagePath(req.OutputDir, job)
		if err := s.converter.Convert(ctx, imagePath, jpgPath); err != nil {
			return nil, fmt.Errorf("could not convert image: %w", err)
		}
		if err := s.linker.DiscardLossless(ctx, imagePath); err != nil {
			return nil, fmt.Errorf("could not discard lossless image: %w", err)
		}
		imagePath = jpgPath
	}

	// Log link first, its preconditions must fail before any upload.
	logLink, err := s.linker.LogLink(ctx, job, logPath)
	if err != nil {
		return nil, fmt.Errorf("could not resolve log link: %w", err)
	}

	rc, err := s.repo.GetRenderConfig(ctx, job.RenderConfig)
	if err != nil {
		return nil, fmt.Errorf("could not load render config: %w", err)
	}

	imageLink, err := s.linker.ImageLink(ctx, link.ImageRequest{Job: job, Commit: req.Commit, Path: imagePath})
	if err != nil {
		return nil, fmt.Errorf("could not resolve image link: %w", err)
	}

	return &model.JobResult{
		ImageLink: imageLink,
		Caption:   rc.Caption(job.Task),
		LogLink:   logLink,
		TimeCost:  elapsed,
	}, nil
}

// render runs the renderer with its combined output going to the job log.
func (s *Service) render(ctx context.Context, renderer string, job model.RenderJob, imagePath, logPath string) (time.Duration, error) {
	logFile, err := os.Create(logPath)
	if err != nil {
		return 0, fmt.Errorf("could not create log file: %w", err)
	}
	defer logFile.Close()

	args := []string{
		renderer,
		"--scene-config", job.SceneConfig,
		"--render-config", job.RenderConfig,
		"--output", imagePath,
	}

	start := s.timeNow()
	if err := s.runner.Run(ctx, args, logFile); err != nil {
		return 0, fmt.Errorf("renderer failed, see %s: %w", logPath, err)
	}
	elapsed := s.timeNow().Sub(start)

	if err := logFile.Close(); err != nil {
		return 0, fmt.Errorf("could not write log file: %w", err)
	}

	return elapsed, nil
}

func (s *Service) writeReport(path string, r model.Report) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*.html")
	if err != nil {
		return fmt.Errorf("could not create report: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if err := s.renderer.Render(tmp, r); err != nil {
		return fmt.Errorf("could not render report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("could not set report permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not move report into place: %w", err)
	}

	return nil
}
