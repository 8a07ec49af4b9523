package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oklog/ulid/v2"

	"github.com/slok/renderci/internal/app/report"
	"github.com/slok/renderci/internal/artifact"
	"github.com/slok/renderci/internal/imgur"
	"github.com/slok/renderci/internal/link"
	"github.com/slok/renderci/internal/log"
	"github.com/slok/renderci/internal/model"
	"github.com/slok/renderci/internal/process"
	htmlreport "github.com/slok/renderci/internal/report"
	storageio "github.com/slok/renderci/internal/storage/io"
	"github.com/slok/renderci/internal/vcs"
)

// ReportCommand renders the CI matrix and writes the HTML report.
type ReportCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	rendererPath     string
	configPath       string
	outputDir        string
	id               string
	autoID           bool
	upload           bool
	noCompress       bool
	jpegQuality      int
	rendererEnvSpecs []string
	imgurAlbumID     string
	imgurAccessToken string
	logBaseURL       string
	commitHash       string
	commitMessage    string
	format           string
}

// NewReportCommand returns the report command.
func NewReportCommand(rootCmd *RootCommand, app *kingpin.Application) *ReportCommand {
	c := &ReportCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("report", "Render the run configuration jobs and write an HTML report.")
	c.Cmd.Flag("renderer", "Path to the renderer executable.").Required().StringVar(&c.rendererPath)
	c.Cmd.Flag("config", "Path to the run configuration YAML file.").Required().StringVar(&c.configPath)
	c.Cmd.Flag("output-dir", "Directory where the job artifacts and the report are written.").Required().StringVar(&c.outputDir)
	c.Cmd.Flag("id", "Run identifier, required to upload.").StringVar(&c.id)
	c.Cmd.Flag("auto-id", "Generate a ULID run identifier when none is set.").BoolVar(&c.autoID)
	c.Cmd.Flag("upload", "Upload images and link logs to their published location.").BoolVar(&c.upload)
	c.Cmd.Flag("no-compress", "Link the lossless images instead of converting them to JPEG.").BoolVar(&c.noCompress)
	c.Cmd.Flag("jpeg-quality", "Quality of the converted images (1-100).").Default("95").IntVar(&c.jpegQuality)
	c.Cmd.Flag("renderer-env", "Extra renderer environment variable, KEY=VALUE or KEY to inherit it (repeatable).").StringsVar(&c.rendererEnvSpecs)
	c.Cmd.Flag("imgur-album-id", "Album where images are uploaded, required to upload.").Envar("IMGUR_ALBUM_ID").StringVar(&c.imgurAlbumID)
	c.Cmd.Flag("imgur-access-token", "Access token used to upload images.").Envar("IMGUR_ACCESS_TOKEN").StringVar(&c.imgurAccessToken)
	c.Cmd.Flag("log-base-url", "Base URL where the job logs are published.").Default(link.DefaultLogBaseURL).StringVar(&c.logBaseURL)
	c.Cmd.Flag("commit-hash", "Commit hash, read from the git checkout when missing.").StringVar(&c.commitHash)
	c.Cmd.Flag("commit-message", "Commit message, only used with --commit-hash.").StringVar(&c.commitMessage)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c ReportCommand) Name() string { return c.Cmd.FullCommand() }

func (c ReportCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	id := c.id
	if id == "" && c.autoID {
		id = ulid.Make().String()
		logger.Infof("Generated run id %s", id)
	}

	outputDir, err := filepath.Abs(c.outputDir)
	if err != nil {
		return fmt.Errorf("invalid output dir: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("could not create output dir: %w", err)
	}

	// Config paths are resolved from the working directory, repositories read from the root.
	configPath, err := filepath.Abs(c.configPath)
	if err != nil {
		return fmt.Errorf("invalid config path: %w", err)
	}
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("could not get working dir: %w", err)
	}

	commit, err := c.commit(ctx, logger)
	if err != nil {
		return err
	}

	linker, err := c.linker(id, outputDir, logger)
	if err != nil {
		return err
	}

	rendererEnv, err := process.RendererEnv(c.rendererEnvSpecs)
	if err != nil {
		return fmt.Errorf("invalid --renderer-env value: %w", err)
	}
	runner, err := process.NewExecRunner(process.ExecRunnerConfig{
		Env:    rendererEnv,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create runner: %w", err)
	}

	converter, err := artifact.NewJPEGConverter(artifact.JPEGConverterConfig{
		Quality: c.jpegQuality,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("could not create converter: %w", err)
	}

	svc, err := report.NewService(report.ServiceConfig{
		Runner:                 runner,
		Converter:              converter,
		Linker:                 linker,
		RunConfigRepository:    storageio.NewRunConfigYAMLRepository(os.DirFS("/")),
		RenderConfigRepository: storageio.NewRenderConfigTOMLRepository(os.DirFS("/")),
		Renderer:               htmlreport.NewHTMLRenderer(),
		Logger:                 logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, report.Request{
		RendererPath:  c.rendererPath,
		RunConfigPath: configPath,
		WorkDir:       workDir,
		OutputDir:     outputDir,
		Commit:        commit,
		ID:            id,
		Compress:      !c.noCompress,
	})
	if err != nil {
		return fmt.Errorf("could not generate report: %w", err)
	}

	if err := newPrinter(c.format, c.rootCmd.Stdout).PrintReport(*res.Report, res.ReportPath); err != nil {
		return fmt.Errorf("could not print report: %w", err)
	}

	return nil
}

func (c ReportCommand) commit(ctx context.Context, logger log.Logger) (model.Commit, error) {
	if c.commitHash != "" {
		return model.Commit{Hash: c.commitHash, Message: c.commitMessage}, nil
	}

	reader, err := vcs.NewGitCommitReader(vcs.GitCommitReaderConfig{Logger: logger})
	if err != nil {
		return model.Commit{}, fmt.Errorf("could not create commit reader: %w", err)
	}

	commit, err := reader.HeadCommit(ctx)
	if err != nil {
		return model.Commit{}, fmt.Errorf("could not read commit, use --commit-hash outside a git checkout: %w", err)
	}

	return commit, nil
}

func (c ReportCommand) linker(id, outputDir string, logger log.Logger) (link.Linker, error) {
	if !c.upload {
		return link.NewLocalLinker(outputDir)
	}

	uploader, err := imgur.NewClient(imgur.ClientConfig{
		HTTPClient: c.rootCmd.HTTPClient(),
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create imgur client: %w", err)
	}

	linker, err := link.NewHostedLinker(link.HostedLinkerConfig{
		Uploader:    uploader,
		AccessToken: c.imgurAccessToken,
		AlbumID:     c.imgurAlbumID,
		RunID:       id,
		LogBaseURL:  c.logBaseURL,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create hosted linker: %w", err)
	}

	return linker, nil
}
