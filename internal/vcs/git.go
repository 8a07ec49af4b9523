package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/slok/renderci/internal/log"
	"github.com/slok/renderci/internal/model"
)

// GitCommitReaderConfig is the configuration of the git commit reader.
type GitCommitReaderConfig struct {
	// Dir is the repository directory, current working directory by default.
	Dir string
	// GitBinary is the git executable, "git" by default.
	GitBinary string
	Logger    log.Logger
}

func (c *GitCommitReaderConfig) defaults() error {
	if c.GitBinary == "" {
		c.GitBinary = "git"
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "vcs.GitCommitReader"})
	return nil
}

// GitCommitReader reads the checked out commit using the git CLI.
type GitCommitReader struct {
	dir       string
	gitBinary string
	logger    log.Logger
}

// NewGitCommitReader returns a new git commit reader.
func NewGitCommitReader(cfg GitCommitReaderConfig) (*GitCommitReader, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &GitCommitReader{
		dir:       cfg.Dir,
		gitBinary: cfg.GitBinary,
		logger:    cfg.Logger,
	}, nil
}

// HeadCommit returns the HEAD commit hash and full message.
func (g *GitCommitReader) HeadCommit(ctx context.Context) (model.Commit, error) {
	hash, err := g.git(ctx, "rev-parse", "HEAD")
	if err != nil {
		return model.Commit{}, fmt.Errorf("could not get HEAD hash: %w", err)
	}

	msg, err := g.git(ctx, "log", "-1", "--format=%B", "HEAD")
	if err != nil {
		return model.Commit{}, fmt.Errorf("could not get HEAD message: %w", err)
	}

	return model.Commit{
		Hash:    strings.TrimSpace(hash),
		Message: strings.TrimRight(msg, "\n"),
	}, nil
}

func (g *GitCommitReader) git(ctx context.Context, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, g.gitBinary, args...)
	cmd.Dir = g.dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	g.logger.Debugf("Executing: git %v", args)

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}
