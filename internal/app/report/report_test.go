package report_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/renderci/internal/app/report"
	"github.com/slok/renderci/internal/artifact/artifactmock"
	"github.com/slok/renderci/internal/link"
	"github.com/slok/renderci/internal/link/linkmock"
	"github.com/slok/renderci/internal/log"
	"github.com/slok/renderci/internal/model"
	"github.com/slok/renderci/internal/process/processmock"
	htmlreport "github.com/slok/renderci/internal/report"
	"github.com/slok/renderci/internal/storage/storagemock"
)

func TestNewService(t *testing.T) {
	tests := map[string]struct {
		cfg    func(t *testing.T) report.ServiceConfig
		expErr bool
		errMsg string
	}{
		"Valid config with all fields": {
			cfg: func(t *testing.T) report.ServiceConfig {
				return report.ServiceConfig{
					Runner:                 processmock.NewMockRunner(t),
					Converter:              artifactmock.NewMockConverter(t),
					Linker:                 linkmock.NewMockLinker(t),
					RunConfigRepository:    storagemock.NewMockRunConfigRepository(t),
					RenderConfigRepository: storagemock.NewMockRenderConfigRepository(t),
					Renderer:               htmlreport.NewHTMLRenderer(),
					Logger:                 log.Noop,
				}
			},
		},
		"Missing runner returns error": {
			cfg: func(t *testing.T) report.ServiceConfig {
				return report.ServiceConfig{
					Converter:              artifactmock.NewMockConverter(t),
					Linker:                 linkmock.NewMockLinker(t),
					RunConfigRepository:    storagemock.NewMockRunConfigRepository(t),
					RenderConfigRepository: storagemock.NewMockRenderConfigRepository(t),
					Renderer:               htmlreport.NewHTMLRenderer(),
				}
			},
			expErr: true,
			errMsg: "runner is required",
		},
		"Missing linker returns error": {
			cfg: func(t *testing.T) report.ServiceConfig {
				return report.ServiceConfig{
					Runner:                 processmock.NewMockRunner(t),
					Converter:              artifactmock.NewMockConverter(t),
					RunConfigRepository:    storagemock.NewMockRunConfigRepository(t),
					RenderConfigRepository: storagemock.NewMockRenderConfigRepository(t),
					Renderer:               htmlreport.NewHTMLRenderer(),
				}
			},
			expErr: true,
			errMsg: "linker is required",
		},
		"Missing renderer returns error": {
			cfg: func(t *testing.T) report.ServiceConfig {
				return report.ServiceConfig{
					Runner:                 processmock.NewMockRunner(t),
					Converter:              artifactmock.NewMockConverter(t),
					Linker:                 linkmock.NewMockLinker(t),
					RunConfigRepository:    storagemock.NewMockRunConfigRepository(t),
					RenderConfigRepository: storagemock.NewMockRenderConfigRepository(t),
				}
			},
			expErr: true,
			errMsg: "renderer is required",
		},
		"Missing run config repository returns error": {
			cfg: func(t *testing.T) report.ServiceConfig {
				return report.ServiceConfig{
					Runner:                 processmock.NewMockRunner(t),
					Converter:              artifactmock.NewMockConverter(t),
					Linker:                 linkmock.NewMockLinker(t),
					RenderConfigRepository: storagemock.NewMockRenderConfigRepository(t),
					Renderer:               htmlreport.NewHTMLRenderer(),
				}
			},
			expErr: true,
			errMsg: "run config repository is required",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			svc, err := report.NewService(tt.cfg(t))

			if tt.expErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, svc)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

// fakeClock advances step on every call, so every job takes exactly step.
func fakeClock(step time.Duration) func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

type mocks struct {
	runner    *processmock.MockRunner
	converter *artifactmock.MockConverter
	linker    *linkmock.MockLinker
	runRepo   *storagemock.MockRunConfigRepository
	repo      *storagemock.MockRenderConfigRepository
}

func TestServiceRun(t *testing.T) {
	commit := model.Commit{Hash: "abc123", Message: "Improve sampler"}
	lowRC := model.RenderConfig{Width: 320, Height: 240, SamplerType: "Random", SamplesPerPixel: 16}
	highRC := model.RenderConfig{Width: 640, Height: 480, SamplerType: "Jittered", SamplesPerPixel: 64}

	cornell := model.TaskConfig{
		Name:          "cornell",
		SceneConfig:   "scenes/cornell.yaml",
		RenderConfigs: []string{"configs/low.toml", "configs/high.toml"},
	}
	lowJob := model.RenderJob{Task: "cornell", SceneConfig: "scenes/cornell.yaml", RenderConfig: "configs/low.toml"}
	highJob := model.RenderJob{Task: "cornell", SceneConfig: "scenes/cornell.yaml", RenderConfig: "configs/high.toml"}

	tests := map[string]struct {
		runConfig  model.RunConfig
		loadErr    error
		workDir    string
		compress   bool
		id         string
		mock       func(m mocks, out string)
		expErr     error
		expReport  *model.Report
		expNoFiles bool
	}{
		"A run without compression should link every job in declaration order.": {
			runConfig: model.RunConfig{Tasks: []model.TaskConfig{cornell}},
			id:        "run-1",
			mock: func(m mocks, out string) {
				m.runner.On("Check", mock.Anything, "/bin/renderer").Once().Return(nil)
				m.runner.On("Run", mock.Anything, []string{
					"/bin/renderer", "--scene-config", "scenes/cornell.yaml",
					"--render-config", "configs/low.toml", "--output", filepath.Join(out, "cornell", "low.png"),
				}, mock.Anything).Once().Return(nil)
				m.runner.On("Run", mock.Anything, []string{
					"/bin/renderer", "--scene-config", "scenes/cornell.yaml",
					"--render-config", "configs/high.toml", "--output", filepath.Join(out, "cornell", "high.png"),
				}, mock.Anything).Once().Return(nil)

				m.linker.On("LogLink", mock.Anything, lowJob, filepath.Join(out, "cornell", "low.log")).Once().Return("cornell/low.log", nil)
				m.linker.On("LogLink", mock.Anything, highJob, filepath.Join(out, "cornell", "high.log")).Once().Return("cornell/high.log", nil)
				m.linker.On("ImageLink", mock.Anything, link.ImageRequest{Job: lowJob, Commit: commit, Path: filepath.Join(out, "cornell", "low.png")}).Once().Return("cornell/low.png", nil)
				m.linker.On("ImageLink", mock.Anything, link.ImageRequest{Job: highJob, Commit: commit, Path: filepath.Join(out, "cornell", "high.png")}).Once().Return("cornell/high.png", nil)

				m.repo.On("GetRenderConfig", mock.Anything, "configs/low.toml").Once().Return(lowRC, nil)
				m.repo.On("GetRenderConfig", mock.Anything, "configs/high.toml").Once().Return(highRC, nil)
			},
			expReport: &model.Report{
				ID:     "run-1",
				Commit: commit,
				Tasks: []*model.Task{
					{
						Name: "cornell",
						Jobs: []model.JobResult{
							{ImageLink: "cornell/low.png", Caption: "cornell@Random Sampler x 16spp@320 x 240", LogLink: "cornell/low.log", TimeCost: 1500 * time.Millisecond},
							{ImageLink: "cornell/high.png", Caption: "cornell@Jittered Sampler x 64spp@640 x 480", LogLink: "cornell/high.log", TimeCost: 1500 * time.Millisecond},
						},
					},
				},
			},
		},

		"A run with compression should convert and discard the lossless image before linking the compressed one.": {
			runConfig: model.RunConfig{Tasks: []model.TaskConfig{{Name: "cornell", SceneConfig: "scenes/cornell.yaml", RenderConfigs: []string{"configs/low.toml"}}}},
			compress:  true,
			mock: func(m mocks, out string) {
				png := filepath.Join(out, "cornell", "low.png")
				jpg := filepath.Join(out, "cornell", "low.jpg")

				m.runner.On("Check", mock.Anything, "/bin/renderer").Once().Return(nil)
				m.runner.On("Run", mock.Anything, mock.Anything, mock.Anything).Once().Return(nil)

				convert := m.converter.On("Convert", mock.Anything, png, jpg).Once().Return(nil)
				discard := m.linker.On("DiscardLossless", mock.Anything, png).Once().Return(nil).NotBefore(convert)
				logLink := m.linker.On("LogLink", mock.Anything, lowJob, filepath.Join(out, "cornell", "low.log")).Once().Return("cornell/low.log", nil).NotBefore(discard)
				m.linker.On("ImageLink", mock.Anything, link.ImageRequest{Job: lowJob, Commit: commit, Path: jpg}).Once().Return("cornell/low.jpg", nil).NotBefore(logLink)

				m.repo.On("GetRenderConfig", mock.Anything, "configs/low.toml").Once().Return(lowRC, nil)
			},
			expReport: &model.Report{
				Commit: commit,
				Tasks: []*model.Task{
					{
						Name: "cornell",
						Jobs: []model.JobResult{
							{ImageLink: "cornell/low.jpg", Caption: "cornell@Random Sampler x 16spp@320 x 240", LogLink: "cornell/low.log", TimeCost: 1500 * time.Millisecond},
						},
					},
				},
			},
		},

		"Relative config paths should be resolved from the work dir.": {
			runConfig: model.RunConfig{Tasks: []model.TaskConfig{{Name: "cornell", SceneConfig: "scenes/cornell.yaml", RenderConfigs: []string{"configs/low.toml"}}}},
			workDir:   "/work",
			mock: func(m mocks, out string) {
				job := model.RenderJob{Task: "cornell", SceneConfig: "/work/scenes/cornell.yaml", RenderConfig: "/work/configs/low.toml"}

				m.runner.On("Check", mock.Anything, "/bin/renderer").Once().Return(nil)
				m.runner.On("Run", mock.Anything, []string{
					"/bin/renderer", "--scene-config", "/work/scenes/cornell.yaml",
					"--render-config", "/work/configs/low.toml", "--output", filepath.Join(out, "cornell", "low.png"),
				}, mock.Anything).Once().Return(nil)
				m.linker.On("LogLink", mock.Anything, job, filepath.Join(out, "cornell", "low.log")).Once().Return("cornell/low.log", nil)
				m.repo.On("GetRenderConfig", mock.Anything, "/work/configs/low.toml").Once().Return(lowRC, nil)
				m.linker.On("ImageLink", mock.Anything, link.ImageRequest{Job: job, Commit: commit, Path: filepath.Join(out, "cornell", "low.png")}).Once().Return("cornell/low.png", nil)
			},
			expReport: &model.Report{
				Commit: commit,
				Tasks: []*model.Task{
					{
						Name: "cornell",
						Jobs: []model.JobResult{
							{ImageLink: "cornell/low.png", Caption: "cornell@Random Sampler x 16spp@320 x 240", LogLink: "cornell/low.log", TimeCost: 1500 * time.Millisecond},
						},
					},
				},
			},
		},

		"A run config that can't be loaded should fail before touching the renderer.": {
			loadErr:    model.ErrNotFound,
			mock:       func(m mocks, out string) {},
			expErr:     model.ErrNotFound,
			expNoFiles: true,
		},

		"An invalid run config should fail before touching the renderer.": {
			runConfig:  model.RunConfig{},
			mock:       func(m mocks, out string) {},
			expErr:     model.ErrNotValid,
			expNoFiles: true,
		},

		"A missing renderer should fail before any task is started.": {
			runConfig: model.RunConfig{Tasks: []model.TaskConfig{cornell}},
			mock: func(m mocks, out string) {
				m.runner.On("Check", mock.Anything, "/bin/renderer").Once().Return(model.ErrMissingExecutable)
			},
			expErr:     model.ErrMissingExecutable,
			expNoFiles: true,
		},

		"A failing renderer should abort the run without writing the report.": {
			runConfig: model.RunConfig{Tasks: []model.TaskConfig{cornell}},
			mock: func(m mocks, out string) {
				m.runner.On("Check", mock.Anything, "/bin/renderer").Once().Return(nil)
				m.runner.On("Run", mock.Anything, mock.Anything, mock.Anything).Once().Return(&model.ProcessError{Executable: "/bin/renderer", ExitCode: 101})
			},
			expErr: model.ErrExternalProcess,
		},

		"A log link precondition failure should abort before any image is linked.": {
			runConfig: model.RunConfig{Tasks: []model.TaskConfig{cornell}},
			mock: func(m mocks, out string) {
				m.runner.On("Check", mock.Anything, "/bin/renderer").Once().Return(nil)
				m.runner.On("Run", mock.Anything, mock.Anything, mock.Anything).Once().Return(nil)
				m.linker.On("LogLink", mock.Anything, lowJob, mock.Anything).Once().Return("", model.ErrPrecondition)
			},
			expErr: model.ErrPrecondition,
		},

		"An image link failure on a later job should abort the run.": {
			runConfig: model.RunConfig{Tasks: []model.TaskConfig{cornell}},
			mock: func(m mocks, out string) {
				m.runner.On("Check", mock.Anything, "/bin/renderer").Once().Return(nil)
				m.runner.On("Run", mock.Anything, mock.Anything, mock.Anything).Twice().Return(nil)
				m.linker.On("LogLink", mock.Anything, mock.Anything, mock.Anything).Twice().Return("log", nil)
				m.repo.On("GetRenderConfig", mock.Anything, mock.Anything).Twice().Return(lowRC, nil)
				m.linker.On("ImageLink", mock.Anything, mock.MatchedBy(func(r link.ImageRequest) bool { return r.Job == lowJob })).Once().Return("low.png", nil)
				m.linker.On("ImageLink", mock.Anything, mock.MatchedBy(func(r link.ImageRequest) bool { return r.Job == highJob })).Once().Return("", &model.APIError{StatusCode: 500})
			},
			expErr: model.ErrRemoteAPI,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			out := t.TempDir()
			m := mocks{
				runner:    processmock.NewMockRunner(t),
				converter: artifactmock.NewMockConverter(t),
				linker:    linkmock.NewMockLinker(t),
				runRepo:   storagemock.NewMockRunConfigRepository(t),
				repo:      storagemock.NewMockRenderConfigRepository(t),
			}
			m.runRepo.On("GetRunConfig", mock.Anything, "/configs/ci.yaml").Once().Return(test.runConfig, test.loadErr)
			test.mock(m, out)

			svc, err := report.NewService(report.ServiceConfig{
				Runner:                 m.runner,
				Converter:              m.converter,
				Linker:                 m.linker,
				RunConfigRepository:    m.runRepo,
				RenderConfigRepository: m.repo,
				Renderer:               htmlreport.NewHTMLRenderer(),
				TimeNow:                fakeClock(1500 * time.Millisecond),
			})
			require.NoError(err)

			res, err := svc.Run(context.Background(), report.Request{
				RendererPath:  "/bin/renderer",
				RunConfigPath: "/configs/ci.yaml",
				WorkDir:       test.workDir,
				OutputDir:     out,
				Commit:        commit,
				ID:            test.id,
				Compress:      test.compress,
			})

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
				assert.Nil(res)
				assert.NoFileExists(filepath.Join(out, "report.html"))
				if test.expNoFiles {
					entries, err := os.ReadDir(out)
					require.NoError(err)
					assert.Empty(entries)
				}
				return
			}

			require.NoError(err)
			assert.Equal(test.expReport, res.Report)
			assert.Equal(filepath.Join(out, "report.html"), res.ReportPath)
			assert.FileExists(res.ReportPath)

			// Index aligned views.
			for _, task := range res.Report.Tasks {
				n := len(task.Jobs)
				assert.Len(task.ImageLinks(), n)
				assert.Len(task.ImageCaptions(), n)
				assert.Len(task.LogLinks(), n)
				assert.Len(task.TimeCosts(), n)
			}

			// No temporary report leftovers.
			leftovers, err := filepath.Glob(filepath.Join(out, ".report-*"))
			require.NoError(err)
			assert.Empty(leftovers)
		})
	}
}

func TestServiceRunCancelled(t *testing.T) {
	out := t.TempDir()
	runner := processmock.NewMockRunner(t)
	runner.On("Check", mock.Anything, "/bin/renderer").Once().Return(nil)
	runner.On("Run", mock.Anything, mock.Anything, mock.Anything).Once().Return(context.Canceled)
	runRepo := storagemock.NewMockRunConfigRepository(t)
	runRepo.On("GetRunConfig", mock.Anything, "ci.yaml").Once().Return(model.RunConfig{Tasks: []model.TaskConfig{{Name: "t", SceneConfig: "s", RenderConfigs: []string{"r.toml"}}}}, nil)

	svc, err := report.NewService(report.ServiceConfig{
		Runner:                 runner,
		Converter:              artifactmock.NewMockConverter(t),
		Linker:                 linkmock.NewMockLinker(t),
		RunConfigRepository:    runRepo,
		RenderConfigRepository: storagemock.NewMockRenderConfigRepository(t),
		Renderer:               htmlreport.NewHTMLRenderer(),
	})
	require.NoError(t, err)

	_, err = svc.Run(context.Background(), report.Request{
		RendererPath:  "/bin/renderer",
		RunConfigPath: "ci.yaml",
		OutputDir:     out,
	})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.NoFileExists(t, filepath.Join(out, "report.html"))
}
