package link_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/renderci/internal/link"
	"github.com/slok/renderci/internal/model"
)

func TestLocalLinker(t *testing.T) {
	tests := map[string]struct {
		outputDir string
		imagePath string
		logPath   string
		expImage  string
		expLog    string
	}{
		"A single segment output dir should be stripped.": {
			outputDir: "report",
			imagePath: filepath.Join("report", "cornell_box", "mcpt.png"),
			logPath:   filepath.Join("report", "cornell_box", "mcpt.log"),
			expImage:  "cornell_box/mcpt.png",
			expLog:    "cornell_box/mcpt.log",
		},
		"A nested output dir should be stripped completely.": {
			outputDir: filepath.Join("out", "ci", "report"),
			imagePath: filepath.Join("out", "ci", "report", "spheres", "low.jpg"),
			logPath:   filepath.Join("out", "ci", "report", "spheres", "low.log"),
			expImage:  "spheres/low.jpg",
			expLog:    "spheres/low.log",
		},
		"An absolute output dir should be stripped.": {
			outputDir: "/tmp/report",
			imagePath: "/tmp/report/cornell_box/mcpt.png",
			logPath:   "/tmp/report/cornell_box/mcpt.log",
			expImage:  "cornell_box/mcpt.png",
			expLog:    "cornell_box/mcpt.log",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			l, err := link.NewLocalLinker(test.outputDir)
			require.NoError(t, err)

			job := model.RenderJob{Task: "cornell_box", RenderConfig: "mcpt.toml"}
			gotImage, err := l.ImageLink(context.Background(), link.ImageRequest{Job: job, Path: test.imagePath})
			require.NoError(t, err)
			gotLog, err := l.LogLink(context.Background(), job, test.logPath)
			require.NoError(t, err)

			assert.Equal(t, test.expImage, gotImage)
			assert.Equal(t, test.expLog, gotLog)
		})
	}
}

func TestLocalLinkerDiscardLosslessKeepsFile(t *testing.T) {
	path := writeTestFile(t, "img.png", "png")

	l, err := link.NewLocalLinker(filepath.Dir(path))
	require.NoError(t, err)
	require.NoError(t, l.DiscardLossless(context.Background(), path))

	assert.FileExists(t, path)
}
