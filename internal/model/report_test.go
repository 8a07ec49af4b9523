package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/slok/renderci/internal/model"
)

func TestRenderJobStem(t *testing.T) {
	tests := map[string]struct {
		renderConfig string
		expStem      string
	}{
		"A path with directories and extension should return the base name without extension.": {
			renderConfig: "configs/render/mcpt_16spp.toml",
			expStem:      "mcpt_16spp",
		},
		"A file name without extension should be returned as is.": {
			renderConfig: "mcpt",
			expStem:      "mcpt",
		},
		"Only the last extension should be removed.": {
			renderConfig: "/abs/low.res.toml",
			expStem:      "low.res",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			job := model.RenderJob{RenderConfig: test.renderConfig}
			assert.Equal(t, test.expStem, job.Stem())
		})
	}
}

func TestRenderConfigCaption(t *testing.T) {
	rc := model.RenderConfig{Width: 800, Height: 600, SamplerType: "Independent", SamplesPerPixel: 16}
	assert.Equal(t, "cornell_box@Independent Sampler x 16spp@800 x 600", rc.Caption("cornell_box"))
}

func TestJobResultTimeCostSeconds(t *testing.T) {
	tests := map[string]struct {
		cost    time.Duration
		expCost string
	}{
		"Zero should have two decimals.": {
			cost:    0,
			expCost: "0.00s",
		},
		"Sub-second should be rounded to two decimals.": {
			cost:    1234 * time.Millisecond,
			expCost: "1.23s",
		},
		"Minutes should be expressed in seconds.": {
			cost:    2*time.Minute + 6*time.Millisecond,
			expCost: "120.01s",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expCost, model.JobResult{TimeCost: test.cost}.TimeCostSeconds())
		})
	}
}

func TestTaskAppendKeepsViewsAligned(t *testing.T) {
	task := &model.Task{Name: "cornell_box"}

	for i := 0; i < 3; i++ {
		task.Append(model.JobResult{
			ImageLink: "img",
			Caption:   "caption",
			LogLink:   "log",
			TimeCost:  time.Duration(i) * time.Second,
		})

		assert.Len(t, task.ImageLinks(), i+1)
		assert.Len(t, task.ImageCaptions(), i+1)
		assert.Len(t, task.LogLinks(), i+1)
		assert.Len(t, task.TimeCosts(), i+1)
	}

	assert.Equal(t, []float64{0, 1, 2}, task.TimeCosts())
}

func TestReport(t *testing.T) {
	r := &model.Report{}
	assert.Equal(t, "Report", r.Title())

	r.ID = "42"
	assert.Equal(t, "Report - 42", r.Title())

	a := r.AddTask("a")
	b := r.AddTask("b")
	a.Append(model.JobResult{ImageLink: "a.png"})

	if assert.Len(t, r.Tasks, 2) {
		assert.Same(t, a, r.Tasks[0])
		assert.Same(t, b, r.Tasks[1])
		assert.Equal(t, []string{"a.png"}, r.Tasks[0].ImageLinks())
	}
}
