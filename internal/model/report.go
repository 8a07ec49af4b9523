package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Commit is the source control snapshot a report is generated from.
type Commit struct {
	Hash    string
	Message string
}

// RenderJob describes a single renderer invocation. It's derived from the
// run configuration and never stored.
type RenderJob struct {
	Task         string
	SceneConfig  string
	RenderConfig string
}

// Stem returns the render config file name without directory and extension,
// used to name the job artifacts.
func (r RenderJob) Stem() string {
	base := filepath.Base(r.RenderConfig)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// RenderConfig is the subset of a renderer configuration used to describe a job.
type RenderConfig struct {
	Width           int
	Height          int
	SamplerType     string
	SamplesPerPixel int
}

// Caption returns the human readable description of an image rendered with this config.
func (r RenderConfig) Caption(task string) string {
	return fmt.Sprintf("%s@%s Sampler x %dspp@%d x %d", task, r.SamplerType, r.SamplesPerPixel, r.Width, r.Height)
}

// JobResult is the outcome of a completed render job.
type JobResult struct {
	ImageLink string
	Caption   string
	LogLink   string
	TimeCost  time.Duration
}

// TimeCostSeconds returns the job elapsed time formatted in seconds with two decimals.
func (j JobResult) TimeCostSeconds() string {
	return fmt.Sprintf("%.2fs", j.TimeCost.Seconds())
}

// Task is a named group of render jobs sharing a scene.
type Task struct {
	Name string
	Jobs []JobResult
}

// Append adds a completed job. A job is only appended once all its fields
// are resolved, so the link, caption and time views are always aligned.
func (t *Task) Append(j JobResult) {
	t.Jobs = append(t.Jobs, j)
}

func (t Task) ImageLinks() []string {
	links := make([]string, 0, len(t.Jobs))
	for _, j := range t.Jobs {
		links = append(links, j.ImageLink)
	}
	return links
}

func (t Task) ImageCaptions() []string {
	captions := make([]string, 0, len(t.Jobs))
	for _, j := range t.Jobs {
		captions = append(captions, j.Caption)
	}
	return captions
}

func (t Task) LogLinks() []string {
	links := make([]string, 0, len(t.Jobs))
	for _, j := range t.Jobs {
		links = append(links, j.LogLink)
	}
	return links
}

// TimeCosts returns the elapsed seconds of each job.
func (t Task) TimeCosts() []float64 {
	costs := make([]float64, 0, len(t.Jobs))
	for _, j := range t.Jobs {
		costs = append(costs, j.TimeCost.Seconds())
	}
	return costs
}

// Report is the result of a CI render run.
type Report struct {
	// ID is the optional run identifier, required when links are hosted remotely.
	ID     string
	Commit Commit
	Tasks  []*Task
}

// AddTask registers a new task at the end of the report and returns it.
func (r *Report) AddTask(name string) *Task {
	t := &Task{Name: name}
	r.Tasks = append(r.Tasks, t)
	return t
}

// Title returns the report title.
func (r Report) Title() string {
	if r.ID == "" {
		return "Report"
	}
	return "Report - " + r.ID
}
