package printer

import (
	"encoding/json"
	"io"

	"github.com/slok/renderci/internal/model"
)

// JSONPrinter prints command results in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

// reportOutput represents the report summary output.
type reportOutput struct {
	ID         string       `json:"id,omitempty"`
	Commit     string       `json:"commit"`
	ReportPath string       `json:"report_path"`
	Tasks      []taskOutput `json:"tasks"`
}

type taskOutput struct {
	Name string      `json:"name"`
	Jobs []jobOutput `json:"jobs"`
}

type jobOutput struct {
	ImageLink       string  `json:"image_link"`
	Caption         string  `json:"caption"`
	LogLink         string  `json:"log_link"`
	TimeCostSeconds float64 `json:"time_cost_seconds"`
}

// rotationOutput represents a rotation outcome.
type rotationOutput struct {
	State       string   `json:"state"`
	Transitions []string `json:"transitions"`
	Token       string   `json:"token,omitempty"`
}

// PrintReport prints the report summary in JSON format.
func (j *JSONPrinter) PrintReport(report model.Report, reportPath string) error {
	output := reportOutput{
		ID:         report.ID,
		Commit:     report.Commit.Hash,
		ReportPath: reportPath,
		Tasks:      make([]taskOutput, 0, len(report.Tasks)),
	}
	for _, t := range report.Tasks {
		to := taskOutput{Name: t.Name, Jobs: make([]jobOutput, 0, len(t.Jobs))}
		for _, job := range t.Jobs {
			to.Jobs = append(to.Jobs, jobOutput{
				ImageLink:       job.ImageLink,
				Caption:         job.Caption,
				LogLink:         job.LogLink,
				TimeCostSeconds: job.TimeCost.Seconds(),
			})
		}
		output.Tasks = append(output.Tasks, to)
	}

	return j.encode(output)
}

// PrintRotation prints the rotation outcome in JSON format.
func (j *JSONPrinter) PrintRotation(final model.RotationState, transitions []model.RotationState, token string) error {
	output := rotationOutput{
		State:       string(final),
		Transitions: make([]string, 0, len(transitions)),
		Token:       token,
	}
	for _, s := range transitions {
		output.Transitions = append(output.Transitions, string(s))
	}

	return j.encode(output)
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
