package printer

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/slok/renderci/internal/model"
)

// TablePrinter prints command results in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintReport prints one row per rendered job followed by the report location.
func (t *TablePrinter) PrintReport(report model.Report, reportPath string) error {
	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)

	// Print header.
	fmt.Fprintln(tw, "TASK\tCAPTION\tTIME\tIMAGE\tLOG")

	// Print rows.
	for _, task := range report.Tasks {
		for _, job := range task.Jobs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				task.Name,
				job.Caption,
				job.TimeCostSeconds(),
				job.ImageLink,
				job.LogLink,
			)
		}
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(t.writer, "\nReport: %s\n", reportPath)

	return nil
}

// PrintRotation prints the rotation outcome.
func (t *TablePrinter) PrintRotation(final model.RotationState, transitions []model.RotationState, token string) error {
	path := make([]string, 0, len(transitions))
	for _, s := range transitions {
		path = append(path, string(s))
	}

	fmt.Fprintf(t.writer, "State:        %s\n", final)
	fmt.Fprintf(t.writer, "Transitions:  %s\n", strings.Join(path, " -> "))
	if token != "" {
		fmt.Fprintf(t.writer, "Token:        %s\n", token)
	}

	return nil
}
