package printer

import "github.com/slok/renderci/internal/model"

// Printer knows how to print command results in different formats.
type Printer interface {
	PrintReport(report model.Report, reportPath string) error
	// PrintRotation prints a rotation outcome, token is only printed when it's not empty.
	PrintRotation(final model.RotationState, transitions []model.RotationState, token string) error
}
