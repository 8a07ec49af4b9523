package conventions

import (
	"path/filepath"

	"github.com/slok/renderci/internal/model"
)

const (
	// ReportFile is the report file name at the root of the output directory.
	ReportFile = "report.html"

	// LosslessImageExt is the extension of the images written by the renderer.
	LosslessImageExt = ".png"
	// CompressedImageExt is the extension of the converted images.
	CompressedImageExt = ".jpg"
	// LogExt is the extension of the job log files.
	LogExt = ".log"
)

// ReportPath returns the report location inside an output directory.
func ReportPath(outputDir string) string {
	return filepath.Join(outputDir, ReportFile)
}

// TaskDir returns the directory where the artifacts of a task are written.
func TaskDir(outputDir, task string) string {
	return filepath.Join(outputDir, task)
}

// JobFilePath returns the path of a job artifact with the given extension.
func JobFilePath(outputDir string, job model.RenderJob, ext string) string {
	return filepath.Join(TaskDir(outputDir, job.Task), job.Stem()+ext)
}

// JobImagePath returns the path where the renderer writes the job image.
func JobImagePath(outputDir string, job model.RenderJob) string {
	return JobFilePath(outputDir, job, LosslessImageExt)
}

// JobCompressedImagePath returns the path of the converted job image.
func JobCompressedImagePath(outputDir string, job model.RenderJob) string {
	return JobFilePath(outputDir, job, CompressedImageExt)
}

// JobLogPath returns the path of the job log.
func JobLogPath(outputDir string, job model.RenderJob) string {
	return JobFilePath(outputDir, job, LogExt)
}
