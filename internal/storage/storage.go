package storage

import (
	"context"

	"github.com/slok/renderci/internal/model"
)

// RunConfigRepository is the interface to load run configurations.
type RunConfigRepository interface {
	GetRunConfig(ctx context.Context, path string) (model.RunConfig, error)
}

// RenderConfigRepository is the interface to load the descriptive data of render configurations.
type RenderConfigRepository interface {
	GetRenderConfig(ctx context.Context, path string) (model.RenderConfig, error)
}

//go:generate mockery --case underscore --output storagemock --outpkg storagemock --name RunConfigRepository
//go:generate mockery --case underscore --output storagemock --outpkg storagemock --name RenderConfigRepository
