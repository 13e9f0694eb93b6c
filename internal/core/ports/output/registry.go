package ports

import (
	"context"

	"neurotrack-ml/internal/core/domain"
)

// ModelRegistry defines the contract for a named, versioned model store
type ModelRegistry interface {
	// GetModel returns domain.ErrModelNotFound when no model has that name
	GetModel(ctx context.Context, name string) (*domain.RegisteredModel, error)

	// CreateModel creates or updates the model container
	CreateModel(ctx context.Context, model *domain.RegisteredModel) error

	// CreateVersion registers a new version; domain.ErrVersionConflict if taken
	CreateVersion(ctx context.Context, version *domain.ModelVersion) error

	// ListVersions returns every version label registered under name
	ListVersions(ctx context.Context, name string) ([]string, error)
}
