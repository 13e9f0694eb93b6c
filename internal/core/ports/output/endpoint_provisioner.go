package ports

import (
	"context"

	"neurotrack-ml/internal/core/domain"
)

// EndpointDeployment represents the result of a provisioning call
type EndpointDeployment struct {
	ExternalID string // backend resource id
	ScoringURI string // set when the backend finished synchronously
}

// EndpointStatus represents the live state of an online endpoint
type EndpointStatus struct {
	ScoringURI string
	Ready      bool
	State      string
	Error      string
}

// EndpointProvisioner defines the contract for creating real-time endpoints
type EndpointProvisioner interface {
	// Provision creates or updates the endpoint resource
	Provision(ctx context.Context, endpoint *domain.OnlineEndpoint) (*EndpointDeployment, error)

	// GetStatus retrieves current endpoint state from the backend
	GetStatus(ctx context.Context, name string) (*EndpointStatus, error)

	// IsAvailable checks if the backend is enabled and configured
	IsAvailable() bool
}

// DescriptorWriter persists an endpoint descriptor for manual provisioning
type DescriptorWriter interface {
	Write(endpoint *domain.OnlineEndpoint, path string) error
}

// DescriptorReader loads a descriptor written by a DescriptorWriter.
// A missing descriptor is domain.ErrEndpointNotFound.
type DescriptorReader interface {
	Read(path string) (*domain.OnlineEndpoint, error)
}
