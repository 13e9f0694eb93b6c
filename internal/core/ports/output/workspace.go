package ports

import (
	"context"

	"neurotrack-ml/internal/core/domain"
)

// WorkspaceConnector acquires credentials and resolves the target workspace
type WorkspaceConnector interface {
	Connect(ctx context.Context) (*domain.Workspace, error)
}
