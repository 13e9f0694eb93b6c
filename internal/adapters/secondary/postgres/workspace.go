package postgres

import (
	"context"
	"fmt"

	"neurotrack-ml/internal/config"
	"neurotrack-ml/internal/core/domain"
	ports "neurotrack-ml/internal/core/ports/output"
)

type workspaceConnector struct {
	pool DB
	cfg  config.WorkspaceConfig
}

// NewWorkspaceConnector resolves the workspace for the self-hosted registry:
// the database must answer and carry the registry schema.
func NewWorkspaceConnector(pool DB, cfg config.WorkspaceConfig) ports.WorkspaceConnector {
	return &workspaceConnector{pool: pool, cfg: cfg}
}

func (c *workspaceConnector) Connect(ctx context.Context) (*domain.Workspace, error) {
	if err := c.pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping registry database: %w", err)
	}
	if err := EnsureSchema(ctx, c.pool); err != nil {
		return nil, err
	}
	return &domain.Workspace{
		SubscriptionID: c.cfg.SubscriptionID,
		ResourceGroup:  c.cfg.ResourceGroup,
		Name:           c.cfg.Name,
		Location:       "postgres",
	}, nil
}
