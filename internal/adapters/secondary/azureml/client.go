// Package azureml talks to an Azure Machine Learning workspace through the
// ARM management plane and the workspace's default blob datastore.
package azureml

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/machinelearning/armmachinelearning/v3"

	"neurotrack-ml/internal/config"
	"neurotrack-ml/internal/core/domain"
)

// Client bundles the ARM clients for one workspace.
type Client struct {
	cfg        config.WorkspaceConfig
	credential azcore.TokenCredential

	workspaces *armmachinelearning.WorkspacesClient
	datastores *armmachinelearning.DatastoresClient
	containers *armmachinelearning.ModelContainersClient
	versions   *armmachinelearning.ModelVersionsClient
	endpoints  *armmachinelearning.OnlineEndpointsClient

	mu        sync.Mutex
	workspace *domain.Workspace
}

// NewClient authenticates with DefaultAzureCredential: environment,
// workload identity, managed identity, then the az CLI login.
func NewClient(cfg config.WorkspaceConfig) (*Client, error) {
	if cfg.SubscriptionID == "" || cfg.ResourceGroup == "" || cfg.Name == "" {
		return nil, fmt.Errorf("azure ml: subscription, resource group and workspace are required")
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}
	return newClientWithCredential(cfg, cred)
}

func newClientWithCredential(cfg config.WorkspaceConfig, cred azcore.TokenCredential) (*Client, error) {
	factory, err := armmachinelearning.NewClientFactory(cfg.SubscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("azure ml client factory: %w", err)
	}

	return &Client{
		cfg:        cfg,
		credential: cred,
		workspaces: factory.NewWorkspacesClient(),
		datastores: factory.NewDatastoresClient(),
		containers: factory.NewModelContainersClient(),
		versions:   factory.NewModelVersionsClient(),
		endpoints:  factory.NewOnlineEndpointsClient(),
	}, nil
}

// Connect resolves the workspace and caches it for the other adapters.
func (c *Client) Connect(ctx context.Context) (*domain.Workspace, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.workspace != nil {
		return c.workspace, nil
	}

	resp, err := c.workspaces.Get(ctx, c.cfg.ResourceGroup, c.cfg.Name, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("workspace %s/%s not found: %w", c.cfg.ResourceGroup, c.cfg.Name, err)
		}
		return nil, fmt.Errorf("get workspace: %w", err)
	}

	c.workspace = &domain.Workspace{
		SubscriptionID: c.cfg.SubscriptionID,
		ResourceGroup:  c.cfg.ResourceGroup,
		Name:           c.cfg.Name,
		Location:       deref(resp.Location),
		ResourceID:     deref(resp.ID),
	}
	return c.workspace, nil
}

func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}

func isConflict(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusConflict
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toPtrMap(m map[string]string) map[string]*string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]*string, len(m))
	for k, v := range m {
		out[k] = &v
	}
	return out
}

func fromPtrMap(m map[string]*string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if v != nil {
			out[k] = *v
		}
	}
	return out
}
