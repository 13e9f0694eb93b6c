package azureml

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/machinelearning/armmachinelearning/v3"
	"github.com/google/uuid"

	"neurotrack-ml/internal/core/domain"
	ports "neurotrack-ml/internal/core/ports/output"
)

// modelRegistry maps registered models onto workspace model containers and
// their versions.
type modelRegistry struct {
	client *Client
}

func NewModelRegistry(client *Client) ports.ModelRegistry {
	return &modelRegistry{client: client}
}

func (r *modelRegistry) GetModel(ctx context.Context, name string) (*domain.RegisteredModel, error) {
	cfg := r.client.cfg
	resp, err := r.client.containers.Get(ctx, cfg.ResourceGroup, cfg.Name, name, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("get model container: %w", err)
	}
	return containerToDomain(cfg.Name, name, &resp.ModelContainer), nil
}

func (r *modelRegistry) CreateModel(ctx context.Context, model *domain.RegisteredModel) error {
	cfg := r.client.cfg
	resp, err := r.client.containers.CreateOrUpdate(ctx, cfg.ResourceGroup, cfg.Name, model.Name, buildContainer(model), nil)
	if err != nil {
		return fmt.Errorf("create model container: %w", err)
	}
	model.Workspace = cfg.Name
	if resp.ID != nil {
		model.ID = resourceUUID(*resp.ID)
	}
	return nil
}

func (r *modelRegistry) CreateVersion(ctx context.Context, version *domain.ModelVersion) error {
	cfg := r.client.cfg
	resp, err := r.client.versions.CreateOrUpdate(ctx, cfg.ResourceGroup, cfg.Name,
		version.ModelName, version.Version, buildVersion(version), nil)
	if err != nil {
		if isConflict(err) {
			return domain.ErrVersionConflict
		}
		return fmt.Errorf("create model version: %w", err)
	}
	version.ExternalID = deref(resp.ID)
	return nil
}

func (r *modelRegistry) ListVersions(ctx context.Context, name string) ([]string, error) {
	cfg := r.client.cfg
	pager := r.client.versions.NewListPager(cfg.ResourceGroup, cfg.Name, name, nil)

	versions := []string{}
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			if isNotFound(err) {
				return versions, nil
			}
			return nil, fmt.Errorf("list model versions: %w", err)
		}
		for _, v := range page.Value {
			if v != nil && v.Name != nil {
				versions = append(versions, *v.Name)
			}
		}
	}
	return versions, nil
}

func buildContainer(model *domain.RegisteredModel) armmachinelearning.ModelContainer {
	return armmachinelearning.ModelContainer{
		Properties: &armmachinelearning.ModelContainerProperties{
			Description: to.Ptr(model.Description),
			Tags:        toPtrMap(model.Tags),
		},
	}
}

func buildVersion(version *domain.ModelVersion) armmachinelearning.ModelVersion {
	return armmachinelearning.ModelVersion{
		Properties: &armmachinelearning.ModelVersionProperties{
			Description: to.Ptr(version.Description),
			ModelType:   to.Ptr(string(version.ModelType)),
			ModelURI:    to.Ptr(version.URI),
			Properties:  toPtrMap(version.Properties),
			Tags:        toPtrMap(version.Tags),
		},
	}
}

func containerToDomain(workspace, name string, c *armmachinelearning.ModelContainer) *domain.RegisteredModel {
	m := &domain.RegisteredModel{
		ID:        resourceUUID(deref(c.ID)),
		Workspace: workspace,
		Name:      name,
		ModelType: domain.ModelTypeCustom,
		Tags:      map[string]string{},
	}
	if c.SystemData != nil {
		if c.SystemData.CreatedAt != nil {
			m.CreatedAt = *c.SystemData.CreatedAt
		}
		if c.SystemData.LastModifiedAt != nil {
			m.UpdatedAt = *c.SystemData.LastModifiedAt
		}
	}
	if p := c.Properties; p != nil {
		m.Description = deref(p.Description)
		m.LatestVersion = deref(p.LatestVersion)
		m.Tags = fromPtrMap(p.Tags)
	}
	return m
}

// resourceUUID derives a stable id from an ARM resource id. ARM ids compare
// case-insensitively, so the same container always maps to the same uuid.
func resourceUUID(resourceID string) uuid.UUID {
	if resourceID == "" {
		return uuid.Nil
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(strings.ToLower(resourceID)))
}
