package services

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"neurotrack-ml/internal/core/domain"
	ports "neurotrack-ml/internal/core/ports/output"
)

type RegisteredModelService struct {
	registry  ports.ModelRegistry
	store     ports.ArtifactStore
	workspace string
}

func NewRegisteredModelService(registry ports.ModelRegistry, store ports.ArtifactStore, workspace string) *RegisteredModelService {
	return &RegisteredModelService{registry: registry, store: store, workspace: workspace}
}

type RegisterRequest struct {
	Artifact    *domain.ModelArtifact
	Name        string
	Description string
	ModelType   string
	Properties  map[string]string
	Tags        map[string]string
}

// Register uploads the artifact directory and records it as the next version
// of the named model. Every call creates a new version; identical artifacts
// are not deduplicated.
func (s *RegisteredModelService) Register(ctx context.Context, req RegisterRequest) (*domain.ModelVersion, error) {
	if req.Artifact == nil || req.Artifact.Dir == "" {
		return nil, domain.ErrArtifactNotFound
	}

	model, err := s.ensureModel(ctx, req)
	if err != nil {
		return nil, err
	}

	uri, err := s.store.Upload(ctx, req.Artifact.Dir, model.Name)
	if err != nil {
		return nil, fmt.Errorf("upload artifact: %w", err)
	}

	existing, err := s.registry.ListVersions(ctx, model.Name)
	if err != nil {
		return nil, fmt.Errorf("list model versions: %w", err)
	}

	version, err := domain.NewModelVersion(model, domain.NextVersion(existing), uri)
	if err != nil {
		return nil, err
	}
	version.Framework = req.Artifact.Format
	for k, v := range req.Properties {
		version.Properties[k] = v
	}
	for k, v := range req.Tags {
		version.Tags[k] = v
	}

	if err := s.registry.CreateVersion(ctx, version); err != nil {
		return nil, fmt.Errorf("create model version: %w", err)
	}
	version.MarkReady()

	log.WithFields(log.Fields{
		"model":   version.ModelName,
		"version": version.Version,
		"uri":     version.URI,
	}).Info("model version registered")

	return version, nil
}

func (s *RegisteredModelService) ensureModel(ctx context.Context, req RegisterRequest) (*domain.RegisteredModel, error) {
	model, err := s.registry.GetModel(ctx, req.Name)
	if err == nil {
		return model, nil
	}
	if !errors.Is(err, domain.ErrModelNotFound) {
		return nil, fmt.Errorf("get model: %w", err)
	}

	model, err = domain.NewRegisteredModel(s.workspace, req.Name, req.Description, domain.ModelType(req.ModelType))
	if err != nil {
		return nil, err
	}
	if err := s.registry.CreateModel(ctx, model); err != nil {
		return nil, fmt.Errorf("create model: %w", err)
	}
	return model, nil
}
