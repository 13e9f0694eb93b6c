package services

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"neurotrack-ml/internal/core/domain"
	ports "neurotrack-ml/internal/core/ports/output"
)

type EndpointService struct {
	provisioner ports.EndpointProvisioner
	writer      ports.DescriptorWriter
	reader      ports.DescriptorReader
}

func NewEndpointService(provisioner ports.EndpointProvisioner, writer ports.DescriptorWriter) *EndpointService {
	return &EndpointService{provisioner: provisioner, writer: writer}
}

// WithReader lets DeclaredStatus consult descriptors written by Declare.
func (s *EndpointService) WithReader(reader ports.DescriptorReader) *EndpointService {
	s.reader = reader
	return s
}

type DeclareRequest struct {
	Name         string
	Description  string
	AuthMode     string
	Version      *domain.ModelVersion
	ManifestPath string
	Provision    bool
}

type DeclareResult struct {
	Endpoint     *domain.OnlineEndpoint
	ManifestPath string
	Message      string
}

// Declare builds the endpoint descriptor and writes it to ManifestPath.
// The provisioning call runs only when Provision is set.
func (s *EndpointService) Declare(ctx context.Context, req DeclareRequest) (*DeclareResult, error) {
	// 1. Build descriptor
	ep, err := domain.NewOnlineEndpoint(req.Name, req.Description, domain.AuthMode(req.AuthMode))
	if err != nil {
		return nil, err
	}
	if req.Version != nil {
		ep.Bind(req.Version)
		ep.Tags["model"] = req.Version.ModelName
		ep.Tags["model_version"] = req.Version.Version
	}

	result := &DeclareResult{Endpoint: ep}

	// 2. Persist descriptor
	if req.ManifestPath != "" && s.writer != nil {
		if err := s.writer.Write(ep, req.ManifestPath); err != nil {
			return nil, fmt.Errorf("write endpoint descriptor: %w", err)
		}
		result.ManifestPath = req.ManifestPath
	}

	// 3. Provision (gated)
	if !req.Provision {
		result.Message = "endpoint declared; provisioning disabled"
		return result, nil
	}
	if !s.IsProvisionerAvailable() {
		return nil, domain.ErrProvisionerNotEnabled
	}

	log.WithField("endpoint", ep.Name).Info("provisioning online endpoint")
	deployment, err := s.provisioner.Provision(ctx, ep)
	if err != nil {
		ep.MarkFailed(err.Error())
		return result, fmt.Errorf("provision endpoint: %w", err)
	}

	ep.MarkProvisioning(deployment.ExternalID)
	if deployment.ScoringURI != "" {
		ep.MarkProvisioned(deployment.ScoringURI)
	}
	result.Message = "provisioning initiated"
	if ep.IsProvisioned() {
		result.Message = "endpoint provisioned"
	}

	return result, nil
}

// Status reads live endpoint state from the provisioner.
func (s *EndpointService) Status(ctx context.Context, name string) (*ports.EndpointStatus, error) {
	if name == "" {
		return nil, domain.ErrInvalidEndpointName
	}
	if !s.IsProvisionerAvailable() {
		return nil, domain.ErrProvisionerNotEnabled
	}
	return s.provisioner.GetStatus(ctx, name)
}

// DeclaredStatus reports an endpoint that was declared but never provisioned,
// from the descriptor at manifestPath.
func (s *EndpointService) DeclaredStatus(name, manifestPath string) (*ports.EndpointStatus, error) {
	if name == "" {
		return nil, domain.ErrInvalidEndpointName
	}
	if s.reader == nil || manifestPath == "" {
		return nil, domain.ErrProvisionerNotEnabled
	}
	ep, err := s.reader.Read(manifestPath)
	if err != nil {
		return nil, err
	}
	if ep.Name != name {
		return nil, fmt.Errorf("%w: %s declares %q", domain.ErrEndpointNotFound, manifestPath, ep.Name)
	}
	return &ports.EndpointStatus{State: string(domain.EndpointStateDeclared)}, nil
}

func (s *EndpointService) IsProvisionerAvailable() bool {
	return s.provisioner != nil && s.provisioner.IsAvailable()
}
