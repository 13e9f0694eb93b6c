package azureml

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/machinelearning/armmachinelearning/v3"
	log "github.com/sirupsen/logrus"

	"neurotrack-ml/internal/core/domain"
	ports "neurotrack-ml/internal/core/ports/output"
)

// endpointProvisioner creates managed online endpoints. It provisions the
// endpoint resource only; deployments behind it are managed separately.
type endpointProvisioner struct {
	client  *Client
	timeout time.Duration
}

func NewEndpointProvisioner(client *Client, timeout time.Duration) ports.EndpointProvisioner {
	return &endpointProvisioner{client: client, timeout: timeout}
}

func (p *endpointProvisioner) IsAvailable() bool {
	return p.client != nil
}

func (p *endpointProvisioner) Provision(ctx context.Context, endpoint *domain.OnlineEndpoint) (*ports.EndpointDeployment, error) {
	ws, err := p.client.Connect(ctx)
	if err != nil {
		return nil, err
	}

	body, err := buildOnlineEndpoint(endpoint, ws.Location)
	if err != nil {
		return nil, err
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	cfg := p.client.cfg
	poller, err := p.client.endpoints.BeginCreateOrUpdate(ctx, cfg.ResourceGroup, cfg.Name, endpoint.Name, body, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create online endpoint: %w", err)
	}

	log.WithField("endpoint", endpoint.Name).Info("waiting for online endpoint provisioning")
	resp, err := poller.PollUntilDone(ctx, &runtime.PollUntilDoneOptions{Frequency: 15 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("provision online endpoint: %w", err)
	}

	status := endpointStatus(&resp.OnlineEndpoint)
	if !status.Ready {
		return nil, fmt.Errorf("online endpoint %s ended in state %s", endpoint.Name, status.State)
	}
	return &ports.EndpointDeployment{
		ExternalID: deref(resp.ID),
		ScoringURI: status.ScoringURI,
	}, nil
}

func (p *endpointProvisioner) GetStatus(ctx context.Context, name string) (*ports.EndpointStatus, error) {
	cfg := p.client.cfg
	resp, err := p.client.endpoints.Get(ctx, cfg.ResourceGroup, cfg.Name, name, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrEndpointNotFound
		}
		return nil, fmt.Errorf("get online endpoint: %w", err)
	}
	return endpointStatus(&resp.OnlineEndpoint), nil
}

func authModeToARM(mode domain.AuthMode) (armmachinelearning.EndpointAuthMode, error) {
	switch mode {
	case domain.AuthModeKey, "":
		return armmachinelearning.EndpointAuthModeKey, nil
	case domain.AuthModeAMLToken:
		return armmachinelearning.EndpointAuthModeAMLToken, nil
	case domain.AuthModeAADToken:
		return armmachinelearning.EndpointAuthModeAADToken, nil
	default:
		return "", domain.ErrInvalidAuthMode
	}
}

func buildOnlineEndpoint(endpoint *domain.OnlineEndpoint, location string) (armmachinelearning.OnlineEndpoint, error) {
	authMode, err := authModeToARM(endpoint.AuthMode)
	if err != nil {
		return armmachinelearning.OnlineEndpoint{}, err
	}

	tags := map[string]string{}
	for k, v := range endpoint.Tags {
		tags[k] = v
	}

	return armmachinelearning.OnlineEndpoint{
		Location: to.Ptr(location),
		Identity: &armmachinelearning.ManagedServiceIdentity{
			Type: to.Ptr(armmachinelearning.ManagedServiceIdentityTypeSystemAssigned),
		},
		Tags: toPtrMap(tags),
		Properties: &armmachinelearning.OnlineEndpointProperties{
			AuthMode:    to.Ptr(authMode),
			Description: to.Ptr(endpoint.Description),
		},
	}, nil
}

func endpointStatus(ep *armmachinelearning.OnlineEndpoint) *ports.EndpointStatus {
	status := &ports.EndpointStatus{State: "Unknown"}
	if ep == nil || ep.Properties == nil {
		return status
	}
	status.ScoringURI = deref(ep.Properties.ScoringURI)
	if ep.Properties.ProvisioningState != nil {
		status.State = string(*ep.Properties.ProvisioningState)
	}
	switch status.State {
	case string(armmachinelearning.EndpointProvisioningStateSucceeded):
		status.Ready = true
	case string(armmachinelearning.EndpointProvisioningStateFailed),
		string(armmachinelearning.EndpointProvisioningStateCanceled):
		status.Error = fmt.Sprintf("provisioning %s", status.State)
	}
	return status
}
