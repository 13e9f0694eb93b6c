package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"neurotrack-ml/internal/core/domain"
	ports "neurotrack-ml/internal/core/ports/output"
	"neurotrack-ml/internal/testutil"
)

func testVersion() *domain.ModelVersion {
	return &domain.ModelVersion{ModelName: "risk-model", Version: "3", URI: "azureml://x"}
}

func TestEndpointService_Declare_ProvisioningDisabled(t *testing.T) {
	provisioner := new(testutil.MockEndpointProvisioner)
	writer := new(testutil.MockDescriptorWriter)
	svc := NewEndpointService(provisioner, writer)

	writer.On("Write", mock.AnythingOfType("*domain.OnlineEndpoint"), "out/endpoint.yml").Return(nil)

	result, err := svc.Declare(context.Background(), DeclareRequest{
		Name:         "neurotrack-risk-endpoint",
		Description:  "Real-time endpoint for cognitive risk detection",
		AuthMode:     "key",
		Version:      testVersion(),
		ManifestPath: "out/endpoint.yml",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.EndpointStateDeclared, result.Endpoint.State)
	assert.Equal(t, domain.AuthModeKey, result.Endpoint.AuthMode)
	assert.Equal(t, "risk-model", result.Endpoint.ModelName)
	assert.Equal(t, "3", result.Endpoint.Tags["model_version"])
	assert.Equal(t, "out/endpoint.yml", result.ManifestPath)
	provisioner.AssertNotCalled(t, "Provision", mock.Anything, mock.Anything)
	writer.AssertExpectations(t)
}

func TestEndpointService_Declare_Provision(t *testing.T) {
	provisioner := new(testutil.MockEndpointProvisioner)
	svc := NewEndpointService(provisioner, nil)

	provisioner.On("IsAvailable").Return(true)
	provisioner.On("Provision", mock.Anything, mock.AnythingOfType("*domain.OnlineEndpoint")).
		Return(&ports.EndpointDeployment{ExternalID: "arm-id", ScoringURI: "https://ep/score"}, nil)

	result, err := svc.Declare(context.Background(), DeclareRequest{
		Name:      "neurotrack-risk-endpoint",
		AuthMode:  "key",
		Provision: true,
	})
	require.NoError(t, err)

	assert.True(t, result.Endpoint.IsProvisioned())
	assert.Equal(t, "https://ep/score", result.Endpoint.ScoringURI)
	assert.Equal(t, "arm-id", result.Endpoint.ExternalID)
	assert.Equal(t, "endpoint provisioned", result.Message)
}

func TestEndpointService_Declare_ProvisionPending(t *testing.T) {
	provisioner := new(testutil.MockEndpointProvisioner)
	svc := NewEndpointService(provisioner, nil)

	provisioner.On("IsAvailable").Return(true)
	provisioner.On("Provision", mock.Anything, mock.Anything).Return(&ports.EndpointDeployment{ExternalID: "uid"}, nil)

	result, err := svc.Declare(context.Background(), DeclareRequest{Name: "endpoint", Provision: true})
	require.NoError(t, err)
	assert.Equal(t, domain.EndpointStateProvisioning, result.Endpoint.State)
}

func TestEndpointService_Declare_ProvisionFailure(t *testing.T) {
	provisioner := new(testutil.MockEndpointProvisioner)
	svc := NewEndpointService(provisioner, nil)

	provisioner.On("IsAvailable").Return(true)
	provisioner.On("Provision", mock.Anything, mock.Anything).Return(nil, errors.New("quota exceeded"))

	result, err := svc.Declare(context.Background(), DeclareRequest{Name: "endpoint", Provision: true})
	assert.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domain.EndpointStateFailed, result.Endpoint.State)
	assert.Equal(t, "quota exceeded", result.Endpoint.LastError)
}

func TestEndpointService_Declare_ProvisionerUnavailable(t *testing.T) {
	svc := NewEndpointService(nil, nil)

	_, err := svc.Declare(context.Background(), DeclareRequest{Name: "endpoint", Provision: true})
	assert.ErrorIs(t, err, domain.ErrProvisionerNotEnabled)
}

func TestEndpointService_Declare_InvalidName(t *testing.T) {
	svc := NewEndpointService(nil, nil)

	_, err := svc.Declare(context.Background(), DeclareRequest{Name: "bad_name"})
	assert.ErrorIs(t, err, domain.ErrInvalidEndpointName)
}

func TestEndpointService_Declare_WriterError(t *testing.T) {
	writer := new(testutil.MockDescriptorWriter)
	svc := NewEndpointService(nil, writer)

	writer.On("Write", mock.Anything, "x.yml").Return(errors.New("read-only fs"))

	_, err := svc.Declare(context.Background(), DeclareRequest{Name: "endpoint", ManifestPath: "x.yml"})
	assert.Error(t, err)
}

func TestEndpointService_Status(t *testing.T) {
	provisioner := new(testutil.MockEndpointProvisioner)
	svc := NewEndpointService(provisioner, nil)

	provisioner.On("IsAvailable").Return(true)
	provisioner.On("GetStatus", mock.Anything, "endpoint").
		Return(&ports.EndpointStatus{Ready: true, ScoringURI: "https://ep/score", State: "Succeeded"}, nil)

	status, err := svc.Status(context.Background(), "endpoint")
	require.NoError(t, err)
	assert.True(t, status.Ready)

	_, err = svc.Status(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidEndpointName)
}

func TestEndpointService_DeclaredStatus(t *testing.T) {
	reader := new(testutil.MockDescriptorReader)
	svc := NewEndpointService(nil, nil).WithReader(reader)

	ep, err := domain.NewOnlineEndpoint("neurotrack-risk-endpoint", "desc", domain.AuthModeKey)
	require.NoError(t, err)
	reader.On("Read", "deploy/endpoint.yml").Return(ep, nil)

	status, err := svc.DeclaredStatus("neurotrack-risk-endpoint", "deploy/endpoint.yml")
	require.NoError(t, err)
	assert.Equal(t, string(domain.EndpointStateDeclared), status.State)
	assert.False(t, status.Ready)
	assert.Empty(t, status.ScoringURI)

	_, err = svc.DeclaredStatus("other-endpoint", "deploy/endpoint.yml")
	assert.ErrorIs(t, err, domain.ErrEndpointNotFound)

	_, err = svc.DeclaredStatus("", "deploy/endpoint.yml")
	assert.ErrorIs(t, err, domain.ErrInvalidEndpointName)
	reader.AssertNumberOfCalls(t, "Read", 2)
}

func TestEndpointService_DeclaredStatus_NoReader(t *testing.T) {
	_, err := NewEndpointService(nil, nil).DeclaredStatus("endpoint", "deploy/endpoint.yml")
	assert.ErrorIs(t, err, domain.ErrProvisionerNotEnabled)
}
