package azureml

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/machinelearning/armmachinelearning/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neurotrack-ml/internal/config"
	"neurotrack-ml/internal/core/domain"
)

func testWorkspace() config.WorkspaceConfig {
	return config.WorkspaceConfig{
		SubscriptionID: "sub-1",
		ResourceGroup:  "rg-1",
		Name:           "ws-1",
	}
}

func TestDatastoreURI(t *testing.T) {
	uri := datastoreURI(testWorkspace(), "workspaceblobstore", "LocalUpload/abc/model_output")
	assert.Equal(t,
		"azureml://subscriptions/sub-1/resourcegroups/rg-1/workspaces/ws-1/datastores/workspaceblobstore/paths/LocalUpload/abc/model_output",
		uri)
}

func TestUploadPrefix(t *testing.T) {
	assert.Equal(t, "LocalUpload/id-1/model_output", uploadPrefix("LocalUpload", "id-1", "model_output/"))
	assert.Equal(t, "LocalUpload/id-1/out", uploadPrefix("LocalUpload", "id-1", "/tmp/run/out"))
}

func TestBlobAccountURL(t *testing.T) {
	assert.Equal(t, "https://acct.blob.core.windows.net/", blobAccountURL("", "acct", ""))
	assert.Equal(t, "http://acct.blob.core.chinacloudapi.cn/", blobAccountURL("http", "acct", "core.chinacloudapi.cn"))
}

func TestBuildVersion(t *testing.T) {
	model, _ := domain.NewRegisteredModel("ws-1", "risk", "desc", domain.ModelTypeCustom)
	v, _ := domain.NewModelVersion(model, "3", "azureml://x")
	v.Properties["test_accuracy"] = "0.9100"

	body := buildVersion(v)
	require.NotNil(t, body.Properties)
	assert.Equal(t, "custom_model", *body.Properties.ModelType)
	assert.Equal(t, "azureml://x", *body.Properties.ModelURI)
	assert.Equal(t, "desc", *body.Properties.Description)
	assert.Equal(t, "0.9100", *body.Properties.Properties["test_accuracy"])
	assert.Nil(t, body.Properties.Tags)
}

func TestContainerToDomain(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	c := &armmachinelearning.ModelContainer{
		ID:         to.Ptr(containerResourceID),
		SystemData: &armmachinelearning.SystemData{CreatedAt: &created},
		Properties: &armmachinelearning.ModelContainerProperties{
			Description:   to.Ptr("desc"),
			LatestVersion: to.Ptr("4"),
			Tags:          map[string]*string{"team": to.Ptr("ml")},
		},
	}

	m := containerToDomain("ws-1", "risk", c)
	assert.Equal(t, "risk", m.Name)
	assert.Equal(t, "ws-1", m.Workspace)
	assert.Equal(t, "4", m.LatestVersion)
	assert.Equal(t, created, m.CreatedAt)
	assert.Equal(t, map[string]string{"team": "ml"}, m.Tags)
	assert.NotEqual(t, uuid.Nil, m.ID)

	again := containerToDomain("ws-1", "risk", c)
	assert.Equal(t, m.ID, again.ID)
}

const containerResourceID = "/subscriptions/sub-1/resourceGroups/rg-1/providers/Microsoft.MachineLearningServices/workspaces/ws-1/models/risk"

func TestContainerToDomain_VersionCarriesModelID(t *testing.T) {
	m := containerToDomain("ws-1", "risk", &armmachinelearning.ModelContainer{ID: to.Ptr(containerResourceID)})

	v, err := domain.NewModelVersion(m, "1", "azureml://datastores/workspaceblobstore/paths/model")
	require.NoError(t, err)
	assert.Equal(t, m.ID, v.ModelID)
	assert.NotEqual(t, uuid.Nil, v.ModelID)
}

func TestResourceUUID(t *testing.T) {
	assert.Equal(t, uuid.Nil, resourceUUID(""))
	assert.Equal(t, resourceUUID(containerResourceID), resourceUUID(strings.ToUpper(containerResourceID)))
	assert.NotEqual(t, resourceUUID(containerResourceID), resourceUUID(containerResourceID+"-2"))
}

func TestBuildOnlineEndpoint(t *testing.T) {
	ep, err := domain.NewOnlineEndpoint("neurotrack-risk-endpoint", "realtime", domain.AuthModeKey)
	require.NoError(t, err)
	ep.Tags["model"] = "risk"

	body, err := buildOnlineEndpoint(ep, "westeurope")
	require.NoError(t, err)
	assert.Equal(t, "westeurope", *body.Location)
	assert.Equal(t, armmachinelearning.EndpointAuthModeKey, *body.Properties.AuthMode)
	assert.Equal(t, "realtime", *body.Properties.Description)
	assert.Equal(t, "risk", *body.Tags["model"])
	assert.Equal(t, armmachinelearning.ManagedServiceIdentityTypeSystemAssigned, *body.Identity.Type)
}

func TestBuildOnlineEndpoint_InvalidAuthMode(t *testing.T) {
	ep := &domain.OnlineEndpoint{Name: "endpoint", AuthMode: "basic"}
	_, err := buildOnlineEndpoint(ep, "westeurope")
	assert.ErrorIs(t, err, domain.ErrInvalidAuthMode)
}

func TestEndpointStatus(t *testing.T) {
	tests := []struct {
		name      string
		state     armmachinelearning.EndpointProvisioningState
		wantReady bool
		wantError bool
	}{
		{name: "succeeded", state: armmachinelearning.EndpointProvisioningStateSucceeded, wantReady: true},
		{name: "creating", state: armmachinelearning.EndpointProvisioningStateCreating},
		{name: "failed", state: armmachinelearning.EndpointProvisioningStateFailed, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := endpointStatus(&armmachinelearning.OnlineEndpoint{
				Properties: &armmachinelearning.OnlineEndpointProperties{
					ProvisioningState: to.Ptr(tt.state),
					ScoringURI:        to.Ptr("https://ep.westeurope.inference.ml.azure.com/score"),
				},
			})
			assert.Equal(t, string(tt.state), status.State)
			assert.Equal(t, tt.wantReady, status.Ready)
			assert.Equal(t, tt.wantError, status.Error != "")
			assert.Equal(t, "https://ep.westeurope.inference.ml.azure.com/score", status.ScoringURI)
		})
	}

	assert.Equal(t, "Unknown", endpointStatus(nil).State)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(fmt.Errorf("wrapped: %w", &azcore.ResponseError{StatusCode: 404})))
	assert.False(t, isNotFound(&azcore.ResponseError{StatusCode: 500}))
	assert.False(t, isNotFound(fmt.Errorf("plain")))
	assert.True(t, isConflict(&azcore.ResponseError{StatusCode: 409}))
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.pkl"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "meta"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meta", "info.yml"), []byte("y"), 0o644))

	files, err := listFiles(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"model.pkl", filepath.Join("meta", "info.yml")}, files)

	_, err = listFiles(t.TempDir())
	assert.Error(t, err)
}

func TestNewClient_RequiresWorkspace(t *testing.T) {
	_, err := NewClient(config.WorkspaceConfig{SubscriptionID: "sub"})
	assert.Error(t, err)
}
