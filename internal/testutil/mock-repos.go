package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"neurotrack-ml/internal/core/domain"
	ports "neurotrack-ml/internal/core/ports/output"
)

// MockModelRegistry is a mock of ModelRegistry.
type MockModelRegistry struct {
	mock.Mock
}

func (m *MockModelRegistry) GetModel(ctx context.Context, name string) (*domain.RegisteredModel, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegisteredModel), args.Error(1)
}

func (m *MockModelRegistry) CreateModel(ctx context.Context, model *domain.RegisteredModel) error {
	args := m.Called(ctx, model)
	return args.Error(0)
}

func (m *MockModelRegistry) CreateVersion(ctx context.Context, version *domain.ModelVersion) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

func (m *MockModelRegistry) ListVersions(ctx context.Context, name string) ([]string, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockArtifactStore is a mock of ArtifactStore.
type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) Upload(ctx context.Context, localDir, modelName string) (string, error) {
	args := m.Called(ctx, localDir, modelName)
	return args.String(0), args.Error(1)
}

// MockWorkspaceConnector is a mock of WorkspaceConnector.
type MockWorkspaceConnector struct {
	mock.Mock
}

func (m *MockWorkspaceConnector) Connect(ctx context.Context) (*domain.Workspace, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

// MockEndpointProvisioner is a mock of EndpointProvisioner.
type MockEndpointProvisioner struct {
	mock.Mock
}

func (m *MockEndpointProvisioner) Provision(ctx context.Context, endpoint *domain.OnlineEndpoint) (*ports.EndpointDeployment, error) {
	args := m.Called(ctx, endpoint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.EndpointDeployment), args.Error(1)
}

func (m *MockEndpointProvisioner) GetStatus(ctx context.Context, name string) (*ports.EndpointStatus, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.EndpointStatus), args.Error(1)
}

func (m *MockEndpointProvisioner) IsAvailable() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockDescriptorWriter is a mock of DescriptorWriter.
type MockDescriptorWriter struct {
	mock.Mock
}

func (m *MockDescriptorWriter) Write(endpoint *domain.OnlineEndpoint, path string) error {
	args := m.Called(endpoint, path)
	return args.Error(0)
}

// MockDescriptorReader is a mock of DescriptorReader.
type MockDescriptorReader struct {
	mock.Mock
}

func (m *MockDescriptorReader) Read(path string) (*domain.OnlineEndpoint, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OnlineEndpoint), args.Error(1)
}

// MockClassifier is a mock of Classifier.
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Predict(x [][]float64) ([]int, error) {
	args := m.Called(x)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockClassifier) PredictProba(x [][]float64) ([][]float64, error) {
	args := m.Called(x)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float64), args.Error(1)
}

func (m *MockClassifier) FeatureNames() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockClassifier) MarshalBinary() ([]byte, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockLearner is a mock of Learner.
type MockLearner struct {
	mock.Mock
}

func (m *MockLearner) Fit(ctx context.Context, x [][]float64, y []int, featureNames []string) (ports.Classifier, error) {
	args := m.Called(ctx, x, y, featureNames)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.Classifier), args.Error(1)
}

func (m *MockLearner) Load(data []byte) (ports.Classifier, error) {
	args := m.Called(data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.Classifier), args.Error(1)
}

func (m *MockLearner) Format() string {
	args := m.Called()
	return args.String(0)
}
