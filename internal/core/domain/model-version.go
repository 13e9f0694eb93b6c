package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

type ModelType string

const (
	ModelTypeCustom ModelType = "custom_model"
	ModelTypeMLflow ModelType = "mlflow_model"
	ModelTypeTriton ModelType = "triton_model"
)

func (t ModelType) IsValid() bool {
	return t == ModelTypeCustom || t == ModelTypeMLflow || t == ModelTypeTriton
}

type VersionStatus string

const (
	VersionStatusPending VersionStatus = "PENDING"
	VersionStatusReady   VersionStatus = "READY"
	VersionStatusFailed  VersionStatus = "FAILED"
)

// RegisteredModel is a named container of versions in a registry.
type RegisteredModel struct {
	ID            uuid.UUID         `json:"id"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	Workspace     string            `json:"workspace"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	ModelType     ModelType         `json:"model_type"`
	LatestVersion string            `json:"latest_version"`
	Tags          map[string]string `json:"tags"`
}

// NewRegisteredModel creates a new RegisteredModel with validation
func NewRegisteredModel(workspace, name, description string, modelType ModelType) (*RegisteredModel, error) {
	if name == "" {
		return nil, ErrInvalidModelName
	}
	if modelType == "" {
		modelType = ModelTypeCustom
	}
	if !modelType.IsValid() {
		return nil, ErrInvalidModelType
	}

	now := time.Now()
	return &RegisteredModel{
		ID:          uuid.New(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Workspace:   workspace,
		Name:        name,
		Description: description,
		ModelType:   modelType,
		Tags:        make(map[string]string),
	}, nil
}

// ModelVersion is one immutable registration of an artifact under a model name.
type ModelVersion struct {
	ID          uuid.UUID         `json:"id"`
	CreatedAt   time.Time         `json:"created_at"`
	ModelID     uuid.UUID         `json:"model_id"`
	ModelName   string            `json:"model_name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	ModelType   ModelType         `json:"model_type"`
	URI         string            `json:"uri"`
	Framework   string            `json:"framework"`
	Status      VersionStatus     `json:"status"`
	Properties  map[string]string `json:"properties"`
	Tags        map[string]string `json:"tags"`

	// Set by the registry backend, e.g. an ARM resource id
	ExternalID string `json:"external_id,omitempty"`
}

// NewModelVersion creates a pending version of model pointing at uri.
func NewModelVersion(model *RegisteredModel, version, uri string) (*ModelVersion, error) {
	if model == nil || model.Name == "" {
		return nil, ErrInvalidModelName
	}
	if version == "" {
		return nil, ErrInvalidVersion
	}
	if uri == "" {
		return nil, ErrMissingArtifactURI
	}

	return &ModelVersion{
		ID:          uuid.New(),
		CreatedAt:   time.Now(),
		ModelID:     model.ID,
		ModelName:   model.Name,
		Version:     version,
		Description: model.Description,
		ModelType:   model.ModelType,
		URI:         uri,
		Status:      VersionStatusPending,
		Properties:  make(map[string]string),
		Tags:        make(map[string]string),
	}, nil
}

// MarkReady flags the version as registered and usable.
func (v *ModelVersion) MarkReady() {
	v.Status = VersionStatusReady
}

// NextVersion returns the successor of the highest numeric version in
// existing. Non-numeric versions are ignored; an empty set yields "1".
func NextVersion(existing []string) string {
	highest := 0
	for _, s := range existing {
		n, err := strconv.Atoi(s)
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return strconv.Itoa(highest + 1)
}
