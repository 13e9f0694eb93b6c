package domain

import (
	"regexp"
	"time"
)

// ============================================================================
// Value Objects
// ============================================================================

// AuthMode is how clients authenticate against an online endpoint
type AuthMode string

const (
	AuthModeKey      AuthMode = "key"
	AuthModeAMLToken AuthMode = "aml_token"
	AuthModeAADToken AuthMode = "aad_token"
)

// IsValid checks if the auth mode is supported
func (m AuthMode) IsValid() bool {
	return m == AuthModeKey || m == AuthModeAMLToken || m == AuthModeAADToken
}

// EndpointState tracks an endpoint from declaration to provisioning outcome
type EndpointState string

const (
	EndpointStateDeclared     EndpointState = "DECLARED"
	EndpointStateProvisioning EndpointState = "PROVISIONING"
	EndpointStateSucceeded    EndpointState = "SUCCEEDED"
	EndpointStateFailed       EndpointState = "FAILED"
)

// Azure ML endpoint names: 3-32 chars, letter first, alphanumerics and '-'.
var endpointNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]{1,30}[a-zA-Z0-9]$`)

// ============================================================================
// Entities
// ============================================================================

// OnlineEndpoint describes a real-time inference endpoint. A declared
// endpoint exists only as a descriptor until a provisioner acts on it.
type OnlineEndpoint struct {
	Name         string            `json:"name" yaml:"name"`
	Description  string            `json:"description" yaml:"description"`
	AuthMode     AuthMode          `json:"auth_mode" yaml:"auth_mode"`
	ModelName    string            `json:"model_name,omitempty" yaml:"-"`
	ModelVersion string            `json:"model_version,omitempty" yaml:"-"`
	ModelURI     string            `json:"model_uri,omitempty" yaml:"-"`
	Tags         map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
	State        EndpointState     `json:"state" yaml:"-"`
	ScoringURI   string            `json:"scoring_uri,omitempty" yaml:"-"`
	ExternalID   string            `json:"external_id,omitempty" yaml:"-"`
	LastError    string            `json:"last_error,omitempty" yaml:"-"`
	DeclaredAt   time.Time         `json:"declared_at" yaml:"-"`
	UpdatedAt    time.Time         `json:"updated_at" yaml:"-"`
}

// NewOnlineEndpoint creates a new endpoint descriptor with validation
func NewOnlineEndpoint(name, description string, authMode AuthMode) (*OnlineEndpoint, error) {
	if name == "" {
		return nil, ErrInvalidEndpointName
	}
	if !endpointNamePattern.MatchString(name) {
		return nil, ErrInvalidEndpointName
	}
	if authMode == "" {
		authMode = AuthModeKey
	}
	if !authMode.IsValid() {
		return nil, ErrInvalidAuthMode
	}

	now := time.Now()
	return &OnlineEndpoint{
		Name:        name,
		Description: description,
		AuthMode:    authMode,
		Tags:        make(map[string]string),
		State:       EndpointStateDeclared,
		DeclaredAt:  now,
		UpdatedAt:   now,
	}, nil
}

// Bind records which registered model version the endpoint is meant to serve
func (e *OnlineEndpoint) Bind(version *ModelVersion) {
	e.ModelName = version.ModelName
	e.ModelVersion = version.Version
	e.ModelURI = version.URI
	e.UpdatedAt = time.Now()
}

// MarkProvisioning records that a provisioning call was issued
func (e *OnlineEndpoint) MarkProvisioning(externalID string) {
	e.State = EndpointStateProvisioning
	e.ExternalID = externalID
	e.LastError = ""
	e.UpdatedAt = time.Now()
}

// MarkProvisioned updates state to succeeded with the scoring URL
func (e *OnlineEndpoint) MarkProvisioned(scoringURI string) {
	e.State = EndpointStateSucceeded
	e.ScoringURI = scoringURI
	e.LastError = ""
	e.UpdatedAt = time.Now()
}

// MarkFailed records provisioning failure
func (e *OnlineEndpoint) MarkFailed(err string) {
	e.State = EndpointStateFailed
	e.LastError = err
	e.UpdatedAt = time.Now()
}

// IsProvisioned returns true once the endpoint has a live scoring URL
func (e *OnlineEndpoint) IsProvisioned() bool {
	return e.State == EndpointStateSucceeded
}
