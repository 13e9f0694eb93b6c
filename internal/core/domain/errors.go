package domain

import "errors"

// ============================================================================
// Dataset Errors
// ============================================================================

var (
	ErrInvalidSampleCount  = errors.New("sample count must be positive")
	ErrInvalidFeatureCount = errors.New("at least two features are required")
	ErrInvalidTestSize     = errors.New("test size must leave both partitions non-empty")
	ErrEmptyDataset        = errors.New("dataset has no rows")
)

// ============================================================================
// Training Errors
// ============================================================================

var (
	ErrInvalidEstimators = errors.New("estimator count must be positive")
	ErrSingleClass       = errors.New("training labels contain a single class")
	ErrModelNotFitted    = errors.New("model has not been fitted")
	ErrFeatureMismatch   = errors.New("feature vector length does not match model")
	ErrUnknownFormat     = errors.New("unrecognized model artifact format")
)

// ============================================================================
// Model Registry Errors
// ============================================================================

var (
	ErrModelNotFound      = errors.New("registered model not found")
	ErrVersionConflict    = errors.New("model version already exists")
	ErrInvalidModelName   = errors.New("model name is required")
	ErrInvalidModelType   = errors.New("unsupported model type")
	ErrInvalidVersion     = errors.New("model version is required")
	ErrMissingArtifactURI = errors.New("artifact URI is required")
	ErrArtifactNotFound   = errors.New("model artifact not found")
)

// ============================================================================
// Endpoint Errors
// ============================================================================

var (
	ErrInvalidEndpointName   = errors.New("endpoint name must be 3-32 characters, start with a letter and contain only letters, digits and '-'")
	ErrInvalidAuthMode       = errors.New("invalid endpoint auth mode")
	ErrEndpointNotFound      = errors.New("online endpoint not found")
	ErrProvisionerNotEnabled = errors.New("endpoint provisioner is not available")
)

// ============================================================================
// Scoring Errors
// ============================================================================

var (
	ErrEmptyScoringRequest = errors.New("scoring request contains no records")
	ErrMissingFeature      = errors.New("record is missing a model feature")
	ErrUnauthorized        = errors.New("invalid or missing endpoint key")
)
