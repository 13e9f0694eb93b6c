package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOnlineEndpoint(t *testing.T) {
	ep, err := NewOnlineEndpoint("neurotrack-risk-endpoint", "desc", AuthModeKey)
	require.NoError(t, err)
	assert.Equal(t, EndpointStateDeclared, ep.State)
	assert.False(t, ep.IsProvisioned())

	ep, err = NewOnlineEndpoint("abc", "", "")
	require.NoError(t, err)
	assert.Equal(t, AuthModeKey, ep.AuthMode)
}

func TestNewOnlineEndpoint_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		epName   string
		authMode AuthMode
		expected error
	}{
		{name: "empty name", epName: "", authMode: AuthModeKey, expected: ErrInvalidEndpointName},
		{name: "leading digit", epName: "1endpoint", authMode: AuthModeKey, expected: ErrInvalidEndpointName},
		{name: "underscore", epName: "my_endpoint", authMode: AuthModeKey, expected: ErrInvalidEndpointName},
		{name: "too long", epName: "a234567890123456789012345678901234", authMode: AuthModeKey, expected: ErrInvalidEndpointName},
		{name: "bad auth", epName: "endpoint", authMode: "basic", expected: ErrInvalidAuthMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOnlineEndpoint(tt.epName, "", tt.authMode)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestOnlineEndpoint_Lifecycle(t *testing.T) {
	ep, _ := NewOnlineEndpoint("endpoint", "", AuthModeKey)
	m, _ := NewRegisteredModel("ws", "m", "", ModelTypeCustom)
	v, _ := NewModelVersion(m, "2", "s3://models/m/2")

	ep.Bind(v)
	assert.Equal(t, "m", ep.ModelName)
	assert.Equal(t, "2", ep.ModelVersion)
	assert.Equal(t, "s3://models/m/2", ep.ModelURI)

	ep.MarkProvisioning("uid-1")
	assert.Equal(t, EndpointStateProvisioning, ep.State)
	assert.Equal(t, "uid-1", ep.ExternalID)

	ep.MarkFailed("quota exceeded")
	assert.Equal(t, EndpointStateFailed, ep.State)
	assert.Equal(t, "quota exceeded", ep.LastError)

	ep.MarkProvisioned("https://endpoint.example/score")
	assert.True(t, ep.IsProvisioned())
	assert.Empty(t, ep.LastError)
}
