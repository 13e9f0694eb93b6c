package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neurotrack-ml/internal/core/domain"
)

func TestMarshal(t *testing.T) {
	ep, err := domain.NewOnlineEndpoint("neurotrack-risk-endpoint", "Real-time endpoint for cognitive risk detection", domain.AuthModeKey)
	require.NoError(t, err)

	data, err := Marshal(ep)
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "$schema: "+endpointSchema))
	assert.Contains(t, out, "name: neurotrack-risk-endpoint\n")
	assert.Contains(t, out, "auth_mode: key\n")
	assert.NotContains(t, out, "state")
	assert.NotContains(t, out, "tags")
}

func TestWriteRead(t *testing.T) {
	ep, err := domain.NewOnlineEndpoint("neurotrack-risk-endpoint", "desc", domain.AuthModeAADToken)
	require.NoError(t, err)
	ep.Tags["model"] = "alzheimer-speech-risk-model"

	path := filepath.Join(t.TempDir(), "nested", "endpoint.yml")
	require.NoError(t, NewWriter().Write(ep, path))

	_, err = os.Stat(path)
	require.NoError(t, err)

	got, err := NewReader().Read(path)
	require.NoError(t, err)
	assert.Equal(t, ep.Name, got.Name)
	assert.Equal(t, ep.Description, got.Description)
	assert.Equal(t, domain.AuthModeAADToken, got.AuthMode)
	assert.Equal(t, "alzheimer-speech-risk-model", got.Tags["model"])
}

func TestRead_Missing(t *testing.T) {
	_, err := NewReader().Read(filepath.Join(t.TempDir(), "none.yml"))
	assert.ErrorIs(t, err, domain.ErrEndpointNotFound)
}

func TestRead_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "endpoint.yml")
	require.NoError(t, os.WriteFile(path, []byte("name: [unterminated"), 0o644))

	_, err := NewReader().Read(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrEndpointNotFound)
}
