// Package manifest writes online endpoint descriptors in the Azure ML CLI
// YAML format, so a declared endpoint can be created later with
// `az ml online-endpoint create -f`.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"neurotrack-ml/internal/core/domain"
	ports "neurotrack-ml/internal/core/ports/output"
)

const endpointSchema = "https://azuremlschemas.azureedge.net/latest/managedOnlineEndpoint.schema.json"

type document struct {
	Schema                string `yaml:"$schema"`
	domain.OnlineEndpoint `yaml:",inline"`
}

type yamlDescriptor struct{}

func NewWriter() ports.DescriptorWriter {
	return yamlDescriptor{}
}

func NewReader() ports.DescriptorReader {
	return yamlDescriptor{}
}

func (yamlDescriptor) Write(endpoint *domain.OnlineEndpoint, path string) error {
	data, err := Marshal(endpoint)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func Marshal(endpoint *domain.OnlineEndpoint) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(document{Schema: endpointSchema, OnlineEndpoint: *endpoint}); err != nil {
		return nil, fmt.Errorf("encode endpoint manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode endpoint manifest: %w", err)
	}
	return buf.Bytes(), nil
}

func (yamlDescriptor) Read(path string) (*domain.OnlineEndpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: no descriptor at %s", domain.ErrEndpointNotFound, path)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode endpoint manifest: %w", err)
	}
	return &doc.OnlineEndpoint, nil
}
