package ports

import "context"

// ArtifactStore uploads a local model directory and returns the URI the
// registry should record for it
type ArtifactStore interface {
	Upload(ctx context.Context, localDir, modelName string) (string, error)
}
