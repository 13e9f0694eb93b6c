package services

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"neurotrack-ml/internal/core/domain"
	ports "neurotrack-ml/internal/core/ports/output"
)

type ModelArtifactService struct {
	learner ports.Learner
}

func NewModelArtifactService(learner ports.Learner) *ModelArtifactService {
	return &ModelArtifactService{learner: learner}
}

// Save writes model to dir/fileName, creating dir when missing. An existing
// file is overwritten.
func (s *ModelArtifactService) Save(model ports.Classifier, dir, fileName string) (*domain.ModelArtifact, error) {
	data, err := model.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("serialize model: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write model file: %w", err)
	}

	return &domain.ModelArtifact{
		Dir:       dir,
		Path:      path,
		Format:    s.learner.Format(),
		Size:      int64(len(data)),
		CreatedAt: time.Now(),
	}, nil
}

// Load restores a model written by Save.
func (s *ModelArtifactService) Load(path string) (ports.Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("read model file: %w", err)
	}
	return s.learner.Load(data)
}
