package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"neurotrack-ml/internal/core/domain"
	ports "neurotrack-ml/internal/core/ports/output"
)

// modelRegistry stores registered models and their versions in Postgres,
// scoped by workspace name.
type modelRegistry struct {
	pool      DB
	workspace string
}

func NewModelRegistry(pool DB, workspace string) ports.ModelRegistry {
	return &modelRegistry{pool: pool, workspace: workspace}
}

func (r *modelRegistry) GetModel(ctx context.Context, name string) (*domain.RegisteredModel, error) {
	query := `
		SELECT rm.id, rm.created_at, rm.updated_at, rm.workspace, rm.name,
			   rm.description, rm.model_type, rm.tags,
			   COALESCE((
				   SELECT mv.version FROM model_version mv
				   WHERE mv.registered_model_id = rm.id
				   ORDER BY mv.created_at DESC LIMIT 1
			   ), '') AS latest_version
		FROM registered_model rm
		WHERE rm.workspace = $1 AND rm.name = $2
	`

	var (
		m         domain.RegisteredModel
		modelType string
		tagsJSON  []byte
	)
	err := r.pool.QueryRow(ctx, query, r.workspace, name).Scan(
		&m.ID, &m.CreatedAt, &m.UpdatedAt, &m.Workspace, &m.Name,
		&m.Description, &modelType, &tagsJSON, &m.LatestVersion,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("get registered model: %w", err)
	}

	m.ModelType = domain.ModelType(modelType)
	m.Tags = make(map[string]string)
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &m.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	return &m, nil
}

// CreateModel inserts the model or refreshes the description of an existing
// one with the same name. model.ID is set to the stored row's id.
func (r *modelRegistry) CreateModel(ctx context.Context, model *domain.RegisteredModel) error {
	tagsJSON, err := json.Marshal(model.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	query := `
		INSERT INTO registered_model
			(id, created_at, updated_at, workspace, name, description, model_type, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (workspace, name) DO UPDATE
			SET description = EXCLUDED.description, updated_at = EXCLUDED.updated_at
		RETURNING id
	`
	err = r.pool.QueryRow(ctx, query,
		model.ID, model.CreatedAt, model.UpdatedAt,
		r.workspace, model.Name, model.Description,
		string(model.ModelType), tagsJSON,
	).Scan(&model.ID)
	if err != nil {
		return fmt.Errorf("create registered model: %w", err)
	}
	model.Workspace = r.workspace
	return nil
}
