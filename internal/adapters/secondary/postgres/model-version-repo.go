package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"neurotrack-ml/internal/core/domain"
)

func (r *modelRegistry) CreateVersion(ctx context.Context, version *domain.ModelVersion) error {
	propsJSON, err := json.Marshal(version.Properties)
	if err != nil {
		return fmt.Errorf("marshal properties: %w", err)
	}
	tagsJSON, err := json.Marshal(version.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	query := `
		INSERT INTO model_version
			(id, created_at, registered_model_id, version, description,
			 model_type, uri, framework, status, properties, tags)
		VALUES ($1, $2,
			(SELECT id FROM registered_model WHERE workspace = $3 AND name = $4),
			$5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = r.pool.Exec(ctx, query,
		version.ID, version.CreatedAt, r.workspace, version.ModelName,
		version.Version, version.Description, string(version.ModelType),
		version.URI, version.Framework, string(domain.VersionStatusReady),
		propsJSON, tagsJSON,
	)
	if err != nil {
		return versionInsertError(err)
	}
	version.ExternalID = version.ID.String()
	return nil
}

// versionInsertError maps constraint violations on model_version. A null
// registered_model_id means the subselect found no model with that name.
func versionInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return domain.ErrVersionConflict
		case pgerrcode.NotNullViolation:
			return domain.ErrModelNotFound
		}
	}
	return fmt.Errorf("create model version: %w", err)
}

func (r *modelRegistry) ListVersions(ctx context.Context, name string) ([]string, error) {
	query := `
		SELECT mv.version
		FROM model_version mv
		JOIN registered_model rm ON rm.id = mv.registered_model_id
		WHERE rm.workspace = $1 AND rm.name = $2
		ORDER BY mv.created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, r.workspace, name)
	if err != nil {
		return nil, fmt.Errorf("list model versions: %w", err)
	}
	defer rows.Close()

	versions := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan model version: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate model versions: %w", err)
	}
	return versions, nil
}
