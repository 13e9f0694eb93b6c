package postgres

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS registered_model (
	id          UUID PRIMARY KEY,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL,
	workspace   TEXT NOT NULL,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	model_type  TEXT NOT NULL,
	tags        JSONB NOT NULL DEFAULT '{}',
	UNIQUE (workspace, name)
);

CREATE TABLE IF NOT EXISTS model_version (
	id                  UUID PRIMARY KEY,
	created_at          TIMESTAMPTZ NOT NULL,
	registered_model_id UUID NOT NULL REFERENCES registered_model(id) ON DELETE CASCADE,
	version             TEXT NOT NULL,
	description         TEXT NOT NULL DEFAULT '',
	model_type          TEXT NOT NULL,
	uri                 TEXT NOT NULL,
	framework           TEXT NOT NULL DEFAULT '',
	status              TEXT NOT NULL,
	properties          JSONB NOT NULL DEFAULT '{}',
	tags                JSONB NOT NULL DEFAULT '{}',
	UNIQUE (registered_model_id, version)
);
`

// EnsureSchema creates the registry tables when they do not exist yet.
func EnsureSchema(ctx context.Context, pool DB) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure registry schema: %w", err)
	}
	return nil
}
