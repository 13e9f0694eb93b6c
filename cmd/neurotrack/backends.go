package main

import (
	"context"
	"fmt"

	"neurotrack-ml/internal/adapters/secondary/azureml"
	"neurotrack-ml/internal/adapters/secondary/forest"
	"neurotrack-ml/internal/adapters/secondary/kserve"
	"neurotrack-ml/internal/adapters/secondary/objectstore"
	"neurotrack-ml/internal/adapters/secondary/postgres"
	"neurotrack-ml/internal/adapters/secondary/randforest"
	"neurotrack-ml/internal/config"
	ports "neurotrack-ml/internal/core/ports/output"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// backends holds the secondary adapters chosen by configuration.
type backends struct {
	workspace   ports.WorkspaceConnector
	registry    ports.ModelRegistry
	store       ports.ArtifactStore
	provisioner ports.EndpointProvisioner

	azure *azureml.Client
	pool  *pgxpool.Pool
}

func (b *backends) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
}

func newBackends(ctx context.Context, cfg *config.Config) (*backends, error) {
	b := &backends{}

	if err := b.initRegistry(ctx, cfg); err != nil {
		b.Close()
		return nil, err
	}
	if err := b.initStore(cfg); err != nil {
		b.Close()
		return nil, err
	}
	if err := b.initProvisioner(cfg); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *backends) azureClient(cfg *config.Config) (*azureml.Client, error) {
	if b.azure != nil {
		return b.azure, nil
	}
	client, err := azureml.NewClient(cfg.Workspace)
	if err != nil {
		return nil, err
	}
	b.azure = client
	return client, nil
}

func (b *backends) initRegistry(ctx context.Context, cfg *config.Config) error {
	switch cfg.Registry.Backend {
	case "azureml":
		client, err := b.azureClient(cfg)
		if err != nil {
			return err
		}
		b.workspace = client
		b.registry = azureml.NewModelRegistry(client)

	case "postgres":
		pool, err := newPool(ctx, cfg.Database)
		if err != nil {
			return err
		}
		b.pool = pool
		b.workspace = postgres.NewWorkspaceConnector(pool, cfg.Workspace)
		b.registry = postgres.NewModelRegistry(pool, cfg.Workspace.Name)

	default:
		return fmt.Errorf("unknown registry backend %q", cfg.Registry.Backend)
	}
	log.WithField("backend", cfg.Registry.Backend).Debug("model registry initialized")
	return nil
}

func (b *backends) initStore(cfg *config.Config) error {
	switch cfg.Storage.Backend {
	case "azureml":
		client, err := b.azureClient(cfg)
		if err != nil {
			return err
		}
		b.store = azureml.NewArtifactStore(client, cfg.Storage)

	case "minio":
		client, err := objectstore.NewMinIOClient(cfg.Storage)
		if err != nil {
			return err
		}
		b.store = objectstore.NewMinIOStore(client, cfg.Storage.MinIOBucket)

	case "local":
		b.store = objectstore.NewLocalStore()

	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	log.WithField("backend", cfg.Storage.Backend).Debug("artifact store initialized")
	return nil
}

// initProvisioner never fails the command: without a provisioner the
// endpoint can still be declared.
func (b *backends) initProvisioner(cfg *config.Config) error {
	switch cfg.Endpoint.Backend {
	case "azureml":
		client, err := b.azureClient(cfg)
		if err != nil {
			log.Warnf("Azure ML provisioner init failed (continuing without provisioning): %v", err)
			return nil
		}
		b.provisioner = azureml.NewEndpointProvisioner(client, cfg.Endpoint.ProvisionLimit)

	case "kserve":
		provisioner, err := kserve.NewProvisioner(&cfg.Kubernetes, kserve.Options{
			Image:     cfg.Endpoint.ServingImage,
			ModelFile: cfg.Output.FileName,
		})
		if err != nil {
			log.Warnf("KServe provisioner init failed (continuing without provisioning): %v", err)
			return nil
		}
		b.provisioner = provisioner

	default:
		return fmt.Errorf("unknown endpoint backend %q", cfg.Endpoint.Backend)
	}
	return nil
}

func newPool(ctx context.Context, db config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(db.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	poolCfg.MaxConns = int32(db.MaxOpenConns)
	poolCfg.MinConns = int32(db.MaxIdleConns)
	poolCfg.MaxConnLifetime = db.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	return pool, nil
}

// newLearner picks the forest implementation. serve must use the engine the
// artifact was trained with.
func newLearner(cfg *config.Config) (ports.Learner, error) {
	switch cfg.Training.Engine {
	case "", "forest":
		return forest.NewLearner(forest.Options{
			Estimators:      cfg.Training.Estimators,
			MaxDepth:        cfg.Training.MaxDepth,
			MinSamplesSplit: 2,
			MinSamplesLeaf:  1,
			Workers:         cfg.Training.Workers,
			Seed:            cfg.Dataset.Seed,
		}), nil
	case "randomforest":
		if cfg.Dataset.Seed != 0 {
			log.Warn("randomforest engine ignores DATASET_SEED; the fit is not reproducible")
		}
		return randforest.NewLearner(randforest.Options{
			Estimators: cfg.Training.Estimators,
			MaxDepth:   cfg.Training.MaxDepth,
		}), nil
	default:
		return nil, fmt.Errorf("unknown training engine %q", cfg.Training.Engine)
	}
}
