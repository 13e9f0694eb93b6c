package services

import (
	"context"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"neurotrack-ml/internal/core/domain"
	ports "neurotrack-ml/internal/core/ports/output"
)

type PipelineConfig struct {
	OutputDir  string
	OutputFile string

	ModelName        string
	ModelDescription string
	ModelType        string

	EndpointName        string
	EndpointDescription string
	EndpointAuthMode    string
	ManifestPath        string
	Provision           bool
}

// PipelineService runs the training-to-endpoint steps in order and stops at
// the first failure.
type PipelineService struct {
	workspace ports.WorkspaceConnector
	datasets  *DatasetService
	training  *TrainingService
	artifacts *ModelArtifactService
	models    *RegisteredModelService
	endpoints *EndpointService
	cfg       PipelineConfig
}

func NewPipelineService(
	workspace ports.WorkspaceConnector,
	datasets *DatasetService,
	training *TrainingService,
	artifacts *ModelArtifactService,
	models *RegisteredModelService,
	endpoints *EndpointService,
	cfg PipelineConfig,
) *PipelineService {
	return &PipelineService{
		workspace: workspace,
		datasets:  datasets,
		training:  training,
		artifacts: artifacts,
		models:    models,
		endpoints: endpoints,
		cfg:       cfg,
	}
}

type PipelineResult struct {
	Workspace  *domain.Workspace
	TrainRows  int
	TestRows   int
	Evaluation *domain.EvaluationResult
	Artifact   *domain.ModelArtifact
	Version    *domain.ModelVersion
	Endpoint   *DeclareResult
}

func (p *PipelineService) Run(ctx context.Context) (*PipelineResult, error) {
	result := &PipelineResult{}

	// 1. Connect to workspace
	ws, err := p.workspace.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect workspace: %w", err)
	}
	result.Workspace = ws
	log.WithFields(log.Fields{
		"workspace":      ws.Name,
		"resource_group": ws.ResourceGroup,
		"location":       ws.Location,
	}).Info("connected to workspace")

	// 2. Prepare data
	data, err := p.datasets.Prepare()
	if err != nil {
		return nil, err
	}
	train, test, err := p.datasets.Split(data)
	if err != nil {
		return nil, err
	}
	result.TrainRows = train.Rows()
	result.TestRows = test.Rows()
	log.WithFields(log.Fields{
		"rows":    data.Rows(),
		"columns": data.Cols(),
		"train":   result.TrainRows,
		"test":    result.TestRows,
	}).Info("dataset prepared")

	// 3. Train
	model, err := p.training.Train(ctx, train)
	if err != nil {
		return nil, err
	}
	eval, err := p.training.Evaluate(model, test)
	if err != nil {
		return nil, err
	}
	result.Evaluation = eval
	log.WithField("test_accuracy", eval.Accuracy).Info("model trained successfully")

	// 4. Save
	artifact, err := p.artifacts.Save(model, p.cfg.OutputDir, p.cfg.OutputFile)
	if err != nil {
		return nil, err
	}
	result.Artifact = artifact
	log.WithFields(log.Fields{
		"path":  artifact.Path,
		"bytes": artifact.Size,
	}).Info("model saved")

	// 5. Register
	version, err := p.models.Register(ctx, RegisterRequest{
		Artifact:    artifact,
		Name:        p.cfg.ModelName,
		Description: p.cfg.ModelDescription,
		ModelType:   p.cfg.ModelType,
		Properties: map[string]string{
			"test_accuracy": strconv.FormatFloat(eval.Accuracy, 'f', 4, 64),
			"train_rows":    strconv.Itoa(result.TrainRows),
			"format":        artifact.Format,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("register model: %w", err)
	}
	result.Version = version
	log.Infof("model %s registered (version %s)", version.ModelName, version.Version)

	// 6. Declare endpoint
	declared, err := p.endpoints.Declare(ctx, DeclareRequest{
		Name:         p.cfg.EndpointName,
		Description:  p.cfg.EndpointDescription,
		AuthMode:     p.cfg.EndpointAuthMode,
		Version:      version,
		ManifestPath: p.cfg.ManifestPath,
		Provision:    p.cfg.Provision,
	})
	if err != nil {
		return nil, fmt.Errorf("declare endpoint: %w", err)
	}
	result.Endpoint = declared
	log.WithFields(log.Fields{
		"endpoint": declared.Endpoint.Name,
		"state":    declared.Endpoint.State,
		"manifest": declared.ManifestPath,
	}).Infof("endpoint %s infrastructure prepared", declared.Endpoint.Name)

	return result, nil
}
