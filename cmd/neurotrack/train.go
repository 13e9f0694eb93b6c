package main

import (
	"neurotrack-ml/internal/adapters/secondary/manifest"
	"neurotrack-ml/internal/core/services"

	"github.com/spf13/cobra"
	log "github.com/sirupsen/logrus"
)

var provisionFlag bool

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train, register the model and declare its online endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("provision") {
			cfg.Endpoint.Provision = provisionFlag
		}

		learner, err := newLearner(cfg)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		b, err := newBackends(ctx, cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		pipeline := services.NewPipelineService(
			b.workspace,
			services.NewDatasetService(cfg.Dataset.Samples, cfg.Dataset.Features, cfg.Dataset.TestSize, cfg.Dataset.Seed),
			services.NewTrainingService(learner),
			services.NewModelArtifactService(learner),
			services.NewRegisteredModelService(b.registry, b.store, cfg.Workspace.Name),
			services.NewEndpointService(b.provisioner, manifest.NewWriter()),
			services.PipelineConfig{
				OutputDir:           cfg.Output.Dir,
				OutputFile:          cfg.Output.FileName,
				ModelName:           cfg.Registry.ModelName,
				ModelDescription:    cfg.Registry.Description,
				ModelType:           cfg.Registry.ModelType,
				EndpointName:        cfg.Endpoint.Name,
				EndpointDescription: cfg.Endpoint.Description,
				EndpointAuthMode:    cfg.Endpoint.AuthMode,
				ManifestPath:        cfg.Endpoint.ManifestPath,
				Provision:           cfg.Endpoint.Provision,
			},
		)

		result, err := pipeline.Run(ctx)
		if err != nil {
			return err
		}

		logNextSteps(result)
		return nil
	},
}

func init() {
	trainCmd.Flags().BoolVar(&provisionFlag, "provision", false, "create the online endpoint instead of only declaring it (or set ENDPOINT_PROVISION)")
}

func logNextSteps(result *services.PipelineResult) {
	ep := result.Endpoint.Endpoint
	if ep.IsProvisioned() {
		log.WithField("scoring_uri", ep.ScoringURI).Info("endpoint is live; POST records to the scoring URI")
		return
	}

	log.Info("next steps:")
	if result.Endpoint.ManifestPath != "" {
		log.Infof("  create the endpoint: az ml online-endpoint create -f %s", result.Endpoint.ManifestPath)
	} else {
		log.Info("  create the endpoint: rerun with --provision")
	}
	log.Infof("  deploy model %s:%s behind %s", result.Version.ModelName, result.Version.Version, ep.Name)
	log.Infof("  check provisioning: neurotrack status --name %s", ep.Name)
}
