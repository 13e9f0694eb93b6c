package main

import (
	"context"
	"errors"
	"fmt"

	"neurotrack-ml/internal/adapters/secondary/manifest"
	"neurotrack-ml/internal/config"
	"neurotrack-ml/internal/core/domain"
	ports "neurotrack-ml/internal/core/ports/output"
	"neurotrack-ml/internal/core/services"

	"github.com/spf13/cobra"
	log "github.com/sirupsen/logrus"
)

var statusName string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the provisioning state of the online endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		name := cfg.Endpoint.Name
		if statusName != "" {
			name = statusName
		}

		status, err := lookupStatus(cmd.Context(), cfg, name)
		if err != nil {
			return fmt.Errorf("endpoint %s: %w", name, err)
		}

		entry := log.WithFields(log.Fields{
			"endpoint":    name,
			"state":       status.State,
			"ready":       status.Ready,
			"scoring_uri": status.ScoringURI,
		})
		if status.Error != "" {
			entry.WithField("error", status.Error).Warn("endpoint status")
			return nil
		}
		entry.Info("endpoint status")
		return nil
	},
}

// lookupStatus asks the provisioner first and falls back to the declared
// descriptor when no provisioner is configured.
func lookupStatus(ctx context.Context, cfg *config.Config, name string) (*ports.EndpointStatus, error) {
	b := &backends{}
	if err := b.initProvisioner(cfg); err != nil {
		return nil, err
	}

	svc := services.NewEndpointService(b.provisioner, nil).WithReader(manifest.NewReader())
	status, err := svc.Status(ctx, name)
	if !errors.Is(err, domain.ErrProvisionerNotEnabled) {
		return status, err
	}

	log.WithField("manifest", cfg.Endpoint.ManifestPath).Debug("no provisioner, reading declared endpoint")
	return svc.DeclaredStatus(name, cfg.Endpoint.ManifestPath)
}

func init() {
	statusCmd.Flags().StringVar(&statusName, "name", "", "endpoint name (defaults to ENDPOINT_NAME)")
}
