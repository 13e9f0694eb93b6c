package main

import (
	"neurotrack-ml/internal/config"

	"github.com/spf13/cobra"
	log "github.com/sirupsen/logrus"
)

// Version is set at build time
var Version = "0.1.0"

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "neurotrack",
	Short: "Train, register and serve the Alzheimer's speech risk model",
	Long: `neurotrack trains the cognitive risk classifier on acoustic speech
features, registers it in an Azure ML workspace (or a self-hosted registry)
and declares the real-time endpoint that serves it.

Commands:
  train   - synthesize data, fit, save, register and declare the endpoint
  serve   - run the real-time scoring server over a saved model
  status  - show the provisioning state of the online endpoint

Configuration comes from the environment (and an optional .env file).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		initLogger(cfg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
