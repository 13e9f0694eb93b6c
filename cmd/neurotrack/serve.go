package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"neurotrack-ml/internal/adapters/primary/http/handlers"
	"neurotrack-ml/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	log "github.com/sirupsen/logrus"
)

var (
	servePort      int
	serveModelPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve real-time predictions from a saved model",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Scoring.Port = servePort
		}
		if cmd.Flags().Changed("model") {
			cfg.Scoring.ModelPath = serveModelPath
		}

		learner, err := newLearner(cfg)
		if err != nil {
			return err
		}
		model, err := services.NewModelArtifactService(learner).Load(cfg.Scoring.ModelPath)
		if err != nil {
			return fmt.Errorf("load model: %w", err)
		}
		log.WithFields(log.Fields{
			"path":     cfg.Scoring.ModelPath,
			"features": len(model.FeatureNames()),
		}).Info("model loaded")

		if cfg.Scoring.Key == "" {
			log.Warn("SCORING_KEY is empty; scoring requests are not authenticated")
		}
		if log.GetLevel() < log.DebugLevel {
			gin.SetMode(gin.ReleaseMode)
		}

		h := handlers.New(services.NewScoringService(model), cfg.Registry.ModelName, learner.Format())
		addr := fmt.Sprintf("%s:%d", cfg.Scoring.Host, cfg.Scoring.Port)
		srv := &http.Server{
			Addr:    addr,
			Handler: handlers.NewRouter(h, handlers.RouterOptions{
				Key:       cfg.Scoring.Key,
				RateLimit: cfg.Scoring.RateLimit,
				Burst:     cfg.Scoring.Burst,
			}),
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Infof("starting scoring server on %s", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
		case <-ctx.Done():
		}
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced shutdown: %w", err)
		}

		log.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "listen port (or set SCORING_PORT)")
	serveCmd.Flags().StringVar(&serveModelPath, "model", "", "serialized model path (or set SCORING_MODEL_PATH)")
}
