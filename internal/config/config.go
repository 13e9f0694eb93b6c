package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Workspace  WorkspaceConfig
	Dataset    DatasetConfig
	Training   TrainingConfig
	Output     OutputConfig
	Registry   RegistryConfig
	Storage    StorageConfig
	Endpoint   EndpointConfig
	Kubernetes KubernetesConfig
	Database   DatabaseConfig
	Scoring    ScoringConfig
	Logger     LoggerConfig
}

// WorkspaceConfig identifies the Azure ML workspace.
type WorkspaceConfig struct {
	SubscriptionID string
	ResourceGroup  string
	Name           string
}

type DatasetConfig struct {
	Samples  int
	Features int
	TestSize float64
	Seed     int64
}

// TrainingConfig selects the learner. Engine "forest" is the built-in
// seeded CART forest; "randomforest" uses github.com/malaschitz/randomForest.
type TrainingConfig struct {
	Engine     string
	Estimators int
	MaxDepth   int
	Workers    int
}

type OutputConfig struct {
	Dir      string
	FileName string
}

type RegistryConfig struct {
	Backend     string
	ModelName   string
	Description string
	ModelType   string
}

type StorageConfig struct {
	Backend string

	// Azure ML datastore backing blob container
	DatastoreName    string
	AccountURL       string
	Container        string
	UploadPathPrefix string

	// S3-compatible store (MinIO)
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool
}

type EndpointConfig struct {
	Backend        string
	Name           string
	Description    string
	AuthMode       string
	Provision      bool
	ManifestPath   string
	ServingImage   string
	ProvisionLimit time.Duration
}

type KubernetesConfig struct {
	Enabled        bool
	InCluster      bool
	KubeConfigPath string
	DefaultNS      string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type ScoringConfig struct {
	Host      string
	Port      int
	ModelPath string
	Key       string
	RateLimit float64
	Burst     int
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using environment variables")
	}

	v := viper.New()

	// Defaults
	v.SetDefault("AZURE_SUBSCRIPTION_ID", "67d30c71-1d04-46d0-a886-64f97ddf5bd3")
	v.SetDefault("AZURE_RESOURCE_GROUP", "neurotrackx")
	v.SetDefault("AZURE_ML_WORKSPACE", "neurotrackxxz")

	v.SetDefault("DATASET_SAMPLES", 1000)
	v.SetDefault("DATASET_FEATURES", 65)
	v.SetDefault("DATASET_TEST_SIZE", 0.2)
	v.SetDefault("DATASET_SEED", 0)

	v.SetDefault("TRAINING_ENGINE", "forest")
	v.SetDefault("TRAINING_ESTIMATORS", 100)
	v.SetDefault("TRAINING_MAX_DEPTH", 0)
	v.SetDefault("TRAINING_WORKERS", 0)

	v.SetDefault("OUTPUT_DIR", "model_output")
	v.SetDefault("OUTPUT_FILE", "alzheimer_risk_model.pkl")

	v.SetDefault("REGISTRY_BACKEND", "azureml")
	v.SetDefault("REGISTRY_MODEL_NAME", "alzheimer-speech-risk-model")
	v.SetDefault("REGISTRY_MODEL_DESCRIPTION", "Model trained on Federated Alzheimer's Speech Dataset acoustic features.")
	v.SetDefault("REGISTRY_MODEL_TYPE", "custom_model")

	v.SetDefault("STORAGE_BACKEND", "azureml")
	v.SetDefault("STORAGE_DATASTORE", "workspaceblobstore")
	v.SetDefault("STORAGE_ACCOUNT_URL", "")
	v.SetDefault("STORAGE_CONTAINER", "")
	v.SetDefault("STORAGE_UPLOAD_PREFIX", "LocalUpload")
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "")
	v.SetDefault("MINIO_SECRET_KEY", "")
	v.SetDefault("MINIO_BUCKET", "models")
	v.SetDefault("MINIO_USE_SSL", false)

	v.SetDefault("ENDPOINT_BACKEND", "azureml")
	v.SetDefault("ENDPOINT_NAME", "neurotrack-risk-endpoint")
	v.SetDefault("ENDPOINT_DESCRIPTION", "Real-time endpoint for cognitive risk detection")
	v.SetDefault("ENDPOINT_AUTH_MODE", "key")
	v.SetDefault("ENDPOINT_PROVISION", false)
	v.SetDefault("ENDPOINT_MANIFEST", "deploy/endpoint.yml")
	v.SetDefault("ENDPOINT_SERVING_IMAGE", "neurotrack/scoring:latest")
	v.SetDefault("ENDPOINT_PROVISION_TIMEOUT", "20m")

	v.SetDefault("K8S_ENABLED", false)
	v.SetDefault("K8S_IN_CLUSTER", false)
	v.SetDefault("K8S_KUBECONFIG", "")
	v.SetDefault("K8S_DEFAULT_NAMESPACE", "model-serving")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "model_registry")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 1)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")

	v.SetDefault("SCORING_HOST", "0.0.0.0")
	v.SetDefault("SCORING_PORT", 8080)
	v.SetDefault("SCORING_MODEL_PATH", "model_output/alzheimer_risk_model.pkl")
	v.SetDefault("SCORING_KEY", "")
	v.SetDefault("SCORING_RATE_LIMIT", 0)
	v.SetDefault("SCORING_BURST", 20)

	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "text")

	// Env
	v.AutomaticEnv()

	provisionTimeout, err := time.ParseDuration(v.GetString("ENDPOINT_PROVISION_TIMEOUT"))
	if err != nil {
		provisionTimeout = 20 * time.Minute
	}
	connLifetime, err := time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		connLifetime = 5 * time.Minute
	}

	cfg := &Config{
		Workspace: WorkspaceConfig{
			SubscriptionID: v.GetString("AZURE_SUBSCRIPTION_ID"),
			ResourceGroup:  v.GetString("AZURE_RESOURCE_GROUP"),
			Name:           v.GetString("AZURE_ML_WORKSPACE"),
		},
		Dataset: DatasetConfig{
			Samples:  v.GetInt("DATASET_SAMPLES"),
			Features: v.GetInt("DATASET_FEATURES"),
			TestSize: v.GetFloat64("DATASET_TEST_SIZE"),
			Seed:     v.GetInt64("DATASET_SEED"),
		},
		Training: TrainingConfig{
			Engine:     v.GetString("TRAINING_ENGINE"),
			Estimators: v.GetInt("TRAINING_ESTIMATORS"),
			MaxDepth:   v.GetInt("TRAINING_MAX_DEPTH"),
			Workers:    v.GetInt("TRAINING_WORKERS"),
		},
		Output: OutputConfig{
			Dir:      v.GetString("OUTPUT_DIR"),
			FileName: v.GetString("OUTPUT_FILE"),
		},
		Registry: RegistryConfig{
			Backend:     v.GetString("REGISTRY_BACKEND"),
			ModelName:   v.GetString("REGISTRY_MODEL_NAME"),
			Description: v.GetString("REGISTRY_MODEL_DESCRIPTION"),
			ModelType:   v.GetString("REGISTRY_MODEL_TYPE"),
		},
		Storage: StorageConfig{
			Backend:          v.GetString("STORAGE_BACKEND"),
			DatastoreName:    v.GetString("STORAGE_DATASTORE"),
			AccountURL:       v.GetString("STORAGE_ACCOUNT_URL"),
			Container:        v.GetString("STORAGE_CONTAINER"),
			UploadPathPrefix: v.GetString("STORAGE_UPLOAD_PREFIX"),
			MinIOEndpoint:    v.GetString("MINIO_ENDPOINT"),
			MinIOAccessKey:   v.GetString("MINIO_ACCESS_KEY"),
			MinIOSecretKey:   v.GetString("MINIO_SECRET_KEY"),
			MinIOBucket:      v.GetString("MINIO_BUCKET"),
			MinIOUseSSL:      v.GetBool("MINIO_USE_SSL"),
		},
		Endpoint: EndpointConfig{
			Backend:        v.GetString("ENDPOINT_BACKEND"),
			Name:           v.GetString("ENDPOINT_NAME"),
			Description:    v.GetString("ENDPOINT_DESCRIPTION"),
			AuthMode:       v.GetString("ENDPOINT_AUTH_MODE"),
			Provision:      v.GetBool("ENDPOINT_PROVISION"),
			ManifestPath:   v.GetString("ENDPOINT_MANIFEST"),
			ServingImage:   v.GetString("ENDPOINT_SERVING_IMAGE"),
			ProvisionLimit: provisionTimeout,
		},
		Kubernetes: KubernetesConfig{
			Enabled:        v.GetBool("K8S_ENABLED"),
			InCluster:      v.GetBool("K8S_IN_CLUSTER"),
			KubeConfigPath: v.GetString("K8S_KUBECONFIG"),
			DefaultNS:      v.GetString("K8S_DEFAULT_NAMESPACE"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connLifetime,
		},
		Scoring: ScoringConfig{
			Host:      v.GetString("SCORING_HOST"),
			Port:      v.GetInt("SCORING_PORT"),
			ModelPath: v.GetString("SCORING_MODEL_PATH"),
			Key:       v.GetString("SCORING_KEY"),
			RateLimit: v.GetFloat64("SCORING_RATE_LIMIT"),
			Burst:     v.GetInt("SCORING_BURST"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	if cfg.Dataset.TestSize <= 0 || cfg.Dataset.TestSize >= 1 {
		return nil, fmt.Errorf("DATASET_TEST_SIZE must be in (0, 1), got %v", cfg.Dataset.TestSize)
	}

	return cfg, nil
}
