package kserve

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"neurotrack-ml/internal/config"
	"neurotrack-ml/internal/core/domain"
	ports "neurotrack-ml/internal/core/ports/output"
)

var inferenceServiceGVR = schema.GroupVersionResource{
	Group:    "serving.kserve.io",
	Version:  "v1beta1",
	Resource: "inferenceservices",
}

const (
	labelPrefix = "neurotrack.ai/"
	modelMount  = "/mnt/models"
)

// Options describe the scoring container the endpoint runs.
type Options struct {
	Image     string
	ModelFile string
}

type kserveProvisioner struct {
	client    dynamic.Interface
	enabled   bool
	defaultNS string
	opts      Options
}

// NewProvisioner creates an endpoint provisioner that runs the scoring
// server as a KServe InferenceService.
func NewProvisioner(cfg *config.KubernetesConfig, opts Options) (ports.EndpointProvisioner, error) {
	if !cfg.Enabled {
		return &kserveProvisioner{enabled: false}, nil
	}

	var restCfg *rest.Config
	var err error

	if cfg.InCluster {
		restCfg, err = rest.InClusterConfig()
	} else if cfg.KubeConfigPath != "" {
		restCfg, err = clientcmd.BuildConfigFromFlags("", cfg.KubeConfigPath)
	} else {
		home, _ := os.UserHomeDir()
		kubeconfig := filepath.Join(home, ".kube", "config")
		restCfg, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	}
	if err != nil {
		return nil, fmt.Errorf("build k8s config: %w", err)
	}

	client, err := dynamic.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("create dynamic client: %w", err)
	}

	return newProvisioner(client, cfg.DefaultNS, opts), nil
}

func newProvisioner(client dynamic.Interface, namespace string, opts Options) *kserveProvisioner {
	if namespace == "" {
		namespace = "model-serving"
	}
	return &kserveProvisioner{
		client:    client,
		enabled:   true,
		defaultNS: namespace,
		opts:      opts,
	}
}

func (c *kserveProvisioner) IsAvailable() bool {
	return c.enabled
}

// Provision creates the InferenceService or replaces the predictor of an
// existing one with the same name.
func (c *kserveProvisioner) Provision(ctx context.Context, endpoint *domain.OnlineEndpoint) (*ports.EndpointDeployment, error) {
	if endpoint.ModelURI == "" {
		return nil, domain.ErrMissingArtifactURI
	}

	obj := c.buildInferenceServiceCR(endpoint)
	resource := c.client.Resource(inferenceServiceGVR).Namespace(c.defaultNS)

	existing, err := resource.Get(ctx, endpoint.Name, metav1.GetOptions{})
	switch {
	case err == nil:
		obj.SetResourceVersion(existing.GetResourceVersion())
		updated, err := resource.Update(ctx, obj, metav1.UpdateOptions{})
		if err != nil {
			return nil, fmt.Errorf("update kserve inferenceservice: %w", err)
		}
		return &ports.EndpointDeployment{ExternalID: string(updated.GetUID())}, nil
	case apierrors.IsNotFound(err):
		created, err := resource.Create(ctx, obj, metav1.CreateOptions{})
		if err != nil {
			return nil, fmt.Errorf("create kserve inferenceservice: %w", err)
		}
		return &ports.EndpointDeployment{ExternalID: string(created.GetUID())}, nil
	default:
		return nil, fmt.Errorf("get kserve inferenceservice: %w", err)
	}
}

func (c *kserveProvisioner) GetStatus(ctx context.Context, name string) (*ports.EndpointStatus, error) {
	obj, err := c.client.Resource(inferenceServiceGVR).
		Namespace(c.defaultNS).
		Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, domain.ErrEndpointNotFound
		}
		return nil, fmt.Errorf("get kserve inferenceservice: %w", err)
	}

	return parseStatus(obj), nil
}

func (c *kserveProvisioner) buildInferenceServiceCR(endpoint *domain.OnlineEndpoint) *unstructured.Unstructured {
	labels := map[string]interface{}{
		labelPrefix + "endpoint": endpoint.Name,
	}
	if endpoint.ModelName != "" {
		labels[labelPrefix+"model"] = endpoint.ModelName
	}
	if endpoint.ModelVersion != "" {
		labels[labelPrefix+"model-version"] = endpoint.ModelVersion
	}

	env := []interface{}{
		map[string]interface{}{"name": "STORAGE_URI", "value": endpoint.ModelURI},
		map[string]interface{}{"name": "SCORING_MODEL_PATH", "value": path.Join(modelMount, c.opts.ModelFile)},
		map[string]interface{}{"name": "SCORING_PORT", "value": "8080"},
	}
	if endpoint.AuthMode == domain.AuthModeKey {
		env = append(env, map[string]interface{}{
			"name": "SCORING_KEY",
			"valueFrom": map[string]interface{}{
				"secretKeyRef": map[string]interface{}{
					"name":     endpoint.Name + "-keys",
					"key":      "primary",
					"optional": true,
				},
			},
		})
	}

	container := map[string]interface{}{
		"name":  "kserve-container",
		"image": c.opts.Image,
		"args":  []interface{}{"serve"},
		"env":   env,
		"ports": []interface{}{
			map[string]interface{}{"containerPort": int64(8080), "protocol": "TCP"},
		},
	}

	annotations := map[string]interface{}{}
	if endpoint.Description != "" {
		annotations[labelPrefix+"description"] = endpoint.Description
	}

	return &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": "serving.kserve.io/v1beta1",
			"kind":       "InferenceService",
			"metadata": map[string]interface{}{
				"name":        endpoint.Name,
				"namespace":   c.defaultNS,
				"labels":      labels,
				"annotations": annotations,
			},
			"spec": map[string]interface{}{
				"predictor": map[string]interface{}{
					"containers": []interface{}{container},
				},
			},
		},
	}
}

func parseStatus(obj *unstructured.Unstructured) *ports.EndpointStatus {
	status := &ports.EndpointStatus{State: "Unknown"}

	statusMap, found, _ := unstructured.NestedMap(obj.Object, "status")
	if !found {
		return status
	}

	url, _, _ := unstructured.NestedString(statusMap, "url")
	if url != "" {
		status.ScoringURI = url + "/score"
	}

	conditions, found, _ := unstructured.NestedSlice(statusMap, "conditions")
	if found {
		for _, cond := range conditions {
			condMap, ok := cond.(map[string]interface{})
			if !ok {
				continue
			}
			condType, _ := condMap["type"].(string)
			condStatus, _ := condMap["status"].(string)

			if condType == "Ready" {
				status.Ready = condStatus == "True"
				switch condStatus {
				case "True":
					status.State = "Ready"
				case "False":
					status.State = "NotReady"
					if msg, ok := condMap["message"].(string); ok {
						status.Error = msg
					}
				default:
					status.State = "Pending"
				}
				break
			}
		}
	}

	return status
}

var _ ports.EndpointProvisioner = (*kserveProvisioner)(nil)
