package azureml

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/machinelearning/armmachinelearning/v3"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"neurotrack-ml/internal/config"
	ports "neurotrack-ml/internal/core/ports/output"
)

// datastoreStore uploads artifact directories into the blob container behind
// a workspace datastore and returns azureml:// datastore URIs.
type datastoreStore struct {
	client *Client
	cfg    config.StorageConfig
}

func NewArtifactStore(client *Client, cfg config.StorageConfig) ports.ArtifactStore {
	return &datastoreStore{client: client, cfg: cfg}
}

func (s *datastoreStore) Upload(ctx context.Context, localDir, modelName string) (string, error) {
	files, err := listFiles(localDir)
	if err != nil {
		return "", err
	}

	accountURL, container, err := s.resolveContainer(ctx)
	if err != nil {
		return "", err
	}
	blobs, err := azblob.NewClient(accountURL, s.client.credential, nil)
	if err != nil {
		return "", fmt.Errorf("blob client: %w", err)
	}

	prefix := uploadPrefix(s.cfg.UploadPathPrefix, uuid.NewString(), localDir)
	for _, rel := range files {
		if err := uploadFile(ctx, blobs, container, filepath.Join(localDir, rel), path.Join(prefix, filepath.ToSlash(rel))); err != nil {
			return "", err
		}
	}

	log.WithFields(log.Fields{
		"model":     modelName,
		"datastore": s.cfg.DatastoreName,
		"files":     len(files),
	}).Debug("artifact uploaded to datastore")

	return datastoreURI(s.client.cfg, s.cfg.DatastoreName, prefix), nil
}

func uploadFile(ctx context.Context, blobs *azblob.Client, container, localPath, blobName string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	if _, err := blobs.UploadFile(ctx, container, blobName, f, nil); err != nil {
		return fmt.Errorf("upload %s: %w", blobName, err)
	}
	return nil
}

// resolveContainer prefers the configured account and container and
// otherwise reads them from the datastore definition.
func (s *datastoreStore) resolveContainer(ctx context.Context) (string, string, error) {
	if s.cfg.AccountURL != "" && s.cfg.Container != "" {
		return s.cfg.AccountURL, s.cfg.Container, nil
	}

	cfg := s.client.cfg
	resp, err := s.client.datastores.Get(ctx, cfg.ResourceGroup, cfg.Name, s.cfg.DatastoreName, nil)
	if err != nil {
		return "", "", fmt.Errorf("get datastore %s: %w", s.cfg.DatastoreName, err)
	}
	blob, ok := resp.Properties.(*armmachinelearning.AzureBlobDatastore)
	if !ok || blob == nil {
		return "", "", fmt.Errorf("datastore %s is not an azure blob datastore", s.cfg.DatastoreName)
	}
	return blobAccountURL(deref(blob.Protocol), deref(blob.AccountName), deref(blob.Endpoint)), deref(blob.ContainerName), nil
}

func blobAccountURL(protocol, account, endpoint string) string {
	if protocol == "" {
		protocol = "https"
	}
	if endpoint == "" {
		endpoint = "core.windows.net"
	}
	return fmt.Sprintf("%s://%s.blob.%s/", protocol, account, endpoint)
}

func uploadPrefix(base, id, localDir string) string {
	return path.Join(base, id, filepath.Base(filepath.Clean(localDir)))
}

func datastoreURI(ws config.WorkspaceConfig, datastore, blobPath string) string {
	return fmt.Sprintf("azureml://subscriptions/%s/resourcegroups/%s/workspaces/%s/datastores/%s/paths/%s",
		ws.SubscriptionID, ws.ResourceGroup, ws.Name, datastore, strings.TrimPrefix(blobPath, "/"))
}

// listFiles returns regular files under dir relative to it.
func listFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk artifact dir: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("artifact dir %s is empty", dir)
	}
	return files, nil
}
