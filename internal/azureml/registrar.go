// Package azureml registers local model artifacts into an Azure ML workspace
// model registry via the control plane.
package azureml

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/machinelearning/armmachinelearning/v4"

	"modelops/internal/config"
	"modelops/pkg/types"
)

// modelType recorded on every registered version; pre-trained artifacts from
// on-prem storage are opaque to the registry.
const modelType = "custom_model"

// containersAPI is the slice of ModelContainersClient the registrar uses.
type containersAPI interface {
	Get(ctx context.Context, resourceGroup, workspace, name string, options *armmachinelearning.ModelContainersClientGetOptions) (armmachinelearning.ModelContainersClientGetResponse, error)
	CreateOrUpdate(ctx context.Context, resourceGroup, workspace, name string, body armmachinelearning.ModelContainer, options *armmachinelearning.ModelContainersClientCreateOrUpdateOptions) (armmachinelearning.ModelContainersClientCreateOrUpdateResponse, error)
}

// versionsAPI is the slice of ModelVersionsClient the registrar uses.
type versionsAPI interface {
	CreateOrUpdate(ctx context.Context, resourceGroup, workspace, name, version string, body armmachinelearning.ModelVersion, options *armmachinelearning.ModelVersionsClientCreateOrUpdateOptions) (armmachinelearning.ModelVersionsClientCreateOrUpdateResponse, error)
}

// Registrar creates or updates model records in one workspace.
type Registrar struct {
	ws         config.WorkspaceConfig
	containers containersAPI
	versions   versionsAPI
}

// NewRegistrar authenticates with the default credential chain and builds
// control-plane clients for the configured workspace.
func NewRegistrar(ws config.WorkspaceConfig) (*Registrar, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, transportError{op: "credential", err: err}
	}
	factory, err := armmachinelearning.NewClientFactory(ws.SubscriptionID, cred, nil)
	if err != nil {
		return nil, transportError{op: "client factory", err: err}
	}
	return &Registrar{
		ws:         ws,
		containers: factory.NewModelContainersClient(),
		versions:   factory.NewModelVersionsClient(),
	}, nil
}

// Register creates or updates the model container `name` and writes the next
// version pointing at localPath. The remote service treats the operation as
// atomic; there is no rollback on partial failure.
func (r *Registrar) Register(ctx context.Context, name, localPath, description string) (types.RegisteredModel, error) {
	abs, err := filepath.Abs(localPath)
	if err != nil {
		return types.RegisteredModel{}, err
	}

	container := armmachinelearning.ModelContainer{
		Properties: &armmachinelearning.ModelContainerProperties{
			Description: to.Ptr(description),
		},
	}
	if _, err := r.containers.CreateOrUpdate(ctx, r.ws.ResourceGroup, r.ws.WorkspaceName, name, container, nil); err != nil {
		return types.RegisteredModel{}, transportError{op: "create model container", err: err}
	}

	version, err := r.nextVersion(ctx, name)
	if err != nil {
		return types.RegisteredModel{}, err
	}

	body := armmachinelearning.ModelVersion{
		Properties: &armmachinelearning.ModelVersionProperties{
			ModelType:   to.Ptr(modelType),
			ModelURI:    to.Ptr("file://" + abs),
			Description: to.Ptr(description),
		},
	}
	resp, err := r.versions.CreateOrUpdate(ctx, r.ws.ResourceGroup, r.ws.WorkspaceName, name, version, body, nil)
	if err != nil {
		return types.RegisteredModel{}, transportError{op: "create model version", err: err}
	}

	registered := types.RegisteredModel{Name: name, Version: version}
	if resp.ID != nil {
		registered.ID = *resp.ID
	}
	return registered, nil
}

// nextVersion resolves the version to write: latest+1, or 1 for a container
// that has no versions yet. The control plane requires an explicit version
// where the data-plane SDKs assign one server-side.
func (r *Registrar) nextVersion(ctx context.Context, name string) (string, error) {
	resp, err := r.containers.Get(ctx, r.ws.ResourceGroup, r.ws.WorkspaceName, name, nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
			return "1", nil
		}
		return "", transportError{op: "get model container", err: err}
	}
	if resp.Properties == nil || resp.Properties.LatestVersion == nil {
		return "1", nil
	}
	return bumpVersion(*resp.Properties.LatestVersion), nil
}

// bumpVersion increments a numeric version string; anything unparsable
// restarts at 1.
func bumpVersion(latest string) string {
	n, err := strconv.Atoi(latest)
	if err != nil || n < 0 {
		return "1"
	}
	return strconv.Itoa(n + 1)
}
