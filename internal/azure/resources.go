package azure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"go.uber.org/zap"
)

const (
	moduleName    = "webapps-deploy/azure"
	moduleVersion = "v0.1.0"

	webAppResourceType  = "Microsoft.Web/Sites"
	resourcesAPIVersion = "2016-07-01"
)

var (
	ErrResourceNotFound       = errors.New("resource doesn't exist")
	ErrMultipleResourceGroups = errors.New("multiple resource groups found for app service")
	ErrEndpointRequired       = errors.New("azure endpoint is required")
)

// AppDetails is the subset of an App Service resource needed to pick a validator.
type AppDetails struct {
	ResourceGroupName string
	Kind              string
}

type genericResource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Kind string `json:"kind"`
}

type resourceListResult struct {
	Value    []genericResource `json:"value"`
	NextLink string            `json:"nextLink"`
}

// ResourceLookup finds App Service resources in a subscription through the
// resource manager "resources" listing API.
type ResourceLookup struct {
	options *policy.ClientOptions
	logger  *zap.Logger
}

func NewResourceLookup(options *policy.ClientOptions, logger *zap.Logger) *ResourceLookup {
	if options == nil {
		options = &policy.ClientOptions{}
	}
	return &ResourceLookup{
		options: options,
		logger:  logger,
	}
}

// GetAppDetails resolves the resource group and raw kind of the web app named appName.
func (l *ResourceLookup) GetAppDetails(ctx context.Context, endpoint *Endpoint, appName string) (*AppDetails, error) {
	if endpoint == nil || endpoint.Credential == nil {
		return nil, ErrEndpointRequired
	}

	resources, err := l.listResources(ctx, endpoint, webAppResourceType, appName)
	if err != nil {
		return nil, err
	}

	switch len(resources) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, appName)
	case 1:
	default:
		return nil, fmt.Errorf("%w: %s", ErrMultipleResourceGroups, appName)
	}

	resourceGroup, err := resourceGroupFromID(resources[0].ID)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("resolved app service",
		zap.String("app", appName),
		zap.String("resource_group", resourceGroup),
		zap.String("kind", resources[0].Kind))

	return &AppDetails{
		ResourceGroupName: resourceGroup,
		Kind:              resources[0].Kind,
	}, nil
}

func (l *ResourceLookup) listResources(ctx context.Context, endpoint *Endpoint, resourceType, name string) ([]genericResource, error) {
	pl := runtime.NewPipeline(moduleName, moduleVersion, runtime.PipelineOptions{
		PerRetry: []policy.Policy{
			runtime.NewBearerTokenPolicy(endpoint.Credential, []string{endpoint.Scope()}, nil),
		},
	}, l.options)

	query := url.Values{}
	query.Set("$filter", fmt.Sprintf("resourceType EQ '%s' AND name EQ '%s'", resourceType, name))
	query.Set("api-version", resourcesAPIVersion)
	nextURL := fmt.Sprintf("%s/subscriptions/%s/resources?%s",
		endpoint.baseURL(), url.PathEscape(endpoint.SubscriptionID), query.Encode())

	var resources []genericResource
	for nextURL != "" {
		req, err := runtime.NewRequest(ctx, http.MethodGet, nextURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create resources request: %w", err)
		}
		req.Raw().Header.Set("Accept", "application/json")

		resp, err := pl.Do(req)
		if err != nil {
			return nil, err
		}
		if !runtime.HasStatusCode(resp, http.StatusOK) {
			return nil, runtime.NewResponseError(resp)
		}

		var page resourceListResult
		if err := runtime.UnmarshalAsJSON(resp, &page); err != nil {
			return nil, fmt.Errorf("failed to decode resources response: %w", err)
		}
		resources = append(resources, page.Value...)
		nextURL = page.NextLink
	}

	return resources, nil
}

// resourceGroupFromID extracts the resource group from an id of the form
// /subscriptions/{sub}/resourceGroups/{rg}/providers/...
func resourceGroupFromID(id string) (string, error) {
	parts := strings.Split(id, "/")
	if len(parts) < 5 || !strings.EqualFold(parts[3], "resourceGroups") || parts[4] == "" {
		return "", fmt.Errorf("unexpected resource id: %s", id)
	}
	return parts[4], nil
}
