package azure

import (
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

const (
	DefaultResourceManagerURL = "https://management.azure.com"
	DefaultAudience           = "https://management.azure.com"
)

// Endpoint identifies the subscription a service principal deploys into and
// the credential used to call Azure Resource Manager on its behalf.
type Endpoint struct {
	SubscriptionID     string
	ResourceManagerURL string
	Audience           string
	Credential         azcore.TokenCredential
}

// Scope returns the token scope for the resource manager audience.
func (e *Endpoint) Scope() string {
	audience := e.Audience
	if audience == "" {
		audience = DefaultAudience
	}
	return strings.TrimSuffix(audience, "/") + "/.default"
}

func (e *Endpoint) baseURL() string {
	if e.ResourceManagerURL == "" {
		return DefaultResourceManagerURL
	}
	return strings.TrimSuffix(e.ResourceManagerURL, "/")
}

// NewCredential builds the credential chain used when no publish profile is
// supplied: environment service principal, workload identity, managed
// identity and finally an Azure CLI login.
func NewCredential(tenantID string) (azcore.TokenCredential, error) {
	cred, err := azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
		TenantID: tenantID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create azure credential: %w", err)
	}
	return cred, nil
}
