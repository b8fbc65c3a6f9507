package pipeline

import (
	"context"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"go.uber.org/zap"

	"github.com/wenboyang214/webapps-deploy/internal/pipeline/types"
)

// DetectCredentialType decides how the action authenticates. A publish
// profile input always wins; otherwise the endpoint credential must be able
// to get a resource manager token.
func DetectCredentialType(ctx context.Context, params types.ActionParams, logger *zap.Logger) types.CredentialType {
	if strings.TrimSpace(params.PublishProfileContent) != "" {
		return types.CredentialPublishProfile
	}

	if params.Endpoint == nil || params.Endpoint.Credential == nil {
		logger.Warn("no publish profile and no azure credential available")
		return types.CredentialUnknown
	}

	_, err := params.Endpoint.Credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{params.Endpoint.Scope()},
	})
	if err != nil {
		logger.Warn("azure credential could not get a resource manager token", zap.Error(err))
		return types.CredentialUnknown
	}

	return types.CredentialServicePrincipal
}
