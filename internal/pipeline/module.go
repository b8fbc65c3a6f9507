package pipeline

import (
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/wenboyang214/webapps-deploy/internal/azure"
	appconfig "github.com/wenboyang214/webapps-deploy/internal/config"
	"github.com/wenboyang214/webapps-deploy/internal/pipeline/validator"
	"github.com/wenboyang214/webapps-deploy/internal/publishprofile"
)

func Module() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(cfg *appconfig.AppConfig) *policy.ClientOptions {
					return &policy.ClientOptions{
						Retry: policy.RetryOptions{MaxRetries: cfg.Azure.MaxRetries},
					}
				},
			),
			fx.Annotate(
				func(cfg *appconfig.AppConfig, logger *zap.Logger) *azure.Endpoint {
					return NewEndpoint(cfg, logger)
				},
			),
			fx.Annotate(
				func(options *policy.ClientOptions, logger *zap.Logger) validator.AppDetailsLookup {
					return azure.NewResourceLookup(options, logger)
				},
			),
			fx.Annotate(
				func(options *policy.ClientOptions, logger *zap.Logger) validator.PublishProfileParser {
					return publishprofile.NewParser(options, logger)
				},
			),
			fx.Annotate(
				func(
					lookup validator.AppDetailsLookup,
					parser validator.PublishProfileParser,
					logger *zap.Logger,
				) validator.FactoryInterface {
					return validator.NewValidatorFactory(lookup, parser, logger)
				},
			),
			fx.Annotate(
				func(
					cfg *appconfig.AppConfig,
					endpoint *azure.Endpoint,
					factory validator.FactoryInterface,
					logger *zap.Logger,
				) *Pipeline {
					return NewPipeline(&cfg.Inputs, endpoint, factory, logger)
				},
			),
		),
	)
}

// NewEndpoint builds the resource manager endpoint from config. With a
// publish profile input no Azure credential is created; a credential that
// cannot be built leaves the endpoint without one and detection reports no
// credentials.
func NewEndpoint(cfg *appconfig.AppConfig, logger *zap.Logger) *azure.Endpoint {
	endpoint := &azure.Endpoint{
		SubscriptionID:     cfg.Azure.SubscriptionID,
		ResourceManagerURL: cfg.Azure.ResourceManagerURL,
		Audience:           cfg.Azure.Audience,
	}
	if cfg.Inputs.PublishProfile != "" {
		return endpoint
	}

	cred, err := azure.NewCredential(cfg.Azure.TenantID)
	if err != nil {
		logger.Warn("azure credential unavailable", zap.Error(err))
		return endpoint
	}
	endpoint.Credential = cred
	return endpoint
}
