package validator

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wenboyang214/webapps-deploy/internal/azure"
	"github.com/wenboyang214/webapps-deploy/internal/pipeline/types"
)

const unixOS = "Unix"

// AppDetailsLookup resolves an App Service resource by name.
type AppDetailsLookup interface {
	GetAppDetails(ctx context.Context, endpoint *azure.Endpoint, appName string) (*azure.AppDetails, error)
}

// PublishProfileParser reports the OS of the app a publish profile targets.
type PublishProfileParser interface {
	GetAppOS(ctx context.Context, publishProfileContent string) (string, error)
}

type FactoryInterface interface {
	GetValidator(ctx context.Context, credentialType types.CredentialType, params types.ActionParams) (Validator, types.ActionParams, error)
}

var publishProfileValidators = map[bool]func() Validator{
	false: func() Validator { return NewPublishProfileWebAppValidator() },
	true:  func() Validator { return NewPublishProfileContainerWebAppValidator() },
}

var spnValidators = map[types.WebAppKind]func() Validator{
	types.KindLinux:            func() Validator { return NewSpnLinuxWebAppValidator() },
	types.KindWindows:          func() Validator { return NewSpnWindowsWebAppValidator() },
	types.KindLinuxContainer:   func() Validator { return NewSpnLinuxContainerWebAppValidator() },
	types.KindWindowsContainer: func() Validator { return NewSpnWindowsContainerWebAppValidator() },
}

type Factory struct {
	lookup AppDetailsLookup
	parser PublishProfileParser
	logger *zap.Logger
}

func NewValidatorFactory(lookup AppDetailsLookup, parser PublishProfileParser, logger *zap.Logger) *Factory {
	return &Factory{
		lookup: lookup,
		parser: parser,
		logger: logger,
	}
}

// GetValidator picks the validator for the credential type and target app.
// It returns params with ResourceGroupName, RealKind, Kind and IsLinux
// resolved; the input is never modified. Errors from the resource lookup and
// the publish profile parser are returned as is.
func (f *Factory) GetValidator(ctx context.Context, credentialType types.CredentialType, params types.ActionParams) (Validator, types.ActionParams, error) {
	switch credentialType {
	case types.CredentialPublishProfile:
		resolved, err := f.setResourceDetails(ctx, params)
		if err != nil {
			return nil, params, err
		}

		// Only container vs code matters here, the OS is carried in IsLinux.
		newValidator := publishProfileValidators[len(resolved.Images) > 0]
		return newValidator(), resolved, nil

	case types.CredentialServicePrincipal:
		if err := appNameIsRequired(params.AppName); err != nil {
			return nil, params, err
		}

		resolved, err := f.getResourceDetails(ctx, params)
		if err != nil {
			return nil, params, err
		}

		newValidator, ok := spnValidators[resolved.Kind]
		if !ok {
			return nil, params, fmt.Errorf("%w %s", ErrUnsupportedKind, resolved.RealKind)
		}
		return newValidator(), resolved, nil

	default:
		return nil, params, ErrNoCredentials
	}
}

func (f *Factory) getResourceDetails(ctx context.Context, params types.ActionParams) (types.ActionParams, error) {
	details, err := f.lookup.GetAppDetails(ctx, params.Endpoint, params.AppName)
	if err != nil {
		return params, err
	}

	params.ResourceGroupName = details.ResourceGroupName
	params.RealKind = details.Kind
	params.Kind, _ = types.KindFromString(params.RealKind)
	// Kinds come back lower case from the resource provider.
	params.IsLinux = strings.Contains(params.RealKind, "linux")

	f.logger.Info("resolved app service details",
		zap.String("app", params.AppName),
		zap.String("resource_group", params.ResourceGroupName),
		zap.String("kind", params.RealKind),
		zap.Bool("linux", params.IsLinux))

	return params, nil
}

func (f *Factory) setResourceDetails(ctx context.Context, params types.ActionParams) (types.ActionParams, error) {
	appOS, err := f.parser.GetAppOS(ctx, params.PublishProfileContent)
	if err != nil {
		return params, err
	}

	params.IsLinux = strings.Contains(appOS, unixOS) || strings.Contains(appOS, strings.ToLower(unixOS))

	f.logger.Info("resolved app os from publish profile",
		zap.String("os", appOS),
		zap.Bool("linux", params.IsLinux))

	return params, nil
}
