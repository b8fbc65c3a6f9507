package validator

import (
	"github.com/wenboyang214/webapps-deploy/internal/pipeline/types"
)

// PublishProfileWebAppValidator validates code deployments authenticated
// with a publish profile, on either OS.
type PublishProfileWebAppValidator struct{}

func NewPublishProfileWebAppValidator() *PublishProfileWebAppValidator {
	return &PublishProfileWebAppValidator{}
}

func (v *PublishProfileWebAppValidator) Validate(params types.ActionParams) error {
	if err := containerInputsNotAllowed(params); err != nil {
		return err
	}

	if err := validateAppDetails(params); err != nil {
		return err
	}

	if err := startupCommandNotAllowed(params.StartupCommand); err != nil {
		return err
	}

	return validatePackageInput(params.PackageInput)
}

// PublishProfileContainerWebAppValidator validates container deployments
// authenticated with a publish profile.
type PublishProfileContainerWebAppValidator struct{}

func NewPublishProfileContainerWebAppValidator() *PublishProfileContainerWebAppValidator {
	return &PublishProfileContainerWebAppValidator{}
}

func (v *PublishProfileContainerWebAppValidator) Validate(params types.ActionParams) error {
	if err := packageNotAllowed(params.PackageInput); err != nil {
		return err
	}

	if err := startupCommandNotAllowed(params.StartupCommand); err != nil {
		return err
	}

	if err := validateAppDetails(params); err != nil {
		return err
	}

	// IsLinux comes from the Kudu runtime lookup done during selection.
	if !params.IsLinux {
		if err := multiContainerNotAllowed(params); err != nil {
			return err
		}
	}

	return validateContainerInputs(params)
}
