package validator

import (
	"github.com/wenboyang214/webapps-deploy/internal/pipeline/types"
)

type SpnLinuxWebAppValidator struct{}

func NewSpnLinuxWebAppValidator() *SpnLinuxWebAppValidator {
	return &SpnLinuxWebAppValidator{}
}

func (v *SpnLinuxWebAppValidator) Validate(params types.ActionParams) error {
	if err := containerInputsNotAllowed(params); err != nil {
		return err
	}
	return validatePackageInput(params.PackageInput)
}

type SpnWindowsWebAppValidator struct{}

func NewSpnWindowsWebAppValidator() *SpnWindowsWebAppValidator {
	return &SpnWindowsWebAppValidator{}
}

func (v *SpnWindowsWebAppValidator) Validate(params types.ActionParams) error {
	if err := containerInputsNotAllowed(params); err != nil {
		return err
	}

	if err := startupCommandNotAllowed(params.StartupCommand); err != nil {
		return err
	}

	return validatePackageInput(params.PackageInput)
}

type SpnLinuxContainerWebAppValidator struct{}

func NewSpnLinuxContainerWebAppValidator() *SpnLinuxContainerWebAppValidator {
	return &SpnLinuxContainerWebAppValidator{}
}

func (v *SpnLinuxContainerWebAppValidator) Validate(params types.ActionParams) error {
	if err := packageNotAllowed(params.PackageInput); err != nil {
		return err
	}
	return validateContainerInputs(params)
}

type SpnWindowsContainerWebAppValidator struct{}

func NewSpnWindowsContainerWebAppValidator() *SpnWindowsContainerWebAppValidator {
	return &SpnWindowsContainerWebAppValidator{}
}

func (v *SpnWindowsContainerWebAppValidator) Validate(params types.ActionParams) error {
	if err := packageNotAllowed(params.PackageInput); err != nil {
		return err
	}

	if err := startupCommandNotAllowed(params.StartupCommand); err != nil {
		return err
	}

	if err := multiContainerNotAllowed(params); err != nil {
		return err
	}

	return validateContainerInputs(params)
}
