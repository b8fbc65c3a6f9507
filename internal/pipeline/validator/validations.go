package validator

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/distribution/reference"

	pipelineconfig "github.com/wenboyang214/webapps-deploy/internal/pipeline/config"
	"github.com/wenboyang214/webapps-deploy/internal/pipeline/types"
	"github.com/wenboyang214/webapps-deploy/internal/publishprofile"
)

var (
	ErrAppNameRequired    = errors.New("app-name is a required input")
	ErrNoCredentials      = errors.New("valid credentials are not available: add an Azure login step before this action or provide the publish-profile input")
	ErrUnsupportedKind    = errors.New("action does not support app service with kind")
	ErrContainerInputs    = errors.New("this is not a container web app: remove inputs like images and configuration-file which are only valid for container web apps")
	ErrStartupCommand     = errors.New("startup-command is not a valid input for Windows web app or with publish-profile auth scheme")
	ErrPackageNotAllowed  = errors.New("package is not a valid input for container web app")
	ErrPackageNotFound    = errors.New("no package found with specified pattern")
	ErrMultiplePackages   = errors.New("more than one package matched with specified pattern, restrain the search pattern")
	ErrMSBuildPackage     = errors.New("MSBuild generated package is not supported, change the package input to the folder or zip with the app content")
	ErrProfileMismatch    = errors.New("publish profile is invalid for app-name and slot-name provided, provide correct publish profile credentials for the app")
	ErrImageRequired      = errors.New("image name not provided for container, provide a valid image name")
	ErrConfigFileRequired = errors.New("multiple images indicate multi-container deployment type, but configuration-file is absent")
	ErrConfigFileNotFound = errors.New("configuration-file does not exist")
	ErrMultiContainer     = errors.New("multi-container support is not available for windows containerized web app")
)

func appNameIsRequired(appName string) error {
	if appName == "" {
		return ErrAppNameRequired
	}
	return nil
}

func containerInputsNotAllowed(params types.ActionParams) error {
	if len(params.Images) > 0 || params.MultiContainerConfigFile != "" {
		return ErrContainerInputs
	}
	return nil
}

func startupCommandNotAllowed(startupCommand string) error {
	if startupCommand != "" {
		return ErrStartupCommand
	}
	return nil
}

// packageNotAllowed accepts the input default, which the runner fills in
// even when the workflow never set it.
func packageNotAllowed(packageInput string) error {
	if packageInput != "" && packageInput != pipelineconfig.DefaultPackage {
		return ErrPackageNotAllowed
	}
	return nil
}

func validatePackageInput(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("%w: %q", ErrPackageNotFound, pattern)
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return fmt.Errorf("invalid package pattern %s: %w", pattern, err)
	}
	switch len(matches) {
	case 0:
		return fmt.Errorf("%w: %s", ErrPackageNotFound, pattern)
	case 1:
	default:
		return fmt.Errorf("%w: %s", ErrMultiplePackages, pattern)
	}

	isMSBuild, err := isMSBuildPackage(matches[0])
	if err != nil {
		return err
	}
	if isMSBuild {
		return fmt.Errorf("%w: %s", ErrMSBuildPackage, matches[0])
	}
	return nil
}

// isMSBuildPackage reports whether path is a web deploy zip, recognised by
// the parameters.xml and systemInfo.xml entries msbuild writes at its root.
func isMSBuildPackage(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return false, fmt.Errorf("failed to open package %s: %w", path, err)
	}
	defer r.Close()

	var hasParameters, hasSystemInfo bool
	for _, f := range r.File {
		switch strings.ToLower(f.Name) {
		case "parameters.xml":
			hasParameters = true
		case "systeminfo.xml":
			hasSystemInfo = true
		}
	}
	return hasParameters && hasSystemInfo, nil
}

// validateAppDetails makes sure a publish profile belongs to the app and slot
// named in the inputs. Profile user names look like "$app" or "$app__slot";
// kube apps drop the leading "$".
func validateAppDetails(params types.ActionParams) error {
	if params.AppName == "" && isProductionSlot(params.SlotName) {
		return nil
	}

	profile, err := publishprofile.Parse(params.PublishProfileContent)
	if err != nil {
		return err
	}

	username := strings.ToUpper(strings.TrimPrefix(profile.Credentials().Username, "$"))
	parts := strings.Split(username, "__")

	profileSlot := "PRODUCTION"
	if len(parts) > 1 {
		profileSlot = parts[1]
	}

	appNameMatch := params.AppName == "" || strings.ToUpper(params.AppName) == parts[0]
	slotNameMatch := isProductionSlot(params.SlotName) || strings.ToUpper(params.SlotName) == profileSlot
	if !appNameMatch || !slotNameMatch {
		return ErrProfileMismatch
	}
	return nil
}

func isProductionSlot(slotName string) bool {
	return slotName == "" || strings.EqualFold(slotName, pipelineconfig.DefaultSlotName)
}

func validateContainerInputs(params types.ActionParams) error {
	if len(params.Images) == 0 {
		return ErrImageRequired
	}

	for _, image := range params.Images {
		if _, err := reference.ParseNormalizedNamed(image); err != nil {
			return fmt.Errorf("invalid image %s: %w", image, err)
		}
	}

	if len(params.Images) > 1 && params.MultiContainerConfigFile == "" {
		return ErrConfigFileRequired
	}

	if params.MultiContainerConfigFile != "" {
		if _, err := os.Stat(params.MultiContainerConfigFile); err != nil {
			return fmt.Errorf("%w: %s", ErrConfigFileNotFound, params.MultiContainerConfigFile)
		}
	}
	return nil
}

func multiContainerNotAllowed(params types.ActionParams) error {
	if params.MultiContainerConfigFile != "" || len(params.Images) > 1 {
		return ErrMultiContainer
	}
	return nil
}
