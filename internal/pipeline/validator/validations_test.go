package validator

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wenboyang214/webapps-deploy/internal/pipeline/types"
)

const testProfile = `<publishData>
  <publishProfile publishMethod="MSDeploy" publishUrl="my-app__staging.scm.azurewebsites.net:443" userName="$my-app__staging" userPWD="secret" />
</publishData>`

func writeTestFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeTestZip(t *testing.T, dir, name string, entries ...string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for _, entry := range entries {
		fw, err := w.Create(entry)
		require.NoError(t, err)
		_, err = fw.Write([]byte("<xml />"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func TestValidatePackageInput(t *testing.T) {
	dir := t.TempDir()
	appZip := writeTestZip(t, dir, "app.zip", "index.html")
	writeTestZip(t, dir, "nested/other.zip")
	msbuildZip := writeTestZip(t, t.TempDir(), "site.zip", "parameters.xml", "systemInfo.xml", "Content/index.html")

	tests := []struct {
		name    string
		pattern string
		wantErr error
	}{
		{name: "existing folder", pattern: dir},
		{name: "existing zip", pattern: appZip},
		{name: "glob with single match", pattern: filepath.Join(dir, "*.zip")},
		{name: "empty pattern", pattern: "", wantErr: ErrPackageNotFound},
		{name: "no match", pattern: filepath.Join(dir, "*.war"), wantErr: ErrPackageNotFound},
		{name: "multiple matches", pattern: filepath.Join(dir, "**", "*.zip"), wantErr: ErrMultiplePackages},
		{name: "msbuild package", pattern: msbuildZip, wantErr: ErrMSBuildPackage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePackageInput(tt.pattern)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateAppDetails(t *testing.T) {
	tests := []struct {
		name     string
		appName  string
		slotName string
		profile  string
		wantErr  error
	}{
		{name: "no app name on production skips the profile", slotName: "production", profile: "not xml"},
		{name: "matching app and slot", appName: "my-app", slotName: "staging", profile: testProfile},
		{name: "matching app case insensitive", appName: "MY-APP", slotName: "Staging", profile: testProfile},
		{name: "production always matches the slot", appName: "my-app", slotName: "production", profile: testProfile},
		{name: "other app", appName: "other-app", slotName: "staging", profile: testProfile, wantErr: ErrProfileMismatch},
		{name: "other slot", appName: "my-app", slotName: "qa", profile: testProfile, wantErr: ErrProfileMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAppDetails(types.ActionParams{
				AppName:               tt.appName,
				SlotName:              tt.slotName,
				PublishProfileContent: tt.profile,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateContainerInputs(t *testing.T) {
	composeFile := writeTestFile(t, t.TempDir(), "docker-compose.yml", "services: {}")

	tests := []struct {
		name    string
		params  types.ActionParams
		wantErr error
		errText string
	}{
		{name: "single image", params: types.ActionParams{Images: []string{"repo/image:tag"}}},
		{name: "registry image", params: types.ActionParams{Images: []string{"myregistry.azurecr.io/web/app@sha256:" + sha}}},
		{name: "multi container", params: types.ActionParams{Images: []string{"nginx", "redis:7"}, MultiContainerConfigFile: composeFile}},
		{name: "no images", params: types.ActionParams{}, wantErr: ErrImageRequired},
		{name: "invalid image", params: types.ActionParams{Images: []string{"Repo/Image:tag"}}, errText: "invalid image Repo/Image:tag"},
		{name: "multiple images without config", params: types.ActionParams{Images: []string{"nginx", "redis"}}, wantErr: ErrConfigFileRequired},
		{name: "missing config file", params: types.ActionParams{Images: []string{"nginx"}, MultiContainerConfigFile: "/does/not/exist.yml"}, wantErr: ErrConfigFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContainerInputs(tt.params)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errText)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

const sha = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

func TestValidators_Validate(t *testing.T) {
	packageDir := t.TempDir()
	composeFile := writeTestFile(t, t.TempDir(), "docker-compose.yml", "services: {}")

	codeParams := func(mod func(*types.ActionParams)) types.ActionParams {
		p := types.ActionParams{AppName: "my-app", SlotName: "staging", PackageInput: packageDir, PublishProfileContent: testProfile}
		if mod != nil {
			mod(&p)
		}
		return p
	}
	containerParams := func(mod func(*types.ActionParams)) types.ActionParams {
		p := types.ActionParams{AppName: "my-app", SlotName: "staging", PackageInput: ".", Images: []string{"nginx:latest"}, PublishProfileContent: testProfile, IsLinux: true}
		if mod != nil {
			mod(&p)
		}
		return p
	}

	tests := []struct {
		name      string
		validator Validator
		params    types.ActionParams
		wantErr   error
	}{
		// publish profile, code
		{name: "pp web app valid", validator: NewPublishProfileWebAppValidator(), params: codeParams(nil)},
		{name: "pp web app rejects images", validator: NewPublishProfileWebAppValidator(),
			params: codeParams(func(p *types.ActionParams) { p.Images = []string{"nginx"} }), wantErr: ErrContainerInputs},
		{name: "pp web app rejects startup command", validator: NewPublishProfileWebAppValidator(),
			params: codeParams(func(p *types.ActionParams) { p.StartupCommand = "npm start" }), wantErr: ErrStartupCommand},
		{name: "pp web app rejects foreign profile", validator: NewPublishProfileWebAppValidator(),
			params: codeParams(func(p *types.ActionParams) { p.AppName = "other" }), wantErr: ErrProfileMismatch},
		{name: "pp web app requires package", validator: NewPublishProfileWebAppValidator(),
			params: codeParams(func(p *types.ActionParams) { p.PackageInput = filepath.Join(packageDir, "missing.zip") }), wantErr: ErrPackageNotFound},

		// publish profile, container
		{name: "pp container valid", validator: NewPublishProfileContainerWebAppValidator(), params: containerParams(nil)},
		{name: "pp container rejects package", validator: NewPublishProfileContainerWebAppValidator(),
			params: containerParams(func(p *types.ActionParams) { p.PackageInput = "app.zip" }), wantErr: ErrPackageNotAllowed},
		{name: "pp container multi container on linux", validator: NewPublishProfileContainerWebAppValidator(),
			params: containerParams(func(p *types.ActionParams) {
				p.Images = []string{"nginx", "redis"}
				p.MultiContainerConfigFile = composeFile
			})},
		{name: "pp container multi container on windows", validator: NewPublishProfileContainerWebAppValidator(),
			params: containerParams(func(p *types.ActionParams) {
				p.IsLinux = false
				p.Images = []string{"nginx", "redis"}
				p.MultiContainerConfigFile = composeFile
			}), wantErr: ErrMultiContainer},

		// service principal, code
		{name: "spn linux valid with startup command", validator: NewSpnLinuxWebAppValidator(),
			params: codeParams(func(p *types.ActionParams) { p.StartupCommand = "npm start" })},
		{name: "spn linux rejects config file", validator: NewSpnLinuxWebAppValidator(),
			params: codeParams(func(p *types.ActionParams) { p.MultiContainerConfigFile = composeFile }), wantErr: ErrContainerInputs},
		{name: "spn windows valid", validator: NewSpnWindowsWebAppValidator(), params: codeParams(nil)},
		{name: "spn windows rejects startup command", validator: NewSpnWindowsWebAppValidator(),
			params: codeParams(func(p *types.ActionParams) { p.StartupCommand = "run.cmd" }), wantErr: ErrStartupCommand},

		// service principal, container
		{name: "spn linux container valid", validator: NewSpnLinuxContainerWebAppValidator(),
			params: containerParams(func(p *types.ActionParams) { p.StartupCommand = "nginx -g 'daemon off;'" })},
		{name: "spn linux container requires image", validator: NewSpnLinuxContainerWebAppValidator(),
			params: containerParams(func(p *types.ActionParams) { p.Images = nil }), wantErr: ErrImageRequired},
		{name: "spn windows container valid", validator: NewSpnWindowsContainerWebAppValidator(), params: containerParams(nil)},
		{name: "spn windows container rejects multi container", validator: NewSpnWindowsContainerWebAppValidator(),
			params: containerParams(func(p *types.ActionParams) { p.MultiContainerConfigFile = composeFile }), wantErr: ErrMultiContainer},
		{name: "spn windows container rejects startup command", validator: NewSpnWindowsContainerWebAppValidator(),
			params: containerParams(func(p *types.ActionParams) { p.StartupCommand = "run.cmd" }), wantErr: ErrStartupCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validator.Validate(tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
