package publishprofile

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const profileTemplate = `<publishData>
  <publishProfile profileName="my-app - Web Deploy" publishMethod="MSDeploy" publishUrl="%s" msdeploySite="my-app" userName="$my-app" userPWD="secret" destinationAppUrl="https://my-app.azurewebsites.net" />
  <publishProfile profileName="my-app - FTP" publishMethod="FTP" publishUrl="ftp://waws.ftp.azurewebsites.windows.net/site/wwwroot" userName="my-app\$my-app" userPWD="secret" />
</publishData>`

func newProfileContent(publishURL string) string {
	return fmt.Sprintf(profileTemplate, publishURL)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantErr  error
		validate func(*testing.T, *Profile)
	}{
		{
			name:    "msdeploy profile",
			content: newProfileContent("my-app.scm.azurewebsites.net:443"),
			validate: func(t *testing.T, p *Profile) {
				creds := p.Credentials()
				assert.Equal(t, "https://my-app.scm.azurewebsites.net", creds.ScmURL)
				assert.Equal(t, "$my-app", creds.Username)
				assert.Equal(t, "secret", creds.Password)
				assert.Equal(t, "https://my-app.azurewebsites.net", p.AppURL())
			},
		},
		{
			name:    "publish url with scheme and custom port",
			content: newProfileContent("https://my-app.scm.example.com:8443/"),
			validate: func(t *testing.T, p *Profile) {
				assert.Equal(t, "https://my-app.scm.example.com:8443", p.Credentials().ScmURL)
			},
		},
		{
			name:    "empty content",
			content: "  ",
			wantErr: ErrEmptyProfile,
		},
		{
			name:    "no msdeploy profile",
			content: `<publishData><publishProfile publishMethod="FTP" publishUrl="ftp://x" /></publishData>`,
			wantErr: ErrMSDeployProfileNotFound,
		},
		{
			name:    "missing publish url",
			content: newProfileContent(""),
			wantErr: ErrKuduURLMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := Parse(tt.content)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validate(t, profile)
		})
	}
}

func TestParse_InvalidXML(t *testing.T) {
	_, err := Parse("<publishData><publishProfile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse publish profile")
}

func TestParser_GetAppOS(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantOS   string
		validate func(*testing.T, error)
	}{
		{
			name:   "linux app",
			status: http.StatusOK,
			body:   `{"system":{"os_name":"Unix","cpu_count":2}}`,
			wantOS: "Unix",
		},
		{
			name:   "windows app",
			status: http.StatusOK,
			body:   `{"system":{"os_name":"Microsoft Windows NT 10.0.14393.0"}}`,
			wantOS: "Microsoft Windows NT 10.0.14393.0",
		},
		{
			name:   "kudu rejects credentials",
			status: http.StatusUnauthorized,
			body:   `unauthorized`,
			validate: func(t *testing.T, err error) {
				var respErr *azcore.ResponseError
				require.True(t, errors.As(err, &respErr))
				assert.Equal(t, http.StatusUnauthorized, respErr.StatusCode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests int
			srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests++
				assert.Equal(t, runtimePath, r.URL.Path)
				user, pass, ok := r.BasicAuth()
				assert.True(t, ok)
				assert.Equal(t, "$my-app", user)
				assert.Equal(t, "secret", pass)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			parser := NewParser(&policy.ClientOptions{
				Transport: srv.Client(),
				Retry:     policy.RetryOptions{MaxRetries: -1},
			}, zap.NewNop())

			content := newProfileContent(strings.TrimPrefix(srv.URL, "https://"))
			appOS, err := parser.GetAppOS(context.Background(), content)

			assert.Equal(t, 1, requests)
			if tt.validate != nil {
				require.Error(t, err)
				tt.validate(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOS, appOS)
		})
	}
}

func TestParser_GetAppOS_InvalidProfile(t *testing.T) {
	parser := NewParser(nil, zap.NewNop())

	_, err := parser.GetAppOS(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyProfile)
}
