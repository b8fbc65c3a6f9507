package publishprofile

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"go.uber.org/zap"
)

const (
	moduleName    = "webapps-deploy/publishprofile"
	moduleVersion = "v0.1.0"

	msDeployMethod = "MSDeploy"
	runtimePath    = "/diagnostics/runtime"
)

var (
	ErrEmptyProfile            = errors.New("publish profile content is empty")
	ErrMSDeployProfileNotFound = errors.New("publish profile does not contain an MSDeploy profile")
	ErrKuduURLMissing          = errors.New("publish profile does not contain kudu URL")
)

type publishData struct {
	XMLName  xml.Name        `xml:"publishData"`
	Profiles []profileDetail `xml:"publishProfile"`
}

type profileDetail struct {
	PublishMethod     string `xml:"publishMethod,attr"`
	PublishURL        string `xml:"publishUrl,attr"`
	UserName          string `xml:"userName,attr"`
	UserPWD           string `xml:"userPWD,attr"`
	DestinationAppURL string `xml:"destinationAppUrl,attr"`
}

// Credentials are the Kudu (SCM) credentials embedded in a publish profile.
type Credentials struct {
	ScmURL   string
	Username string
	Password string
}

type runtimeDetails struct {
	System struct {
		OSName string `json:"os_name"`
	} `json:"system"`
}

// Profile is a parsed publish profile able to query the Kudu site it points at.
type Profile struct {
	creds   Credentials
	appURL  string
	options *policy.ClientOptions
	logger  *zap.Logger
}

// Parse reads the MSDeploy entry of a publish settings document without
// touching the network.
func Parse(content string) (*Profile, error) {
	return parse(content, nil, zap.NewNop())
}

func parse(content string, options *policy.ClientOptions, logger *zap.Logger) (*Profile, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyProfile
	}

	var data publishData
	if err := xml.Unmarshal([]byte(content), &data); err != nil {
		return nil, fmt.Errorf("failed to parse publish profile: %w", err)
	}

	var detail *profileDetail
	for i := range data.Profiles {
		if data.Profiles[i].PublishMethod == msDeployMethod {
			detail = &data.Profiles[i]
			break
		}
	}
	if detail == nil {
		return nil, ErrMSDeployProfileNotFound
	}

	scmURL, err := scmURLFromPublishURL(detail.PublishURL)
	if err != nil {
		return nil, err
	}

	if options == nil {
		options = &policy.ClientOptions{}
	}
	return &Profile{
		creds: Credentials{
			ScmURL:   scmURL,
			Username: detail.UserName,
			Password: detail.UserPWD,
		},
		appURL:  detail.DestinationAppURL,
		options: options,
		logger:  logger,
	}, nil
}

// publishUrl is "host:port" or sometimes a full URL. Kudu is served over https;
// the default port is dropped.
func scmURLFromPublishURL(publishURL string) (string, error) {
	hostPort := strings.TrimSpace(publishURL)
	hostPort = strings.TrimPrefix(hostPort, "https://")
	hostPort = strings.TrimPrefix(hostPort, "http://")
	if i := strings.Index(hostPort, "/"); i >= 0 {
		hostPort = hostPort[:i]
	}

	host, port := hostPort, ""
	if h, p, err := net.SplitHostPort(hostPort); err == nil {
		host, port = h, p
	}
	if host == "" {
		return "", ErrKuduURLMissing
	}
	if port == "" || port == "443" {
		return "https://" + host, nil
	}
	return "https://" + net.JoinHostPort(host, port), nil
}

func (p *Profile) Credentials() Credentials {
	return p.creds
}

func (p *Profile) AppURL() string {
	return p.appURL
}

// AppOS returns the operating system name reported by the Kudu runtime
// endpoint, e.g. "Unix" or "Microsoft Windows NT 10.0.14393.0".
func (p *Profile) AppOS(ctx context.Context) (string, error) {
	pl := runtime.NewPipeline(moduleName, moduleVersion, runtime.PipelineOptions{
		PerRetry: []policy.Policy{
			basicAuthPolicy{username: p.creds.Username, password: p.creds.Password},
		},
	}, p.options)

	req, err := runtime.NewRequest(ctx, http.MethodGet, p.creds.ScmURL+runtimePath)
	if err != nil {
		return "", fmt.Errorf("failed to create kudu request: %w", err)
	}
	req.Raw().Header.Set("Accept", "application/json")

	resp, err := pl.Do(req)
	if err != nil {
		return "", err
	}
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return "", runtime.NewResponseError(resp)
	}

	var details runtimeDetails
	if err := runtime.UnmarshalAsJSON(resp, &details); err != nil {
		return "", fmt.Errorf("failed to decode kudu runtime details: %w", err)
	}

	p.logger.Debug("resolved app os from kudu",
		zap.String("scm_url", p.creds.ScmURL),
		zap.String("os", details.System.OSName))

	return details.System.OSName, nil
}

type basicAuthPolicy struct {
	username string
	password string
}

func (b basicAuthPolicy) Do(req *policy.Request) (*http.Response, error) {
	req.Raw().SetBasicAuth(b.username, b.password)
	return req.Next()
}
