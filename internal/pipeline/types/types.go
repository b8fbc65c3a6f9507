package types

import (
	"github.com/wenboyang214/webapps-deploy/internal/azure"
)

type CredentialType string

const (
	CredentialUnknown          CredentialType = ""
	CredentialPublishProfile   CredentialType = "publish-profile"
	CredentialServicePrincipal CredentialType = "service-principal"
)

type WebAppKind int

const (
	KindUnknown WebAppKind = iota
	KindWindows
	KindLinux
	KindWindowsContainer
	KindLinuxContainer
)

func (k WebAppKind) String() string {
	switch k {
	case KindWindows:
		return "windows"
	case KindLinux:
		return "linux"
	case KindWindowsContainer:
		return "windows-container"
	case KindLinuxContainer:
		return "linux-container"
	default:
		return "unknown"
	}
}

// appKindMap maps the raw "kind" of a Microsoft.Web/sites resource to the
// kinds this action knows how to validate.
var appKindMap = map[string]WebAppKind{
	"app":                   KindWindows,
	"api":                   KindWindows,
	"app,linux":             KindLinux,
	"app,linux,container":   KindLinuxContainer,
	"app,container,windows": KindWindowsContainer,
}

// KindFromString normalizes a raw provider kind. Unmapped kinds yield KindUnknown.
func KindFromString(realKind string) (WebAppKind, bool) {
	kind, ok := appKindMap[realKind]
	return kind, ok
}

// ActionParams is the configuration snapshot of one action run. The last four
// fields are filled in by validator selection and are zero before it.
type ActionParams struct {
	Endpoint                 *azure.Endpoint `json:"-"`
	AppName                  string          `json:"app_name"`
	SlotName                 string          `json:"slot_name"`
	PackageInput             string          `json:"package"`
	Images                   []string        `json:"images,omitempty"`
	MultiContainerConfigFile string          `json:"configuration_file,omitempty"`
	StartupCommand           string          `json:"startup_command,omitempty"`
	PublishProfileContent    string          `json:"-"`

	ResourceGroupName string     `json:"resource_group_name,omitempty"`
	RealKind          string     `json:"real_kind,omitempty"`
	Kind              WebAppKind `json:"kind"`
	IsLinux           bool       `json:"is_linux"`
}
