package config

// InputsConfig holds the raw action inputs. Keys follow the action's input
// names, which the runner exposes as INPUT_<NAME> environment variables.
type InputsConfig struct {
	AppName           string `mapstructure:"app-name"`
	SlotName          string `mapstructure:"slot-name"`
	Package           string `mapstructure:"package"`
	Images            string `mapstructure:"images"` // newline separated
	ConfigurationFile string `mapstructure:"configuration-file"`
	StartupCommand    string `mapstructure:"startup-command"`
	PublishProfile    string `mapstructure:"publish-profile"`
}

// Names lists every input key, in the order they are documented.
var Names = []string{
	"app-name",
	"slot-name",
	"package",
	"images",
	"configuration-file",
	"startup-command",
	"publish-profile",
}

const (
	DefaultSlotName = "production"
	DefaultPackage  = "."
)
