package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/wenboyang214/webapps-deploy/internal/azure"
	pipelineconfig "github.com/wenboyang214/webapps-deploy/internal/pipeline/config"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"

	DefaultConfigPath = "./config/action"
)

// LoadOptions come from the command line and take precedence over the environment.
type LoadOptions struct {
	ConfigPath string
	Env        string
	Debug      bool
}

func LoadConfig(opts LoadOptions) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	if opts.ConfigPath != "" {
		v.AddConfigPath(opts.ConfigPath)
	} else {
		v.AddConfigPath(DefaultConfigPath)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if opts.Env != "" {
		v.Set("env", opts.Env)
	}
	if opts.Debug {
		v.Set("log.debug", true)
	}

	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", EnvProduction)
	v.SetDefault("inputs.slot-name", pipelineconfig.DefaultSlotName)
	v.SetDefault("inputs.package", pipelineconfig.DefaultPackage)
	v.SetDefault("azure.resource_manager_url", azure.DefaultResourceManagerURL)
	v.SetDefault("azure.audience", azure.DefaultAudience)
	v.SetDefault("azure.max_retries", 3)
	v.SetDefault("azure.timeout", 2*time.Minute)
	v.SetDefault("log.debug", false)
}

// bindEnv maps action inputs to INPUT_<NAME> and Azure settings to the
// variables azure/login and the Azure SDKs use.
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"env":                        {"APP_ENV"},
		"log.debug":                  {"RUNNER_DEBUG"},
		"azure.subscription_id":      {"AZURE_SUBSCRIPTION_ID"},
		"azure.tenant_id":            {"AZURE_TENANT_ID"},
		"azure.resource_manager_url": {"AZURE_RESOURCE_MANAGER_URL"},
		"azure.audience":             {"AZURE_RESOURCE_MANAGER_AUDIENCE"},
	}
	for _, name := range pipelineconfig.Names {
		bindings["inputs."+name] = []string{inputEnvName(name)}
	}

	for key, envs := range bindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("error binding env for %s: %w", key, err)
		}
	}
	return nil
}

// inputEnvName follows the runner convention: upper-cased, spaces replaced by
// underscores, dashes kept.
func inputEnvName(name string) string {
	return "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
}
