package config

import (
	"time"

	pipelineconfig "github.com/wenboyang214/webapps-deploy/internal/pipeline/config"
)

type AzureConfig struct {
	SubscriptionID     string        `mapstructure:"subscription_id"`
	TenantID           string        `mapstructure:"tenant_id"`
	ResourceManagerURL string        `mapstructure:"resource_manager_url"`
	Audience           string        `mapstructure:"audience"`
	MaxRetries         int32         `mapstructure:"max_retries"`
	Timeout            time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}

type AppConfig struct {
	Env    string                      `mapstructure:"env"`
	Inputs pipelineconfig.InputsConfig `mapstructure:"inputs"`
	Azure  AzureConfig                 `mapstructure:"azure"`
	Log    LogConfig                   `mapstructure:"log"`
}
