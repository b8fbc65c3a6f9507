package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/wenboyang214/webapps-deploy/internal/azure"
	"github.com/wenboyang214/webapps-deploy/internal/pipeline/config"
	"github.com/wenboyang214/webapps-deploy/internal/pipeline/types"
	"github.com/wenboyang214/webapps-deploy/internal/pipeline/validator"
)

// Result describes a run that passed validation.
type Result struct {
	ValidatorName  string               `json:"validator"`
	CredentialType types.CredentialType `json:"credential_type"`
	Params         types.ActionParams   `json:"params"`
}

type Pipeline struct {
	inputs   *config.InputsConfig
	endpoint *azure.Endpoint
	factory  validator.FactoryInterface
	logger   *zap.Logger
	metrics  *MetricsCollector
}

func NewPipeline(
	inputs *config.InputsConfig,
	endpoint *azure.Endpoint,
	factory validator.FactoryInterface,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		inputs:   inputs,
		endpoint: endpoint,
		factory:  factory,
		logger:   logger,
		metrics:  NewMetricsCollector(),
	}
}

// Run detects the credential type, selects the matching validator and
// validates the action inputs with it.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	params := p.buildParams()

	p.metrics.StartStage(StageDetect)
	credentialType := DetectCredentialType(ctx, params, p.logger)
	p.endStage(StageDetect, nil)

	p.metrics.StartStage(StageSelect)
	v, resolved, err := p.factory.GetValidator(ctx, credentialType, params)
	p.endStage(StageSelect, err)
	if err != nil {
		return nil, fmt.Errorf("failed to select validator: %w", err)
	}

	validatorName := fmt.Sprintf("%T", v)
	p.logger.Info("selected validator",
		zap.String("validator", validatorName),
		zap.String("credential_type", string(credentialType)),
		zap.String("app", resolved.AppName),
		zap.String("slot", resolved.SlotName))

	p.metrics.StartStage(StageValidate)
	err = v.Validate(resolved)
	p.endStage(StageValidate, err)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &Result{
		ValidatorName:  validatorName,
		CredentialType: credentialType,
		Params:         resolved,
	}, nil
}

func (p *Pipeline) Metrics() *MetricsCollector {
	return p.metrics
}

func (p *Pipeline) buildParams() types.ActionParams {
	return types.ActionParams{
		Endpoint:                 p.endpoint,
		AppName:                  strings.TrimSpace(p.inputs.AppName),
		SlotName:                 strings.TrimSpace(p.inputs.SlotName),
		PackageInput:             strings.TrimSpace(p.inputs.Package),
		Images:                   parseImages(p.inputs.Images),
		MultiContainerConfigFile: strings.TrimSpace(p.inputs.ConfigurationFile),
		StartupCommand:           strings.TrimSpace(p.inputs.StartupCommand),
		PublishProfileContent:    p.inputs.PublishProfile,
	}
}

// parseImages splits the multi-line images input, dropping blank lines.
func parseImages(input string) []string {
	images := lo.Map(strings.Split(input, "\n"), func(line string, _ int) string {
		return strings.TrimSpace(line)
	})
	return lo.Filter(images, func(image string, _ int) bool {
		return image != ""
	})
}

func (p *Pipeline) endStage(stage string, err error) {
	status := StatusSucceeded
	if err != nil {
		status = StatusFailed
	}
	duration := p.metrics.EndStage(stage, status)

	p.logger.Debug("stage finished",
		zap.String("stage", stage),
		zap.String("status", status),
		zap.Duration("duration", duration))
}
