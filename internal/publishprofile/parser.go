package publishprofile

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"go.uber.org/zap"
)

// Parser builds profiles that share HTTP client options and a logger.
type Parser struct {
	options *policy.ClientOptions
	logger  *zap.Logger
}

func NewParser(options *policy.ClientOptions, logger *zap.Logger) *Parser {
	return &Parser{
		options: options,
		logger:  logger,
	}
}

func (p *Parser) Parse(content string) (*Profile, error) {
	return parse(content, p.options, p.logger)
}

// GetAppOS parses content and asks the Kudu site it targets for its OS name.
func (p *Parser) GetAppOS(ctx context.Context, content string) (string, error) {
	profile, err := p.Parse(content)
	if err != nil {
		return "", err
	}
	return profile.AppOS(ctx)
}
