package validator

import (
	"github.com/wenboyang214/webapps-deploy/internal/pipeline/types"
)

// Validator checks that the action inputs make sense for one kind of target app.
type Validator interface {
	Validate(params types.ActionParams) error
}
