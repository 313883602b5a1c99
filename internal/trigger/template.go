package trigger

import (
	"github.com/stackwatch-io/stackwatch/internal/logging"
	"github.com/stackwatch-io/stackwatch/internal/validate"
)

// validatorGate bundles a definition validator with the caller's callback
// and forwards an event only when the validator reports a meaningful change.
// Parse failures and trivial rewrites are suppressed, never escalated.
type validatorGate struct {
	validator *validate.DefinitionValidator
	onChange  OnChangeFunc
}

func (g *validatorGate) forward(event *Event) {
	if !g.validator.Validate() {
		logging.Debug("suppressing trivial or invalid definition change",
			"path", g.validator.Path())
		return
	}
	g.onChange(event)
}

// TemplateTrigger watches a single stack template file and forwards events
// only when the template still parses as a non-trivial change.
type TemplateTrigger struct {
	target WatchTarget
}

// NewTemplateTrigger builds a trigger for the given template file.
func NewTemplateTrigger(templatePath string, onChange OnChangeFunc) (*TemplateTrigger, error) {
	target, err := singleFileTarget(templatePath)
	if err != nil {
		return nil, err
	}
	gate := &validatorGate{
		validator: validate.NewDefinitionValidator(templatePath),
		onChange:  onChange,
	}
	target.OnEvent = gate.forward
	return &TemplateTrigger{target: target}, nil
}

func (t *TemplateTrigger) Resolve() []WatchTarget {
	return []WatchTarget{t.target}
}
