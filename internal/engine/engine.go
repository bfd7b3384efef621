// Package engine is the interaction dispatcher: it routes a function-tagged
// payload to the owning component, applies the transition on a state clone,
// and commits only on success. A rejected interaction leaves the committed
// state byte-identical.
package engine

import (
	"github.com/tidwall/gjson"

	"github.com/GNSR-Network/registry_core/internal/contract"
	"github.com/GNSR-Network/registry_core/internal/metrics"
	"github.com/GNSR-Network/registry_core/pkg/logger"
)

// Engine executes sequenced interactions against the contract state. It is
// not safe for concurrent use; the host sequences interactions before
// delivery.
type Engine struct {
	state   *contract.State
	log     *logger.Logger
	metrics *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger overrides the default engine logger.
func WithLogger(log *logger.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithMetrics attaches Prometheus counters to the engine.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New creates an engine over an initial state. The engine owns the state
// from this point; callers read it back through State.
func New(state *contract.State, opts ...Option) *Engine {
	e := &Engine{
		state: state,
		log:   logger.NewDefault("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current committed state.
func (e *Engine) State() *contract.State {
	return e.state
}

// Apply executes one interaction. On success the transition is committed
// and Apply returns nil; on rejection the committed state is untouched and
// the typed rejection is returned. Unknown and malformed payloads fail
// closed as validation rejections.
func (e *Engine) Apply(in contract.Interaction) error {
	function := gjson.GetBytes(in.Input, "function").String()
	if function == "" {
		err := contract.ErrValidation("input is missing a function tag")
		e.reject(in, function, err)
		return err
	}

	handler, ok := handlers[function]
	if !ok {
		err := contract.ErrValidation("unknown function %q", function)
		e.reject(in, function, err)
		return err
	}

	next := e.state.Clone()
	if err := handler(next, in); err != nil {
		e.reject(in, function, err)
		return err
	}

	e.state = next
	e.metrics.RecordApplied(function)
	e.log.WithField("function", function).
		WithField("caller", in.Caller).
		WithField("height", in.Height).
		Debug("interaction applied")
	return nil
}

func (e *Engine) reject(in contract.Interaction, function string, err error) {
	e.metrics.RecordRejected(function, string(contract.KindOf(err)))
	e.log.WithError(err).
		WithField("function", function).
		WithField("caller", in.Caller).
		WithField("height", in.Height).
		Debug("interaction rejected")
}
