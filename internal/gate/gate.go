// Package gate implements the request gate every write endpoint goes through.
//
// A Gate evaluates, in this fixed order:
//
//  1. the payload schema (validator tags plus the payload's own Validate method),
//  2. an optional loader that fetches the record the request is about,
//  3. an ordered list of rules over (payload, current record, actor).
//
// The first failure short-circuits the pipeline and becomes an *errs.HTTPError
// whose status is looked up in the gate's StatusTable. Errors returned by the
// loader or by a rule check (store outages) are not rejections: they abort the
// evaluation and are returned wrapped so the global error handler turns them
// into a 500.
//
// Gates are built once at service construction and are safe for concurrent use;
// everything request-specific lives in the Subject.
package gate

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/meetapp/internal/errs"
	"github.com/deppfellow/meetapp/internal/metrics"
	"github.com/deppfellow/meetapp/internal/validation"
	"github.com/rs/zerolog"
)

// ruleSchema is the rule label used for schema failures in logs and metrics.
const ruleSchema = "schema"

// Subject is what the rules see: the validated payload, the record loaded for
// it (if any) and the acting user.
type Subject[P any, R any] struct {
	Payload P
	Current R
	Found   bool
	ActorID int64
}

// Check reports whether a rule passes. A non-nil error aborts the evaluation.
type Check[P any, R any] func(ctx context.Context, s *Subject[P, R]) (bool, error)

// Loader fetches the record a request refers to. found=false with a nil error
// means the record does not exist; rules decide what that means.
type Loader[P any, R any] func(ctx context.Context, s *Subject[P, R]) (record R, found bool, err error)

// Rule is a named predicate with the rejection it produces when it fails.
type Rule[P any, R any] struct {
	Name    string
	Kind    Kind
	Message string
	Check   Check[P, R]
}

// Gate is an ordered validation + authorization + business-rule pipeline
// for payloads of type P about records of type R.
type Gate[P validation.Validatable, R any] struct {
	name     string
	statuses StatusTable
	load     Loader[P, R]
	rules    []Rule[P, R]
}

// New creates a gate with no loader and no rules.
func New[P validation.Validatable, R any](name string, statuses StatusTable) *Gate[P, R] {
	return &Gate[P, R]{
		name:     name,
		statuses: statuses,
	}
}

// Load sets the loader that runs after validation and before the first rule.
func (g *Gate[P, R]) Load(loader Loader[P, R]) *Gate[P, R] {
	g.load = loader
	return g
}

// Rule appends a rule. Rules run in the order they are added.
func (g *Gate[P, R]) Rule(name string, kind Kind, message string, check Check[P, R]) *Gate[P, R] {
	g.rules = append(g.rules, Rule[P, R]{
		Name:    name,
		Kind:    kind,
		Message: message,
		Check:   check,
	})
	return g
}

// Name returns the gate name used in logs and metrics.
func (g *Gate[P, R]) Name() string {
	return g.name
}

// RuleNames returns the rule names in evaluation order.
func (g *Gate[P, R]) RuleNames() []string {
	names := make([]string, 0, len(g.rules))
	for _, rule := range g.rules {
		names = append(names, rule.Name)
	}
	return names
}

// Evaluate runs the pipeline for payload on behalf of actorID.
//
// It returns the Subject (payload, loaded record, actor) when every step passes,
// a rejection (*errs.HTTPError) when a step fails, or a wrapped error when a
// loader or rule could not be evaluated.
func (g *Gate[P, R]) Evaluate(ctx context.Context, actorID int64, payload P) (*Subject[P, R], error) {
	start := time.Now()

	logger := zerolog.Ctx(ctx).With().
		Str("gate", g.name).
		Int64("actor_id", actorID).
		Logger()

	// ---------------- Schema phase -------------------------------------------
	if fieldErrors := validation.Validate(payload); fieldErrors != nil {
		// Field detail is logged, never returned.
		logger.Warn().
			Interface("field_errors", fieldErrors).
			Msg("gate rejected payload: validation fails")

		metrics.RecordGateOutcome(g.name, metrics.OutcomeRejected, ruleSchema, time.Since(start))
		return nil, g.reject(KindValidation, validation.MessageValidationFails)
	}

	subject := &Subject[P, R]{
		Payload: payload,
		ActorID: actorID,
	}

	// ---------------- Load phase ---------------------------------------------
	if g.load != nil {
		current, found, err := g.load(ctx, subject)
		if err != nil {
			logger.Error().Err(err).Msg("gate loader failed")
			metrics.RecordGateOutcome(g.name, metrics.OutcomeErrored, "load", time.Since(start))
			return nil, fmt.Errorf("%s: loading record: %w", g.name, err)
		}
		subject.Current = current
		subject.Found = found
	}

	// ---------------- Rule phase ---------------------------------------------
	for _, rule := range g.rules {
		ok, err := rule.Check(ctx, subject)
		if err != nil {
			logger.Error().Err(err).Str("rule", rule.Name).Msg("gate rule failed to evaluate")
			metrics.RecordGateOutcome(g.name, metrics.OutcomeErrored, rule.Name, time.Since(start))
			return nil, fmt.Errorf("%s: rule %s: %w", g.name, rule.Name, err)
		}

		if !ok {
			logger.Info().
				Str("rule", rule.Name).
				Str("kind", string(rule.Kind)).
				Msg("gate rejected request")

			metrics.RecordGateOutcome(g.name, metrics.OutcomeRejected, rule.Name, time.Since(start))
			return nil, g.reject(rule.Kind, rule.Message)
		}
	}

	logger.Debug().
		Dur("gate_duration", time.Since(start)).
		Msg("gate passed")

	metrics.RecordGateOutcome(g.name, metrics.OutcomePassed, "", time.Since(start))
	return subject, nil
}

func (g *Gate[P, R]) reject(kind Kind, message string) *errs.HTTPError {
	return errs.NewRejection(g.statuses.Status(kind), string(kind), message)
}
