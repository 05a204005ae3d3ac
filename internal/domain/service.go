package domain

import "context"

// Classifier extracts the intent and entities from a free-text query.
// Implementations that call a remote model must absorb their own
// failures: exhausting every fallback yields a degraded classification
// (unknown intent, zero confidence) rather than an error.
type Classifier interface {
	Classify(ctx context.Context, query string) (*Classification, error)
}

// Planner turns an intent and its entities into an ordered execution
// plan. The caller substitutes a deterministic single-step fallback
// plan when Plan fails or returns no steps.
type Planner interface {
	Plan(ctx context.Context, intent string, entities Entities) (*Plan, error)
}
