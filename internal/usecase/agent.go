package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"bankagent/internal/domain"
	"bankagent/pkg/metrics"
)

// RephraseReply is returned when the classifier can't make sense of a
// query with enough confidence to act on it.
const RephraseReply = "I'm not sure I understand. Could you rephrase your banking query?"

// Agent runs the full pipeline for one query: classify, plan, execute,
// validate when the plan asks for it, respond. One logical thread per
// query; the only shared state is the ledger store behind the
// operation library.
type Agent struct {
	classifier domain.Classifier
	planner    domain.Planner
	executor   *Executor
	validator  *Validator
	responder  *Responder
	collector  *metrics.Collector
}

// NewAgent wires the pipeline components together.
func NewAgent(
	classifier domain.Classifier,
	planner domain.Planner,
	executor *Executor,
	collector *metrics.Collector,
) *Agent {
	return &Agent{
		classifier: classifier,
		planner:    planner,
		executor:   executor,
		validator:  NewValidator(),
		responder:  NewResponder(),
		collector:  collector,
	}
}

// ProcessQuery runs one free-text query through the pipeline and
// returns the reply. Classification and planning failures degrade to a
// rephrase prompt or a deterministic fallback plan; nothing here is
// fatal to the caller's loop.
func (a *Agent) ProcessQuery(ctx context.Context, query string) string {
	queryID := uuid.New()
	log.Printf("[%s] processing query: %s", queryID, query)

	classification, err := a.classifier.Classify(ctx, query)
	if err != nil || classification == nil {
		log.Printf("[%s] classification failed: %v", queryID, err)
		a.collector.QueryRejected()
		return RephraseReply
	}

	intent := classification.Intent
	if intent == "" {
		intent = domain.IntentUnknown
	}
	log.Printf("[%s] intent %q with confidence %.2f", queryID, intent, classification.Confidence)

	if classification.Confidence < 0.5 {
		a.collector.QueryRejected()
		return RephraseReply
	}
	a.collector.QueryProcessed(intent)

	plan, err := a.planner.Plan(ctx, intent, classification.Entities)
	if err != nil || plan == nil || len(plan.Steps) == 0 {
		log.Printf("[%s] planner unavailable (%v), using fallback plan", queryID, err)
		plan = FallbackPlan(intent, classification.Entities)
		a.collector.PlanFallback()
	}

	results := a.executor.ExecutePlan(ctx, plan)

	if intent == domain.IntentTransfer {
		success, _ := results["success"].(bool)
		a.collector.TransferRecorded(success)
	}

	if plan.RequiresValidation {
		for _, step := range plan.Steps {
			stepResult, _ := results[fmt.Sprintf("step_%d", step.StepID)].(map[string]any)
			if stepResult == nil {
				continue
			}
			if valid, message := a.validator.Validate(stepResult, step); !valid {
				log.Printf("[%s] validation failed: %s", queryID, message)
				results["validation_error"] = message
				a.collector.ValidationFailed()
			}
		}
	}

	return a.responder.Respond(results, intent)
}

// FallbackPlan builds the deterministic single-step plan used when the
// planner fails entirely or returns no steps. Validation is required
// only for the intents that move or project money.
func FallbackPlan(intent string, entities domain.Entities) *domain.Plan {
	tool, ok := domain.ToolForIntent(intent)
	if !ok {
		tool = domain.IntentUnknown
	}

	return &domain.Plan{
		Steps: []domain.Step{{
			StepID:      1,
			Action:      intent,
			Tool:        tool,
			Parameters:  entities.ToParams(),
			Description: fmt.Sprintf("execute %s", intent),
		}},
		RequiresValidation: intent == domain.IntentTransfer || intent == domain.IntentWhatIf,
	}
}
