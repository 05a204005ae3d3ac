// Package rulebased provides deterministic, offline implementations of
// the classifier and planner interfaces. They stand in for the model
// client when no API key is configured and give the pipeline tests a
// predictable front half.
package rulebased

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"bankagent/internal/domain"
)

var (
	fromAccountRE = regexp.MustCompile(`from\s+account\s+#?(\d+)`)
	toAccountRE   = regexp.MustCompile(`to\s+account\s+#?(\d+)`)
	accountRE     = regexp.MustCompile(`account\s+#?(\d+)`)
	amountRE      = regexp.MustCompile(`\$\s*(\d+(?:\.\d+)?)|(\d+(?:\.\d+)?)\s*(?:dollars|bucks|usd)`)
	daysRE        = regexp.MustCompile(`(\d+)\s*days?`)
)

// Classifier recognizes the five banking intents with keyword rules.
type Classifier struct{}

// NewClassifier creates a rule-based classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify matches the query against keyword rules and extracts
// entities with regular expressions. Unmatched queries come back as
// unknown with zero confidence, which the agent turns into a rephrase
// prompt.
func (c *Classifier) Classify(ctx context.Context, query string) (*domain.Classification, error) {
	q := strings.ToLower(query)

	intent := domain.IntentUnknown
	confidence := 0.0
	switch {
	case containsAny(q, "transfer", "send", "move", "pay"):
		intent, confidence = domain.IntentTransfer, 0.9
	case containsAny(q, "afford", "what if", "could i", "can i buy", "simulate"):
		intent, confidence = domain.IntentWhatIf, 0.9
	case containsAny(q, "transaction", "history", "recent activity"):
		intent, confidence = domain.IntentTransactions, 0.9
	case containsAny(q, "insight", "spending", "summary", "spent"):
		intent, confidence = domain.IntentInsights, 0.9
	case containsAny(q, "balance", "how much do i have", "how much money"):
		intent, confidence = domain.IntentCheckBalance, 0.9
	}

	return &domain.Classification{
		Intent:     intent,
		Entities:   extractEntities(q),
		Confidence: confidence,
	}, nil
}

func extractEntities(q string) domain.Entities {
	var e domain.Entities

	if m := fromAccountRE.FindStringSubmatch(q); m != nil {
		e.AccountID = parseID(m[1])
	}
	if m := toAccountRE.FindStringSubmatch(q); m != nil {
		e.RecipientAccount = parseID(m[1])
	}
	// Bare "account N" mentions fill whatever the directional phrases
	// left open, in order of appearance.
	if e.AccountID == nil || e.RecipientAccount == nil {
		for _, m := range accountRE.FindAllStringSubmatch(q, -1) {
			id := parseID(m[1])
			switch {
			case e.AccountID == nil:
				e.AccountID = id
			case e.RecipientAccount == nil && *id != *e.AccountID:
				e.RecipientAccount = id
			}
		}
	}

	if m := amountRE.FindStringSubmatch(q); m != nil {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			e.Amount = &f
		}
	}

	if m := daysRE.FindStringSubmatch(q); m != nil {
		e.TimePeriod = m[1] + " days"
	}

	return e
}

func parseID(s string) *int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Planner produces the canonical single-step plan for an intent.
type Planner struct{}

// NewPlanner creates a rule-based planner.
func NewPlanner() *Planner {
	return &Planner{}
}

// Plan maps the intent straight onto its canonical tool with the
// extracted entities as parameters.
func (p *Planner) Plan(ctx context.Context, intent string, entities domain.Entities) (*domain.Plan, error) {
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
			Description: "execute " + intent,
		}},
		RequiresValidation: intent == domain.IntentTransfer || intent == domain.IntentWhatIf,
	}, nil
}
