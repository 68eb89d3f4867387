// internal/perception/classifier.go
package perception

import (
	"github.com/Parhamfakhar1/natiq/internal/core"
)

// FallbackRule names the implicit last entry of every decision list.
const FallbackRule = "fallback"

// Classification carries the chosen intent and the rule that produced it.
type Classification struct {
	Intent core.Intent `json:"intent"`
	Rule   string      `json:"rule"`
}

// Classifier - طبقه‌بند قاعده‌محور؛ اولین قاعده‌ی منطبق برنده است
type Classifier struct {
	rules []Rule
}

func NewClassifier(rules []Rule) *Classifier {
	kept := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Match == nil || !r.Intent.Valid() {
			continue
		}
		kept = append(kept, r)
	}
	return &Classifier{rules: kept}
}

// Classify returns exactly one intent for any input.
func (c *Classifier) Classify(text string, entities core.EntitySet) core.Intent {
	return c.Explain(text, entities).Intent
}

// Explain is Classify plus the name of the winning rule.
func (c *Classifier) Explain(text string, entities core.EntitySet) Classification {
	for _, rule := range c.rules {
		if rule.Match(text, entities) {
			return Classification{Intent: rule.Intent, Rule: rule.Name}
		}
	}
	return Classification{Intent: core.IntentGeneral, Rule: FallbackRule}
}

// Rules returns a copy of the decision list in evaluation order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}
