// internal/perception/extractor.go
package perception

import (
	"strings"

	"github.com/Parhamfakhar1/natiq/internal/core"
)

// Extractor - استخراج موجودیت با آزمون زیررشته روی واژگان بسته
type Extractor struct {
	persons    []Term
	topics     []Term
	actions    []Term
	attributes []Term
}

func NewExtractor(vocab Vocabulary) *Extractor {
	return &Extractor{
		persons:    lowerTerms(vocab.Persons),
		topics:     lowerTerms(vocab.Topics),
		actions:    lowerTerms(vocab.Actions),
		attributes: lowerTerms(vocab.Attributes),
	}
}

// Extract collects the canonical label of every vocabulary term that
// occurs in text. Positions are not kept.
func (ex *Extractor) Extract(text string) core.EntitySet {
	entities := core.NewEntitySet()
	if strings.TrimSpace(text) == "" {
		return entities
	}

	lower := strings.ToLower(text)
	collect(lower, ex.persons, entities.Persons)
	collect(lower, ex.topics, entities.Topics)
	collect(lower, ex.actions, entities.Actions)
	collect(lower, ex.attributes, entities.Attributes)
	return entities
}

// Persons returns the canonical person labels the extractor knows.
func (ex *Extractor) Persons() []string {
	set := core.NewLabelSet()
	for _, t := range ex.persons {
		set.Add(t.Label)
	}
	return set.Sorted()
}

func collect(text string, vocab []Term, into core.LabelSet) {
	for _, term := range vocab {
		if strings.Contains(text, term.Surface) {
			into.Add(term.Label)
		}
	}
}

func lowerTerms(in []Term) []Term {
	out := make([]Term, 0, len(in))
	for _, t := range in {
		if t.Surface == "" {
			continue
		}
		out = append(out, Term{Surface: strings.ToLower(t.Surface), Label: t.Label})
	}
	return out
}
