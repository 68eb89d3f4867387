// internal/model/composer.go
package model

import (
	"fmt"
	"math/rand"
	"strings"
	"text/template"

	"github.com/rs/zerolog/log"

	"github.com/Parhamfakhar1/natiq/internal/core"
)

// fallbackText is used only when even the clarification template fails.
const fallbackText = "لطفاً پرسش خود را کامل‌تر بیان کنید."

// Rand picks the cosmetic closing line.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.Intn(n) }

// قصدهایی که یک جمله‌ی پایانی تزئینی می‌گیرند
var closingIntents = map[core.Intent]bool{
	core.IntentWisdomAdvice:     true,
	core.IntentGenerateArticle:  true,
	core.IntentTopicExplanation: true,
}

var templateFuncs = template.FuncMap{
	"join": strings.Join,
	"inc":  func(i int) int { return i + 1 },
}

// templateData is everything a template may read. Missing optional
// fields render as empty strings.
type templateData struct {
	Person  string
	Record  core.KnowledgeRecord
	Topic   string
	Entry   TopicEntry
	Others  []string
	Closing string
}

// Composer - ساخت متن پاسخ از قالب، نتیجه‌ی جست‌وجو و موجودیت‌ها
type Composer struct {
	templates map[TemplateKey]*template.Template
	closings  map[Style][]string
	glossary  map[string]TopicEntry
	rand      Rand
}

// NewComposer parses the default templates with overrides applied on top.
// A nil r uses the process-wide source.
func NewComposer(overrides Templates, r Rand) (*Composer, error) {
	sources := DefaultTemplates()
	for k, src := range overrides {
		sources[k] = src
	}

	parsed := make(map[TemplateKey]*template.Template, len(sources))
	for k, src := range sources {
		t, err := template.New(k.Name + "/" + string(k.Style)).
			Option("missingkey=zero").
			Funcs(templateFuncs).
			Parse(src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s/%s: %w", k.Name, k.Style, err)
		}
		parsed[k] = t
	}

	if r == nil {
		r = globalRand{}
	}
	return &Composer{
		templates: parsed,
		closings:  DefaultClosings(),
		glossary:  DefaultGlossary(),
		rand:      r,
	}, nil
}

// Compose renders the response for intent. It falls back to the
// clarification template for general inquiries, unknown topics and unknown
// intents, and to the not-found template when a person lookup failed.
func (c *Composer) Compose(intent core.Intent, lookup core.LookupResult, entities core.EntitySet, style Style) string {
	style = ParseStyle(string(style))
	name := string(intent)
	var data templateData

	switch {
	case intent == core.IntentGeneral:
		name = TemplateClarification

	case intent == core.IntentPersonalLife:
		// هیچ داده‌ای به قالب امتناع نمی‌رسد

	case intent.IsPersonal():
		if !lookup.Found || lookup.Record == nil {
			name = TemplateNotFound
			data.Person = lookup.Person
		} else {
			data.Person = lookup.Person
			data.Record = *lookup.Record
		}

	case intent == core.IntentTopicExplanation || intent == core.IntentGenerateArticle:
		topic, others, ok := c.pickTopic(entities)
		if !ok {
			name = TemplateClarification
			break
		}
		data.Topic = topic
		data.Entry = c.glossary[topic]
		data.Others = others
	}

	if name == string(intent) && closingIntents[intent] {
		data.Closing = c.closing(style)
	}
	return c.render(name, style, data)
}

// Topics returns the topics the glossary can explain, sorted.
func (c *Composer) Topics() []string {
	set := core.NewLabelSet()
	for topic := range c.glossary {
		set.Add(topic)
	}
	return set.Sorted()
}

// pickTopic returns the first extracted topic (in sorted order) that has a
// glossary entry, plus the other known ones.
func (c *Composer) pickTopic(entities core.EntitySet) (string, []string, bool) {
	var known []string
	for _, topic := range entities.Topics.Sorted() {
		if _, ok := c.glossary[topic]; ok {
			known = append(known, topic)
		}
	}
	if len(known) == 0 {
		return "", nil, false
	}
	return known[0], known[1:], true
}

func (c *Composer) closing(style Style) string {
	lines := c.closings[style]
	if len(lines) == 0 {
		return ""
	}
	i := c.rand.IntN(len(lines))
	if i < 0 || i >= len(lines) {
		i = 0
	}
	return lines[i]
}

func (c *Composer) render(name string, style Style, data templateData) string {
	t := c.lookup(name, style)
	if t == nil {
		t = c.lookup(TemplateClarification, style)
		data = templateData{}
	}
	if t == nil {
		return fallbackText
	}

	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		log.Warn().Err(err).Str("template", name).Str("style", string(style)).Msg("Template execution failed")
		if name == TemplateClarification {
			return fallbackText
		}
		return c.render(TemplateClarification, style, templateData{})
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return fallbackText
	}
	return out
}

func (c *Composer) lookup(name string, style Style) *template.Template {
	if t, ok := c.templates[key(name, style)]; ok {
		return t
	}
	return c.templates[key(name, StyleFormal)]
}
