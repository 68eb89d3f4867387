// internal/core/types.go
package core

import (
	"encoding/json"
	"sort"
	"time"
)

// LabelSet - مجموعه‌ی برچسب‌های استاندارد (بدون ترتیب و بدون تکرار)
type LabelSet map[string]struct{}

func NewLabelSet(labels ...string) LabelSet {
	s := make(LabelSet, len(labels))
	for _, l := range labels {
		s.Add(l)
	}
	return s
}

func (s LabelSet) Add(label string) {
	s[label] = struct{}{}
}

func (s LabelSet) Has(label string) bool {
	_, ok := s[label]
	return ok
}

// HasAny reports whether at least one of labels is in the set.
func (s LabelSet) HasAny(labels ...string) bool {
	for _, l := range labels {
		if s.Has(l) {
			return true
		}
	}
	return false
}

func (s LabelSet) Len() int { return len(s) }

// Sorted returns the labels in lexical order, never nil.
func (s LabelSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

func (s LabelSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *LabelSet) UnmarshalJSON(data []byte) error {
	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return err
	}
	*s = NewLabelSet(labels...)
	return nil
}

// EntitySet - موجودیت‌های استخراج‌شده از متن پرسش
type EntitySet struct {
	Persons    LabelSet `json:"persons"`
	Topics     LabelSet `json:"topics"`
	Actions    LabelSet `json:"actions"`
	Attributes LabelSet `json:"attributes"`
}

func NewEntitySet() EntitySet {
	return EntitySet{
		Persons:    NewLabelSet(),
		Topics:     NewLabelSet(),
		Actions:    NewLabelSet(),
		Attributes: NewLabelSet(),
	}
}

func (e EntitySet) IsEmpty() bool {
	return e.Persons.Len() == 0 && e.Topics.Len() == 0 &&
		e.Actions.Len() == 0 && e.Attributes.Len() == 0
}

// KnowledgeRecord - پرونده‌ی ثابت یک شخص شناخته‌شده
type KnowledgeRecord struct {
	Name         string   `yaml:"name" json:"name"`
	Profession   string   `yaml:"profession" json:"profession"`
	Expertise    []string `yaml:"expertise" json:"expertise"`
	Achievements []string `yaml:"achievements" json:"achievements"`
	Projects     []string `yaml:"projects" json:"projects"`
	Background   string   `yaml:"background" json:"background"`
}

// LookupResult is the outcome of a dossier lookup. Person is the
// extracted name that was looked up, if any.
type LookupResult struct {
	Found  bool             `json:"found"`
	Person string           `json:"person,omitempty"`
	Record *KnowledgeRecord `json:"record,omitempty"`
}

// Scores - معیارهای نمایشی؛ هیچ اعتبار پیش‌بینی ندارند
type Scores struct {
	Confidence  float64 `json:"confidence"`
	Depth       int     `json:"depth"`
	WisdomScore float64 `json:"wisdomScore"`
}

// Context is the optional per-request context accepted by Answer.
type Context struct {
	Style  string `json:"style,omitempty"`
	UserID string `json:"user_id,omitempty"`
}

type Analysis struct {
	Intent     Intent    `json:"intent"`
	Entities   EntitySet `json:"entities"`
	Normalized string    `json:"normalized"`
}

type Metadata struct {
	RequestID   string    `json:"request_id"`
	Cached      bool      `json:"cached"`
	LookupFound bool      `json:"lookup_found"`
	Person      string    `json:"person,omitempty"`
	Style       string    `json:"style"`
	DurationMS  float64   `json:"duration_ms"`
	Timestamp   time.Time `json:"timestamp"`
}

// Answer - خروجی کامل پایپ‌لاین برای یک پرسش
type Answer struct {
	Response string   `json:"response"`
	Analysis Analysis `json:"analysis"`
	Scores   Scores   `json:"scores"`
	Metadata Metadata `json:"metadata"`
}
