package perception

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/Parhamfakhar1/natiq/internal/core"
	"github.com/Parhamfakhar1/natiq/internal/security"
)

type sortedEntities struct {
	Persons, Topics, Actions, Attributes []string
}

func flatten(e core.EntitySet) sortedEntities {
	return sortedEntities{
		Persons:    e.Persons.Sorted(),
		Topics:     e.Topics.Sorted(),
		Actions:    e.Actions.Sorted(),
		Attributes: e.Attributes.Sorted(),
	}
}

func TestExtractor_Extract(t *testing.T) {
	ex := NewExtractor(DefaultVocabulary())

	tests := []struct {
		name  string
		input string
		want  sortedEntities
	}{
		{
			name:  "empty",
			input: "",
			want:  sortedEntities{Persons: []string{}, Topics: []string{}, Actions: []string{}, Attributes: []string{}},
		},
		{
			name:  "known person who",
			input: "رامین اجلال کیست؟",
			want: sortedEntities{
				Persons:    []string{"رامین اجلال"},
				Topics:     []string{},
				Actions:    []string{ActionIntroduction},
				Attributes: []string{},
			},
		},
		{
			name:  "surname alone maps to canonical name",
			input: "دستاوردهای اجلال",
			want: sortedEntities{
				Persons:    []string{"رامین اجلال"},
				Topics:     []string{},
				Actions:    []string{ActionAchievement},
				Attributes: []string{},
			},
		},
		{
			name:  "spouse question",
			input: "همسر رامین اجلال کیست؟",
			want: sortedEntities{
				Persons:    []string{"رامین اجلال"},
				Topics:     []string{},
				Actions:    []string{ActionIntroduction, security.ActionSpouse},
				Attributes: []string{},
			},
		},
		{
			name:  "topic and attribute",
			input: "سابقه\u200cی تو در هوش مصنوعی و پایتون",
			want: sortedEntities{
				Persons:    []string{},
				Topics:     []string{"هوش مصنوعی", "پایتون"},
				Actions:    []string{},
				Attributes: []string{AttributeBackground},
			},
		},
		{
			name:  "latin terms case insensitive",
			input: "Explain MACHINE LEARNING in Python, thanks",
			want: sortedEntities{
				Persons:    []string{},
				Topics:     []string{"پایتون", "یادگیری ماشین"},
				Actions:    []string{ActionThanks},
				Attributes: []string{},
			},
		},
		{
			name:  "no matches",
			input: "🙂🙂🙂",
			want:  sortedEntities{Persons: []string{}, Topics: []string{}, Actions: []string{}, Attributes: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := flatten(ex.Extract(tt.input))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Extract(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestExtractor_DuplicatesCollapse(t *testing.T) {
	ex := NewExtractor(DefaultVocabulary())
	e := ex.Extract("رامین اجلال، رامین اجلال، اجلال")
	assert.Equal(t, 1, e.Persons.Len())
}

func TestVocabulary_WithPersons(t *testing.T) {
	base := DefaultVocabulary()
	extended := base.WithPersons("سارا محمدی", "")

	assert.Len(t, extended.Persons, len(base.Persons)+1)

	ex := NewExtractor(extended)
	assert.True(t, ex.Extract("سارا محمدی کیست").Persons.Has("سارا محمدی"))
	assert.Contains(t, ex.Persons(), "سارا محمدی")

	// نسخه‌ی پایه دست‌نخورده می‌ماند
	assert.False(t, NewExtractor(base).Extract("سارا محمدی کیست").Persons.Has("سارا محمدی"))
}
