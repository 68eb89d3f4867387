package perception

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer(nil, nil)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: "  \t \n", want: ""},
		{name: "arabic yeh and kaf", input: "كيست؟", want: "کیست؟"},
		{name: "latin name any case", input: "Ramin EJLAL kist", want: "رامین اجلال kist"},
		{name: "typo in surname", input: "رامین اجلل کیست؟", want: "رامین اجلال کیست؟"},
		{name: "doubled alef", input: "راامین اجلاال", want: "رامین اجلال"},
		{name: "colloquial who", input: "رامین اجلال کیه؟", want: "رامین اجلال کیست؟"},
		{name: "colloquial what", input: "هوش مصنوعی چیه", want: "هوش مصنوعی چیست"},
		{name: "word rule leaves longer words", input: "تکیه کلام", want: "تکیه کلام"},
		{name: "tatweel and spaces", input: "  س\u0640لام    دنیا ", want: "سلام دنیا"},
		{name: "harakat stripped", input: "رامین\u0652 اجلال کیست\u064e؟", want: "رامین اجلال کیست؟"},
		{name: "zwnj preserved", input: "می\u200cخواهم", want: "می\u200cخواهم"},
		{name: "colloquial want", input: "میخوام بدونم", want: "می\u200cخواهم بدونم"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

func TestNormalizer_CustomTables(t *testing.T) {
	n := NewNormalizer(
		[]Substitution{{Wrong: "colour", Correct: "color"}, {Wrong: "", Correct: "ignored"}},
		map[string]string{"pls": "please"},
	)

	assert.Equal(t, "color please", n.Normalize("COLOUR pls"))
}

func TestNormalizer_SubstitutionTableIsSelfConsistent(t *testing.T) {
	// هیچ مقدار درست نباید شامل یک مقدار غلط باشد
	n := NewNormalizer(nil, nil)
	for _, s := range DefaultSubstitutions {
		for _, compiled := range n.substitutions {
			assert.False(t, compiled.pattern.MatchString(s.Correct),
				"correct form %q re-triggers %s", s.Correct, compiled.pattern)
		}
	}
	for _, correct := range DefaultWordSubstitutions {
		_, loops := n.words[correct]
		assert.False(t, loops, "word substitution %q maps onto another key", correct)
	}
}

var normalizeSeeds = []string{
	"",
	" ",
	"رامین اجلال کیست؟",
	"همسر رامین اجلال کیست؟",
	"RAMIN EJLAL",
	"ramin ejlalejlal",
	"اجللل",
	"اجلل\u0653",
	"راراامین",
	"يكة",
	"کیه؟ چیه! «کیه»",
	"😀😀",
	"hello world",
	string([]byte{0xff, 0xfe, 'a'}),
	"\u0640\u0640\u0640\u200b\u200c\u200d",
}

func TestNormalizer_Idempotent(t *testing.T) {
	n := NewNormalizer(nil, nil)
	for _, s := range normalizeSeeds {
		once := n.Normalize(s)
		assert.Equal(t, once, n.Normalize(once), "input %q", s)
		assert.True(t, utf8.ValidString(once))
	}
}

func FuzzNormalizer_Idempotent(f *testing.F) {
	for _, s := range normalizeSeeds {
		f.Add(s)
	}
	n := NewNormalizer(nil, nil)
	f.Fuzz(func(t *testing.T, s string) {
		once := n.Normalize(s)
		if twice := n.Normalize(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", s, once, twice)
		}
	})
}
