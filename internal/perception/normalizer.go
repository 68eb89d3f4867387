// internal/perception/normalizer.go
package perception

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/Parhamfakhar1/natiq/internal/utils"
)

// maxNormalizePasses bounds the fixed-point loop in Normalize.
const maxNormalizePasses = 8

// Substitution - یک جایگزینی ثابت (غلط -> درست)
type Substitution struct {
	Wrong   string
	Correct string
}

// DefaultSubstitutions is applied in order, case-insensitively, to every
// occurrence. No Correct value contains any Wrong value.
var DefaultSubstitutions = []Substitution{
	// حروف عربی -> فارسی
	{Wrong: "\u064a", Correct: "\u06cc"}, // ي -> ی
	{Wrong: "\u0649", Correct: "\u06cc"}, // ى -> ی
	{Wrong: "\u0643", Correct: "\u06a9"}, // ك -> ک
	{Wrong: "\u0629", Correct: "\u0647"}, // ة -> ه

	// نویسه‌گردانی لاتین نام‌ها
	{Wrong: "ramin ejlal", Correct: "رامین اجلال"},
	{Wrong: "ramin ejlaal", Correct: "رامین اجلال"},
	{Wrong: "ejlal", Correct: "اجلال"},

	// غلط‌های تایپی رایج
	{Wrong: "راامین", Correct: "رامین"},
	{Wrong: "اجلاال", Correct: "اجلال"},
	{Wrong: "اجلل", Correct: "اجلال"},
	{Wrong: "هوش مصنوغی", Correct: "هوش مصنوعی"},
	{Wrong: "برنامه نوسی", Correct: "برنامه نویسی"},
}

// DefaultWordSubstitutions replaces whole colloquial tokens only, so that
// e.g. "تکیه" is left alone while "کیه" becomes "کیست".
var DefaultWordSubstitutions = map[string]string{
	"کیه":    "کیست",
	"چیه":    "چیست",
	"میخوام": "می\u200cخواهم",
}

// tokenPunctuation is stripped from token edges before word lookup.
const tokenPunctuation = "؟?!.،,:;«»\"'()"

type compiledSubstitution struct {
	pattern *regexp.Regexp
	correct string
}

// Normalizer - اصلاح‌کننده‌ی متن ورودی پیش از استخراج موجودیت‌ها
type Normalizer struct {
	substitutions []compiledSubstitution
	words         map[string]string
}

// NewNormalizer compiles the given tables. Nil tables select the defaults.
func NewNormalizer(subs []Substitution, words map[string]string) *Normalizer {
	if subs == nil {
		subs = DefaultSubstitutions
	}
	if words == nil {
		words = DefaultWordSubstitutions
	}

	n := &Normalizer{
		substitutions: make([]compiledSubstitution, 0, len(subs)),
		words:         make(map[string]string, len(words)),
	}
	for _, s := range subs {
		if s.Wrong == "" {
			continue
		}
		n.substitutions = append(n.substitutions, compiledSubstitution{
			pattern: regexp.MustCompile("(?i)" + regexp.QuoteMeta(s.Wrong)),
			correct: s.Correct,
		})
	}
	for wrong, correct := range words {
		n.words[strings.ToLower(wrong)] = correct
	}
	return n
}

// Normalize applies the tables until the text stops changing, so
// Normalize(Normalize(x)) == Normalize(x).
func (n *Normalizer) Normalize(text string) string {
	current := text
	for i := 0; i < maxNormalizePasses; i++ {
		next := n.pass(current)
		if next == current {
			return next
		}
		current = next
	}
	return current
}

func (n *Normalizer) pass(text string) string {
	text = utils.RemoveInvalidChars(text)
	text = norm.NFC.String(text)

	for _, s := range n.substitutions {
		text = s.pattern.ReplaceAllLiteralString(text, s.correct)
	}

	tokens := strings.Fields(text)
	for i, tok := range tokens {
		tokens[i] = n.replaceWord(tok)
	}
	return utils.NormalizeSpaces(strings.Join(tokens, " "))
}

func (n *Normalizer) replaceWord(token string) string {
	bare := strings.Trim(token, tokenPunctuation)
	if bare == "" {
		return token
	}
	correct, ok := n.words[strings.ToLower(bare)]
	if !ok {
		return token
	}
	idx := strings.Index(token, bare)
	return token[:idx] + correct + token[idx+len(bare):]
}
