// internal/evaluation/scorer.go
package evaluation

import (
	"math"
	"math/rand"
	"strings"
	"unicode/utf8"

	"gonum.org/v1/gonum/stat"

	"github.com/Parhamfakhar1/natiq/internal/core"
)

// Config - تنظیمات امتیازدهی نمایشی
type Config struct {
	// دامنه‌ی نوسان تصادفی؛ صفر یعنی خروجی قطعی
	Jitter float64 `yaml:"jitter" env:"NATIQ_SCORE_JITTER"`
}

func DefaultConfig() Config {
	return Config{Jitter: 0.05}
}

// Rand is the randomness source of the jitter term.
type Rand interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

const (
	// بالاتر از این طول، امتیاز طول اشباع می‌شود
	saturationRunes = 280
	// میانگین طول واژه‌ای که غنای کامل حساب می‌شود
	richWordLength = 8.0
)

// اطمینان پایه‌ی هر قصد
var baseConfidence = map[core.Intent]float64{
	core.IntentPersonalLife:     0.95,
	core.IntentGreeting:         0.9,
	core.IntentGratitude:        0.9,
	core.IntentPersonAchieve:    0.75,
	core.IntentPersonProjects:   0.75,
	core.IntentPersonExpertise:  0.75,
	core.IntentPersonIntro:      0.7,
	core.IntentTopicExplanation: 0.7,
	core.IntentGenerateArticle:  0.65,
	core.IntentWisdomAdvice:     0.6,
	core.IntentGeneral:          0.3,
}

var wisdomBonus = map[core.Intent]float64{
	core.IntentWisdomAdvice:     0.3,
	core.IntentGenerateArticle:  0.2,
	core.IntentTopicExplanation: 0.2,
}

// Scorer - امتیازهای نمایشی (اطمینان، عمق، حکمت).
// این اعداد فقط حاصل چند قاعده‌ی ساده روی طول پرسش‌اند و هیچ
// ارزش پیش‌بینی ندارند.
type Scorer struct {
	jitter float64
	rand   Rand
}

// NewScorer creates a scorer; a nil r uses the process-wide source.
func NewScorer(config Config, r Rand) *Scorer {
	if r == nil {
		r = globalRand{}
	}
	return &Scorer{
		jitter: math.Abs(config.Jitter),
		rand:   r,
	}
}

// Score is heuristic: it reads the rune length, the word count and the mean
// word length of question. With zero jitter the result never decreases as
// words of the same length are added.
func (s *Scorer) Score(question string, intent core.Intent, lookupFound bool) core.Scores {
	words := strings.Fields(question)
	runes := utf8.RuneCountInString(strings.TrimSpace(question))

	// غنای پرسش: با تعداد واژه‌ها بالا می‌رود و به ۱ نمی‌رسد
	richness := 1 - 1/(1+float64(len(words))/4)
	length := math.Min(float64(runes), saturationRunes) / saturationRunes

	var vocab float64
	if len(words) > 0 {
		lengths := make([]float64, len(words))
		for i, w := range words {
			lengths[i] = float64(utf8.RuneCountInString(w))
		}
		vocab = math.Min(stat.Mean(lengths, nil)/richWordLength, 1)
	}

	base, ok := baseConfidence[intent]
	if !ok {
		base = baseConfidence[core.IntentGeneral]
	}
	confidence := base + 0.1*richness
	switch {
	case lookupFound:
		confidence += 0.1
	case intent.IsPersonal():
		// شخص در پرونده نبود
		confidence -= 0.25
	}

	wisdom := 0.1 + wisdomBonus[intent] + 0.3*richness + 0.2*length + 0.2*vocab
	if lookupFound {
		wisdom += 0.1
	}

	depth := 1 + 4*(0.6*richness+0.4*length)

	return core.Scores{
		Confidence:  clamp(confidence+s.noise(), 0, 1),
		Depth:       int(clamp(math.Round(depth), 1, 5)),
		WisdomScore: clamp(wisdom+s.noise(), 0, 1),
	}
}

// noise returns a value in [-jitter, jitter].
func (s *Scorer) noise() float64 {
	if s.jitter == 0 {
		return 0
	}
	return s.jitter * (2*s.rand.Float64() - 1)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
