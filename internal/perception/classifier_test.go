package perception

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Parhamfakhar1/natiq/internal/core"
	"github.com/Parhamfakhar1/natiq/internal/security"
)

type pipeline struct {
	normalizer *Normalizer
	extractor  *Extractor
	classifier *Classifier
}

func newPipeline() pipeline {
	return pipeline{
		normalizer: NewNormalizer(nil, nil),
		extractor:  NewExtractor(DefaultVocabulary()),
		classifier: NewClassifier(DefaultRules(security.NewPrivacyGuard())),
	}
}

func (p pipeline) classify(q string) Classification {
	text := p.normalizer.Normalize(q)
	return p.classifier.Explain(text, p.extractor.Extract(text))
}

func TestClassifier_Scenarios(t *testing.T) {
	p := newPipeline()

	tests := []struct {
		input string
		want  core.Intent
	}{
		{"رامین اجلال کیست؟", core.IntentPersonIntro},
		{"ramin ejlal kiye", core.IntentPersonIntro},
		{"همسر رامین اجلال کیست؟", core.IntentPersonalLife},
		{"", core.IntentGeneral},
		{"   ", core.IntentGeneral},
		{"فلان شخص ناشناس کیست؟", core.IntentPersonIntro},
		{"دستاوردهای رامین اجلال چیست؟", core.IntentPersonAchieve},
		{"پروژه\u200cهای اجلال را نام ببر", core.IntentPersonProjects},
		{"تخصص رامین اجلال در چه حوزه\u200cای است؟", core.IntentPersonExpertise},
		{"شغل رامین اجلال چیست؟", core.IntentPersonExpertise},
		{"یک مقاله درباره هوش مصنوعی بنویس", core.IntentGenerateArticle},
		{"یادگیری عمیق چیست؟", core.IntentTopicExplanation},
		{"بلاکچین", core.IntentTopicExplanation},
		{"هوش مصنوعی را معرفی کن", core.IntentTopicExplanation},
		{"پایتون را معرفی کنید", core.IntentTopicExplanation},
		{"رامین\u0652 اجلال را معرفی کن", core.IntentPersonIntro},
		{"چگونه در زندگی موفق باشم؟", core.IntentWisdomAdvice},
		{"خیلی ممنون", core.IntentGratitude},
		{"سلام", core.IntentGreeting},
		{"hello there", core.IntentGreeting},
		{"the quick brown fox", core.IntentGeneral},
		{"😀", core.IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, p.classify(tt.input).Intent)
		})
	}
}

func TestClassifier_PrivacyPrecedence(t *testing.T) {
	p := newPipeline()

	// نام شناخته‌شده + کلیدواژه‌ی حریم خصوصی + هر کلیدواژه‌ی دیگر -> امتناع
	questions := []string{
		"همسر رامین اجلال کیست؟",
		"رامین اجلال ازدواج کرده است؟",
		"دستاوردها و فرزندان رامین اجلال",
		"پروژه\u200cها و خانواده رامین اجلال",
		"تخصص و درآمد رامین اجلال",
		"یک مقاله درباره زندگی شخصی رامین اجلال بنویس",
		"سلام، شماره تلفن اجلال را بده، ممنون",
		"آدرس خانه خیام کجاست",
	}

	for _, q := range questions {
		got := p.classify(q)
		assert.Equal(t, core.IntentPersonalLife, got.Intent, q)
		assert.Equal(t, "privacy_refusal", got.Rule, q)
	}
}

func TestClassifier_SensitiveWordWithoutPerson(t *testing.T) {
	p := newPipeline()

	tests := []struct {
		input string
		want  core.Intent
	}{
		// واژه‌ی حساس در پرسشی کلی درباره‌ی یک موضوع
		{"درآمدی بر یادگیری ماشین", core.IntentTopicExplanation},
		{"آیا بچه\u200cها باید برنامه نویسی یاد بگیرند؟", core.IntentTopicExplanation},
		// بدون موضوع یا همراه با «کیست» همچنان امتناع
		{"درآمد شما چقدر است؟", core.IntentPersonalLife},
		{"همسرش کیست؟", core.IntentPersonalLife},
		{"شماره تلفن متخصص پایتون را معرفی کن", core.IntentPersonalLife},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, p.classify(tt.input).Intent)
		})
	}
}

func TestClassifier_RuleOrder(t *testing.T) {
	c := NewClassifier(DefaultRules(security.NewPrivacyGuard()))
	rules := c.Rules()
	require.NotEmpty(t, rules)

	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	assert.Equal(t, []string{
		"privacy_refusal",
		"person_achievements",
		"person_projects",
		"person_expertise",
		"person_introduction",
		"generate_article",
		"topic_explanation",
		"wisdom_advice",
		"gratitude",
		"greeting",
	}, names)

	// کپی برگردانده می‌شود
	rules[0] = Rule{}
	assert.Equal(t, "privacy_refusal", c.Rules()[0].Name)
}

func TestClassifier_FirstMatchWins(t *testing.T) {
	always := func(string, core.EntitySet) bool { return true }
	c := NewClassifier([]Rule{
		{Name: "first", Intent: core.IntentGreeting, Match: always},
		{Name: "second", Intent: core.IntentGratitude, Match: always},
	})

	got := c.Explain("x", core.NewEntitySet())
	assert.Equal(t, Classification{Intent: core.IntentGreeting, Rule: "first"}, got)
}

func TestClassifier_DropsInvalidRules(t *testing.T) {
	always := func(string, core.EntitySet) bool { return true }
	c := NewClassifier([]Rule{
		{Name: "nil matcher", Intent: core.IntentGreeting},
		{Name: "unknown intent", Intent: core.Intent("quantum_reasoning"), Match: always},
	})

	assert.Empty(t, c.Rules())
	assert.Equal(t, core.IntentGeneral, c.Classify("anything", core.NewEntitySet()))
}

func TestClassifier_ZeroEntitySet(t *testing.T) {
	c := NewClassifier(DefaultRules(security.NewPrivacyGuard()))
	assert.Equal(t, core.IntentGeneral, c.Classify("", core.EntitySet{}))
}

func FuzzClassifier_Total(f *testing.F) {
	for _, s := range normalizeSeeds {
		f.Add(s)
	}
	p := newPipeline()
	f.Fuzz(func(t *testing.T, s string) {
		if got := p.classify(s).Intent; !got.Valid() {
			t.Fatalf("classify(%q) = %q, not in the enumeration", s, got)
		}
	})
}
