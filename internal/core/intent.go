// internal/core/intent.go
package core

// Intent - هدف طبقه‌بندی‌شده‌ی یک پرسش، از یک مجموعه‌ی بسته
type Intent string

const (
	IntentPersonalLife     Intent = "personal_life_inquiry"
	IntentPersonAchieve    Intent = "person_achievements"
	IntentPersonProjects   Intent = "person_projects"
	IntentPersonExpertise  Intent = "person_expertise"
	IntentPersonIntro      Intent = "person_introduction"
	IntentGenerateArticle  Intent = "generate_article"
	IntentTopicExplanation Intent = "topic_explanation"
	IntentWisdomAdvice     Intent = "wisdom_advice"
	IntentGratitude        Intent = "gratitude"
	IntentGreeting         Intent = "greeting"
	IntentGeneral          Intent = "general_inquiry"
)

var allIntents = []Intent{
	IntentPersonalLife,
	IntentPersonAchieve,
	IntentPersonProjects,
	IntentPersonExpertise,
	IntentPersonIntro,
	IntentGenerateArticle,
	IntentTopicExplanation,
	IntentWisdomAdvice,
	IntentGratitude,
	IntentGreeting,
	IntentGeneral,
}

// AllIntents returns every label of the enumeration.
func AllIntents() []Intent {
	out := make([]Intent, len(allIntents))
	copy(out, allIntents)
	return out
}

func (i Intent) Valid() bool {
	for _, known := range allIntents {
		if i == known {
			return true
		}
	}
	return false
}

// IsPersonal reports whether the intent needs a dossier record.
func (i Intent) IsPersonal() bool {
	switch i {
	case IntentPersonAchieve, IntentPersonProjects, IntentPersonExpertise, IntentPersonIntro:
		return true
	}
	return false
}

func (i Intent) String() string { return string(i) }
