// internal/perception/rules.go
package perception

import (
	"github.com/Parhamfakhar1/natiq/internal/core"
	"github.com/Parhamfakhar1/natiq/internal/security"
)

// Rule - یک جفت (شرط، برچسب) در فهرست تصمیم مرتب
type Rule struct {
	Name   string
	Intent core.Intent
	Match  func(text string, e core.EntitySet) bool
}

// DefaultRules returns the decision list in evaluation order. The privacy
// rule must stay first: personal-life questions are refused even when the
// person has a dossier. A sensitive word only refuses alongside a person,
// an introduction request, or when no topic was found.
func DefaultRules(guard *security.PrivacyGuard) []Rule {
	return []Rule{
		{
			Name:   "privacy_refusal",
			Intent: core.IntentPersonalLife,
			// پرسش کلی درباره‌ی یک موضوع («درآمدی بر ...»، «بچه‌ها و برنامه نویسی») امتناع نمی‌گیرد
			Match: func(_ string, e core.EntitySet) bool {
				if !guard.IsPersonalLifeInquiry(e) {
					return false
				}
				return e.Persons.Len() > 0 || e.Actions.Has(ActionIntroduction) || e.Topics.Len() == 0
			},
		},
		{
			Name:   "person_achievements",
			Intent: core.IntentPersonAchieve,
			Match: func(_ string, e core.EntitySet) bool {
				return e.Persons.Len() > 0 && e.Actions.Has(ActionAchievement)
			},
		},
		{
			Name:   "person_projects",
			Intent: core.IntentPersonProjects,
			Match: func(_ string, e core.EntitySet) bool {
				return e.Persons.Len() > 0 && e.Actions.Has(ActionProjects)
			},
		},
		{
			Name:   "person_expertise",
			Intent: core.IntentPersonExpertise,
			Match: func(_ string, e core.EntitySet) bool {
				return e.Persons.Len() > 0 &&
					(e.Actions.Has(ActionExpertise) || e.Attributes.Has(AttributeProfession))
			},
		},
		{
			// «کیست» بدون نام شناخته‌شده هم به همین شاخه می‌رسد و با «اطلاعی ندارم» پاسخ می‌گیرد
			Name:   "person_introduction",
			Intent: core.IntentPersonIntro,
			Match: func(_ string, e core.EntitySet) bool {
				if e.Actions.Has(ActionIntroduction) {
					// «هوش مصنوعی را معرفی کن» به شاخه‌ی موضوع می‌رود
					return e.Persons.Len() > 0 || e.Topics.Len() == 0
				}
				return e.Persons.Len() > 0 && !e.Actions.Has(ActionWriteArticle)
			},
		},
		{
			Name:   "generate_article",
			Intent: core.IntentGenerateArticle,
			Match: func(_ string, e core.EntitySet) bool {
				return e.Actions.Has(ActionWriteArticle)
			},
		},
		{
			Name:   "topic_explanation",
			Intent: core.IntentTopicExplanation,
			Match: func(_ string, e core.EntitySet) bool {
				if e.Topics.Len() == 0 {
					return false
				}
				return e.Actions.Has(ActionExplain) || !e.Actions.HasAny(ActionAdvice, ActionThanks)
			},
		},
		{
			Name:   "wisdom_advice",
			Intent: core.IntentWisdomAdvice,
			Match: func(_ string, e core.EntitySet) bool {
				return e.Actions.Has(ActionAdvice)
			},
		},
		{
			Name:   "gratitude",
			Intent: core.IntentGratitude,
			Match: func(_ string, e core.EntitySet) bool {
				return e.Actions.Has(ActionThanks)
			},
		},
		{
			Name:   "greeting",
			Intent: core.IntentGreeting,
			Match: func(_ string, e core.EntitySet) bool {
				return e.Actions.Has(ActionGreeting)
			},
		},
	}
}
