// internal/security/privacy_guard.go
package security

import (
	"github.com/Parhamfakhar1/natiq/internal/core"
	"github.com/Parhamfakhar1/natiq/internal/utils"
)

// برچسب‌های کنش حساس به حریم خصوصی
const (
	ActionMarriage     = "marriage"
	ActionSpouse       = "spouse"
	ActionChildren     = "children"
	ActionFamily       = "family"
	ActionDivorce      = "divorce"
	ActionRelationship = "relationship"
	ActionHomeAddress  = "home_address"
	ActionPhoneNumber  = "phone_number"
	ActionIncome       = "income"
	ActionPrivateLife  = "private_life"
)

// PrivacyGuard - محافظ حریم خصوصی: پرسش درباره‌ی زندگی شخصی افراد
// همیشه با امتناع پاسخ داده می‌شود، حتی اگر پرونده‌ی شخص موجود باشد.
type PrivacyGuard struct {
	sensitiveActions core.LabelSet
}

func NewPrivacyGuard() *PrivacyGuard {
	return &PrivacyGuard{
		sensitiveActions: core.NewLabelSet(
			ActionMarriage,
			ActionSpouse,
			ActionChildren,
			ActionFamily,
			ActionDivorce,
			ActionRelationship,
			ActionHomeAddress,
			ActionPhoneNumber,
			ActionIncome,
			ActionPrivateLife,
		),
	}
}

// SensitiveActions returns the privacy-sensitive action labels, sorted.
func (pg *PrivacyGuard) SensitiveActions() []string {
	return pg.sensitiveActions.Sorted()
}

// IsPersonalLifeInquiry reports whether the extracted actions touch a
// person's private life.
func (pg *PrivacyGuard) IsPersonalLifeInquiry(entities core.EntitySet) bool {
	for label := range entities.Actions {
		if pg.sensitiveActions.Has(label) {
			return true
		}
	}
	return false
}

// Redact replaces a question with a stable, non-reversible marker so it
// can be archived without keeping the text.
func (pg *PrivacyGuard) Redact(question string) string {
	return "[redacted:" + utils.HashSHA256(question)[:12] + "]"
}
