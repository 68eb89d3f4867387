// internal/perception/vocabulary.go
package perception

import (
	"github.com/Parhamfakhar1/natiq/internal/security"
)

// برچسب‌های کنش غیرحساس
const (
	ActionAchievement  = "achievement"
	ActionProjects     = "projects"
	ActionExpertise    = "expertise"
	ActionIntroduction = "introduction"
	ActionWriteArticle = "write_article"
	ActionExplain      = "explain"
	ActionAdvice       = "advice"
	ActionThanks       = "thanks"
	ActionGreeting     = "greeting"
)

// برچسب‌های ویژگی
const (
	AttributeProfession = "profession"
	AttributeEducation  = "education"
	AttributeAge        = "age"
	AttributeBackground = "background"
	AttributeOrigin     = "origin"
	AttributeContact    = "contact"
)

// Term maps a surface form found in text to its canonical label.
type Term struct {
	Surface string
	Label   string
}

// Vocabulary - چهار واژگان بسته برای استخراج موجودیت
type Vocabulary struct {
	Persons    []Term
	Topics     []Term
	Actions    []Term
	Attributes []Term
}

// WithPersons returns a copy of v whose person vocabulary also contains
// the given canonical names (each name is its own surface form).
func (v Vocabulary) WithPersons(names ...string) Vocabulary {
	persons := make([]Term, 0, len(v.Persons)+len(names))
	persons = append(persons, v.Persons...)
	for _, name := range names {
		if name == "" {
			continue
		}
		persons = append(persons, Term{Surface: name, Label: name})
	}
	v.Persons = persons
	return v
}

func terms(label string, surfaces ...string) []Term {
	out := make([]Term, len(surfaces))
	for i, s := range surfaces {
		out[i] = Term{Surface: s, Label: label}
	}
	return out
}

func concat(groups ...[]Term) []Term {
	var out []Term
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// DefaultVocabulary returns the built-in vocabularies. Surface forms are
// written in normalized form.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Persons: concat(
			terms("رامین اجلال", "رامین اجلال", "اجلال"),
			// افراد شناخته‌شده بدون پرونده؛ پاسخ آن‌ها «اطلاعی ندارم» است
			terms("ابن سینا", "ابن سینا", "ابن\u200cسینا"),
			terms("فردوسی", "فردوسی"),
			terms("خیام", "خیام"),
			terms("مولانا", "مولانا", "مولوی"),
		),
		Topics: concat(
			terms("هوش مصنوعی", "هوش مصنوعی", "artificial intelligence"),
			terms("یادگیری ماشین", "یادگیری ماشین", "machine learning"),
			terms("یادگیری عمیق", "یادگیری عمیق", "deep learning"),
			terms("برنامه نویسی", "برنامه نویسی", "برنامه\u200cنویسی", "programming"),
			terms("پایتون", "پایتون", "python"),
			terms("زبان گو", "زبان گو", "گولنگ", "golang"),
			terms("بلاک چین", "بلاک چین", "بلاکچین", "blockchain"),
			terms("امنیت سایبری", "امنیت سایبری", "cybersecurity"),
			terms("رایانش ابری", "رایانش ابری", "cloud computing"),
			terms("علم داده", "علم داده", "داده کاوی", "data science"),
			terms("اینترنت اشیا", "اینترنت اشیا", "internet of things"),
		),
		Actions: concat(
			// حریم خصوصی
			terms(security.ActionSpouse, "همسر", "شوهر", "زنش"),
			terms(security.ActionMarriage, "ازدواج", "متاهل", "متأهل", "مجرد"),
			terms(security.ActionChildren, "فرزند", "بچه"),
			terms(security.ActionFamily, "خانواده", "پدر و مادر"),
			terms(security.ActionDivorce, "طلاق", "جدا شد"),
			terms(security.ActionRelationship, "دوست دختر", "دوست پسر", "رابطه عاشقانه", "عشق زندگی"),
			terms(security.ActionHomeAddress, "آدرس خانه", "آدرس منزل", "کجا زندگی می"),
			terms(security.ActionPhoneNumber, "شماره تلفن", "شماره موبایل", "شماره همراه"),
			terms(security.ActionIncome, "درآمد", "چقدر پول", "ثروت"),
			terms(security.ActionPrivateLife, "زندگی شخصی", "زندگی خصوصی", "مسائل شخصی"),

			// اطلاعاتی
			terms(ActionAchievement, "دستاورد", "افتخار", "جایزه", "موفقیت"),
			terms(ActionProjects, "پروژه", "نمونه کار", "محصولات"),
			terms(ActionExpertise, "تخصص", "مهارت", "حوزه کاری", "چه کاری بلد"),
			terms(ActionIntroduction, "کیست", "کی هست", "چه کسی", "معرفی", "بیوگرافی", "زندگینامه", "زندگی\u200cنامه"),
			terms(ActionWriteArticle, "مقاله", "بنویس", "نوشتن متن"),
			terms(ActionExplain, "چیست", "توضیح", "یعنی چه", "تعریف"),
			terms(ActionAdvice, "نصیحت", "توصیه", "پند", "راهنمایی", "چگونه", "چطور", "حکمت", "راز موفقیت"),
			terms(ActionThanks, "ممنون", "مرسی", "سپاس", "متشکر", "thank you", "thanks"),
			terms(ActionGreeting, "سلام", "درود", "صبح بخیر", "عصر بخیر", "hello", "salam"),
		),
		Attributes: concat(
			terms(AttributeProfession, "شغل", "حرفه", "چه کاره"),
			terms(AttributeEducation, "تحصیلات", "مدرک", "دانشگاه"),
			terms(AttributeAge, "چند سال", "سنش", "متولد"),
			terms(AttributeBackground, "سابقه", "پیشینه", "تجربه"),
			terms(AttributeOrigin, "اهل کجا", "ملیت"),
			terms(AttributeContact, "ایمیل", "راه ارتباط", "تماس"),
		),
	}
}
