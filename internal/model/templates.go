// internal/model/templates.go
package model

import "github.com/Parhamfakhar1/natiq/internal/core"

// Style - لحن پاسخ
type Style string

const (
	StyleFormal   Style = "formal"
	StyleFriendly Style = "friendly"
)

// ParseStyle maps free-form input to a known style; anything else is formal.
func ParseStyle(s string) Style {
	switch Style(s) {
	case StyleFriendly:
		return StyleFriendly
	default:
		return StyleFormal
	}
}

// نام قالب‌هایی که به یک قصد گره نخورده‌اند
const (
	TemplateClarification = "clarification"
	TemplateNotFound      = "not_found"
)

// TemplateKey identifies one template: an intent name (or one of the
// fallback names above) in a given style.
type TemplateKey struct {
	Name  string
	Style Style
}

// Templates is a set of text/template sources.
type Templates map[TemplateKey]string

func key(name string, style Style) TemplateKey {
	return TemplateKey{Name: name, Style: style}
}

func intentKey(intent core.Intent, style Style) TemplateKey {
	return TemplateKey{Name: string(intent), Style: style}
}

const closingBlock = "{{with .Closing}}\n\n{{.}}{{end}}"

// DefaultTemplates returns the built-in Persian templates.
func DefaultTemplates() Templates {
	return Templates{
		key(TemplateClarification, StyleFormal): "پرسش شما را به‌طور کامل متوجه نشدم. " +
			"لطفاً پرسش کامل‌تری مطرح کنید؛ برای نمونه درباره‌ی یک شخص شناخته‌شده، " +
			"یک موضوع فنی یا نوشتن یک مقاله بپرسید.",
		key(TemplateClarification, StyleFriendly): "راستش منظورت رو کامل نگرفتم! " +
			"یه کم بیشتر توضیح می‌دی؟ مثلاً درباره‌ی یه آدم، یه موضوع فنی یا یه مقاله بپرس.",

		key(TemplateNotFound, StyleFormal): "{{if .Person}}درباره‌ی «{{.Person}}» اطلاعات معتبری در اختیار ندارم." +
			"{{else}}درباره‌ی این شخص اطلاعات معتبری در اختیار ندارم.{{end}} " +
			"ترجیح می‌دهم به جای حدس زدن، این را صادقانه بگویم. " +
			"اگر نام کامل یا زمینه‌ی بیشتری بدهید، دوباره بررسی می‌کنم.",
		key(TemplateNotFound, StyleFriendly): "{{if .Person}}راستش درباره‌ی «{{.Person}}» چیزی نمی‌دونم." +
			"{{else}}راستش درباره‌ی این آدم چیزی نمی‌دونم.{{end}} " +
			"نمی‌خوام چیزی از خودم بسازم؛ اگه اسم کامل یا اطلاعات بیشتری بدی، دوباره نگاه می‌کنم.",

		// امتناع هیچ فیلدی از پرونده را نمی‌خواند
		intentKey(core.IntentPersonalLife, StyleFormal): "به حریم خصوصی افراد احترام می‌گذارم و " +
			"درباره‌ی زندگی شخصی و خانوادگی آن‌ها اطلاعاتی ارائه نمی‌کنم. " +
			"اگر مایل باشید، می‌توانم درباره‌ی فعالیت‌های حرفه‌ای و کارهای عمومی افراد صحبت کنم.",
		intentKey(core.IntentPersonalLife, StyleFriendly): "این یکی دیگه خصوصیه! " +
			"درباره‌ی زندگی شخصی و خانوادگی آدم‌ها چیزی نمی‌گم. " +
			"ولی اگه بخوای، از کارها و فعالیت‌های حرفه‌ای‌شون برات می‌گم.",

		intentKey(core.IntentPersonIntro, StyleFormal): "{{.Record.Name}}{{with .Record.Profession}} {{.}} است{{end}}." +
			"{{with .Record.Background}} {{.}}{{end}}" +
			"{{with .Record.Expertise}}\n\nحوزه‌های تخصصی: {{join . \"، \"}}.{{end}}",
		intentKey(core.IntentPersonIntro, StyleFriendly): "{{.Record.Name}} رو می‌شناسم!" +
			"{{with .Record.Profession}} کارش: {{.}}.{{end}}" +
			"{{with .Record.Background}} {{.}}{{end}}" +
			"{{with .Record.Expertise}}\n\nتوی این زمینه‌ها وارده: {{join . \"، \"}}.{{end}}",

		intentKey(core.IntentPersonAchieve, StyleFormal): "مهم‌ترین دستاوردهای {{.Record.Name}}:\n" +
			"{{range $i, $a := .Record.Achievements}}{{inc $i}}. {{$a}}\n" +
			"{{else}}دستاوردی برای ایشان ثبت نشده است.{{end}}",
		intentKey(core.IntentPersonAchieve, StyleFriendly): "کارهای درخشان {{.Record.Name}}:\n" +
			"{{range .Record.Achievements}}- {{.}}\n" +
			"{{else}}فعلاً دستاوردی ازش ثبت نکردم.{{end}}",

		intentKey(core.IntentPersonProjects, StyleFormal): "پروژه‌های {{.Record.Name}}:\n" +
			"{{range $i, $p := .Record.Projects}}{{inc $i}}. {{$p}}\n" +
			"{{else}}پروژه‌ای برای ایشان ثبت نشده است.{{end}}",
		intentKey(core.IntentPersonProjects, StyleFriendly): "پروژه‌های {{.Record.Name}} اینان:\n" +
			"{{range .Record.Projects}}- {{.}}\n" +
			"{{else}}فعلاً پروژه‌ای ازش ثبت نکردم.{{end}}",

		intentKey(core.IntentPersonExpertise, StyleFormal): "{{.Record.Name}}{{with .Record.Profession}} {{.}} است{{end}}." +
			"{{with .Record.Expertise}}\nحوزه‌های تخصصی ایشان: {{join . \"، \"}}.{{end}}",
		intentKey(core.IntentPersonExpertise, StyleFriendly): "{{.Record.Name}}{{with .Record.Profession}} {{.}}ه{{end}}." +
			"{{with .Record.Expertise}}\nتوی این‌ها حرفه‌ایه: {{join . \"، \"}}.{{end}}",

		intentKey(core.IntentGenerateArticle, StyleFormal): "# {{.Topic}}\n\n## مقدمه\n{{.Entry.Summary}}\n\n" +
			"## کاربردها\n{{range .Entry.Uses}}- {{.}}\n{{end}}\n" +
			"## جمع‌بندی\n{{.Topic}} حوزه‌ای پویاست و شناخت آن برای هر علاقه‌مندی ارزشمند است." +
			closingBlock,
		intentKey(core.IntentGenerateArticle, StyleFriendly): "# {{.Topic}}\n\n{{.Entry.Summary}}\n\n" +
			"کجاها به کار میاد؟\n{{range .Entry.Uses}}- {{.}}\n{{end}}\n" +
			"خلاصه اینکه {{.Topic}} ارزش یاد گرفتن رو داره!" +
			closingBlock,

		intentKey(core.IntentTopicExplanation, StyleFormal): "{{.Topic}}: {{.Entry.Summary}}" +
			"{{with .Entry.Uses}}\n\nکاربردهای رایج: {{join . \"، \"}}.{{end}}" +
			"{{with .Others}}\n\nاگر مایل باشید، درباره‌ی {{join . \"، \"}} هم توضیح می‌دهم.{{end}}" +
			closingBlock,
		intentKey(core.IntentTopicExplanation, StyleFriendly): "{{.Topic}} یعنی: {{.Entry.Summary}}" +
			"{{with .Entry.Uses}}\n\nمثلاً توی {{join . \"، \"}} به کار میاد.{{end}}" +
			"{{with .Others}}\n\nدرباره‌ی {{join . \"، \"}} هم بپرسی، می‌گم.{{end}}" +
			closingBlock,

		intentKey(core.IntentWisdomAdvice, StyleFormal): "پاسخ این پرسش در چند اصل ساده خلاصه می‌شود:\n" +
			"۱. هدفی روشن و قابل‌سنجش داشته باشید.\n" +
			"۲. هر روز اندکی بیاموزید و پیوسته تمرین کنید.\n" +
			"۳. از شکست‌ها درس بگیرید و شکیبا باشید.\n" +
			"۴. با افراد الهام‌بخش همراه شوید." +
			closingBlock,
		intentKey(core.IntentWisdomAdvice, StyleFriendly): "چند تا نکته‌ی ساده که همیشه جواب داده:\n" +
			"- هدفت رو روشن کن.\n" +
			"- هر روز یه کم یاد بگیر و تمرین کن.\n" +
			"- از اشتباه‌ها نترس، ازشون یاد بگیر.\n" +
			"- با آدم‌های باانگیزه بگرد." +
			closingBlock,

		intentKey(core.IntentGratitude, StyleFormal): "خواهش می‌کنم؛ خوشحالم که توانستم کمکی کنم. " +
			"اگر پرسش دیگری دارید، در خدمتم.",
		intentKey(core.IntentGratitude, StyleFriendly): "خواهش می‌کنم! خوشحالم که به کارت اومد. بازم سؤال داشتی بپرس.",

		intentKey(core.IntentGreeting, StyleFormal): "سلام، وقت شما بخیر. من ناطق هستم؛ " +
			"می‌توانید درباره‌ی افراد شناخته‌شده، موضوعات فنی یا نوشتن مقاله از من بپرسید.",
		intentKey(core.IntentGreeting, StyleFriendly): "سلام! من ناطقم. " +
			"درباره‌ی آدم‌های معروف، موضوعای فنی یا نوشتن مقاله هر چی خواستی بپرس.",
	}
}

// DefaultClosings are the cosmetic last lines, per style.
func DefaultClosings() map[Style][]string {
	return map[Style][]string{
		StyleFormal: {
			"«دانایی، توانایی است.»",
			"امیدوارم این پاسخ برایتان سودمند بوده باشد.",
			"یادگیری سفری است که پایان ندارد.",
			"هر پرسش خوب، آغاز کشفی تازه است.",
		},
		StyleFriendly: {
			"امیدوارم به دردت بخوره!",
			"یاد گرفتن هیچ‌وقت تموم نمی‌شه.",
			"سؤال خوب نصف جوابه!",
		},
	}
}

// TopicEntry - مدخل واژه‌نامه‌ی موضوعات
type TopicEntry struct {
	Summary string
	Uses    []string
}

// DefaultGlossary is keyed by the canonical topic labels of the extractor.
func DefaultGlossary() map[string]TopicEntry {
	return map[string]TopicEntry{
		"هوش مصنوعی": {
			Summary: "شاخه‌ای از علوم رایانه که به ساخت سامانه‌هایی می‌پردازد " +
				"که کارهای نیازمند هوش انسانی مانند استدلال، یادگیری و درک زبان را انجام دهند.",
			Uses: []string{"دستیارهای گفت‌وگو", "ترجمه‌ی ماشینی", "تشخیص پزشکی"},
		},
		"یادگیری ماشین": {
			Summary: "روشی در هوش مصنوعی که در آن رایانه به جای برنامه‌ریزی صریح، " +
				"الگوها را از داده‌ها می‌آموزد و با داده‌ی بیشتر بهتر می‌شود.",
			Uses: []string{"پیشنهاد محصول", "تشخیص هرزنامه", "پیش‌بینی تقاضا"},
		},
		"یادگیری عمیق": {
			Summary: "زیرشاخه‌ای از یادگیری ماشین که با شبکه‌های عصبی چندلایه " +
				"بازنمایی‌های پیچیده را مستقیماً از داده‌ی خام یاد می‌گیرد.",
			Uses: []string{"بینایی ماشین", "تشخیص گفتار", "مدل‌های زبانی"},
		},
		"برنامه نویسی": {
			Summary: "فرایند نوشتن دستورهایی دقیق برای رایانه به زبانی که ماشین بتواند اجرا کند؛ " +
				"هنری میان منطق، طراحی و حل مسئله.",
			Uses: []string{"ساخت وب‌سایت", "اپلیکیشن موبایل", "خودکارسازی کارها"},
		},
		"پایتون": {
			Summary: "زبان برنامه‌نویسی سطح بالا با نحوی خوانا که به خاطر سادگی " +
				"و کتابخانه‌های فراوانش محبوب است.",
			Uses: []string{"علم داده", "توسعه‌ی وب", "اسکریپت‌نویسی"},
		},
		"زبان گو": {
			Summary: "زبانی کامپایلی و ساده که در گوگل طراحی شد و با goroutine و channel " +
				"برنامه‌نویسی همروند را آسان می‌کند.",
			Uses: []string{"سرویس‌های شبکه", "ابزارهای زیرساخت", "ابزارهای خط فرمان"},
		},
		"بلاک چین": {
			Summary: "دفتر کل توزیع‌شده‌ای که رکوردهایش در بلوک‌های زنجیره‌شده " +
				"ذخیره می‌شوند و تغییر آن‌ها بدون توافق شبکه ممکن نیست.",
			Uses: []string{"رمزارزها", "ردیابی زنجیره‌ی تأمین", "قراردادهای هوشمند"},
		},
		"امنیت سایبری": {
			Summary: "مجموعه‌ای از روش‌ها و فناوری‌ها برای محافظت از سامانه‌ها، " +
				"شبکه‌ها و داده‌ها در برابر حمله و دسترسی غیرمجاز.",
			Uses: []string{"رمزنگاری", "تست نفوذ", "پایش رخدادها"},
		},
		"رایانش ابری": {
			Summary: "ارائه‌ی منابع محاسباتی مانند سرور، ذخیره‌سازی و پایگاه داده " +
				"به‌صورت سرویس از طریق اینترنت و با پرداخت به اندازه‌ی مصرف.",
			Uses: []string{"میزبانی وب", "پشتیبان‌گیری", "پردازش داده‌های بزرگ"},
		},
		"علم داده": {
			Summary: "دانشی میان‌رشته‌ای که با آمار، برنامه‌نویسی و شناخت حوزه، " +
				"از داده‌ها بینش و دانش قابل استفاده بیرون می‌کشد.",
			Uses: []string{"تحلیل رفتار مشتری", "گزارش‌های مدیریتی", "کشف تقلب"},
		},
		"اینترنت اشیا": {
			Summary: "شبکه‌ای از دستگاه‌های فیزیکی مجهز به حسگر و اتصال اینترنت " +
				"که داده جمع‌آوری و با یکدیگر تبادل می‌کنند.",
			Uses: []string{"خانه‌ی هوشمند", "کشاورزی دقیق", "پایش صنعتی"},
		},
	}
}
