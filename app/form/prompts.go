package form

import "strings"

// Prompt is the externally-facing question for a step: the message text plus
// the reply-keyboard affordances to present with it.
type Prompt struct {
	Text           string
	Keyboard       [][]string
	ContactRequest bool // first keyboard button asks to share a contact
	RemoveKeyboard bool
}

// Fixed labels that are matched against incoming text.
const (
	LanguageButtonUZ = "🇺🇿 O‘zbek"
	LanguageButtonRU = "🇷🇺 Русский"

	menuAboutUZ    = "📌 Kompaniya haqida"
	menuAboutRU    = "📌 О компании"
	menuRegisterUZ = "📝 Ro‘yxatdan o‘tish"
	menuRegisterRU = "📝 Регистрация"
)

// tr picks the localized variant for lang, defaulting to the primary language.
func tr(lang Lang, uz, ru string) string {
	if lang == LangRU {
		return ru
	}
	return uz
}

// YesLabel returns the localized affirmative button label.
func YesLabel(lang Lang) string { return tr(lang, "Ha", "Да") }

// NoLabel returns the localized negative button label.
func NoLabel(lang Lang) string { return tr(lang, "Yo‘q", "Нет") }

var stepTexts = map[StepID][2]string{
	"name": {
		"Ro‘yxatdan o‘tishni boshlaymiz.\n\nIltimos, <b>Ism Familyangizni</b> kiriting:",
		"Начнем регистрацию.\n\nПожалуйста, введите ваше <b>Имя и Фамилию</b>:",
	},
	"birth": {
		"Tug‘ilgan sanangizni kiriting (masalan, 01.01.1990):",
		"Введите вашу дату рождения (например, 01.01.1990):",
	},
	"phone": {
		"Telefon raqamingizni yuborish uchun tugmani bosing yoki o‘zingiz yozib yuboring:",
		"Нажмите кнопку, чтобы отправить номер телефона, или введите его вручную:",
	},
	"department": {
		"Qaysi bo‘limga ishga kirmoqchisiz?",
		"В какой отдел вы хотите устроиться?",
	},
	"address": {
		"Yashash manzilingizni yozing (ko‘cha, uy, tuman, shahar):",
		"Напишите ваш адрес проживания (улица, дом, район, город):",
	},
	"nationality": {"Millatingizni tanlang:", "Выберите вашу национальность:"},
	"education":   {"Ma’lumotingizni tanlang:", "Выберите ваше образование:"},
	"marital":     {"Oylaviy holatingizni tanlang:", "Выберите ваше семейное положение:"},
	"habits":      {"Zararli odatlaringiz:", "Вредные привычки:"},
	"lang_ru": {
		"Rus tilini bilish darajangizni tanlang:",
		"Выберите уровень владения русским языком:",
	},
	"lang_en": {
		"Ingliz tilini bilish darajangizni tanlang:",
		"Выберите уровень владения английским языком:",
	},
	"lang_cn": {
		"Xitoy tilini bilish darajangizni tanlang:",
		"Выберите уровень владения китайским языком:",
	},
	"skill_word": {
		"Word dasturini bilish darajangizni tanlang:",
		"Выберите уровень владения Word:",
	},
	"skill_excel": {
		"Excel dasturini bilish darajangizni tanlang:",
		"Выберите уровень владения Excel:",
	},
	"skill_onec": {
		"1C dasturini bilish darajangizni tanlang:",
		"Выберите уровень владения 1C:",
	},
	"source_info": {
		"Kompaniyamiz haqida qayerdan ma’lumot oldingiz?",
		"Откуда вы узнали о нашей компании?",
	},
	"prev_job": {
		"Avvalgi ish joyingiz? (kompaniya va lavozim):",
		"Ваше предыдущее место работы? (компания и должность):",
	},
	"salary": {
		"Hohlayotgan ish haqqingizni kiriting:",
		"Введите желаемую заработную плату:",
	},
	"shift": {
		"Qaysi smenada ishlay olasiz?",
		"В какую смену вы можете работать?",
	},
	"ref_check": {
		"Eski ish joyingizdan va yashash joyingizdan surishtirishga qarshiligingiz yo‘qmi?",
		"Вы не против, если мы наведём справки с вашего прошлого места работы и места жительства?",
	},
	"photo": {
		"Iltimos, fotosuratingizni yuboring:",
		"Пожалуйста, отправьте ваше фото:",
	},
}

// RenderPrompt produces the question and keyboard for a catalog step. It is a
// pure function of (step, language): no session state is consulted.
func RenderPrompt(id StepID, lang Lang) (Prompt, bool) {
	step, ok := StepByID(id)
	if !ok {
		return Prompt{}, false
	}
	texts, ok := stepTexts[id]
	if !ok {
		return Prompt{}, false
	}

	p := Prompt{Text: tr(lang, texts[0], texts[1])}

	switch step.Kind {
	case KindFreeText:
		// The opening question and the address/prev-job questions hide the
		// previous keyboard; plain mid-form questions leave it alone.
		if id == "name" || id == "address" || id == "prev_job" {
			p.RemoveKeyboard = true
		}
	case KindContactOrText:
		p.ContactRequest = true
		p.Keyboard = [][]string{{tr(lang, "📲 Telefon raqamni ulashish", "📲 Поделиться номером")}}
	case KindSingleChoice, KindPercent:
		p.Keyboard = step.Choices[lang]
	case KindYesNo:
		p.Keyboard = [][]string{{YesLabel(lang), NoLabel(lang)}}
	case KindPhoto:
		p.Keyboard = [][]string{{tr(lang, "Bekor qilish", "Отменить")}}
	}

	return p, true
}

// LanguageKeyboard is the two-button language selection keyboard.
func LanguageKeyboard() [][]string {
	return [][]string{{LanguageButtonUZ, LanguageButtonRU}}
}

// MenuKeyboard is the post-language main menu.
func MenuKeyboard(lang Lang) [][]string {
	return [][]string{
		{tr(lang, menuAboutUZ, menuAboutRU)},
		{tr(lang, menuRegisterUZ, menuRegisterRU)},
	}
}

// MatchLanguage recognizes a language-selection button press.
func MatchLanguage(text string) (Lang, bool) {
	switch text {
	case LanguageButtonUZ:
		return LangUZ, true
	case LanguageButtonRU:
		return LangRU, true
	}
	return "", false
}

// MenuSelection identifies a main-menu button press.
type MenuSelection int

const (
	// MenuNone means the text matched no menu button.
	MenuNone MenuSelection = iota
	// MenuAbout is the "about company" button.
	MenuAbout
	// MenuRegister is the "register" button.
	MenuRegister
)

// MatchMenu recognizes a main-menu button press in either language.
func MatchMenu(text string) MenuSelection {
	switch text {
	case menuAboutUZ, menuAboutRU:
		return MenuAbout
	case menuRegisterUZ, menuRegisterRU:
		return MenuRegister
	}
	return MenuNone
}

// GreetingText is the bilingual /start welcome shown before language choice.
func GreetingText(firstName string) string {
	var b strings.Builder
	b.WriteString("🇺🇿Assalomu alaykum " + firstName + ".\n")
	b.WriteString("Roshaa Market botiga xush kelibsiz!\n")
	b.WriteString("Pastdan tilni tanlang:\n\n")
	b.WriteString("🇷🇺Здравствуйте " + firstName + ".\n")
	b.WriteString("Добро пожаловать в бот Roshaa Market!\n")
	b.WriteString("Выберите язык внизу:")
	return b.String()
}

// MenuText greets the user after language selection.
func MenuText(lang Lang) string {
	return tr(lang,
		"Assalomu alaykum! Marhamat, bo‘limni tanlang 👇",
		"Здравствуйте! Выберите раздел 👇",
	)
}

// AboutText is the static company information card.
func AboutText(lang Lang) string {
	return tr(lang,
		"📌 <b>Kompaniya haqida qisqacha ma’lumot</b>\n\n"+
			"📱 Telegram kanal: @shukurxon800_zaa\n"+
			"📞 Call-markaz: +998-90-634-44-44",
		"📌 <b>Краткая информация о компании</b>\n\n"+
			"📱 Telegram-канал: @shukurxon800_zaa\n"+
			"📞 Call-центр: +998-90-634-44-44",
	)
}

// ResumeQuestion asks whether to continue an interrupted application.
func ResumeQuestion(lang Lang) string {
	return tr(lang,
		"Siz ilgari boshlangan, lekin tugallanmagan arizaga egasiz.\nUni davom ettirmoqchimisiz?",
		"У вас есть незавершённая заявка.\nХотите продолжить заполнение?",
	)
}

// ResumeRetryText re-asks the yes/no resume choice after unrecognized input.
func ResumeRetryText(lang Lang) string {
	return tr(lang,
		"Iltimos, pastdagi tugmalardan birini tanlang: Ha / Yo‘q",
		"Пожалуйста, выберите один из вариантов: Да / Нет",
	)
}

// RestartText announces a fresh start when the saved step was lost.
func RestartText(lang Lang) string {
	return tr(lang, "Ro‘yxatdan o‘tishni yangidan boshlaymiz.", "Начнём регистрацию заново.")
}

// NewApplicationText invites a language choice after declining to resume.
func NewApplicationText(lang Lang) string {
	return tr(lang,
		"Yangi ariza boshlash uchun tilni tanlang:",
		"Чтобы начать новую заявку, выберите язык:",
	)
}

// PhotoRetryText rejects non-photo input at the photo step.
func PhotoRetryText(lang Lang) string {
	return tr(lang, "Iltimos, fotosuratingizni yuboring.", "Пожалуйста, отправьте ваше фото.")
}

// ConfirmButtonLabel and CancelButtonLabel caption the preview's inline buttons.
func ConfirmButtonLabel(lang Lang) string { return tr(lang, "✅ Tasdiqlash", "✅ Подтвердить") }

// CancelButtonLabel captions the preview's cancel button.
func CancelButtonLabel(lang Lang) string { return tr(lang, "❌ Bekor qilish", "❌ Отменить") }

// SubmittedText replaces the preview caption after submission.
func SubmittedText(lang Lang) string {
	return tr(lang, "Arizangiz yuborildi ✅", "Ваша заявка отправлена ✅")
}

// ReceiptText is the separate confirmation message sent to the applicant.
func ReceiptText(lang Lang) string {
	return tr(lang,
		"✅ Arizangiz muvaffaqiyatli qabul qilindi!\n"+
			"HR bo‘limi siz bilan 3 ish kuni ichida bog‘lanadi.\n"+
			"Rahmat!",
		"✅ Ваша заявка успешно принята!\n"+
			"Наш HR-отдел свяжется с вами в течение 3 рабочих дней.\n"+
			"Спасибо!",
	)
}

// CancelledText replaces the preview caption after cancellation.
func CancelledText(lang Lang) string {
	return tr(lang,
		"Ariza bekor qilindi. Agar xohlasangiz, qayta /start bosib yangidan boshlashingiz mumkin.",
		"Заявка отменена. Если хотите, можете начать заново, отправив /start.",
	)
}

// DeliveryErrorAlert is shown inline when submission delivery failed and the
// user may retry.
func DeliveryErrorAlert(lang Lang) string {
	return tr(lang,
		"Xatolik yuz berdi. Iltimos, qayta urinib ko‘ring.",
		"Произошла ошибка. Пожалуйста, попробуйте ещё раз.",
	)
}

// MissingSessionAlert is shown inline when confirm arrives without a session.
func MissingSessionAlert() string {
	return "Xatolik. Ma'lumot topilmadi."
}

// NotSpecified is the placeholder for empty optional values in reports.
func NotSpecified(lang Lang) string {
	return tr(lang, "Ko‘rsatilmagan", "Не указано")
}
