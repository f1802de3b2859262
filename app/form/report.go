package form

import (
	"fmt"
	"strings"

	"github.com/roshaa-market/hrbot/core/telegram/format"
)

type reportLabels struct {
	name, username, birth, phone, department, address, nationality,
	education, marital, habits, languages, langRu, langEn, langCn,
	skills, source, prevJob, salary, shift, refCheck, telegramID string
}

var labelsByLang = map[Lang]reportLabels{
	LangUZ: {
		name:        "F.I.Sh",
		username:    "Telegram username",
		birth:       "Tug‘ilgan sana",
		phone:       "Telefon",
		department:  "Talab qilayotgan bo‘lim",
		address:     "Yashash manzili",
		nationality: "Millati",
		education:   "Ma’lumoti",
		marital:     "Oylaviy holati",
		habits:      "Zararli odatlari",
		languages:   "Tillar",
		langRu:      "Rus tili",
		langEn:      "Ingliz tili",
		langCn:      "Xitoy tili",
		skills:      "Kompyuter ko‘nikmalari",
		source:      "Kompaniya haqida qayerdan eshitgan",
		prevJob:     "Avvalgi ish joyi",
		salary:      "Hohlayotgan ish haqi",
		shift:       "Smena",
		refCheck:    "Surishtirishga munosabati",
		telegramID:  "Telegram ID",
	},
	LangRU: {
		name:        "Ф.И.О.",
		username:    "Telegram username",
		birth:       "Дата рождения",
		phone:       "Телефон",
		department:  "Желаемый отдел",
		address:     "Адрес проживания",
		nationality: "Национальность",
		education:   "Образование",
		marital:     "Семейное положение",
		habits:      "Вредные привычки",
		languages:   "Языки",
		langRu:      "Русский язык",
		langEn:      "Английский язык",
		langCn:      "Китайский язык",
		skills:      "Компьютерные навыки",
		source:      "Источник информации о компании",
		prevJob:     "Предыдущее место работы",
		salary:      "Желаемая зарплата",
		shift:       "Смена",
		refCheck:    "Отношение к проверке рекомендаций",
		telegramID:  "Telegram ID",
	},
}

// percentValue renders a stored percentage field with its sign restored.
func percentValue(v string) string {
	if v == "" {
		v = "0"
	}
	return format.EscapeHTML(v) + "%"
}

func refCheckText(lang Lang, refCheck string) string {
	if refCheck == "yes" {
		return tr(lang, "Ruxsat beraman", "Разрешаю")
	}
	return tr(lang, "Ruxsat bermayman", "Не разрешаю")
}

// reportBody renders the labelled answer list shared by the applicant preview
// and the review-channel report.
func reportBody(sess *Session) string {
	l := labelsByLang[LangUZ]
	if cur, ok := labelsByLang[sess.Lang]; ok {
		l = cur
	}
	a := &sess.App

	address := a.Address
	if address == "" {
		address = NotSpecified(sess.Lang)
	}
	username := NotSpecified(sess.Lang)
	if sess.Username != "" {
		username = "@" + sess.Username
	}

	field := func(emoji, label, value string) string {
		return fmt.Sprintf("%s <b>%s:</b> %s\n", emoji, label, format.EscapeHTML(value))
	}

	var b strings.Builder
	b.WriteString(field("👤", l.name, a.Name))
	b.WriteString(field("👤", l.username, username))
	b.WriteString(field("🎂", l.birth, a.Birth))
	b.WriteString(field("📞", l.phone, a.Phone))
	b.WriteString(field("🏢", l.department, a.Department))
	b.WriteString(field("📍", l.address, address))
	b.WriteString(field("🌐", l.nationality, a.Nationality))
	b.WriteString(field("🎓", l.education, a.Education))
	b.WriteString(field("💍", l.marital, a.Marital))
	b.WriteString(field("🚬", l.habits, a.Habits))
	b.WriteString("\n🗣 <b>" + l.languages + ":</b>\n")
	b.WriteString("▪️ " + l.langRu + ": " + percentValue(a.RuLevel) + "\n")
	b.WriteString("▪️ " + l.langEn + ": " + percentValue(a.EnLevel) + "\n")
	b.WriteString("▪️ " + l.langCn + ": " + percentValue(a.CnLevel) + "\n")
	b.WriteString("\n💻 <b>" + l.skills + ":</b>\n")
	b.WriteString("▪️ Word: " + percentValue(a.WordLevel) + "\n")
	b.WriteString("▪️ Excel: " + percentValue(a.ExcelLevel) + "\n")
	b.WriteString("▪️ 1C: " + percentValue(a.OneCLevel) + "\n")
	b.WriteString("\n")
	b.WriteString(field("ℹ️", l.source, a.SourceInfo))
	b.WriteString(field("💼", l.prevJob, a.PrevJob))
	b.WriteString(field("💰", l.salary, a.Salary))
	b.WriteString(field("🕒", l.shift, a.Shift))
	b.WriteString(fmt.Sprintf("📋 <b>%s:</b> %s\n", l.refCheck, refCheckText(sess.Lang, a.RefCheck)))
	return b.String()
}

// RenderPreview builds the caption shown to the applicant for final review.
func RenderPreview(sess *Session) string {
	header := tr(sess.Lang,
		"Iltimos, kiritgan ma’lumotlaringizni yana bir bor tekshirib chiqing:\n\n",
		"Пожалуйста, внимательно проверьте введённые данные:\n\n",
	)
	return header + reportBody(sess)
}

// RenderReport builds the full caption delivered to the review channel,
// including the applicant's Telegram identifier.
func RenderReport(sess *Session) string {
	l := labelsByLang[LangUZ]
	if cur, ok := labelsByLang[sess.Lang]; ok {
		l = cur
	}
	header := tr(sess.Lang,
		"📨 <b>Yangi ishga qabul arizasi</b>\n\n",
		"📨 <b>Новая заявка на трудоустройство</b>\n\n",
	)
	footer := fmt.Sprintf("\n🆔 <b>%s:</b> <code>%d</code>\n", l.telegramID, sess.UserID)
	return header + reportBody(sess) + footer
}
