package form

import (
	"strings"
	"testing"
)

func completedSession(lang Lang) *Session {
	return &Session{
		UserID:   42,
		Lang:     lang,
		Username: "anvar",
		Step:     StepConfirm,
		App: Application{
			Name:        "Anvar Karimov",
			Birth:       "01.01.1995",
			Phone:       "+998901234567",
			Department:  "Kassa",
			Address:     "Tashkent",
			Nationality: "O‘zbek",
			Education:   "Oliy",
			Marital:     "Uylanmagan / turmush qurmagan",
			Habits:      "Zararli odatlar yo‘q",
			RuLevel:     "75",
			EnLevel:     "50",
			CnLevel:     "0",
			WordLevel:   "100",
			ExcelLevel:  "75",
			OneCLevel:   "25",
			SourceInfo:  "Instagram",
			PrevJob:     "Korzinka, kassir",
			Salary:      "5 mln",
			Shift:       "Ertalab smena",
			RefCheck:    "yes",
			PhotoFileID: "file-42",
		},
	}
}

func TestRenderPreviewContainsAnswers(t *testing.T) {
	out := RenderPreview(completedSession(LangUZ))
	for _, want := range []string{
		"Anvar Karimov",
		"+998901234567",
		"@anvar",
		"75%",
		"100%",
		"Ruxsat beraman",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("preview missing %q", want)
		}
	}
	if strings.Contains(out, "Telegram ID") {
		t.Error("preview should not expose the Telegram ID footer")
	}
}

func TestRenderReportHasIdentityFooter(t *testing.T) {
	out := RenderReport(completedSession(LangRU))
	if !strings.Contains(out, "<code>42</code>") {
		t.Error("report missing Telegram ID footer")
	}
	if !strings.Contains(out, "Новая заявка") {
		t.Error("report missing localized header")
	}
	if !strings.Contains(out, "Разрешаю") {
		t.Error("report missing localized reference answer")
	}
}

func TestReportEscapesUserInput(t *testing.T) {
	sess := completedSession(LangUZ)
	sess.App.Name = "<script>alert(1)</script>"
	out := RenderReport(sess)
	if strings.Contains(out, "<script>") {
		t.Fatal("report leaked unescaped markup")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Fatal("report did not escape markup")
	}
}

func TestReportFallbacksForEmptyOptionalValues(t *testing.T) {
	sess := completedSession(LangUZ)
	sess.Username = ""
	sess.App.Address = ""
	out := RenderReport(sess)
	if got := strings.Count(out, NotSpecified(LangUZ)); got != 2 {
		t.Fatalf("placeholder count = %d, want 2", got)
	}
}

func TestReportZeroFillsEmptyPercents(t *testing.T) {
	sess := completedSession(LangRU)
	sess.App.CnLevel = ""
	out := RenderReport(sess)
	if !strings.Contains(out, "Китайский язык: 0%") {
		t.Error("empty percent not rendered as 0%")
	}
}

func TestRefCheckDeclinedText(t *testing.T) {
	sess := completedSession(LangUZ)
	sess.App.RefCheck = "no"
	if out := RenderReport(sess); !strings.Contains(out, "Ruxsat bermayman") {
		t.Error("declined reference check not rendered")
	}
}
