package form

import (
	"strings"
	"testing"
)

func TestMatchLanguage(t *testing.T) {
	if lang, ok := MatchLanguage(LanguageButtonUZ); !ok || lang != LangUZ {
		t.Fatalf("uz button: lang=%q ok=%v", lang, ok)
	}
	if lang, ok := MatchLanguage(LanguageButtonRU); !ok || lang != LangRU {
		t.Fatalf("ru button: lang=%q ok=%v", lang, ok)
	}
	if _, ok := MatchLanguage("english please"); ok {
		t.Fatal("free text matched a language button")
	}
}

func TestMatchMenu(t *testing.T) {
	cases := map[string]MenuSelection{
		menuAboutUZ:    MenuAbout,
		menuAboutRU:    MenuAbout,
		menuRegisterUZ: MenuRegister,
		menuRegisterRU: MenuRegister,
		"random":       MenuNone,
		"":             MenuNone,
	}
	for in, want := range cases {
		if got := MatchMenu(in); got != want {
			t.Errorf("MatchMenu(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRenderPromptKeyboards(t *testing.T) {
	p, ok := RenderPrompt("phone", LangUZ)
	if !ok || !p.ContactRequest || len(p.Keyboard) == 0 {
		t.Fatalf("phone prompt: %+v ok=%v", p, ok)
	}

	p, _ = RenderPrompt("name", LangRU)
	if !p.RemoveKeyboard {
		t.Error("name prompt should hide the previous keyboard")
	}

	p, _ = RenderPrompt("lang_ru", LangUZ)
	if len(p.Keyboard) == 0 || p.Keyboard[0][0] != "0%" {
		t.Errorf("percent keyboard = %v", p.Keyboard)
	}

	p, _ = RenderPrompt("ref_check", LangRU)
	if len(p.Keyboard) != 1 || p.Keyboard[0][0] != "Да" || p.Keyboard[0][1] != "Нет" {
		t.Errorf("yes/no keyboard = %v", p.Keyboard)
	}

	p, _ = RenderPrompt("department", LangRU)
	if len(p.Keyboard) == 0 || p.Keyboard[0][0] != "Отдел продаж" {
		t.Errorf("department keyboard = %v", p.Keyboard)
	}

	if _, ok := RenderPrompt(StepConfirm, LangUZ); ok {
		t.Error("sentinel step produced a prompt")
	}
}

func TestPromptsLocalized(t *testing.T) {
	for _, s := range Catalog {
		uz, _ := RenderPrompt(s.ID, LangUZ)
		ru, _ := RenderPrompt(s.ID, LangRU)
		if uz.Text == ru.Text {
			t.Errorf("step %q has identical text in both languages", s.ID)
		}
	}
}

func TestGreetingMentionsBothLanguages(t *testing.T) {
	g := GreetingText("Anvar")
	if !strings.Contains(g, "Anvar") {
		t.Error("greeting missing first name")
	}
	if !strings.Contains(g, "Assalomu alaykum") || !strings.Contains(g, "Здравствуйте") {
		t.Error("greeting should carry both languages before selection")
	}
}

func TestTrFallsBackToPrimary(t *testing.T) {
	if got := tr("", "uz", "ru"); got != "uz" {
		t.Fatalf("tr with empty lang = %q", got)
	}
	if got := tr(LangRU, "uz", "ru"); got != "ru" {
		t.Fatalf("tr ru = %q", got)
	}
}
