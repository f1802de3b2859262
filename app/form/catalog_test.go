package form

import "testing"

func TestCatalogOrderTerminatesAtConfirm(t *testing.T) {
	id := FirstStep()
	seen := make(map[StepID]bool)
	for i := 0; ; i++ {
		if seen[id] {
			t.Fatalf("step %q repeats in catalog order", id)
		}
		seen[id] = true
		next, ok := NextStep(id)
		if !ok {
			t.Fatalf("NextStep(%q) not found", id)
		}
		if next == StepConfirm {
			if i != len(Catalog)-1 {
				t.Fatalf("confirm reached after %d steps, want %d", i+1, len(Catalog))
			}
			return
		}
		id = next
	}
}

func TestStepByID(t *testing.T) {
	for _, s := range Catalog {
		got, ok := StepByID(s.ID)
		if !ok {
			t.Fatalf("StepByID(%q) missing", s.ID)
		}
		if got.Kind != s.Kind {
			t.Fatalf("StepByID(%q) kind = %v, want %v", s.ID, got.Kind, s.Kind)
		}
	}
	if _, ok := StepByID("unknown"); ok {
		t.Fatal("StepByID accepted unknown id")
	}
}

func TestSentinelsAreNotFormSteps(t *testing.T) {
	for _, id := range []StepID{StepNone, StepResumeChoice, StepConfirm} {
		if IsFormStep(id) {
			t.Errorf("IsFormStep(%q) = true", id)
		}
	}
	for _, s := range Catalog {
		if !IsFormStep(s.ID) {
			t.Errorf("IsFormStep(%q) = false", s.ID)
		}
	}
}

func TestClosedSetStepsHaveChoicesForBothLanguages(t *testing.T) {
	for _, s := range Catalog {
		switch s.Kind {
		case KindSingleChoice, KindPercent:
			for _, lang := range []Lang{LangUZ, LangRU} {
				if len(s.Choices[lang]) == 0 {
					t.Errorf("step %q has no %s choices", s.ID, lang)
				}
			}
		}
	}
}

func TestEveryStepHasPrompt(t *testing.T) {
	for _, s := range Catalog {
		for _, lang := range []Lang{LangUZ, LangRU} {
			p, ok := RenderPrompt(s.ID, lang)
			if !ok {
				t.Fatalf("RenderPrompt(%q, %s) missing", s.ID, lang)
			}
			if p.Text == "" {
				t.Errorf("RenderPrompt(%q, %s) empty text", s.ID, lang)
			}
		}
	}
}

func TestSetAnswerWritesOwnFieldOnly(t *testing.T) {
	var a Application
	a.setAnswer("name", "Anvar")
	a.setAnswer("salary", "5 mln")
	if a.Name != "Anvar" || a.Salary != "5 mln" {
		t.Fatalf("unexpected answers: %+v", a)
	}
	if a.Birth != "" || a.Phone != "" || a.PhotoFileID != "" {
		t.Fatalf("unrelated fields written: %+v", a)
	}
}

func TestNormalizePercent(t *testing.T) {
	cases := map[string]string{
		"75%":    "75",
		"75":     "75",
		" 100% ": "100",
		"0%":     "0",
	}
	for in, want := range cases {
		if got := normalizePercent(in); got != want {
			t.Errorf("normalizePercent(%q) = %q, want %q", in, got, want)
		}
	}
}
