package storage

import (
	"testing"
	"time"

	"github.com/roshaa-market/hrbot/app/form"
)

func TestRecordFromSession(t *testing.T) {
	sess := &form.Session{
		UserID:   77,
		Lang:     form.LangRU,
		Username: "malika",
		App: form.Application{
			Name:        "Malika Usmonova",
			Birth:       "05.03.1998",
			Phone:       "+998933334455",
			Department:  "Касса",
			Nationality: "Узбек",
			Education:   "Высшее",
			Marital:     "Не замужем",
			Habits:      "Вредных привычек нет",
			RuLevel:     "100",
			EnLevel:     "25",
			CnLevel:     "0",
			WordLevel:   "75",
			ExcelLevel:  "75",
			OneCLevel:   "50",
			SourceInfo:  "Instagram",
			PrevJob:     "Magnum, кассир",
			Salary:      "6 млн",
			Shift:       "Утренняя смена",
			RefCheck:    "yes",
			PhotoFileID: "file-77",
		},
	}

	before := time.Now().UTC()
	rec := RecordFromSession(sess)

	if rec.UserID != 77 || rec.Username != "malika" || rec.Lang != "ru" {
		t.Fatalf("identity fields: %+v", rec)
	}
	if rec.Name != "Malika Usmonova" || rec.Phone != "+998933334455" {
		t.Fatalf("answer fields: %+v", rec)
	}
	if rec.RefCheck != "yes" || rec.PhotoFileID != "file-77" {
		t.Fatalf("tail fields: %+v", rec)
	}
	if rec.Address != "" {
		t.Fatalf("address = %q, want empty passthrough", rec.Address)
	}
	if rec.SubmittedAt.Before(before) || rec.SubmittedAt.After(time.Now().UTC()) {
		t.Fatalf("submitted_at = %v", rec.SubmittedAt)
	}
}
