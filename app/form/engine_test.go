package form

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestEngine() *Engine {
	return NewEngine(NewStore(0))
}

// answerFor builds a valid inbound event for a catalog step.
func answerFor(id StepID) Event {
	step, _ := StepByID(id)
	switch step.Kind {
	case KindPhoto:
		return Event{Kind: EventPhoto, PhotoFileID: "photo-file-1"}
	case KindContactOrText:
		return Event{Kind: EventContact, Phone: "+998901234567"}
	case KindPercent:
		return Event{Kind: EventText, Text: "75%"}
	case KindYesNo:
		return Event{Kind: EventText, Text: YesLabel(LangUZ)}
	default:
		return Event{Kind: EventText, Text: "answer " + string(id)}
	}
}

// enterForm drives a user from /start to the first form question.
func enterForm(t *testing.T, e *Engine, userID int64) {
	t.Helper()
	ctx := context.Background()

	act := e.HandleEvent(ctx, userID, Event{Kind: EventBegin, FirstName: "Anvar"})
	if act.Kind != ActionGreeting {
		t.Fatalf("begin: got action %v, want greeting", act.Kind)
	}
	act = e.HandleEvent(ctx, userID, Event{Kind: EventText, Text: LanguageButtonUZ, Username: "anvar"})
	if act.Kind != ActionMainMenu || act.Lang != LangUZ {
		t.Fatalf("language: got action %v lang %q", act.Kind, act.Lang)
	}
	act = e.HandleEvent(ctx, userID, Event{Kind: EventText, Text: menuRegisterUZ, Username: "anvar"})
	if act.Kind != ActionAskStep || act.Step != FirstStep() {
		t.Fatalf("register: got action %v step %q", act.Kind, act.Step)
	}
}

// fillForm answers every question and returns the preview action.
func fillForm(t *testing.T, e *Engine, userID int64) Action {
	t.Helper()
	ctx := context.Background()
	var last Action
	for i, step := range Catalog {
		last = e.HandleEvent(ctx, userID, answerFor(step.ID))
		if i+1 < len(Catalog) {
			if last.Kind != ActionAskStep || last.Step != Catalog[i+1].ID {
				t.Fatalf("after %q: got action %v step %q, want ask %q",
					step.ID, last.Kind, last.Step, Catalog[i+1].ID)
			}
		}
	}
	if last.Kind != ActionPreview {
		t.Fatalf("after last step: got action %v, want preview", last.Kind)
	}
	return last
}

func TestEngineWalksStepsInOrder(t *testing.T) {
	e := newTestEngine()
	enterForm(t, e, 1)
	act := fillForm(t, e, 1)

	sess := act.Session
	if sess == nil {
		t.Fatal("preview action has no session snapshot")
	}
	if sess.App.Name != "answer name" {
		t.Errorf("name = %q", sess.App.Name)
	}
	if sess.App.Phone != "+998901234567" {
		t.Errorf("phone = %q", sess.App.Phone)
	}
	if sess.App.RuLevel != "75" {
		t.Errorf("ru level = %q, want percent sign stripped", sess.App.RuLevel)
	}
	if sess.App.RefCheck != "yes" {
		t.Errorf("ref check = %q, want normalized yes", sess.App.RefCheck)
	}
	if sess.App.PhotoFileID != "photo-file-1" {
		t.Errorf("photo = %q", sess.App.PhotoFileID)
	}

	stored, ok := e.Store().Get(1)
	if !ok || stored.Step != StepConfirm {
		t.Fatalf("stored step = %q, want confirm", stored.Step)
	}
}

func TestEngineIgnoresChatterWithoutSession(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	act := e.HandleEvent(ctx, 2, Event{Kind: EventText, Text: "hello"})
	if act.Kind != ActionNone {
		t.Fatalf("got action %v, want none", act.Kind)
	}
	if e.Store().Len() != 0 {
		t.Fatal("chatter created a session")
	}
}

func TestEnginePhotoStepRejectsText(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	enterForm(t, e, 3)
	for _, step := range Catalog[:len(Catalog)-1] {
		e.HandleEvent(ctx, 3, answerFor(step.ID))
	}

	act := e.HandleEvent(ctx, 3, Event{Kind: EventText, Text: "not a photo"})
	if act.Kind != ActionPhotoRetry {
		t.Fatalf("got action %v, want photo retry", act.Kind)
	}
	sess, _ := e.Store().Get(3)
	if sess.Step != "photo" {
		t.Fatalf("step advanced to %q on rejected input", sess.Step)
	}

	act = e.HandleEvent(ctx, 3, Event{Kind: EventPhoto, PhotoFileID: "f1"})
	if act.Kind != ActionPreview {
		t.Fatalf("got action %v after photo, want preview", act.Kind)
	}
}

func TestEngineContactPrefersSharedNumber(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	enterForm(t, e, 4)
	e.HandleEvent(ctx, 4, answerFor("name"))
	e.HandleEvent(ctx, 4, answerFor("birth"))

	e.HandleEvent(ctx, 4, Event{Kind: EventContact, Phone: "+998911112233", Text: "ignored"})
	sess, _ := e.Store().Get(4)
	if sess.App.Phone != "+998911112233" {
		t.Fatalf("phone = %q, want shared contact number", sess.App.Phone)
	}
}

func TestEngineTypedPhoneAccepted(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	enterForm(t, e, 5)
	e.HandleEvent(ctx, 5, answerFor("name"))
	e.HandleEvent(ctx, 5, answerFor("birth"))

	e.HandleEvent(ctx, 5, Event{Kind: EventText, Text: "90 123 45 67"})
	sess, _ := e.Store().Get(5)
	if sess.App.Phone != "90 123 45 67" {
		t.Fatalf("phone = %q, want typed text", sess.App.Phone)
	}
}

func TestEngineResumeContinues(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	enterForm(t, e, 6)
	e.HandleEvent(ctx, 6, answerFor("name"))
	e.HandleEvent(ctx, 6, answerFor("birth"))

	act := e.HandleEvent(ctx, 6, Event{Kind: EventBegin})
	if act.Kind != ActionResumeAsk {
		t.Fatalf("mid-form begin: got action %v, want resume ask", act.Kind)
	}
	sess, _ := e.Store().Get(6)
	if sess.Step != StepResumeChoice || sess.SavedStep != "phone" {
		t.Fatalf("step=%q saved=%q after resume offer", sess.Step, sess.SavedStep)
	}

	// Unrecognized input re-asks.
	act = e.HandleEvent(ctx, 6, Event{Kind: EventText, Text: "maybe"})
	if act.Kind != ActionResumeRetry {
		t.Fatalf("garbage answer: got action %v, want resume retry", act.Kind)
	}

	act = e.HandleEvent(ctx, 6, Event{Kind: EventText, Text: YesLabel(LangUZ)})
	if act.Kind != ActionAskStep || act.Step != "phone" {
		t.Fatalf("yes answer: got action %v step %q, want ask phone", act.Kind, act.Step)
	}
	sess, _ = e.Store().Get(6)
	if sess.Step != "phone" || sess.SavedStep != StepNone {
		t.Fatalf("step=%q saved=%q after resume", sess.Step, sess.SavedStep)
	}
	if sess.App.Name != "answer name" || sess.App.Birth != "answer birth" {
		t.Fatal("resume lost collected answers")
	}
}

func TestEngineResumeDeclinedDiscardsSession(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	enterForm(t, e, 7)
	e.HandleEvent(ctx, 7, answerFor("name"))
	e.HandleEvent(ctx, 7, Event{Kind: EventBegin})

	act := e.HandleEvent(ctx, 7, Event{Kind: EventText, Text: NoLabel(LangUZ)})
	if act.Kind != ActionNewApplication {
		t.Fatalf("got action %v, want new application", act.Kind)
	}
	if _, ok := e.Store().Get(7); ok {
		t.Fatal("declined session still stored")
	}
}

func TestEngineResumeAtConfirmReemitsPreview(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	enterForm(t, e, 8)
	fillForm(t, e, 8)

	act := e.HandleEvent(ctx, 8, Event{Kind: EventBegin})
	if act.Kind != ActionResumeAsk {
		t.Fatalf("got action %v, want resume ask", act.Kind)
	}
	act = e.HandleEvent(ctx, 8, Event{Kind: EventText, Text: YesLabel(LangUZ)})
	if act.Kind != ActionPreview {
		t.Fatalf("got action %v, want preview re-emitted", act.Kind)
	}
	if act.Session == nil || act.Session.App.PhotoFileID == "" {
		t.Fatal("preview snapshot incomplete")
	}
}

func TestEngineFreshBeginGreetsWithoutSession(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	act := e.HandleEvent(ctx, 9, Event{Kind: EventBegin, FirstName: "Malika"})
	if act.Kind != ActionGreeting || act.FirstName != "Malika" {
		t.Fatalf("got action %v first name %q", act.Kind, act.FirstName)
	}
}

func TestEngineLanguageButtonRestartsMidForm(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	enterForm(t, e, 10)
	e.HandleEvent(ctx, 10, answerFor("name"))

	act := e.HandleEvent(ctx, 10, Event{Kind: EventText, Text: LanguageButtonRU})
	if act.Kind != ActionMainMenu || act.Lang != LangRU {
		t.Fatalf("got action %v lang %q, want main menu ru", act.Kind, act.Lang)
	}
	sess, _ := e.Store().Get(10)
	if sess.Lang != LangRU || sess.Step != StepNone || sess.App.Name != "" {
		t.Fatalf("session not reset: %+v", sess)
	}
}

func TestEngineRegisterWithoutLanguageDefaultsToPrimary(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	act := e.HandleEvent(ctx, 11, Event{Kind: EventText, Text: menuRegisterRU})
	if act.Kind != ActionAskStep || act.Step != FirstStep() {
		t.Fatalf("got action %v step %q", act.Kind, act.Step)
	}
	sess, _ := e.Store().Get(11)
	if sess.Lang != LangUZ {
		t.Fatalf("lang = %q, want primary default", sess.Lang)
	}
}

func TestEngineAboutUsesSessionLanguage(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	act := e.HandleEvent(ctx, 12, Event{Kind: EventText, Text: menuAboutUZ})
	if act.Kind != ActionAbout || act.Lang != LangUZ {
		t.Fatalf("no session: got %v lang %q", act.Kind, act.Lang)
	}

	e.HandleEvent(ctx, 12, Event{Kind: EventText, Text: LanguageButtonRU})
	act = e.HandleEvent(ctx, 12, Event{Kind: EventText, Text: menuAboutRU})
	if act.Kind != ActionAbout || act.Lang != LangRU {
		t.Fatalf("ru session: got %v lang %q", act.Kind, act.Lang)
	}
}

func TestEngineConfirmWithoutSession(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	act := e.HandleEvent(ctx, 13, Event{Kind: EventConfirm})
	if act.Kind != ActionMissingSession {
		t.Fatalf("got action %v, want missing session", act.Kind)
	}
}

func TestEngineConfirmKeepsSessionUntilFinalized(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	enterForm(t, e, 14)
	fillForm(t, e, 14)

	act := e.HandleEvent(ctx, 14, Event{Kind: EventConfirm})
	if act.Kind != ActionFinalize {
		t.Fatalf("got action %v, want finalize", act.Kind)
	}
	if _, ok := e.Store().Get(14); !ok {
		t.Fatal("session destroyed before delivery")
	}

	// A second confirm before the finalizer runs sees the same session.
	act = e.HandleEvent(ctx, 14, Event{Kind: EventConfirm})
	if act.Kind != ActionFinalize {
		t.Fatalf("repeat confirm: got action %v", act.Kind)
	}
}

func TestEngineIgnoresTextAtConfirmStep(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	enterForm(t, e, 23)
	fillForm(t, e, 23)

	before, _ := e.Store().Get(23)
	answers := before.App

	act := e.HandleEvent(ctx, 23, Event{Kind: EventText, Text: "are you there?"})
	if act.Kind != ActionNone {
		t.Fatalf("stray text at confirm: got action %v, want none", act.Kind)
	}
	after, ok := e.Store().Get(23)
	if !ok {
		t.Fatal("session lost")
	}
	if after.Step != StepConfirm || after.SavedStep != StepNone {
		t.Fatalf("step=%q saved=%q after ignored event", after.Step, after.SavedStep)
	}
	if after.App != answers {
		t.Fatalf("answers changed by ignored event: %+v", after.App)
	}
}

func TestEngineIgnoresTextBetweenMenuAndForm(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	e.HandleEvent(ctx, 24, Event{Kind: EventText, Text: LanguageButtonRU})

	act := e.HandleEvent(ctx, 24, Event{Kind: EventText, Text: "hello?"})
	if act.Kind != ActionNone {
		t.Fatalf("got action %v, want none", act.Kind)
	}
	sess, _ := e.Store().Get(24)
	if sess.Step != StepNone || sess.Lang != LangRU {
		t.Fatalf("session changed by ignored event: %+v", sess)
	}
}

func TestEngineCancelDiscardsSession(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	enterForm(t, e, 15)
	fillForm(t, e, 15)

	act := e.HandleEvent(ctx, 15, Event{Kind: EventCancel})
	if act.Kind != ActionCancelNotice || act.Lang != LangUZ {
		t.Fatalf("got action %v lang %q", act.Kind, act.Lang)
	}
	if _, ok := e.Store().Get(15); ok {
		t.Fatal("cancelled session still stored")
	}

	// Cancel with no session still produces the notice.
	act = e.HandleEvent(ctx, 15, Event{Kind: EventCancel})
	if act.Kind != ActionCancelNotice {
		t.Fatalf("repeat cancel: got action %v", act.Kind)
	}
}

func TestEngineConcurrentEventsSerialized(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	enterForm(t, e, 16)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.HandleEvent(ctx, 16, Event{Kind: EventText, Text: "answer"})
		}()
	}
	wg.Wait()

	sess, ok := e.Store().Get(16)
	if !ok {
		t.Fatal("session lost")
	}
	// 20 answers from the first step land exactly 20 steps further.
	want := StepID("")
	if 20 < len(Catalog) {
		want = Catalog[20].ID
	} else if 20 == len(Catalog) {
		want = StepConfirm
	}
	if want != "" && sess.Step != want {
		t.Fatalf("step = %q, want %q", sess.Step, want)
	}
}

type fakeTransport struct {
	calls      []string
	failReview bool
	failEdit   bool
}

func (f *fakeTransport) SendReviewPhoto(fileID, caption string) error {
	f.calls = append(f.calls, "review")
	if f.failReview {
		return errors.New("network down")
	}
	return nil
}

func (f *fakeTransport) EditPreview(text string) error {
	f.calls = append(f.calls, "edit")
	if f.failEdit {
		return errors.New("message gone")
	}
	return nil
}

func (f *fakeTransport) SendApplicant(userID int64, text string) error {
	f.calls = append(f.calls, "applicant")
	return nil
}

type fakeArchive struct {
	saved []int64
	err   error
}

func (f *fakeArchive) SaveApplication(ctx context.Context, sess *Session) error {
	f.saved = append(f.saved, sess.UserID)
	return f.err
}

func TestFinalizeDeliversThenDestroysSession(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	enterForm(t, e, 17)
	fillForm(t, e, 17)

	arch := &fakeArchive{}
	fin := NewFinalizer(e.Store(), arch)
	tr := &fakeTransport{}

	act := e.HandleEvent(ctx, 17, Event{Kind: EventConfirm})
	if err := fin.Finalize(ctx, tr, act.Session); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	want := []string{"review", "edit", "applicant"}
	if len(tr.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", tr.calls, want)
	}
	for i := range want {
		if tr.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", tr.calls, want)
		}
	}
	if len(arch.saved) != 1 || arch.saved[0] != 17 {
		t.Fatalf("archive saved %v", arch.saved)
	}
	if _, ok := e.Store().Get(17); ok {
		t.Fatal("session survived finalization")
	}
}

func TestFinalizeDeliveryFailureKeepsSession(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	enterForm(t, e, 18)
	fillForm(t, e, 18)

	arch := &fakeArchive{}
	fin := NewFinalizer(e.Store(), arch)
	tr := &fakeTransport{failReview: true}

	act := e.HandleEvent(ctx, 18, Event{Kind: EventConfirm})
	if err := fin.Finalize(ctx, tr, act.Session); err == nil {
		t.Fatal("finalize succeeded despite delivery failure")
	}
	if len(arch.saved) != 0 {
		t.Fatal("archive written for undelivered application")
	}
	if _, ok := e.Store().Get(18); !ok {
		t.Fatal("session destroyed despite delivery failure")
	}

	// Retry with a healthy transport succeeds from the same state.
	act = e.HandleEvent(ctx, 18, Event{Kind: EventConfirm})
	if act.Kind != ActionFinalize {
		t.Fatalf("retry confirm: got action %v", act.Kind)
	}
	if err := fin.Finalize(ctx, &fakeTransport{}, act.Session); err != nil {
		t.Fatalf("retry finalize: %v", err)
	}
	if _, ok := e.Store().Get(18); ok {
		t.Fatal("session survived successful retry")
	}
}

func TestFinalizeArchiveFailureIsNonFatal(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	enterForm(t, e, 19)
	fillForm(t, e, 19)

	arch := &fakeArchive{err: errors.New("db down")}
	fin := NewFinalizer(e.Store(), arch)
	tr := &fakeTransport{}

	act := e.HandleEvent(ctx, 19, Event{Kind: EventConfirm})
	if err := fin.Finalize(ctx, tr, act.Session); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if _, ok := e.Store().Get(19); ok {
		t.Fatal("session survived finalization")
	}
}

// slowTransport counts review deliveries and holds the send long enough for
// a racing confirm to pile up behind the user's lock.
type slowTransport struct {
	reviewSends atomic.Int32
}

func (s *slowTransport) SendReviewPhoto(fileID, caption string) error {
	s.reviewSends.Add(1)
	time.Sleep(50 * time.Millisecond)
	return nil
}

func (s *slowTransport) EditPreview(text string) error { return nil }

func (s *slowTransport) SendApplicant(userID int64, text string) error { return nil }

func TestConcurrentConfirmDeliversOnce(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	enterForm(t, e, 21)
	fillForm(t, e, 21)

	fin := NewFinalizer(e.Store(), nil)
	tr := &slowTransport{}

	var (
		wg      sync.WaitGroup
		missing atomic.Int32
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := e.Dispatch(ctx, 21, Event{Kind: EventConfirm}, func(act Action) error {
				switch act.Kind {
				case ActionFinalize:
					return fin.Finalize(ctx, tr, act.Session)
				case ActionMissingSession:
					missing.Add(1)
				}
				return nil
			})
			if err != nil {
				t.Errorf("dispatch: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := tr.reviewSends.Load(); got != 1 {
		t.Fatalf("review channel received %d deliveries for one application, want 1", got)
	}
	if got := missing.Load(); got != 1 {
		t.Fatalf("missing-session answers = %d, want 1", got)
	}
	if _, ok := e.Store().Get(21); ok {
		t.Fatal("session survived finalization")
	}
}

func TestFinalizeWithoutArchive(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	enterForm(t, e, 20)
	fillForm(t, e, 20)

	fin := NewFinalizer(e.Store(), nil)
	act := e.HandleEvent(ctx, 20, Event{Kind: EventConfirm})
	if err := fin.Finalize(ctx, &fakeTransport{}, act.Session); err != nil {
		t.Fatalf("finalize: %v", err)
	}
}
