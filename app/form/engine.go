package form

import (
	"context"
	"log/slog"

	"github.com/roshaa-market/hrbot/core/logger"
)

// EventKind enumerates the inbound event shapes the engine understands.
type EventKind int

const (
	// EventBegin is the /start command.
	EventBegin EventKind = iota
	// EventText is any plain text message, including keyboard button presses.
	EventText
	// EventContact is a structured contact share.
	EventContact
	// EventPhoto is a photo message.
	EventPhoto
	// EventConfirm is the preview's confirm button.
	EventConfirm
	// EventCancel is the preview's cancel button.
	EventCancel
)

// Event is one inbound user event, already stripped of transport detail.
type Event struct {
	Kind        EventKind
	Text        string
	Phone       string // contact share payload
	PhotoFileID string // highest-resolution photo reference
	FirstName   string
	Username    string
}

// ActionKind enumerates the outbound side effects the engine can request.
type ActionKind int

const (
	// ActionNone means the event had no matching transition; emit nothing.
	ActionNone ActionKind = iota
	// ActionGreeting shows the welcome text with the language keyboard.
	ActionGreeting
	// ActionMainMenu shows the post-language main menu.
	ActionMainMenu
	// ActionAbout shows the static company card.
	ActionAbout
	// ActionAskStep asks the question for Step.
	ActionAskStep
	// ActionResumeAsk asks whether to resume an interrupted application.
	ActionResumeAsk
	// ActionResumeRetry re-asks the yes/no resume choice.
	ActionResumeRetry
	// ActionRestart announces a fresh start and shows the language keyboard.
	ActionRestart
	// ActionNewApplication invites a language choice for a new application.
	ActionNewApplication
	// ActionPhotoRetry rejects non-photo input at the photo step.
	ActionPhotoRetry
	// ActionPreview shows the collected answers with confirm/cancel buttons.
	ActionPreview
	// ActionFinalize hands the session to the submission finalizer.
	ActionFinalize
	// ActionCancelNotice replaces the preview with the cancellation text.
	ActionCancelNotice
	// ActionMissingSession answers a confirm press that has no session behind it.
	ActionMissingSession
)

// Action tells the transport driver what to emit. Session is a detached
// snapshot; drivers must not write through it.
type Action struct {
	Kind      ActionKind
	Lang      Lang
	Step      StepID
	FirstName string
	Session   *Session
}

// Engine is the conversation state machine. It owns no transport: callers
// feed it events and execute the returned actions, which is what lets one
// engine sit behind both the long-polling and the webhook driver.
type Engine struct {
	store *Store
}

// NewEngine creates an engine over the given session store.
func NewEngine(store *Store) *Engine {
	return &Engine{store: store}
}

// Store exposes the underlying session store.
func (e *Engine) Store() *Store {
	return e.store
}

// HandleEvent applies one inbound event for userID and returns the outbound
// action. Handling is serialized per user: a second event for the same user
// waits until the first one's transition has been applied.
func (e *Engine) HandleEvent(ctx context.Context, userID int64, ev Event) Action {
	unlock := e.store.Lock(userID)
	defer unlock()
	return e.apply(ctx, userID, ev)
}

// Dispatch applies one inbound event and runs execute on the resulting action
// while still holding the user's lock. Drivers use this so outbound sends
// complete before the user's next event is handled; in particular, a second
// confirm press waits for the first finalization and then finds no session.
func (e *Engine) Dispatch(ctx context.Context, userID int64, ev Event, execute func(Action) error) error {
	unlock := e.store.Lock(userID)
	defer unlock()

	act := e.apply(ctx, userID, ev)
	if execute == nil {
		return nil
	}
	return execute(act)
}

func (e *Engine) apply(ctx context.Context, userID int64, ev Event) Action {
	switch ev.Kind {
	case EventBegin:
		return e.handleBegin(ctx, userID, ev)
	case EventText, EventContact, EventPhoto:
		return e.handleMessage(ctx, userID, ev)
	case EventConfirm:
		return e.handleConfirm(ctx, userID)
	case EventCancel:
		return e.handleCancel(ctx, userID)
	}
	return Action{Kind: ActionNone}
}

func (e *Engine) handleBegin(ctx context.Context, userID int64, ev Event) Action {
	if sess, ok := e.store.Get(userID); ok && sess.Step != StepNone && sess.Step != StepResumeChoice {
		// An interrupted application: pause it and offer to resume.
		sess.SavedStep = sess.Step
		sess.Step = StepResumeChoice
		e.store.Touch(userID)
		logger.Debug(ctx, "form", "resume.offer",
			slog.Int64("user_id", userID),
			slog.String("saved_step", string(sess.SavedStep)),
		)
		return Action{Kind: ActionResumeAsk, Lang: sess.Lang}
	}
	return Action{Kind: ActionGreeting, FirstName: ev.FirstName}
}

func (e *Engine) handleMessage(ctx context.Context, userID int64, ev Event) Action {
	// Language buttons win over everything: they restart the session.
	if lang, ok := MatchLanguage(ev.Text); ok {
		return e.handleLanguage(ctx, userID, ev, lang)
	}

	switch MatchMenu(ev.Text) {
	case MenuAbout:
		return e.handleAbout(userID)
	case MenuRegister:
		return e.handleRegister(ctx, userID, ev)
	}

	sess, ok := e.store.Get(userID)
	if !ok {
		// Chatter from users with no application in progress.
		return Action{Kind: ActionNone}
	}

	if sess.Step == StepResumeChoice {
		return e.handleResumeAnswer(ctx, sess, ev)
	}
	if !IsFormStep(sess.Step) {
		// StepNone between menu and form, or StepConfirm waiting on buttons.
		return Action{Kind: ActionNone}
	}
	return e.handleStepAnswer(ctx, sess, ev)
}

func (e *Engine) handleLanguage(ctx context.Context, userID int64, ev Event, lang Lang) Action {
	// A stale session is superseded by the fresh language choice.
	e.store.Delete(userID)
	e.store.Put(&Session{
		UserID:   userID,
		Lang:     lang,
		Username: ev.Username,
		Step:     StepNone,
	})
	logger.Info(ctx, "form", "session.start",
		slog.Int64("user_id", userID),
		slog.String("lang", string(lang)),
	)
	return Action{Kind: ActionMainMenu, Lang: lang}
}

func (e *Engine) handleAbout(userID int64) Action {
	lang := LangUZ
	if sess, ok := e.store.Get(userID); ok {
		lang = sess.Lang
	}
	return Action{Kind: ActionAbout, Lang: lang}
}

func (e *Engine) handleRegister(ctx context.Context, userID int64, ev Event) Action {
	sess, ok := e.store.Get(userID)
	if !ok {
		// Register pressed without a prior language choice defaults to the
		// primary language.
		sess = &Session{UserID: userID, Lang: LangUZ}
	}
	sess.Username = ev.Username
	sess.Step = FirstStep()
	sess.SavedStep = StepNone
	e.store.Put(sess)
	logger.Info(ctx, "form", "form.start",
		slog.Int64("user_id", userID),
		slog.String("lang", string(sess.Lang)),
	)
	return Action{Kind: ActionAskStep, Lang: sess.Lang, Step: sess.Step}
}

func (e *Engine) handleResumeAnswer(ctx context.Context, sess *Session, ev Event) Action {
	switch ev.Text {
	case YesLabel(sess.Lang):
		saved := sess.SavedStep
		sess.SavedStep = StepNone
		if saved == StepNone {
			// Nothing to return to; start over from language selection.
			sess.Step = StepNone
			e.store.Touch(sess.UserID)
			return Action{Kind: ActionRestart, Lang: sess.Lang}
		}
		sess.Step = saved
		e.store.Touch(sess.UserID)
		logger.Debug(ctx, "form", "resume.continue",
			slog.Int64("user_id", sess.UserID),
			slog.String("step", string(saved)),
		)
		if saved == StepConfirm {
			return Action{Kind: ActionPreview, Lang: sess.Lang, Session: sess.clone()}
		}
		return Action{Kind: ActionAskStep, Lang: sess.Lang, Step: saved}
	case NoLabel(sess.Lang):
		lang := sess.Lang
		e.store.Delete(sess.UserID)
		logger.Info(ctx, "form", "resume.discard", slog.Int64("user_id", sess.UserID))
		return Action{Kind: ActionNewApplication, Lang: lang}
	default:
		return Action{Kind: ActionResumeRetry, Lang: sess.Lang}
	}
}

func (e *Engine) handleStepAnswer(ctx context.Context, sess *Session, ev Event) Action {
	step, _ := StepByID(sess.Step)

	var value string
	switch step.Kind {
	case KindPhoto:
		if ev.PhotoFileID == "" {
			return Action{Kind: ActionPhotoRetry, Lang: sess.Lang}
		}
		value = ev.PhotoFileID
	case KindContactOrText:
		if ev.Phone != "" {
			value = ev.Phone
		} else {
			value = ev.Text
		}
	case KindPercent:
		value = normalizePercent(ev.Text)
	case KindYesNo:
		if ev.Text == YesLabel(sess.Lang) {
			value = "yes"
		} else {
			value = "no"
		}
	default:
		value = ev.Text
	}

	sess.App.setAnswer(sess.Step, value)
	next, _ := NextStep(sess.Step)
	prev := sess.Step
	sess.Step = next
	e.store.Touch(sess.UserID)

	logger.Debug(ctx, "form", "step.advance",
		slog.Int64("user_id", sess.UserID),
		slog.String("field", string(prev)),
		slog.String("step", string(next)),
	)

	if next == StepConfirm {
		return Action{Kind: ActionPreview, Lang: sess.Lang, Session: sess.clone()}
	}
	return Action{Kind: ActionAskStep, Lang: sess.Lang, Step: next}
}

func (e *Engine) handleConfirm(ctx context.Context, userID int64) Action {
	sess, ok := e.store.Get(userID)
	if !ok || sess.App.PhotoFileID == "" {
		logger.Warn(ctx, "form", "confirm.no_session", slog.Int64("user_id", userID))
		return Action{Kind: ActionMissingSession}
	}
	// The session is destroyed by the finalizer, and only after the full
	// delivery sequence succeeds; a transport failure leaves it retryable.
	return Action{Kind: ActionFinalize, Lang: sess.Lang, Session: sess.clone()}
}

func (e *Engine) handleCancel(ctx context.Context, userID int64) Action {
	lang := LangUZ
	if sess, ok := e.store.Get(userID); ok {
		lang = sess.Lang
	}
	e.store.Delete(userID)
	logger.Info(ctx, "form", "form.cancel", slog.Int64("user_id", userID))
	return Action{Kind: ActionCancelNotice, Lang: lang}
}
