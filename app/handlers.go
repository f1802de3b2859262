package app

import (
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/roshaa-market/hrbot/app/form"
	"github.com/roshaa-market/hrbot/core/logger"
	tghelpers "github.com/roshaa-market/hrbot/core/telegram/helpers"
	"github.com/roshaa-market/hrbot/core/telegram/keyboard"
)

// handlers is the transport driver: it maps telebot updates onto engine
// events and executes the returned actions. All conversation decisions live
// in the engine; this layer only shuttles messages.
type handlers struct {
	engine       *form.Engine
	finalizer    *form.Finalizer
	reviewChatID int64
}

func (h *handlers) onStart(c tele.Context) error {
	return h.dispatch(c, form.Event{
		Kind:      form.EventBegin,
		FirstName: senderFirstName(c),
		Username:  senderUsername(c),
	})
}

func (h *handlers) onText(c tele.Context) error {
	return h.dispatch(c, form.Event{
		Kind:     form.EventText,
		Text:     c.Text(),
		Username: senderUsername(c),
	})
}

func (h *handlers) onContact(c tele.Context) error {
	ev := form.Event{Kind: form.EventContact, Username: senderUsername(c)}
	if msg := c.Message(); msg != nil && msg.Contact != nil {
		ev.Phone = msg.Contact.PhoneNumber
	}
	return h.dispatch(c, ev)
}

func (h *handlers) onPhoto(c tele.Context) error {
	ev := form.Event{Kind: form.EventPhoto, Username: senderUsername(c)}
	if msg := c.Message(); msg != nil && msg.Photo != nil {
		ev.PhotoFileID = msg.Photo.FileID
	}
	return h.dispatch(c, ev)
}

func (h *handlers) onConfirm(c tele.Context) error {
	return h.dispatch(c, form.Event{Kind: form.EventConfirm})
}

func (h *handlers) onCancel(c tele.Context) error {
	return h.dispatch(c, form.Event{Kind: form.EventCancel})
}

// dispatch runs the engine transition and the resulting sends under the
// user's lock. Telebot handles each update on its own goroutine, so without
// this bracket two rapid confirm presses would both see the live session and
// deliver the application twice.
func (h *handlers) dispatch(c tele.Context, ev form.Event) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	return h.engine.Dispatch(ctx, sender.ID, ev, func(act form.Action) error {
		return h.execute(c, act)
	})
}

func (h *handlers) execute(c tele.Context, act form.Action) error {
	switch act.Kind {
	case form.ActionNone:
		return nil

	case form.ActionGreeting:
		return tghelpers.SendHTML(c, form.GreetingText(act.FirstName),
			keyboard.ReplyButtons(form.LanguageKeyboard()...))

	case form.ActionMainMenu:
		return tghelpers.SendHTML(c, form.MenuText(act.Lang),
			keyboard.ReplyButtons(form.MenuKeyboard(act.Lang)...))

	case form.ActionAbout:
		return tghelpers.SendHTML(c, form.AboutText(act.Lang))

	case form.ActionAskStep:
		return h.askStep(c, act.Step, act.Lang)

	case form.ActionResumeAsk:
		return tghelpers.SendHTML(c, form.ResumeQuestion(act.Lang), yesNoMarkup(act.Lang))

	case form.ActionResumeRetry:
		return tghelpers.SendHTML(c, form.ResumeRetryText(act.Lang), yesNoMarkup(act.Lang))

	case form.ActionRestart:
		return tghelpers.SendHTML(c, form.RestartText(act.Lang),
			keyboard.ReplyButtons(form.LanguageKeyboard()...))

	case form.ActionNewApplication:
		return tghelpers.SendHTML(c, form.NewApplicationText(act.Lang),
			keyboard.ReplyButtons(form.LanguageKeyboard()...))

	case form.ActionPhotoRetry:
		return tghelpers.SendHTML(c, form.PhotoRetryText(act.Lang))

	case form.ActionPreview:
		return h.sendPreview(c, act)

	case form.ActionFinalize:
		return h.finalize(c, act)

	case form.ActionCancelNotice:
		if err := tghelpers.EditCaptionOrText(c, form.CancelledText(act.Lang)); err != nil {
			return err
		}
		return c.Respond()

	case form.ActionMissingSession:
		return c.Respond(&tele.CallbackResponse{Text: form.MissingSessionAlert(), ShowAlert: true})
	}
	return nil
}

func (h *handlers) askStep(c tele.Context, id form.StepID, lang form.Lang) error {
	prompt, ok := form.RenderPrompt(id, lang)
	if !ok {
		return fmt.Errorf("no prompt for step %q", id)
	}
	return tghelpers.SendHTML(c, prompt.Text, promptMarkup(prompt))
}

// sendPreview delivers the photo-with-caption review message synchronously:
// the confirm buttons must not race ahead of the preview itself.
func (h *handlers) sendPreview(c tele.Context, act form.Action) error {
	photo := &tele.Photo{
		File:    tele.File{FileID: act.Session.App.PhotoFileID},
		Caption: form.RenderPreview(act.Session),
	}
	markup := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: form.ConfirmButtonLabel(act.Lang), Unique: callbackConfirm},
		{Text: form.CancelButtonLabel(act.Lang), Unique: callbackCancel},
	})
	return c.Send(photo, &tele.SendOptions{
		ParseMode:   tele.ModeHTML,
		ReplyMarkup: markup,
	})
}

func (h *handlers) finalize(c tele.Context, act form.Action) error {
	ctx := tghelpers.BuildContext(c)
	tr := &botTransport{c: c, reviewChatID: h.reviewChatID}
	if err := h.finalizer.Finalize(ctx, tr, act.Session); err != nil {
		logger.Error(ctx, "form", "finalize.fail",
			slog.Int64("user_id", act.Session.UserID),
			slog.String("err", err.Error()),
		)
		return c.Respond(&tele.CallbackResponse{
			Text:      form.DeliveryErrorAlert(act.Lang),
			ShowAlert: true,
		})
	}
	return c.Respond()
}

// botTransport adapts a live callback context to the finalizer's outbound
// surface. All calls go straight to the Bot API, bypassing the async
// dispatcher, so delivery outcomes are known before the session is dropped.
type botTransport struct {
	c            tele.Context
	reviewChatID int64
}

func (t *botTransport) SendReviewPhoto(fileID, caption string) error {
	photo := &tele.Photo{
		File:    tele.File{FileID: fileID},
		Caption: caption,
	}
	_, err := t.c.Bot().Send(&tele.Chat{ID: t.reviewChatID}, photo,
		&tele.SendOptions{ParseMode: tele.ModeHTML})
	return err
}

func (t *botTransport) EditPreview(text string) error {
	return tghelpers.EditCaptionOrText(t.c, text)
}

func (t *botTransport) SendApplicant(userID int64, text string) error {
	_, err := t.c.Bot().Send(&tele.User{ID: userID}, text)
	return err
}

func promptMarkup(p form.Prompt) *tele.ReplyMarkup {
	if p.RemoveKeyboard {
		return keyboard.RemoveKeyboard()
	}
	if p.ContactRequest {
		markup := &tele.ReplyMarkup{ResizeKeyboard: true}
		label := ""
		if len(p.Keyboard) > 0 && len(p.Keyboard[0]) > 0 {
			label = p.Keyboard[0][0]
		}
		markup.Reply(markup.Row(markup.Contact(label)))
		return markup
	}
	if len(p.Keyboard) > 0 {
		return keyboard.ReplyButtons(p.Keyboard...)
	}
	return nil
}

func yesNoMarkup(lang form.Lang) *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{form.YesLabel(lang), form.NoLabel(lang)})
}

func senderFirstName(c tele.Context) string {
	if s := c.Sender(); s != nil {
		return s.FirstName
	}
	return ""
}

func senderUsername(c tele.Context) string {
	if s := c.Sender(); s != nil {
		return s.Username
	}
	return ""
}
