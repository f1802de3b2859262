package form

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roshaa-market/hrbot/core/logger"
)

// Transport is the outbound surface the finalizer needs from the messaging
// layer. Calls are synchronous: the finalizer must know delivery succeeded
// before it destroys the session.
type Transport interface {
	// SendReviewPhoto delivers the applicant's photo with the report caption
	// to the review destination.
	SendReviewPhoto(fileID, caption string) error
	// EditPreview replaces the preview message's caption with a short notice.
	EditPreview(text string) error
	// SendApplicant sends a plain confirmation message to the applicant.
	SendApplicant(userID int64, text string) error
}

// Archive records finalized applications for later review. Optional;
// archiving failures never block a submission.
type Archive interface {
	SaveApplication(ctx context.Context, sess *Session) error
}

// Finalizer turns a completed session into a delivered report and clears it.
type Finalizer struct {
	store   *Store
	archive Archive // may be nil
}

// NewFinalizer creates a finalizer over the session store. archive may be nil
// when no database is configured.
func NewFinalizer(store *Store, archive Archive) *Finalizer {
	return &Finalizer{store: store, archive: archive}
}

// Finalize delivers the report to the review destination, notifies the
// applicant, and destroys the session. Any transport error aborts the
// sequence and leaves the session untouched, so a repeated confirm press
// retries from the same state.
func (f *Finalizer) Finalize(ctx context.Context, tr Transport, sess *Session) error {
	caption := RenderReport(sess)

	if err := tr.SendReviewPhoto(sess.App.PhotoFileID, caption); err != nil {
		logger.Error(ctx, "form.finalize", "review.send.fail",
			slog.Int64("user_id", sess.UserID),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("deliver report: %w", err)
	}

	if f.archive != nil {
		if err := f.archive.SaveApplication(ctx, sess); err != nil {
			// Best effort: the review channel already has the application.
			logger.Warn(ctx, "form.finalize", "archive.fail",
				slog.Int64("user_id", sess.UserID),
				slog.String("err", err.Error()),
			)
		}
	}

	if err := tr.EditPreview(SubmittedText(sess.Lang)); err != nil {
		return fmt.Errorf("edit preview: %w", err)
	}
	if err := tr.SendApplicant(sess.UserID, ReceiptText(sess.Lang)); err != nil {
		return fmt.Errorf("send receipt: %w", err)
	}

	f.store.Delete(sess.UserID)
	logger.Info(ctx, "form.finalize", "application.submitted",
		slog.Int64("user_id", sess.UserID),
		slog.String("lang", string(sess.Lang)),
	)
	return nil
}
