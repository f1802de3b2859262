// Package storage persists finalized applications. Live sessions never touch
// the database; only submitted forms are archived here.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/roshaa-market/hrbot/app/form"
)

// ApplicationRecord is one archived submission row.
type ApplicationRecord struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Username    string    `db:"username"`
	Lang        string    `db:"lang"`
	Name        string    `db:"name"`
	Birth       string    `db:"birth"`
	Phone       string    `db:"phone"`
	Department  string    `db:"department"`
	Address     string    `db:"address"`
	Nationality string    `db:"nationality"`
	Education   string    `db:"education"`
	Marital     string    `db:"marital"`
	Habits      string    `db:"habits"`
	RuLevel     string    `db:"ru_level"`
	EnLevel     string    `db:"en_level"`
	CnLevel     string    `db:"cn_level"`
	WordLevel   string    `db:"word_level"`
	ExcelLevel  string    `db:"excel_level"`
	OneCLevel   string    `db:"onec_level"`
	SourceInfo  string    `db:"source_info"`
	PrevJob     string    `db:"prev_job"`
	Salary      string    `db:"salary"`
	Shift       string    `db:"shift"`
	RefCheck    string    `db:"ref_check"`
	PhotoFileID string    `db:"photo_file_id"`
	SubmittedAt time.Time `db:"submitted_at"`
}

const insertApplication = `
INSERT INTO applications (
	user_id, username, lang,
	name, birth, phone, department, address, nationality, education,
	marital, habits,
	ru_level, en_level, cn_level, word_level, excel_level, onec_level,
	source_info, prev_job, salary, shift, ref_check, photo_file_id,
	submitted_at
) VALUES (
	:user_id, :username, :lang,
	:name, :birth, :phone, :department, :address, :nationality, :education,
	:marital, :habits,
	:ru_level, :en_level, :cn_level, :word_level, :excel_level, :onec_level,
	:source_info, :prev_job, :salary, :shift, :ref_check, :photo_file_id,
	:submitted_at
)`

// ApplicationsRepo archives submitted applications in Postgres.
type ApplicationsRepo struct {
	db *sqlx.DB
}

// NewApplicationsRepo creates the archive repository.
func NewApplicationsRepo(db *sqlx.DB) *ApplicationsRepo {
	return &ApplicationsRepo{db: db}
}

// RecordFromSession maps a finalized session onto an archive row.
func RecordFromSession(sess *form.Session) ApplicationRecord {
	a := sess.App
	return ApplicationRecord{
		UserID:      sess.UserID,
		Username:    sess.Username,
		Lang:        string(sess.Lang),
		Name:        a.Name,
		Birth:       a.Birth,
		Phone:       a.Phone,
		Department:  a.Department,
		Address:     a.Address,
		Nationality: a.Nationality,
		Education:   a.Education,
		Marital:     a.Marital,
		Habits:      a.Habits,
		RuLevel:     a.RuLevel,
		EnLevel:     a.EnLevel,
		CnLevel:     a.CnLevel,
		WordLevel:   a.WordLevel,
		ExcelLevel:  a.ExcelLevel,
		OneCLevel:   a.OneCLevel,
		SourceInfo:  a.SourceInfo,
		PrevJob:     a.PrevJob,
		Salary:      a.Salary,
		Shift:       a.Shift,
		RefCheck:    a.RefCheck,
		PhotoFileID: a.PhotoFileID,
		SubmittedAt: time.Now().UTC(),
	}
}

// SaveApplication implements form.Archive.
func (r *ApplicationsRepo) SaveApplication(ctx context.Context, sess *form.Session) error {
	rec := RecordFromSession(sess)
	if _, err := r.db.NamedExecContext(ctx, insertApplication, rec); err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}
