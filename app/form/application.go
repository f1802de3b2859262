package form

import "strings"

// Application holds the collected answers, one field per catalog step.
// Keeping the record structurally typed lets the report renderer enumerate
// every field at compile time instead of probing a string-keyed bag.
type Application struct {
	Name        string
	Birth       string
	Phone       string
	Department  string
	Address     string
	Nationality string
	Education   string
	Marital     string
	Habits      string
	RuLevel     string
	EnLevel     string
	CnLevel     string
	WordLevel   string
	ExcelLevel  string
	OneCLevel   string
	SourceInfo  string
	PrevJob     string
	Salary      string
	Shift       string
	RefCheck    string // normalized "yes" / "no"
	PhotoFileID string
}

// setAnswer writes the value for the given step. Each step owns exactly one
// field; writing never touches any other field.
func (a *Application) setAnswer(id StepID, value string) {
	switch id {
	case "name":
		a.Name = value
	case "birth":
		a.Birth = value
	case "phone":
		a.Phone = value
	case "department":
		a.Department = value
	case "address":
		a.Address = value
	case "nationality":
		a.Nationality = value
	case "education":
		a.Education = value
	case "marital":
		a.Marital = value
	case "habits":
		a.Habits = value
	case "lang_ru":
		a.RuLevel = value
	case "lang_en":
		a.EnLevel = value
	case "lang_cn":
		a.CnLevel = value
	case "skill_word":
		a.WordLevel = value
	case "skill_excel":
		a.ExcelLevel = value
	case "skill_onec":
		a.OneCLevel = value
	case "source_info":
		a.SourceInfo = value
	case "prev_job":
		a.PrevJob = value
	case "salary":
		a.Salary = value
	case "shift":
		a.Shift = value
	case "ref_check":
		a.RefCheck = value
	case "photo":
		a.PhotoFileID = value
	}
}

// normalizePercent strips a trailing percent sign and surrounding whitespace,
// so "75%" and "75" store the same value.
func normalizePercent(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, "%", ""))
}
