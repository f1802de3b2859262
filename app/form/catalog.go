package form

// Lang selects one of the two interface languages.
type Lang string

const (
	// LangUZ is the primary interface language.
	LangUZ Lang = "uz"
	// LangRU is the secondary interface language.
	LangRU Lang = "ru"
)

// StepID names a position in the conversation. Catalog steps use their field
// name; the remaining values are sentinels that never appear in the catalog.
type StepID string

const (
	// StepNone marks a session that has chosen a language but not entered the form.
	StepNone StepID = ""
	// StepResumeChoice marks a session waiting for a resume-or-restart answer.
	StepResumeChoice StepID = "resume_choice"
	// StepConfirm marks a session waiting on the preview confirm/cancel buttons.
	StepConfirm StepID = "confirm"
)

// Kind classifies the input a step expects.
type Kind int

const (
	// KindFreeText accepts any text message.
	KindFreeText Kind = iota
	// KindContactOrText accepts a shared contact or typed text; the contact's
	// phone number wins when both are possible.
	KindContactOrText
	// KindSingleChoice offers a fixed keyboard of labels. The answer is stored
	// verbatim even when it matches none of them.
	KindSingleChoice
	// KindPercent offers the percentage keyboard; a trailing % sign and
	// surrounding whitespace are stripped before storage.
	KindPercent
	// KindYesNo offers the localized yes/no keyboard.
	KindYesNo
	// KindPhoto requires a photo attachment; anything else is re-prompted.
	KindPhoto
)

// Step is one entry of the application form.
type Step struct {
	ID      StepID
	Kind    Kind
	Choices map[Lang][][]string // keyboard rows for closed-set steps
}

var percentRows = [][]string{
	{"0%", "25%", "50%"},
	{"75%", "100%"},
}

func percentChoices() map[Lang][][]string {
	return map[Lang][][]string{LangUZ: percentRows, LangRU: percentRows}
}

// Catalog is the fixed, ordered list of form steps. The order here is the
// single source of truth for step sequencing; the engine never reorders or
// branches it.
var Catalog = []Step{
	{ID: "name", Kind: KindFreeText},
	{ID: "birth", Kind: KindFreeText},
	{ID: "phone", Kind: KindContactOrText},
	{ID: "department", Kind: KindSingleChoice, Choices: map[Lang][][]string{
		LangUZ: {{"Sotuv bo‘limi", "Ombor bo‘limi", "Kassa"}},
		LangRU: {{"Отдел продаж", "Склад", "Касса"}},
	}},
	{ID: "address", Kind: KindFreeText},
	{ID: "nationality", Kind: KindSingleChoice, Choices: map[Lang][][]string{
		LangUZ: {{"O‘zbek", "Rus"}, {"Tojik", "Boshqa"}},
		LangRU: {{"Узбек", "Русский"}, {"Таджик", "Другое"}},
	}},
	{ID: "education", Kind: KindSingleChoice, Choices: map[Lang][][]string{
		LangUZ: {{"Oliy", "Oliy / tugallanmagan"}, {"O‘rta maxsus", "O‘rta"}},
		LangRU: {{"Высшее", "Незаконченное высшее"}, {"Среднее специальное", "Среднее"}},
	}},
	{ID: "marital", Kind: KindSingleChoice, Choices: map[Lang][][]string{
		LangUZ: {{"Uylangan / turmush qurgan", "Uylanmagan / turmush qurmagan"}, {"Ajrashgan"}},
		LangRU: {{"Женат / Замужем", "Холост / Не замужем"}, {"В разводе"}},
	}},
	{ID: "habits", Kind: KindSingleChoice, Choices: map[Lang][][]string{
		LangUZ: {{"Chekish", "Ichish"}, {"Chekish va ichish", "Zararli odatlar yo‘q"}},
		LangRU: {{"Курю", "Пью"}, {"Курю и пью", "Вредных привычек нет"}},
	}},
	{ID: "lang_ru", Kind: KindPercent, Choices: percentChoices()},
	{ID: "lang_en", Kind: KindPercent, Choices: percentChoices()},
	{ID: "lang_cn", Kind: KindPercent, Choices: percentChoices()},
	{ID: "skill_word", Kind: KindPercent, Choices: percentChoices()},
	{ID: "skill_excel", Kind: KindPercent, Choices: percentChoices()},
	{ID: "skill_onec", Kind: KindPercent, Choices: percentChoices()},
	{ID: "source_info", Kind: KindSingleChoice, Choices: map[Lang][][]string{
		LangUZ: {{"Telegram reklama", "Instagram"}, {"Tanishlar", "Ish e’lon sayti"}, {"Boshqa"}},
		LangRU: {{"Реклама в Telegram", "Instagram"}, {"Знакомые", "Сайт вакансий"}, {"Другое"}},
	}},
	{ID: "prev_job", Kind: KindFreeText},
	{ID: "salary", Kind: KindFreeText},
	{ID: "shift", Kind: KindSingleChoice, Choices: map[Lang][][]string{
		LangUZ: {{"Ertalab smena", "Kechqurun smena", "Aralash smena"}},
		LangRU: {{"Утренняя смена", "Вечерняя смена", "Смешанная смена"}},
	}},
	{ID: "ref_check", Kind: KindYesNo},
	{ID: "photo", Kind: KindPhoto},
}

var catalogIndex = buildIndex()

func buildIndex() map[StepID]int {
	idx := make(map[StepID]int, len(Catalog))
	for i, s := range Catalog {
		idx[s.ID] = i
	}
	return idx
}

// FirstStep returns the id of the first form step.
func FirstStep() StepID {
	return Catalog[0].ID
}

// StepByID looks up a catalog step by id.
func StepByID(id StepID) (Step, bool) {
	i, ok := catalogIndex[id]
	if !ok {
		return Step{}, false
	}
	return Catalog[i], true
}

// NextStep returns the successor of id in catalog order. For the last catalog
// step it returns StepConfirm.
func NextStep(id StepID) (StepID, bool) {
	i, ok := catalogIndex[id]
	if !ok {
		return StepNone, false
	}
	if i+1 == len(Catalog) {
		return StepConfirm, true
	}
	return Catalog[i+1].ID, true
}

// IsFormStep reports whether id names a catalog step (not a sentinel).
func IsFormStep(id StepID) bool {
	_, ok := catalogIndex[id]
	return ok
}
