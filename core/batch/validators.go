package batch

import (
	"strconv"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/xuandat7/tkb-ptit-react-sub000/core"
)

var (
	batchFieldTag  = "batchfield"
	batchFieldText = "must be one of period_count, headcount, class_size"

	majorSlotTag  = "majorslot"
	majorSlotText = "must be one of major2, major3"
)

// InitValidators registers the batch validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(batchFieldTag, func(fl validator.FieldLevel) bool {
		f := Field(fl.Field().String())
		for _, known := range Fields {
			if f == known {
				return true
			}
		}
		return false
	})
	core.RegisterCustomTranslation(validate, translator, batchFieldTag, batchFieldText)

	_ = validate.RegisterValidation(majorSlotTag, func(fl validator.FieldLevel) bool {
		s := Slot(fl.Field().String())
		return s == SlotMajor2 || s == SlotMajor3
	})
	core.RegisterCustomTranslation(validate, translator, majorSlotTag, majorSlotText)
}

// Input is raw numeric input as typed by the operator. Both JSON strings and
// JSON numbers are accepted; normalization happens in the store.
type Input string

func (in *Input) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	} else if s == "null" {
		s = ""
	}
	*in = Input(s)
	return nil
}

func (in Input) Int() int { return core.ParseCount(string(in)) }

// Selection identifies the subjects to load: semester, academic year,
// program type and major group.
type Selection struct {
	Semester     string `json:"semester" yaml:"semester" validate:"notblank"`
	AcademicYear string `json:"academic_year" yaml:"academic_year" validate:"notblank"`
	ProgramType  string `json:"program_type" yaml:"program_type" validate:"notblank"`
	MajorGroup   string `json:"major_group" yaml:"major_group"`
}

func (sel *Selection) Clean() {
	sel.Semester = core.CleanString(sel.Semester)
	sel.AcademicYear = core.CleanString(sel.AcademicYear)
	sel.ProgramType = core.CleanString(sel.ProgramType)
	sel.MajorGroup = core.CleanString(sel.MajorGroup)
}

// NewRow contains the information needed to add a row to a new batch.
type NewRow struct {
	SubjectCode string `json:"subject_code" yaml:"subject_code" validate:"notblank"`
	SubjectName string `json:"subject_name" yaml:"subject_name"`
	PeriodCount Input  `json:"period_count" yaml:"period_count"`
	Headcount   Input  `json:"headcount" yaml:"headcount"`
	ClassSize   Input  `json:"class_size" yaml:"class_size"`
	Major       string `json:"major" yaml:"major" validate:"notblank"`
	ClassYear   string `json:"class_year" yaml:"class_year" validate:"notblank"`
	ProgramType string `json:"program_type" yaml:"program_type"`
}

func (nr NewRow) Row() Row {
	return Row{
		SubjectCode: nr.SubjectCode,
		SubjectName: nr.SubjectName,
		PeriodCount: nr.PeriodCount.Int(),
		Headcount:   nr.Headcount.Int(),
		ClassSize:   nr.ClassSize.Int(),
		Major:       nr.Major,
		ClassYear:   nr.ClassYear,
		ProgramType: nr.ProgramType,
	}
}

// NewBatch loads a batch: from explicit rows when given, from the catalog otherwise.
type NewBatch struct {
	Selection Selection `json:"selection"`
	Rows      []NewRow  `json:"rows" validate:"omitempty,dive"`
}

func (nb *NewBatch) Validate(validate *validator.Validate) error {
	nb.Selection.Clean()
	return validate.Struct(nb)
}

func (nb NewBatch) BatchRows() []Row {
	rows := make([]Row, 0, len(nb.Rows))
	for _, nr := range nb.Rows {
		rows = append(rows, nr.Row())
	}
	return rows
}

type FieldUpdate struct {
	Field Field `json:"field" validate:"required,batchfield"`
	Value Input `json:"value"`
}

func (fu FieldUpdate) Validate(validate *validator.Validate) error { return validate.Struct(fu) }

type MajorUpdate struct {
	Slot  Slot   `json:"slot" validate:"required,majorslot"`
	Value string `json:"value"`
}

func (mu *MajorUpdate) Validate(validate *validator.Validate) error {
	mu.Value = core.CleanString(mu.Value)
	return validate.Struct(mu)
}

type ClassSizeUpdate struct {
	Value Input `json:"value"`
}

type Toggle struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

func (t Toggle) Validate(validate *validator.Validate) error { return validate.Struct(t) }
