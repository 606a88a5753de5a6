package batch

import (
	"strings"
)

const (
	// ProgramTypeCommon is the program type whose rows may be merged across class-years.
	ProgramTypeCommon = "Chung"

	// StandaloneMajorPrefix marks majors that never share classes with other majors.
	StandaloneMajorPrefix = "E-"

	// MajorSeparator joins the majors of a combination in a generation item.
	MajorSeparator = "-"
)

// RowID is the stable arena id of a Row within a Batch. Zero means "no row".
type RowID int

// Field names a scalar Row field editable through Batch.UpdateField.
type Field string

const (
	FieldPeriodCount Field = "period_count"
	FieldHeadcount   Field = "headcount"
	FieldClassSize   Field = "class_size"
)

var Fields = []Field{FieldPeriodCount, FieldHeadcount, FieldClassSize}

// Slot names an editable major slot of a Combination.
type Slot string

const (
	SlotMajor2 Slot = "major2"
	SlotMajor3 Slot = "major3"
)

var Slots = []Slot{SlotMajor2, SlotMajor3}

func (s Slot) other() Slot {
	if s == SlotMajor2 {
		return SlotMajor3
	}
	return SlotMajor2
}

// Row is a candidate teaching unit: one subject taught to one major in one class-year.
type Row struct {
	ID          RowID  `json:"id"`
	SubjectCode string `json:"subject_code"`
	SubjectName string `json:"subject_name"`
	PeriodCount int    `json:"period_count"`
	Headcount   int    `json:"headcount"`
	ClassSize   int    `json:"class_size"`
	Major       string `json:"major"`
	ClassYear   string `json:"class_year"`
	ProgramType string `json:"program_type"`

	Grouped      bool          `json:"grouped"`
	Combinations []Combination `json:"combinations"`

	Hidden   bool  `json:"hidden"`
	HiddenBy RowID `json:"hidden_by,omitempty"`

	CommonRegistration bool   `json:"common_registration"`
	OriginalClassYear  string `json:"original_class_year,omitempty"`
	OriginalHeadcount  int    `json:"original_headcount,omitempty"`
	MergedWith         RowID  `json:"merged_with,omitempty"`
}

// ClassCount is the number of classes needed to seat Headcount students.
func (r Row) ClassCount() int {
	return ClassCount(r.Headcount, r.ClassSize)
}

// IsStandalone reports whether the row's major never combines with others.
func (r Row) IsStandalone() bool {
	return IsStandaloneMajor(r.Major)
}

// IsCommonProgram reports whether the row may take part in a common registration.
func (r Row) IsCommonProgram() bool {
	return r.ProgramType == ProgramTypeCommon
}

func (r Row) clone() Row {
	if r.Combinations != nil {
		r.Combinations = append([]Combination(nil), r.Combinations...)
	}
	return r
}

// Combination is one way of merging the owner's major with up to two other
// majors of the same subject into a shared class group.
type Combination struct {
	ID             string `json:"id"`
	Major1         string `json:"major1"`
	Major2         string `json:"major2"`
	Major3         string `json:"major3"`
	TotalHeadcount int    `json:"total_headcount"`
	ClassSize      int    `json:"class_size"`
}

// Majors returns the non-empty majors in slot order.
func (c Combination) Majors() []string {
	majors := make([]string, 0, 3)
	for _, m := range []string{c.Major1, c.Major2, c.Major3} {
		if m != "" {
			majors = append(majors, m)
		}
	}
	return majors
}

// ClassCount is the number of classes the combined group needs.
func (c Combination) ClassCount() int {
	return ClassCount(c.TotalHeadcount, c.ClassSize)
}

func (c Combination) slot(s Slot) string {
	if s == SlotMajor2 {
		return c.Major2
	}
	return c.Major3
}

func (c *Combination) setSlot(s Slot, v string) {
	if s == SlotMajor2 {
		c.Major2 = v
	} else {
		c.Major3 = v
	}
}

// ClassCount divides with ceiling. A zero class size yields zero classes.
func ClassCount(headcount, classSize int) int {
	if classSize <= 0 || headcount <= 0 {
		return 0
	}
	return (headcount + classSize - 1) / classSize
}

func IsStandaloneMajor(major string) bool {
	return strings.HasPrefix(major, StandaloneMajorPrefix)
}

// GenerationItem is the flattened request unit sent to the generation service.
type GenerationItem struct {
	SubjectCode  string `json:"subject_code"`
	SubjectName  string `json:"subject_name"`
	PeriodCount  int    `json:"period_count"`
	ClassCount   int    `json:"class_count"`
	Headcount    int    `json:"headcount"`
	PerClassSize int    `json:"per_class_size"`
	Major        string `json:"major"`
	ClassYear    string `json:"class_year"`
	ProgramType  string `json:"program_type"`
}
