package batch

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/xuandat7/tkb-ptit-react-sub000/core"
)

var (
	// errors
	ErrNotGrouped       = errors.New("row is not grouped")
	ErrStandaloneMajor  = errors.New("standalone majors cannot be combined")
	ErrRowHidden        = errors.New("row is absorbed by another row")
	ErrMajorUnavailable = errors.New("major is not available for this combination")
	ErrNotCommonProgram = errors.New("common registration only applies to the common program")
)

// claim records which row (and which of its combinations) absorbs a hidden row.
// A merge claim has an empty combo.
type claim struct {
	owner RowID
	combo string
}

// Batch is the ordered row store of one editing session.
// It is not safe for concurrent use.
type Batch struct {
	rows   []*Row
	lastID RowID
	claims map[RowID]claim

	newComboID func() string // mockable
}

// New builds a Batch from freshly loaded rows. Ids and grouping state of the
// given rows are discarded.
func New(rows ...Row) *Batch {
	b := &Batch{
		rows:       make([]*Row, 0, len(rows)),
		claims:     make(map[RowID]claim),
		newComboID: uuid.NewString,
	}
	for _, r := range rows {
		b.Append(r)
	}
	return b
}

// Append adds a row at the end of the store and returns its id.
func (b *Batch) Append(r Row) RowID {
	b.lastID++
	row := Row{
		ID:          b.lastID,
		SubjectCode: core.CleanString(r.SubjectCode),
		SubjectName: core.CleanString(r.SubjectName),
		PeriodCount: r.PeriodCount,
		Headcount:   r.Headcount,
		ClassSize:   r.ClassSize,
		Major:       core.CleanString(r.Major),
		ClassYear:   core.CleanString(r.ClassYear),
		ProgramType: core.CleanString(r.ProgramType),
	}
	b.rows = append(b.rows, &row)
	return row.ID
}

func (b *Batch) Len() int { return len(b.rows) }

// Rows returns a copy of every row in store order.
func (b *Batch) Rows() []Row {
	rows := make([]Row, 0, len(b.rows))
	for _, r := range b.rows {
		rows = append(rows, r.clone())
	}
	return rows
}

// Row returns a copy of the row with the given id.
func (b *Batch) Row(id RowID) (Row, bool) {
	if r := b.find(id); r != nil {
		return r.clone(), true
	}
	return Row{}, false
}

// Combination returns a copy of one of the row's combinations.
func (b *Batch) Combination(id RowID, comboID string) (Combination, bool) {
	r := b.find(id)
	if r == nil {
		return Combination{}, false
	}
	if i := comboIndex(r, comboID); i >= 0 {
		return r.Combinations[i], true
	}
	return Combination{}, false
}

// UpdateField overwrites a scalar field with normalized numeric input.
// Grouping and visibility are left untouched; derived totals follow.
func (b *Batch) UpdateField(id RowID, field Field, value string) {
	r := b.mustRow(id)
	n := core.ParseCount(value)

	switch field {
	case FieldPeriodCount:
		r.PeriodCount = n
	case FieldHeadcount:
		if r.CommonRegistration {
			r.OriginalHeadcount = n // merged headcount is derived
		} else {
			r.Headcount = n
		}
	case FieldClassSize:
		r.ClassSize = n
	default:
		panic(fmt.Sprintf("batch: unknown field %q", field))
	}
	b.recompute()
}

// RemoveRow deletes a row and cascade-clears every reference to it:
// rows it absorbed become visible, an owner merged with it is restored and
// combination slots left without any backing row are emptied.
func (b *Batch) RemoveRow(id RowID) {
	idx := b.mustIndex(id)

	for _, r := range b.rows {
		if r.CommonRegistration && r.MergedWith == id {
			unmerge(r)
		}
	}
	b.rows = append(b.rows[:idx], b.rows[idx+1:]...)

	for _, owner := range b.rows {
		for i := range owner.Combinations {
			c := &owner.Combinations[i]
			for _, s := range Slots {
				if m := c.slot(s); m != "" && !b.hasOtherMajor(owner, m) {
					c.setSlot(s, "")
				}
			}
		}
	}
	b.recompute()
}

// HasMultipleMajors reports whether at least two visible, non-standalone rows
// teach the subject, which is what makes grouping majors meaningful.
func (b *Batch) HasMultipleMajors(subjectCode string) bool {
	var n int
	for _, r := range b.rows {
		if r.SubjectCode == subjectCode && !r.Hidden && !r.IsStandalone() {
			n++
			if n >= 2 {
				return true
			}
		}
	}
	return false
}

// recompute derives visibility, merged values and combination totals from
// the current merge and combination selections.
func (b *Batch) recompute() {
	b.claims = make(map[RowID]claim, len(b.claims))
	for _, r := range b.rows {
		r.Hidden = false
		r.HiddenBy = 0
	}

	// merges first: a merged partner is represented by its owner
	for _, owner := range b.rows {
		if !owner.CommonRegistration {
			continue
		}
		partner := b.find(owner.MergedWith)
		if partner == nil {
			unmerge(owner)
			continue
		}
		owner.Headcount = owner.OriginalHeadcount + partner.Headcount
		owner.ClassYear = combineClassYears(owner.OriginalClassYear, partner.ClassYear)
		b.hide(partner, claim{owner: owner.ID})
	}

	for _, owner := range b.rows {
		if !owner.Grouped {
			continue
		}
		for i := range owner.Combinations {
			c := &owner.Combinations[i]
			c.Major1 = owner.Major
			c.TotalHeadcount = b.subjectHeadcount(owner.SubjectCode, c.Majors())
			for _, m := range []string{c.Major2, c.Major3} {
				if m == "" || m == owner.Major {
					continue
				}
				for _, r := range b.rows {
					if r == owner || r.SubjectCode != owner.SubjectCode || r.Major != m {
						continue
					}
					// first claim wins; grouped rows drive their own combinations
					if r.Hidden || r.Grouped {
						continue
					}
					b.hide(r, claim{owner: owner.ID, combo: c.ID})
				}
			}
		}
	}
}

// subjectHeadcount sums the headcount of every row of the subject taught to
// one of majors, whatever its class-year, visibility or grouping. A merge
// owner counts with its partner, which is then not counted again.
// Merge claims must be settled before calling it.
func (b *Batch) subjectHeadcount(subjectCode string, majors []string) int {
	var n int
	for _, r := range b.rows {
		if r.SubjectCode != subjectCode || !contains(majors, r.Major) {
			continue
		}
		if cl, ok := b.claims[r.ID]; ok && cl.combo == "" {
			if owner := b.find(cl.owner); owner != nil && contains(majors, owner.Major) {
				continue
			}
		}
		n += r.Headcount
	}
	return n
}

func (b *Batch) hide(r *Row, cl claim) {
	r.Hidden = true
	r.HiddenBy = cl.owner
	b.claims[r.ID] = cl
}

func (b *Batch) hasOtherMajor(owner *Row, major string) bool {
	for _, r := range b.rows {
		if r != owner && r.SubjectCode == owner.SubjectCode && r.Major == major {
			return true
		}
	}
	return false
}

func (b *Batch) find(id RowID) *Row {
	for _, r := range b.rows {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (b *Batch) mustIndex(id RowID) int {
	for i, r := range b.rows {
		if r.ID == id {
			return i
		}
	}
	panic(fmt.Sprintf("batch: unknown row %d", id))
}

func (b *Batch) mustRow(id RowID) *Row {
	return b.rows[b.mustIndex(id)]
}

func comboIndex(r *Row, comboID string) int {
	for i, c := range r.Combinations {
		if c.ID == comboID {
			return i
		}
	}
	return -1
}

func mustComboIndex(r *Row, comboID string) int {
	i := comboIndex(r, comboID)
	if i < 0 {
		panic(fmt.Sprintf("batch: unknown combination %q on row %d", comboID, r.ID))
	}
	return i
}
