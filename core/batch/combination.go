package batch

import (
	"fmt"

	"github.com/xuandat7/tkb-ptit-react-sub000/core"
)

// ToggleMajorCombination switches a row between grouped and ungrouped.
// Grouping starts with one default combination; ungrouping releases every row
// the combinations had absorbed.
func (b *Batch) ToggleMajorCombination(id RowID, enabled bool) error {
	r := b.mustRow(id)

	if !enabled {
		if !r.Grouped {
			return nil
		}
		r.Grouped = false
		r.Combinations = nil
		b.recompute()
		return nil
	}

	if r.Grouped {
		return nil
	}
	if r.IsStandalone() {
		return ErrStandaloneMajor
	}
	if r.Hidden {
		return ErrRowHidden
	}
	r.Grouped = true
	r.Combinations = []Combination{b.newCombination(r)}
	b.recompute()
	return nil
}

// AddCombination appends an alternate combination to a grouped row and
// returns its id.
func (b *Batch) AddCombination(id RowID) (string, error) {
	r := b.mustRow(id)
	if !r.Grouped {
		return "", ErrNotGrouped
	}
	c := b.newCombination(r)
	r.Combinations = append(r.Combinations, c)
	b.recompute()
	return c.ID, nil
}

// RemoveCombination deletes a combination. Removing the last one ungroups the row.
func (b *Batch) RemoveCombination(id RowID, comboID string) {
	r := b.mustRow(id)
	i := mustComboIndex(r, comboID)

	r.Combinations = append(r.Combinations[:i], r.Combinations[i+1:]...)
	if len(r.Combinations) == 0 {
		r.Grouped = false
		r.Combinations = nil
	}
	b.recompute()
}

// UpdateCombinationMajor selects (or clears, with "") the major of a slot.
// Only majors offered by CandidateMajors are accepted.
func (b *Batch) UpdateCombinationMajor(id RowID, comboID string, slot Slot, major string) error {
	mustSlot(slot)
	r := b.mustRow(id)
	i := mustComboIndex(r, comboID)

	major = core.CleanString(major)
	if major != "" && !contains(b.CandidateMajors(id, comboID, slot), major) {
		return ErrMajorUnavailable
	}
	r.Combinations[i].setSlot(slot, major)
	b.recompute()
	return nil
}

// UpdateCombinationClassSize overwrites the class size of a combination.
func (b *Batch) UpdateCombinationClassSize(id RowID, comboID string, value string) {
	r := b.mustRow(id)
	i := mustComboIndex(r, comboID)
	r.Combinations[i].ClassSize = core.ParseCount(value)
}

// CandidateMajors lists the majors that may be selected in a slot: majors of
// other rows teaching the same subject, except the owner's own major, the
// major held by the other slot, standalone majors, grouped rows and majors
// already absorbed elsewhere. The slot's current selection stays listed.
func (b *Batch) CandidateMajors(id RowID, comboID string, slot Slot) []string {
	mustSlot(slot)
	owner := b.mustRow(id)
	c := owner.Combinations[mustComboIndex(owner, comboID)]
	current, other := c.slot(slot), c.slot(slot.other())

	blocked := make(map[string]bool)
	for _, r := range b.rows {
		if r.SubjectCode != owner.SubjectCode || !r.Hidden {
			continue
		}
		cl := b.claims[r.ID]
		if cl.combo == "" {
			continue // merged partners are offered through their owner
		}
		if !(cl.owner == owner.ID && cl.combo == c.ID && r.Major == current) {
			blocked[r.Major] = true
		}
	}

	majors := make([]string, 0)
	seen := make(map[string]bool)
	for _, r := range b.rows {
		if r == owner || r.SubjectCode != owner.SubjectCode {
			continue
		}
		if r.Major == "" || r.Major == owner.Major || r.Major == other || seen[r.Major] {
			continue
		}
		if r.IsStandalone() || r.Grouped || blocked[r.Major] {
			continue
		}
		if r.Hidden && b.claims[r.ID].combo == "" {
			continue
		}
		seen[r.Major] = true
		majors = append(majors, r.Major)
	}
	return majors
}

func (b *Batch) newCombination(r *Row) Combination {
	return Combination{
		ID:             b.newComboID(),
		Major1:         r.Major,
		TotalHeadcount: r.Headcount,
		ClassSize:      r.ClassSize,
	}
}

func mustSlot(s Slot) {
	if s != SlotMajor2 && s != SlotMajor3 {
		panic(fmt.Sprintf("batch: unknown slot %q", s))
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
