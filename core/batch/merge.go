package batch

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// HandleCommonRegistration merges (enabled) the row with the first other row of
// the same subject in a different class-year, or undoes the merge (!enabled).
// Merging is a no-op when the row is already merged or no partner exists.
func (b *Batch) HandleCommonRegistration(id RowID, enabled bool) error {
	r := b.mustRow(id)

	if !enabled {
		if !r.CommonRegistration {
			return nil
		}
		unmerge(r)
		b.recompute()
		return nil
	}

	if r.CommonRegistration {
		return nil
	}
	if !r.IsCommonProgram() {
		return ErrNotCommonProgram
	}
	if r.Hidden {
		return ErrRowHidden
	}
	partner := b.mergePartner(r)
	if partner == nil {
		return nil
	}

	r.CommonRegistration = true
	r.OriginalClassYear = r.ClassYear
	r.OriginalHeadcount = r.Headcount
	r.MergedWith = partner.ID
	b.recompute()
	return nil
}

func (b *Batch) mergePartner(owner *Row) *Row {
	for _, r := range b.rows {
		if r == owner || r.SubjectCode != owner.SubjectCode || r.ClassYear == owner.ClassYear {
			continue
		}
		if r.Hidden || r.CommonRegistration || r.Grouped {
			continue
		}
		return r
	}
	return nil
}

// unmerge restores the owner from its snapshot. The partner becomes visible
// on the next recompute.
func unmerge(r *Row) {
	r.ClassYear = r.OriginalClassYear
	r.Headcount = r.OriginalHeadcount
	r.CommonRegistration = false
	r.OriginalClassYear = ""
	r.OriginalHeadcount = 0
	r.MergedWith = 0
}

// combineClassYears formats two class-years as "<low>-<high>" using their
// last two digits, e.g. "2023" and "2022" give "22-23".
func combineClassYears(a, b string) string {
	years := []int{lastTwoDigits(a), lastTwoDigits(b)}
	sort.Ints(years)
	return fmt.Sprintf("%02d-%02d", years[0], years[1])
}

func lastTwoDigits(year string) int {
	year = strings.TrimSpace(year)
	if len(year) > 2 {
		year = year[len(year)-2:]
	}
	n, err := strconv.Atoi(year)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
