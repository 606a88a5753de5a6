package batch

import "strings"

// Serialize flattens the batch into generation items, in store order.
// Hidden rows are represented by their owner and produce nothing; a
// combination needs at least two majors to describe a shared class.
func (b *Batch) Serialize() []GenerationItem {
	items := make([]GenerationItem, 0, len(b.rows))
	for _, r := range b.rows {
		if r.Hidden {
			continue
		}
		if !r.Grouped {
			items = append(items, GenerationItem{
				SubjectCode:  r.SubjectCode,
				SubjectName:  r.SubjectName,
				PeriodCount:  r.PeriodCount,
				ClassCount:   r.ClassCount(),
				Headcount:    r.Headcount,
				PerClassSize: r.ClassSize,
				Major:        r.Major,
				ClassYear:    r.ClassYear,
				ProgramType:  r.ProgramType,
			})
			continue
		}
		for _, c := range r.Combinations {
			majors := c.Majors()
			if len(majors) < 2 {
				continue
			}
			items = append(items, GenerationItem{
				SubjectCode:  r.SubjectCode,
				SubjectName:  r.SubjectName,
				PeriodCount:  r.PeriodCount,
				ClassCount:   c.ClassCount(),
				Headcount:    c.TotalHeadcount,
				PerClassSize: c.ClassSize,
				Major:        strings.Join(majors, MajorSeparator),
				ClassYear:    r.ClassYear,
				ProgramType:  r.ProgramType,
			})
		}
	}
	return items
}
