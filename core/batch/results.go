package batch

// ScheduledSession is one placed teaching session returned by the generation service.
type ScheduledSession struct {
	Day         int    `json:"day"`
	StartPeriod int    `json:"start_period"`
	PeriodCount int    `json:"period_count"`
	Room        string `json:"room"`
	Weeks       string `json:"weeks"`
}

// GenerationResult pairs a submitted item with what the generation service
// made of it: placed sessions, or an opaque failure note.
type GenerationResult struct {
	Item     GenerationItem     `json:"item"`
	Sessions []ScheduledSession `json:"sessions"`
	Note     string             `json:"note,omitempty"`
}

func (r GenerationResult) Failed() bool {
	return r.Note != "" && len(r.Sessions) == 0
}

// ResultRow is a display row of the results list.
type ResultRow struct {
	SubjectCode string `json:"subject_code"`
	SubjectName string `json:"subject_name"`
	Major       string `json:"major"`
	ClassYear   string `json:"class_year"`
	ClassCount  int    `json:"class_count"`
	Day         int    `json:"day,omitempty"`
	StartPeriod int    `json:"start_period,omitempty"`
	PeriodCount int    `json:"period_count,omitempty"`
	Room        string `json:"room,omitempty"`
	Weeks       string `json:"weeks,omitempty"`
	Note        string `json:"note,omitempty"`
}

// ResultRows maps generation results into display rows: one per placed
// session, and one carrying the note for items without sessions.
// Notes are passed through unchanged.
func ResultRows(results []GenerationResult) []ResultRow {
	rows := make([]ResultRow, 0, len(results))
	for _, res := range results {
		base := ResultRow{
			SubjectCode: res.Item.SubjectCode,
			SubjectName: res.Item.SubjectName,
			Major:       res.Item.Major,
			ClassYear:   res.Item.ClassYear,
			ClassCount:  res.Item.ClassCount,
		}
		if len(res.Sessions) == 0 {
			base.Note = res.Note
			rows = append(rows, base)
			continue
		}
		for _, s := range res.Sessions {
			row := base
			row.Day = s.Day
			row.StartPeriod = s.StartPeriod
			row.PeriodCount = s.PeriodCount
			row.Room = s.Room
			row.Weeks = s.Weeks
			row.Note = res.Note
			rows = append(rows, row)
		}
	}
	return rows
}
