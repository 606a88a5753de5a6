package batch

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_combineIT101(t *testing.T) {
	b := newTestBatch(
		row("IT101", "CNTT", "2023", 120, 50),
		row("IT101", "KHDL", "2023", 80, 50),
	)

	require.NoError(t, b.ToggleMajorCombination(1, true))
	require.NoError(t, b.UpdateCombinationMajor(1, "c1", SlotMajor2, "KHDL"))

	c, ok := b.Combination(1, "c1")
	require.True(t, ok)
	assert.Equal(t, 200, c.TotalHeadcount)
	assert.Equal(t, 4, c.ClassCount())

	khdl := mustGet(t, b, 2)
	assert.True(t, khdl.Hidden)
	assert.Equal(t, RowID(1), khdl.HiddenBy)

	want := []GenerationItem{{
		SubjectCode:  "IT101",
		SubjectName:  "Subject IT101",
		PeriodCount:  45,
		ClassCount:   4,
		Headcount:    200,
		PerClassSize: 50,
		Major:        "CNTT-KHDL",
		ClassYear:    "2023",
		ProgramType:  "Chính quy",
	}}
	if diff := cmp.Diff(want, b.Serialize()); diff != "" {
		t.Errorf("Serialize() mismatch (-want +got):\n%s", diff)
	}

	// clearing the selection restores the absorbed row
	require.NoError(t, b.UpdateCombinationMajor(1, "c1", SlotMajor2, ""))
	c, _ = b.Combination(1, "c1")
	assert.Equal(t, 120, c.TotalHeadcount)
	khdl = mustGet(t, b, 2)
	assert.False(t, khdl.Hidden)
	assert.Zero(t, khdl.HiddenBy)
}

func TestBatch_ToggleMajorCombination(t *testing.T) {
	t.Run("default combination", func(t *testing.T) {
		b := newTestBatch(row("IT101", "CNTT", "2023", 120, 60))
		require.NoError(t, b.ToggleMajorCombination(1, true))

		r := mustGet(t, b, 1)
		assert.True(t, r.Grouped)
		want := []Combination{{ID: "c1", Major1: "CNTT", TotalHeadcount: 120, ClassSize: 60}}
		if diff := cmp.Diff(want, r.Combinations); diff != "" {
			t.Errorf("Combinations mismatch (-want +got):\n%s", diff)
		}

		// already grouped: no-op
		require.NoError(t, b.ToggleMajorCombination(1, true))
		assert.Len(t, mustGet(t, b, 1).Combinations, 1)
	})

	t.Run("ungrouping an ungrouped row", func(t *testing.T) {
		b := newTestBatch(row("IT101", "CNTT", "2023", 120, 60))
		require.NoError(t, b.ToggleMajorCombination(1, false))
		assert.False(t, mustGet(t, b, 1).Grouped)
	})

	tests := []struct {
		name    string
		rows    []Row
		setup   func(b *Batch)
		id      RowID
		wantErr error
	}{
		{
			name:    "standalone major",
			rows:    []Row{row("IT101", "E-CNTT", "2023", 40, 40)},
			id:      1,
			wantErr: ErrStandaloneMajor,
		},
		{
			name: "hidden row",
			rows: []Row{row("IT101", "CNTT", "2023", 120, 50), row("IT101", "KHDL", "2023", 80, 50)},
			setup: func(b *Batch) {
				_ = b.ToggleMajorCombination(1, true)
				_ = b.UpdateCombinationMajor(1, "c1", SlotMajor2, "KHDL")
			},
			id:      2,
			wantErr: ErrRowHidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBatch(tt.rows...)
			if tt.setup != nil {
				tt.setup(b)
			}
			err := b.ToggleMajorCombination(tt.id, true)
			assert.Equal(t, tt.wantErr, err)
			assert.False(t, mustGet(t, b, tt.id).Grouped)
		})
	}
}

func TestBatch_reversal(t *testing.T) {
	rows := []Row{
		row("IT101", "CNTT", "2023", 120, 50),
		row("IT101", "KHDL", "2023", 80, 50),
		row("IT101", "ATTT", "2023", 60, 50),
	}

	tests := []struct {
		name   string
		revert func(b *Batch)
	}{
		{name: "ungroup", revert: func(b *Batch) { _ = b.ToggleMajorCombination(1, false) }},
		{name: "remove last combination", revert: func(b *Batch) { b.RemoveCombination(1, "c1") }},
		{
			name: "clear selections then ungroup",
			revert: func(b *Batch) {
				_ = b.UpdateCombinationMajor(1, "c1", SlotMajor3, "")
				_ = b.UpdateCombinationMajor(1, "c1", SlotMajor2, "")
				_ = b.ToggleMajorCombination(1, false)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBatch(rows...)
			before := b.Rows()

			require.NoError(t, b.ToggleMajorCombination(1, true))
			require.NoError(t, b.UpdateCombinationMajor(1, "c1", SlotMajor2, "KHDL"))
			require.NoError(t, b.UpdateCombinationMajor(1, "c1", SlotMajor3, "ATTT"))
			c, _ := b.Combination(1, "c1")
			require.Equal(t, 260, c.TotalHeadcount)

			tt.revert(b)
			if diff := cmp.Diff(before, b.Rows()); diff != "" {
				t.Errorf("rows not restored (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBatch_AddCombination(t *testing.T) {
	b := newTestBatch(row("IT101", "CNTT", "2023", 120, 50))

	_, err := b.AddCombination(1)
	assert.Equal(t, ErrNotGrouped, err)

	require.NoError(t, b.ToggleMajorCombination(1, true))
	id, err := b.AddCombination(1)
	require.NoError(t, err)
	assert.Equal(t, "c2", id)

	r := mustGet(t, b, 1)
	require.Len(t, r.Combinations, 2)
	assert.Equal(t, "c1", r.Combinations[0].ID)
	assert.Equal(t, Combination{ID: "c2", Major1: "CNTT", TotalHeadcount: 120, ClassSize: 50}, r.Combinations[1])
}

func TestBatch_RemoveCombination(t *testing.T) {
	b := newTestBatch(
		row("IT101", "CNTT", "2023", 120, 50),
		row("IT101", "KHDL", "2023", 80, 50),
		row("IT101", "ATTT", "2023", 60, 50),
	)
	require.NoError(t, b.ToggleMajorCombination(1, true))
	_, err := b.AddCombination(1)
	require.NoError(t, err)
	require.NoError(t, b.UpdateCombinationMajor(1, "c1", SlotMajor2, "KHDL"))
	require.NoError(t, b.UpdateCombinationMajor(1, "c2", SlotMajor2, "ATTT"))

	b.RemoveCombination(1, "c1")
	r := mustGet(t, b, 1)
	assert.True(t, r.Grouped)
	require.Len(t, r.Combinations, 1)
	assert.False(t, mustGet(t, b, 2).Hidden)
	assert.True(t, mustGet(t, b, 3).Hidden)

	assert.Panics(t, func() { b.RemoveCombination(1, "c1") })

	b.RemoveCombination(1, "c2")
	r = mustGet(t, b, 1)
	assert.False(t, r.Grouped)
	assert.Nil(t, r.Combinations)
	assert.False(t, mustGet(t, b, 3).Hidden)
}

func TestBatch_UpdateCombinationMajor(t *testing.T) {
	newBatch := func() *Batch {
		b := newTestBatch(
			row("IT101", "CNTT", "2023", 120, 50),
			row("IT101", "KHDL", "2023", 80, 50),
			row("IT101", "ATTT", "2023", 60, 50),
			row("IT101", "E-CNTT", "2023", 30, 30),
			row("IT102", "HTTT", "2023", 90, 45),
			row("IT101", "CNTT", "2022", 40, 50),
		)
		_ = b.ToggleMajorCombination(1, true)
		return b
	}

	tests := []struct {
		name    string
		setup   func(b *Batch)
		slot    Slot
		major   string
		wantErr error
	}{
		{name: "available major", slot: SlotMajor2, major: "KHDL"},
		{name: "padded major", slot: SlotMajor3, major: " ATTT "},
		{name: "clearing", slot: SlotMajor2, major: ""},
		{name: "own major", slot: SlotMajor2, major: "CNTT", wantErr: ErrMajorUnavailable},
		{name: "standalone major", slot: SlotMajor2, major: "E-CNTT", wantErr: ErrMajorUnavailable},
		{name: "other subject", slot: SlotMajor2, major: "HTTT", wantErr: ErrMajorUnavailable},
		{name: "unknown major", slot: SlotMajor2, major: "lol", wantErr: ErrMajorUnavailable},
		{
			name:    "held by the other slot",
			setup:   func(b *Batch) { _ = b.UpdateCombinationMajor(1, "c1", SlotMajor2, "KHDL") },
			slot:    SlotMajor3,
			major:   "KHDL",
			wantErr: ErrMajorUnavailable,
		},
		{
			name: "claimed by another combination",
			setup: func(b *Batch) {
				_, _ = b.AddCombination(1)
				_ = b.UpdateCombinationMajor(1, "c2", SlotMajor2, "KHDL")
			},
			slot:    SlotMajor2,
			major:   "KHDL",
			wantErr: ErrMajorUnavailable,
		},
		{
			name: "reselecting the current major",
			setup: func(b *Batch) {
				_ = b.UpdateCombinationMajor(1, "c1", SlotMajor2, "KHDL")
			},
			slot:  SlotMajor2,
			major: "KHDL",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBatch()
			if tt.setup != nil {
				tt.setup(b)
			}
			err := b.UpdateCombinationMajor(1, "c1", tt.slot, tt.major)
			assert.Equal(t, tt.wantErr, err)
		})
	}

	t.Run("unknown slot", func(t *testing.T) {
		b := newBatch()
		assert.Panics(t, func() { _ = b.UpdateCombinationMajor(1, "c1", Slot("major1"), "KHDL") })
	})
	t.Run("unknown combination", func(t *testing.T) {
		b := newBatch()
		assert.Panics(t, func() { _ = b.UpdateCombinationMajor(1, "lol", SlotMajor2, "KHDL") })
	})
}

func TestBatch_aggregates(t *testing.T) {
	b := newTestBatch(
		row("IT101", "CNTT", "2023", 120, 50),
		row("IT101", "KHDL", "2023", 80, 50),
		row("IT101", "ATTT", "2023", 60, 50),
		row("IT101", "KHDL", "2022", 15, 50),
	)
	require.NoError(t, b.ToggleMajorCombination(1, true))
	require.NoError(t, b.UpdateCombinationMajor(1, "c1", SlotMajor2, "KHDL"))
	require.NoError(t, b.UpdateCombinationMajor(1, "c1", SlotMajor3, "ATTT"))

	c, _ := b.Combination(1, "c1")
	var want int
	for _, r := range b.Rows() {
		if contains(c.Majors(), r.Major) {
			want += r.Headcount
		}
	}
	assert.Equal(t, 275, want)
	assert.Equal(t, want, c.TotalHeadcount)
	assert.Equal(t, []string{"CNTT", "KHDL", "ATTT"}, c.Majors())
}

func TestBatch_totalHeadcountAcrossClassYears(t *testing.T) {
	b := newTestBatch(
		row("IT101", "CNTT", "2022", 120, 60),
		row("IT101", "KHDL", "2022", 80, 60),
		row("IT101", "CNTT", "2023", 50, 60),
		row("IT102", "KHDL", "2022", 999, 60),
	)
	require.NoError(t, b.ToggleMajorCombination(1, true))
	c, _ := b.Combination(1, "c1")
	assert.Equal(t, 170, c.TotalHeadcount)

	require.NoError(t, b.UpdateCombinationMajor(1, "c1", SlotMajor2, "KHDL"))
	c, _ = b.Combination(1, "c1")
	assert.Equal(t, 250, c.TotalHeadcount)

	// rows of the owner's own major are counted but stay visible
	assert.False(t, mustGet(t, b, 3).Hidden)
	assert.True(t, mustGet(t, b, 2).Hidden)

	b.UpdateField(3, FieldHeadcount, "70")
	c, _ = b.Combination(1, "c1")
	assert.Equal(t, 270, c.TotalHeadcount)

	require.NoError(t, b.UpdateCombinationMajor(1, "c1", SlotMajor2, ""))
	c, _ = b.Combination(1, "c1")
	assert.Equal(t, 190, c.TotalHeadcount)
}

func TestBatch_CandidateMajors(t *testing.T) {
	b := newTestBatch(
		row("IT101", "CNTT", "2023", 120, 50),
		row("IT101", "KHDL", "2023", 80, 50),
		row("IT101", "ATTT", "2023", 60, 50),
		row("IT101", "E-CNTT", "2023", 30, 30),
		row("IT101", "HTTT", "2023", 70, 50),
		row("IT102", "CNPM", "2023", 90, 45),
	)
	require.NoError(t, b.ToggleMajorCombination(1, true))
	assert.Equal(t, []string{"KHDL", "ATTT", "HTTT"}, b.CandidateMajors(1, "c1", SlotMajor2))

	require.NoError(t, b.UpdateCombinationMajor(1, "c1", SlotMajor2, "KHDL"))
	assert.Equal(t, []string{"KHDL", "ATTT", "HTTT"}, b.CandidateMajors(1, "c1", SlotMajor2))
	assert.Equal(t, []string{"ATTT", "HTTT"}, b.CandidateMajors(1, "c1", SlotMajor3))

	// grouped rows are never candidates and never claim
	require.NoError(t, b.ToggleMajorCombination(5, true))
	assert.Equal(t, []string{"KHDL", "ATTT"}, b.CandidateMajors(1, "c1", SlotMajor2))
	assert.Equal(t, []string{"ATTT"}, b.CandidateMajors(5, "c2", SlotMajor2))

	// a second combination of the same owner sees the claim of the first
	id, err := b.AddCombination(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"ATTT"}, b.CandidateMajors(1, id, SlotMajor2))
}

func TestBatch_exclusivity(t *testing.T) {
	b := newTestBatch(
		row("IT101", "CNTT", "2023", 120, 50),
		row("IT101", "KHDL", "2023", 80, 50),
		row("IT101", "ATTT", "2023", 60, 50),
	)
	require.NoError(t, b.ToggleMajorCombination(1, true))
	require.NoError(t, b.UpdateCombinationMajor(1, "c1", SlotMajor2, "KHDL"))
	require.NoError(t, b.ToggleMajorCombination(3, true))

	assert.Empty(t, b.CandidateMajors(3, "c2", SlotMajor2))
	assert.Equal(t, ErrMajorUnavailable, b.UpdateCombinationMajor(3, "c2", SlotMajor2, "KHDL"))

	// every hidden row is claimed by exactly one owner
	claimed := make(map[RowID]int)
	for _, r := range b.Rows() {
		for _, c := range r.Combinations {
			for _, m := range []string{c.Major2, c.Major3} {
				for _, other := range b.Rows() {
					if m != "" && other.Major == m && other.HiddenBy == r.ID {
						claimed[other.ID]++
					}
				}
			}
		}
	}
	assert.Equal(t, map[RowID]int{2: 1}, claimed)
}

func TestBatch_UpdateCombinationClassSize(t *testing.T) {
	b := newTestBatch(row("IT101", "CNTT", "2023", 120, 50))
	require.NoError(t, b.ToggleMajorCombination(1, true))

	b.UpdateCombinationClassSize(1, "c1", "60")
	c, _ := b.Combination(1, "c1")
	assert.Equal(t, 60, c.ClassSize)
	assert.Equal(t, 2, c.ClassCount())

	b.UpdateCombinationClassSize(1, "c1", "six")
	c, _ = b.Combination(1, "c1")
	assert.Zero(t, c.ClassSize)
	assert.Zero(t, c.ClassCount())
}
