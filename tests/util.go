package testutil

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/xuandat7/tkb-ptit-react-sub000/core"
	"github.com/xuandat7/tkb-ptit-react-sub000/core/batch"
	logsvc "github.com/xuandat7/tkb-ptit-react-sub000/services/logger"
	inmemdb "github.com/xuandat7/tkb-ptit-react-sub000/storage/inmem"
)

const SecretKey = "test-secret"

// Config returns the configuration used by tests: no debug output, no request logs.
func Config() *core.Config {
	return &core.Config{
		Env:       "TEST",
		Build:     "test",
		AppName:   "TKB",
		TestMode:  true,
		SecretKey: SecretKey,
		Server: core.ServerConfig{
			Address:         ":0",
			ShutdownTimeout: time.Second,
			DisableReqLogs:  true,
		},
	}
}

func Selection() batch.Selection {
	return batch.Selection{Semester: "1", AcademicYear: "2024-2025", ProgramType: "Chính quy", MajorGroup: "CNTT"}
}

// IT101Rows is the usual two-major subject plus a standalone major.
func IT101Rows() []batch.Row {
	return []batch.Row{
		{SubjectCode: "IT101", SubjectName: "Lập trình", PeriodCount: 45, Headcount: 120, ClassSize: 50, Major: "CNTT", ClassYear: "2023", ProgramType: "Chính quy"},
		{SubjectCode: "IT101", SubjectName: "Lập trình", PeriodCount: 45, Headcount: 80, ClassSize: 50, Major: "KHDL", ClassYear: "2023", ProgramType: "Chính quy"},
		{SubjectCode: "IT101", SubjectName: "Lập trình", PeriodCount: 45, Headcount: 30, ClassSize: 30, Major: "E-CNTT", ClassYear: "2023", ProgramType: "Chính quy"},
	}
}

// NewRows converts rows into creation input.
func NewRows(rows []batch.Row) []batch.NewRow {
	nrs := make([]batch.NewRow, 0, len(rows))
	for _, r := range rows {
		nrs = append(nrs, batch.NewRow{
			SubjectCode: r.SubjectCode,
			SubjectName: r.SubjectName,
			PeriodCount: batch.Input(strconv.Itoa(r.PeriodCount)),
			Headcount:   batch.Input(strconv.Itoa(r.Headcount)),
			ClassSize:   batch.Input(strconv.Itoa(r.ClassSize)),
			Major:       r.Major,
			ClassYear:   r.ClassYear,
			ProgramType: r.ProgramType,
		})
	}
	return nrs
}

// Validator returns a validator with every custom tag registered on translator.
func Validator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	batch.InitValidators(validate, translator)
	return validate, translator
}

// SourceMock serves fixed rows as the subject catalog.
type SourceMock struct {
	Rows []batch.Row
	Err  error
}

func (src SourceMock) Subjects(context.Context, batch.Selection) ([]batch.Row, error) {
	return src.Rows, src.Err
}

// GeneratorMock places every item once, unless Fn says otherwise.
// Submitted items are recorded.
type GeneratorMock struct {
	Fn func(ctx context.Context, items []batch.GenerationItem) ([]batch.GenerationResult, error)

	mu    sync.Mutex
	Calls [][]batch.GenerationItem
}

func (gen *GeneratorMock) Generate(ctx context.Context, items []batch.GenerationItem) ([]batch.GenerationResult, error) {
	gen.mu.Lock()
	gen.Calls = append(gen.Calls, items)
	gen.mu.Unlock()

	if gen.Fn != nil {
		return gen.Fn(ctx, items)
	}
	results := make([]batch.GenerationResult, len(items))
	for i, it := range items {
		results[i] = batch.GenerationResult{
			Item:     it,
			Sessions: []batch.ScheduledSession{{Day: 2 + i%5, StartPeriod: 1, PeriodCount: 3, Room: "A2-301", Weeks: "1-15"}},
		}
	}
	return results, nil
}

// NewBatchService wires a batch service on the in-memory session store.
func NewBatchService(t *testing.T, src batch.SubjectSource, gen batch.Generator) (*batch.Service, *logsvc.MemoryLogger) {
	t.Helper()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	logger := logsvc.NewMemoryLogger(nil)
	return batch.NewService(inmemdb.NewSessionRepository(db), src, gen, logger), logger
}
