package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/xuandat7/tkb-ptit-react-sub000/core"
)

var (
	ErrSessionNotFound     = errors.New("batch not found")
	ErrRowNotFound         = errors.New("row not found")
	ErrCombinationNotFound = errors.New("combination not found")
	ErrSubmissionInFlight  = errors.New("a generation request for this batch is in flight")
	ErrNothingToGenerate   = errors.New("the batch has no generation items")

	nowFunc = time.Now // mockable
)

type (
	// Repository keeps the editing sessions.
	Repository interface {
		CreateSession(s *Session) error
		GetSession(id string) (*Session, error)
		DeleteSession(id string) error
		// PurgeSessions deletes the sessions idle since idleSince.
		PurgeSessions(idleSince time.Time) (int, error)
	}

	// SubjectSource loads teaching-demand rows from the subject catalog.
	SubjectSource interface {
		Subjects(ctx context.Context, sel Selection) ([]Row, error)
	}

	// Generator submits generation items to the scheduling service.
	// Per-item failures are reported as notes in the results, not as errors.
	Generator interface {
		Generate(ctx context.Context, items []GenerationItem) ([]GenerationResult, error)
	}
)

// Session is one operator's batch under edit. The engine is single-threaded:
// every access goes through the session lock, and no edit is accepted while a
// submission built from the batch is in flight.
type Session struct {
	ID        string
	Selection Selection
	CreatedAt time.Time
	UpdatedAt time.Time

	mu       sync.Mutex
	batch    *Batch
	inFlight bool
}

func NewSession(sel Selection, b *Batch) *Session {
	now := nowFunc().UTC()
	return &Session{
		ID:        uuid.NewString(),
		Selection: sel,
		CreatedAt: now,
		UpdatedAt: now,
		batch:     b,
	}
}

// IdleSince reports whether the session was last edited before t and has no
// generation request in flight.
func (s *Session) IdleSince(t time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.inFlight && s.UpdatedAt.Before(t)
}

type (
	View struct {
		ID        string    `json:"id"`
		Selection Selection `json:"selection"`
		Rows      []RowView `json:"rows"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	RowView struct {
		Row
		ClassCount        int  `json:"class_count"`
		HasMultipleMajors bool `json:"has_multiple_majors"`
		// Candidates lists the selectable majors per combination id and slot.
		Candidates map[string]map[Slot][]string `json:"candidates,omitempty"`
	}

	Submission struct {
		BatchID    string             `json:"batch_id"`
		Items      []GenerationItem   `json:"items"`
		Results    []GenerationResult `json:"results"`
		ResultRows []ResultRow        `json:"result_rows"`
	}
)

func newView(s *Session) View {
	b := s.batch
	rows := b.Rows()
	views := make([]RowView, 0, len(rows))
	for _, r := range rows {
		rv := RowView{
			Row:               r,
			ClassCount:        r.ClassCount(),
			HasMultipleMajors: b.HasMultipleMajors(r.SubjectCode),
		}
		if r.Grouped {
			rv.Candidates = make(map[string]map[Slot][]string, len(r.Combinations))
			for _, c := range r.Combinations {
				slots := make(map[Slot][]string, len(Slots))
				for _, slot := range Slots {
					slots[slot] = b.CandidateMajors(r.ID, c.ID, slot)
				}
				rv.Candidates[c.ID] = slots
			}
		}
		views = append(views, rv)
	}
	return View{ID: s.ID, Selection: s.Selection, Rows: views, UpdatedAt: s.UpdatedAt}
}

type Service struct {
	repo   Repository
	source SubjectSource
	gen    Generator
	logger core.Logger
}

func NewService(repo Repository, source SubjectSource, gen Generator, logger core.Logger) *Service {
	return &Service{repo: repo, source: source, gen: gen, logger: logger}
}

// Load creates a batch from the catalog subjects of a selection.
func (svc *Service) Load(ctx context.Context, sel Selection) (View, error) {
	rows, err := svc.source.Subjects(ctx, sel)
	if err != nil {
		return View{}, core.NewUpstreamError(pkgerrors.Wrap(err, "loading subjects"))
	}
	return svc.Create(sel, rows)
}

// Create starts a batch from explicit rows.
func (svc *Service) Create(sel Selection, rows []Row) (View, error) {
	s := NewSession(sel, New(rows...))
	if err := svc.repo.CreateSession(s); err != nil {
		return View{}, pkgerrors.Wrap(err, "creating session")
	}
	svc.logger.Info(fmt.Sprintf("batch %s created with %d rows", s.ID, len(rows)))

	s.mu.Lock()
	defer s.mu.Unlock()
	return newView(s), nil
}

func (svc *Service) Get(id string) (View, error) {
	s, err := svc.repo.GetSession(id)
	if err != nil {
		return View{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return newView(s), nil
}

// Discard drops a batch. A batch with a submission in flight cannot be dropped.
func (svc *Service) Discard(id string) error {
	s, err := svc.repo.GetSession(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	inFlight := s.inFlight
	s.mu.Unlock() // the repository locks sessions while purging

	if inFlight {
		return ErrSubmissionInFlight
	}
	return svc.repo.DeleteSession(id)
}

func (svc *Service) UpdateField(id string, row RowID, fu FieldUpdate) (View, error) {
	return svc.edit(id, func(b *Batch) error {
		if err := requireRow(b, row); err != nil {
			return err
		}
		b.UpdateField(row, fu.Field, string(fu.Value))
		return nil
	})
}

func (svc *Service) RemoveRow(id string, row RowID) (View, error) {
	return svc.edit(id, func(b *Batch) error {
		if err := requireRow(b, row); err != nil {
			return err
		}
		b.RemoveRow(row)
		return nil
	})
}

func (svc *Service) ToggleGrouping(id string, row RowID, t Toggle) (View, error) {
	return svc.edit(id, func(b *Batch) error {
		if err := requireRow(b, row); err != nil {
			return err
		}
		return stateError("enabled", b.ToggleMajorCombination(row, *t.Enabled))
	})
}

func (svc *Service) AddCombination(id string, row RowID) (View, error) {
	return svc.edit(id, func(b *Batch) error {
		if err := requireRow(b, row); err != nil {
			return err
		}
		_, err := b.AddCombination(row)
		return stateError("row", err)
	})
}

func (svc *Service) RemoveCombination(id string, row RowID, comboID string) (View, error) {
	return svc.edit(id, func(b *Batch) error {
		if err := requireCombination(b, row, comboID); err != nil {
			return err
		}
		b.RemoveCombination(row, comboID)
		return nil
	})
}

func (svc *Service) UpdateCombinationMajor(id string, row RowID, comboID string, mu MajorUpdate) (View, error) {
	return svc.edit(id, func(b *Batch) error {
		if err := requireCombination(b, row, comboID); err != nil {
			return err
		}
		return stateError("value", b.UpdateCombinationMajor(row, comboID, mu.Slot, mu.Value))
	})
}

func (svc *Service) UpdateCombinationClassSize(id string, row RowID, comboID string, cs ClassSizeUpdate) (View, error) {
	return svc.edit(id, func(b *Batch) error {
		if err := requireCombination(b, row, comboID); err != nil {
			return err
		}
		b.UpdateCombinationClassSize(row, comboID, string(cs.Value))
		return nil
	})
}

func (svc *Service) ToggleCommonRegistration(id string, row RowID, t Toggle) (View, error) {
	return svc.edit(id, func(b *Batch) error {
		if err := requireRow(b, row); err != nil {
			return err
		}
		return stateError("enabled", b.HandleCommonRegistration(row, *t.Enabled))
	})
}

// Preview serializes the batch without submitting it.
func (svc *Service) Preview(id string) ([]GenerationItem, error) {
	s, err := svc.repo.GetSession(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batch.Serialize(), nil
}

// Generate submits the serialized batch. The session is locked against edits
// for the duration of the call and discarded once the generation service has
// answered; a failed or cancelled call leaves it untouched.
func (svc *Service) Generate(ctx context.Context, id string) (Submission, error) {
	s, err := svc.repo.GetSession(id)
	if err != nil {
		return Submission{}, err
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return Submission{}, ErrSubmissionInFlight
	}
	items := s.batch.Serialize()
	if len(items) == 0 {
		s.mu.Unlock()
		return Submission{}, core.NewValidationError(ErrNothingToGenerate)
	}
	s.inFlight = true
	s.mu.Unlock()

	svc.logger.Info(fmt.Sprintf("batch %s: submitting %d generation items", id, len(items)))
	results, err := svc.gen.Generate(ctx, items)

	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()

	if err != nil {
		svc.logger.Error(fmt.Sprintf("batch %s: generation failed: %v", id, err), err)
		return Submission{}, core.NewUpstreamError(pkgerrors.Wrap(err, "generating schedule"))
	}

	var failed int
	for _, res := range results {
		if res.Failed() {
			failed++
		}
	}
	if failed > 0 {
		svc.logger.Warn(fmt.Sprintf("batch %s: %d of %d items could not be placed", id, failed, len(results)))
	}

	if err = svc.repo.DeleteSession(id); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return Submission{}, pkgerrors.Wrap(err, "discarding session")
	}
	return Submission{
		BatchID:    id,
		Items:      items,
		Results:    results,
		ResultRows: ResultRows(results),
	}, nil
}

// Purge drops sessions idle for longer than ttl.
func (svc *Service) Purge(ttl time.Duration) (int, error) {
	n, err := svc.repo.PurgeSessions(nowFunc().UTC().Add(-ttl))
	if err != nil {
		return 0, pkgerrors.Wrap(err, "purging sessions")
	}
	if n > 0 {
		svc.logger.Info(fmt.Sprintf("purged %d idle batches", n))
	}
	return n, nil
}

func (svc *Service) edit(id string, fn func(b *Batch) error) (View, error) {
	s, err := svc.repo.GetSession(id)
	if err != nil {
		return View{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		return View{}, ErrSubmissionInFlight
	}
	if err = fn(s.batch); err != nil {
		return View{}, err
	}
	s.UpdatedAt = nowFunc().UTC()
	return newView(s), nil
}

func requireRow(b *Batch, row RowID) error {
	if _, ok := b.Row(row); !ok {
		return ErrRowNotFound
	}
	return nil
}

func requireCombination(b *Batch, row RowID, comboID string) error {
	if err := requireRow(b, row); err != nil {
		return err
	}
	if _, ok := b.Combination(row, comboID); !ok {
		return ErrCombinationNotFound
	}
	return nil
}

// stateError turns a rejected engine transition into a validation error on field.
func stateError(field string, err error) error {
	if err == nil {
		return nil
	}
	return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
}
