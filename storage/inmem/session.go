package inmemdb

import (
	"time"

	"github.com/pkg/errors"

	"github.com/xuandat7/tkb-ptit-react-sub000/core/batch"
)

var errDuplicateSession = errors.New("session already exists")

type sessionRepository struct {
	db *sessionTable
}

var _ batch.Repository = (*sessionRepository)(nil)

func NewSessionRepository(db *DB) batch.Repository {
	return &sessionRepository{db: db.session}
}

func (repo *sessionRepository) CreateSession(s *batch.Session) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[s.ID]; ok {
		return errors.Wrap(errDuplicateSession, s.ID)
	}
	repo.db.table[s.ID] = s
	return nil
}

func (repo *sessionRepository) GetSession(id string) (*batch.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return s, nil
	}
	return nil, batch.ErrSessionNotFound
}

func (repo *sessionRepository) DeleteSession(id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return batch.ErrSessionNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *sessionRepository) PurgeSessions(idleSince time.Time) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var n int
	for id, s := range repo.db.table {
		if s.IdleSince(idleSince) {
			delete(repo.db.table, id)
			n++
		}
	}
	return n, nil
}
