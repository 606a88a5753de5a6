package inmemdb

import (
	"sync"

	"github.com/xuandat7/tkb-ptit-react-sub000/core/batch"
)

type (
	DB struct {
		session *sessionTable
	}

	sessionTable struct {
		mutex sync.RWMutex
		table map[string]*batch.Session
	}
)

func Open() (*DB, error) {
	db := &DB{
		session: &sessionTable{table: make(map[string]*batch.Session)},
	}
	return db, nil
}
