package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"

	"ItemList/internal/metrics"
	"ItemList/internal/models"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// 스키마 버전 (PRAGMA user_version)
// 1 - items 테이블
const currentSchemaVersion = 1

const createItemsTable = `
	CREATE TABLE IF NOT EXISTS items (
			"seq" INTEGER PRIMARY KEY AUTOINCREMENT,
			"id" TEXT NOT NULL UNIQUE,
			"timestamp" TEXT NOT NULL
	);`

// Store owns the item collection. All writes go through a single SQLite
// connection and every effective mutation is republished to subscribers.
type Store struct {
	db *sql.DB

	publishMu   sync.Mutex
	subsMu      sync.Mutex
	subscribers map[uint64]func([]models.Item)
	nextSubID   uint64
}

// Open creates or opens the SQLite database at dsn. ":memory:" gives a
// store that lives as long as the process.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	// SQLite는 writer가 하나뿐, 커넥션도 하나로 제한 (:memory: 공유에도 필요)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{
		db:          db,
		subscribers: make(map[uint64]func([]models.Item)),
	}

	// 재시작 직후에도 게이지가 저장된 개수를 반영
	count, err := s.Count(context.Background())
	if err != nil {
		db.Close()
		return nil, err
	}
	metrics.Items.Set(float64(count))

	log.Printf("storage.Open(): database ready at %s (%d items)", dsn, count)
	return s, nil
}

func (s *Store) Close() error {
	s.subsMu.Lock()
	s.subscribers = make(map[uint64]func([]models.Item))
	s.subsMu.Unlock()

	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return errors.Wrapf(err, "failed to execute %q", pragma)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return errors.Wrap(err, "failed to read user_version")
	}

	if _, err := db.Exec(createItemsTable); err != nil {
		return errors.Wrap(err, "failed to create items table")
	}

	if version < currentSchemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
			return errors.Wrap(err, "failed to set user_version")
		}
	}
	return nil
}
