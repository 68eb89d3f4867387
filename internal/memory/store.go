// internal/memory/store.go
package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Parhamfakhar1/natiq/internal/core"
	"github.com/Parhamfakhar1/natiq/internal/utils"
)

const schema = `
CREATE TABLE IF NOT EXISTS knowledge_records (
	name         TEXT PRIMARY KEY,
	profession   TEXT NOT NULL DEFAULT '',
	expertise    TEXT NOT NULL DEFAULT '[]',
	achievements TEXT NOT NULL DEFAULT '[]',
	projects     TEXT NOT NULL DEFAULT '[]',
	background   TEXT NOT NULL DEFAULT '',
	created_at   INTEGER NOT NULL
);`

// SQLiteStore - حافظه‌ی پایدار برای پرونده‌هایی که در زمان اجرا افزوده می‌شوند
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) the database at path. ":memory:" is
// accepted for tests.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := utils.EnsureParentDir(path); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// یک اتصال؛ هم برای :memory: و هم برای جلوگیری از database is locked
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, rec core.KnowledgeRecord) error {
	expertise, err := encodeList(rec.Expertise)
	if err != nil {
		return err
	}
	achievements, err := encodeList(rec.Achievements)
	if err != nil {
		return err
	}
	projects, err := encodeList(rec.Projects)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO knowledge_records
			(name, profession, expertise, achievements, projects, background, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			profession = excluded.profession,
			expertise = excluded.expertise,
			achievements = excluded.achievements,
			projects = excluded.projects,
			background = excluded.background`,
		rec.Name, rec.Profession, expertise, achievements, projects, rec.Background, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save record %s: %w", rec.Name, err)
	}
	return nil
}

// All returns every stored record in insertion order.
func (s *SQLiteStore) All(ctx context.Context) ([]core.KnowledgeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, profession, expertise, achievements, projects, background
		FROM knowledge_records
		ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []core.KnowledgeRecord
	for rows.Next() {
		var (
			rec                                core.KnowledgeRecord
			expertise, achievements, projects string
		)
		if err := rows.Scan(&rec.Name, &rec.Profession, &expertise, &achievements, &projects, &rec.Background); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if rec.Expertise, err = decodeList(expertise); err != nil {
			return nil, err
		}
		if rec.Achievements, err = decodeList(achievements); err != nil {
			return nil, err
		}
		if rec.Projects, err = decodeList(projects); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(data), nil
}

func decodeList(data string) ([]string, error) {
	var items []string
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	return items, nil
}
