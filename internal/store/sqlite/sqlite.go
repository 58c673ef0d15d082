// Package sqlite stores lessons in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"

	"github.com/hyperifyio/tinyteacher/internal/flashcard"
	"github.com/hyperifyio/tinyteacher/internal/lesson"
	"github.com/hyperifyio/tinyteacher/internal/quiz"
	"github.com/hyperifyio/tinyteacher/internal/simplify"
	"github.com/hyperifyio/tinyteacher/internal/store"
)

type sqliteStore struct {
	db *sql.DB
}

// Open opens or creates the database at path with WAL mode enabled.
func Open(ctx context.Context, path string) (store.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?"+pragmas)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

// pragmas go in the DSN so every pooled connection gets them.
const pragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS lessons (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	source_url TEXT NOT NULL DEFAULT '',
	source_text TEXT NOT NULL DEFAULT '',
	summary TEXT NOT NULL DEFAULT '',
	simplified TEXT NOT NULL DEFAULT '',
	flashcards TEXT NOT NULL DEFAULT '[]',
	quiz TEXT NOT NULL DEFAULT '[]',
	reading_level TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_lessons_created ON lessons(created_at);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func (s *sqliteStore) Add(ctx context.Context, l lesson.Lesson) error {
	cards, quizJSON, err := encodeSections(l)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO lessons (id, title, source_url, source_text, summary, simplified, flashcards, quiz, reading_level, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Title, l.SourceURL, l.SourceText, l.Summary, l.Simplified,
		cards, quizJSON, string(l.ReadingLevel), l.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert lesson: %w", err)
	}
	log.Debug().Str("id", l.ID).Msg("lesson saved")
	return nil
}

func (s *sqliteStore) Update(ctx context.Context, l lesson.Lesson) error {
	cards, quizJSON, err := encodeSections(l)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
UPDATE lessons SET title = ?, source_url = ?, source_text = ?, summary = ?, simplified = ?,
	flashcards = ?, quiz = ?, reading_level = ?
WHERE id = ?`,
		l.Title, l.SourceURL, l.SourceText, l.Summary, l.Simplified,
		cards, quizJSON, string(l.ReadingLevel), l.ID)
	if err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}
	return expectRow(res)
}

func (s *sqliteStore) List(ctx context.Context) ([]lesson.Lesson, error) {
	rows, err := s.db.QueryContext(ctx, selectLessons+` ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	out := []lesson.Lesson{}
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Get(ctx context.Context, id string) (lesson.Lesson, error) {
	row := s.db.QueryRowContext(ctx, selectLessons+` WHERE id = ?`, id)
	l, err := scanLesson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return lesson.Lesson{}, store.ErrNotFound
	}
	return l, err
}

func (s *sqliteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	if err := expectRow(res); err != nil {
		return err
	}
	log.Debug().Str("id", id).Msg("lesson deleted")
	return nil
}

const selectLessons = `SELECT id, title, source_url, source_text, summary, simplified, flashcards, quiz, reading_level, created_at FROM lessons`

type scanner interface {
	Scan(dest ...any) error
}

func scanLesson(sc scanner) (lesson.Lesson, error) {
	var (
		l                lesson.Lesson
		cards, quizJSON  string
		level, createdAt string
	)
	if err := sc.Scan(&l.ID, &l.Title, &l.SourceURL, &l.SourceText, &l.Summary, &l.Simplified,
		&cards, &quizJSON, &level, &createdAt); err != nil {
		return lesson.Lesson{}, err
	}
	l.ReadingLevel = simplify.Level(level)
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return lesson.Lesson{}, fmt.Errorf("parse created_at of %s: %w", l.ID, err)
	}
	l.CreatedAt = t
	l.Flashcards = []flashcard.Card{}
	if err := json.Unmarshal([]byte(cards), &l.Flashcards); err != nil {
		return lesson.Lesson{}, fmt.Errorf("decode flashcards of %s: %w", l.ID, err)
	}
	l.Quiz = []quiz.Question{}
	if err := json.Unmarshal([]byte(quizJSON), &l.Quiz); err != nil {
		return lesson.Lesson{}, fmt.Errorf("decode quiz of %s: %w", l.ID, err)
	}
	return l, nil
}

func encodeSections(l lesson.Lesson) (string, string, error) {
	cards := l.Flashcards
	if cards == nil {
		cards = []flashcard.Card{}
	}
	qs := l.Quiz
	if qs == nil {
		qs = []quiz.Question{}
	}
	cb, err := json.Marshal(cards)
	if err != nil {
		return "", "", fmt.Errorf("encode flashcards: %w", err)
	}
	qb, err := json.Marshal(qs)
	if err != nil {
		return "", "", fmt.Errorf("encode quiz: %w", err)
	}
	return string(cb), string(qb), nil
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
