package lib

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS token_runs (
		id VARCHAR(36) PRIMARY KEY,
		source TEXT NOT NULL,
		created_at VARCHAR(40) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tokens (
		run_id VARCHAR(36) NOT NULL REFERENCES token_runs(id),
		seq INTEGER NOT NULL,
		line INTEGER NOT NULL,
		kind VARCHAR(32) NOT NULL,
		lexeme TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	)`,
}

// TokenStore persists tokenization runs in Postgres or SQLite.
type TokenStore struct {
	db     *sql.DB
	driver string
}

type Run struct {
	ID        uuid.UUID
	Source    string
	CreatedAt time.Time
	Tokens    []Token
}

func OpenTokenStore(driver string, dsn string) (*TokenStore, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		// an in-memory database lives and dies with its connection
		db.SetMaxOpenConns(1)
	}
	return &TokenStore{db: db, driver: driver}, nil
}

func (s *TokenStore) Close() error {
	return s.db.Close()
}

func (s *TokenStore) RunMigrations(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("running migration: %w", err)
		}
	}
	return nil
}

// SaveRun stores tokens under a new run id in a single transaction.
func (s *TokenStore) SaveRun(ctx context.Context, source string, tokens []Token) (uuid.UUID, error) {
	id := uuid.New()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		s.rebind("INSERT INTO token_runs (id, source, created_at) VALUES (?, ?, ?)"),
		id.String(), source, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		s.rebind("INSERT INTO tokens (run_id, seq, line, kind, lexeme) VALUES (?, ?, ?, ?, ?)"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("preparing token insert: %w", err)
	}
	defer stmt.Close()

	for i, tok := range tokens {
		_, err = stmt.ExecContext(ctx, id.String(), i, tok.Line, tok.Kind.String(), tok.Lexeme)
		if err != nil {
			return uuid.Nil, fmt.Errorf("inserting token %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// LoadRun reads a stored run back with its tokens in their original order.
func (s *TokenStore) LoadRun(ctx context.Context, id uuid.UUID) (Run, error) {
	run := Run{ID: id, Tokens: []Token{}}

	row := s.db.QueryRowContext(ctx,
		s.rebind("SELECT source, created_at FROM token_runs WHERE id = ?"), id.String())
	var createdAt string
	if err := row.Scan(&run.Source, &createdAt); err != nil {
		return Run{}, fmt.Errorf("loading run %s: %w", id, err)
	}
	var err error
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Run{}, fmt.Errorf("loading run %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx,
		s.rebind("SELECT line, kind, lexeme FROM tokens WHERE run_id = ? ORDER BY seq"), id.String())
	if err != nil {
		return Run{}, fmt.Errorf("loading tokens of run %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var tok Token
		var kind string
		if err := rows.Scan(&tok.Line, &kind, &tok.Lexeme); err != nil {
			return Run{}, err
		}
		if tok.Kind, err = ParseTokenKind(kind); err != nil {
			return Run{}, err
		}
		run.Tokens = append(run.Tokens, tok)
	}
	return run, rows.Err()
}

// rebind turns '?' placeholders into the numbered form Postgres expects.
// Queries here never contain a literal '?'.
func (s *TokenStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}
