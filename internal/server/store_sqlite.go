package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bughunt/backend/internal/engine"
)

// SQLiteStore implements Store over the goose-managed schema. Problem
// code and issues live in a JSONB document column; language and level
// are broken out for the repository filter.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// problemDoc is the shape stored in problems.data. The id, language
// and level columns are authoritative; the doc carries them too so a
// single unmarshal rebuilds the engine type.
type problemDoc struct {
	Code   []string       `json:"code"`
	Issues []engine.Issue `json:"issues"`
}

func (s *SQLiteStore) FetchProblems(ctx context.Context, language string, level int) ([]engine.Problem, error) {
	query := `SELECT id, language, level, json(data) FROM problems WHERE level = ?`
	args := []any{level}
	if language != engine.LanguageAll {
		query += ` AND language = ?`
		args = append(args, language)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying problems: %w", err)
	}
	defer rows.Close()

	var out []engine.Problem
	for rows.Next() {
		p, err := scanProblem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProblem(row rowScanner) (engine.Problem, error) {
	var (
		p   engine.Problem
		raw []byte
	)
	if err := row.Scan(&p.ID, &p.Language, &p.Level, &raw); err != nil {
		return engine.Problem{}, fmt.Errorf("scanning problem: %w", err)
	}
	var doc problemDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return engine.Problem{}, fmt.Errorf("decoding problem %s: %w", p.ID, err)
	}
	p.Code = doc.Code
	p.Issues = doc.Issues
	return p, nil
}

func (s *SQLiteStore) ListProblems(ctx context.Context) ([]ProblemSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, language, level,
		       json_array_length(data, '$.code'),
		       json_array_length(data, '$.issues')
		FROM problems
		ORDER BY language, level, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing problems: %w", err)
	}
	defer rows.Close()

	var out []ProblemSummary
	for rows.Next() {
		var ps ProblemSummary
		if err := rows.Scan(&ps.ID, &ps.Language, &ps.Level, &ps.LineCount, &ps.IssueCount); err != nil {
			return nil, fmt.Errorf("scanning problem summary: %w", err)
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetProblem(ctx context.Context, id string) (engine.Problem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, language, level, json(data) FROM problems WHERE id = ?`, id)
	p, err := scanProblem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.Problem{}, ErrNotFound
	}
	return p, err
}

func (s *SQLiteStore) CreateProblem(ctx context.Context, p engine.Problem) error {
	data, err := json.Marshal(problemDoc{Code: p.Code, Issues: p.Issues})
	if err != nil {
		return fmt.Errorf("encoding problem: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO problems (id, language, level, data)
		VALUES (?, ?, ?, jsonb(?))
	`, p.ID, p.Language, p.Level, string(data))
	if err != nil {
		return fmt.Errorf("inserting problem: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateProblem(ctx context.Context, id string, p engine.Problem) error {
	data, err := json.Marshal(problemDoc{Code: p.Code, Issues: p.Issues})
	if err != nil {
		return fmt.Errorf("encoding problem: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE problems SET language = ?, level = ?, data = jsonb(?) WHERE id = ?
	`, p.Language, p.Level, string(data), id)
	if err != nil {
		return fmt.Errorf("updating problem: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteProblem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM problems WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting problem: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) CountProblems(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM problems`).Scan(&n)
	return n, err
}

func (s *SQLiteStore) SaveScore(ctx context.Context, rec ScoreRecord) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO score_records
			(score, problems_completed, issues_found, total_issues, accuracy, ui_language, code_language)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, rec.Score, rec.ProblemsCompleted, rec.IssuesFound, rec.TotalIssues,
		rec.Accuracy, rec.UILanguage, rec.CodeLanguage).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("inserting score record: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) TopScores(ctx context.Context, codeLanguage string, limit int) ([]ScoreRecord, error) {
	query := `
		SELECT id, score, problems_completed, issues_found, total_issues,
		       accuracy, ui_language, code_language, created_at
		FROM score_records
	`
	var args []any
	if codeLanguage != "" && codeLanguage != engine.LanguageAll {
		query += ` WHERE code_language = ?`
		args = append(args, codeLanguage)
	}
	query += ` ORDER BY score DESC, created_at ASC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying scores: %w", err)
	}
	defer rows.Close()

	var out []ScoreRecord
	for rows.Next() {
		var rec ScoreRecord
		if err := rows.Scan(&rec.ID, &rec.Score, &rec.ProblemsCompleted, &rec.IssuesFound,
			&rec.TotalIssues, &rec.Accuracy, &rec.UILanguage, &rec.CodeLanguage, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning score record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AdminByEmail(ctx context.Context, email string) (string, string, error) {
	var adminID, passwordHash string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, password_hash FROM admins WHERE email = ?`, email,
	).Scan(&adminID, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return adminID, passwordHash, err
}

func (s *SQLiteStore) CreateAdmin(ctx context.Context, email, passwordHash string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO admins (email, password_hash) VALUES (?, ?)`, email, passwordHash)
	if err != nil {
		return fmt.Errorf("inserting admin: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CreateAdminSession(ctx context.Context, adminID string) (string, error) {
	var sessionID string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO admin_sessions (admin_id) VALUES (?) RETURNING id
	`, adminID).Scan(&sessionID)
	if err != nil {
		return "", fmt.Errorf("inserting admin session: %w", err)
	}
	return sessionID, nil
}

func (s *SQLiteStore) DeleteAdminSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = ?`, sessionID)
	return err
}

func (s *SQLiteStore) AdminFromSession(ctx context.Context, sessionID string) (adminSession, error) {
	var sess adminSession
	err := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.email
		FROM admin_sessions s
		JOIN admins a ON a.id = s.admin_id
		WHERE s.id = ?
	`, sessionID).Scan(&sess.AdminID, &sess.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return adminSession{}, errNoAdminSession
	}
	return sess, err
}
