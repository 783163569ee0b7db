package server

import (
	"context"
	"errors"

	"github.com/bughunt/backend/internal/engine"
)

var ErrNotFound = errors.New("not found")

type adminSession struct {
	AdminID string
	Email   string
}

// ScoreRecord is one persisted session result.
type ScoreRecord struct {
	ID                string  `json:"id"`
	Score             int     `json:"score"`
	ProblemsCompleted int     `json:"problemsCompleted"`
	IssuesFound       int     `json:"issuesFound"`
	TotalIssues       int     `json:"totalIssues"`
	Accuracy          float64 `json:"accuracy"`
	UILanguage        string  `json:"uiLanguage"`
	CodeLanguage      string  `json:"codeLanguage"`
	CreatedAt         string  `json:"createdAt"`
}

// ProblemSummary is the admin list view of a problem.
type ProblemSummary struct {
	ID         string `json:"id"`
	Language   string `json:"language"`
	Level      int    `json:"level"`
	LineCount  int    `json:"lineCount"`
	IssueCount int    `json:"issueCount"`
}

// Store is the persistence boundary: the problem repository consumed
// by the pool builder, score records, and admin accounts.
type Store interface {
	// FetchProblems implements engine.Repository. language
	// engine.LanguageAll matches every code language.
	FetchProblems(ctx context.Context, language string, level int) ([]engine.Problem, error)

	ListProblems(ctx context.Context) ([]ProblemSummary, error)
	GetProblem(ctx context.Context, id string) (engine.Problem, error)
	CreateProblem(ctx context.Context, p engine.Problem) error
	UpdateProblem(ctx context.Context, id string, p engine.Problem) error
	DeleteProblem(ctx context.Context, id string) error
	CountProblems(ctx context.Context) (int, error)

	SaveScore(ctx context.Context, rec ScoreRecord) (id string, err error)
	TopScores(ctx context.Context, codeLanguage string, limit int) ([]ScoreRecord, error)

	AdminByEmail(ctx context.Context, email string) (adminID, passwordHash string, err error)
	CreateAdmin(ctx context.Context, email, passwordHash string) error
	CreateAdminSession(ctx context.Context, adminID string) (sessionID string, err error)
	DeleteAdminSession(ctx context.Context, sessionID string) error
	AdminFromSession(ctx context.Context, sessionID string) (adminSession, error)
}
