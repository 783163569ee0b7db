package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bughunt/backend/internal/engine"
)

// AdminIssue mirrors engine.Issue in the admin API.
type AdminIssue struct {
	ID           string            `json:"id"`
	Lines        []int             `json:"lines"`
	Category     string            `json:"category"`
	Severity     string            `json:"severity"`
	BaseScore    int               `json:"baseScore"`
	Descriptions map[string]string `json:"descriptions"`
}

// AdminProblemRequest is the create/update body for a problem.
type AdminProblemRequest struct {
	ID       string       `json:"id"`
	Language string       `json:"language"`
	Level    int          `json:"level"`
	Code     []string     `json:"code"`
	Issues   []AdminIssue `json:"issues"`
}

// AdminProblemDetail is the full problem as stored, issues included.
type AdminProblemDetail struct {
	ID       string       `json:"id"`
	Language string       `json:"language"`
	Level    int          `json:"level"`
	Code     []string     `json:"code"`
	Issues   []AdminIssue `json:"issues"`
}

var (
	validCategories = map[engine.Category]bool{
		engine.CategoryBug:         true,
		engine.CategorySecurity:    true,
		engine.CategoryPerformance: true,
		engine.CategoryDesign:      true,
	}
	validSeverities = map[engine.Severity]bool{
		engine.SeverityMinor:    true,
		engine.SeverityNormal:   true,
		engine.SeverityCritical: true,
	}
)

// toProblem validates the request and converts it to the engine type.
func (req AdminProblemRequest) toProblem() (engine.Problem, error) {
	req.Language = strings.TrimSpace(strings.ToLower(req.Language))
	switch {
	case req.Language == "" || req.Language == engine.LanguageAll:
		return engine.Problem{}, fmt.Errorf("language is required and cannot be %q", engine.LanguageAll)
	case req.Level < 1 || req.Level > 3:
		return engine.Problem{}, fmt.Errorf("level must be 1-3, got %d", req.Level)
	case len(req.Code) == 0:
		return engine.Problem{}, errors.New("code must have at least one line")
	}

	p := engine.Problem{
		ID:       strings.TrimSpace(req.ID),
		Language: req.Language,
		Level:    req.Level,
		Code:     req.Code,
	}

	seen := map[string]bool{}
	for _, iss := range req.Issues {
		if iss.ID == "" {
			return engine.Problem{}, errors.New("issue id is required")
		}
		if seen[iss.ID] {
			return engine.Problem{}, fmt.Errorf("duplicate issue id %q", iss.ID)
		}
		seen[iss.ID] = true

		if len(iss.Lines) == 0 {
			return engine.Problem{}, fmt.Errorf("issue %q must cover at least one line", iss.ID)
		}
		for _, line := range iss.Lines {
			if line < 1 || line > len(req.Code) {
				return engine.Problem{}, fmt.Errorf("issue %q line %d outside code range 1-%d", iss.ID, line, len(req.Code))
			}
		}
		if iss.BaseScore <= 0 {
			return engine.Problem{}, fmt.Errorf("issue %q base score must be positive", iss.ID)
		}
		if !validCategories[engine.Category(iss.Category)] {
			return engine.Problem{}, fmt.Errorf("issue %q has unknown category %q", iss.ID, iss.Category)
		}
		if !validSeverities[engine.Severity(iss.Severity)] {
			return engine.Problem{}, fmt.Errorf("issue %q has unknown severity %q", iss.ID, iss.Severity)
		}

		p.Issues = append(p.Issues, engine.Issue{
			ID:           iss.ID,
			Lines:        iss.Lines,
			Category:     engine.Category(iss.Category),
			Severity:     engine.Severity(iss.Severity),
			BaseScore:    iss.BaseScore,
			Descriptions: iss.Descriptions,
		})
	}
	return p, nil
}

func problemDetail(p engine.Problem) AdminProblemDetail {
	detail := AdminProblemDetail{
		ID:       p.ID,
		Language: p.Language,
		Level:    p.Level,
		Code:     p.Code,
		Issues:   []AdminIssue{},
	}
	for _, iss := range p.Issues {
		detail.Issues = append(detail.Issues, AdminIssue{
			ID:           iss.ID,
			Lines:        iss.Lines,
			Category:     string(iss.Category),
			Severity:     string(iss.Severity),
			BaseScore:    iss.BaseScore,
			Descriptions: iss.Descriptions,
		})
	}
	return detail
}

func handleAdminListProblems(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		problems, err := store.ListProblems(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if problems == nil {
			problems = []ProblemSummary{}
		}
		writeJSON(w, http.StatusOK, problems)
	}
}

func handleAdminCreateProblem(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminProblemRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		p, err := req.toProblem()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if p.ID == "" {
			p.ID = newToken()
		}

		if err := store.CreateProblem(r.Context(), p); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, problemDetail(p))
	}
}

func handleAdminGetProblem(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := store.GetProblem(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "problem not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, problemDetail(p))
	}
}

func handleAdminUpdateProblem(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req AdminProblemRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		p, err := req.toProblem()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		p.ID = id

		err = store.UpdateProblem(r.Context(), id, p)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "problem not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, problemDetail(p))
	}
}

func handleAdminDeleteProblem(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.DeleteProblem(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "problem not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
