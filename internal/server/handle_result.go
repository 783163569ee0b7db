package server

import (
	"log/slog"
	"net/http"

	"github.com/bughunt/backend/internal/engine"
)

type ResultResponse struct {
	Score             int     `json:"score"`
	ProblemsCompleted int     `json:"problemsCompleted"`
	IssuesFound       int     `json:"issuesFound"`
	TotalIssues       int     `json:"totalIssues"`
	Accuracy          float64 `json:"accuracy"`
	UILanguage        string  `json:"uiLanguage"`
	CodeLanguage      string  `json:"codeLanguage"`
}

// handleResult returns the end-of-session summary. The backing score
// record is written on the first call only; retries are read-only.
func handleResult(logger *slog.Logger, store Store, sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		sess.mu.Lock()
		st := sess.state
		if st.Status != engine.StatusEnded {
			sess.mu.Unlock()
			writeError(w, http.StatusConflict, "game still in progress")
			return
		}
		save := !sess.resultSaved
		sess.resultSaved = true
		sess.mu.Unlock()

		sum := engine.Summarize(st)

		if save {
			_, err := store.SaveScore(r.Context(), ScoreRecord{
				Score:             sum.Score,
				ProblemsCompleted: sum.ProblemsCompleted,
				IssuesFound:       sum.IssuesFound,
				TotalIssues:       sum.TotalIssues,
				Accuracy:          sum.Accuracy,
				UILanguage:        sess.uiLanguage,
				CodeLanguage:      sess.codeLanguage,
			})
			if err != nil {
				logger.Error("saving score record", "error", err)
				sess.mu.Lock()
				sess.resultSaved = false
				sess.mu.Unlock()
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
		}

		writeJSON(w, http.StatusOK, ResultResponse{
			Score:             sum.Score,
			ProblemsCompleted: sum.ProblemsCompleted,
			IssuesFound:       sum.IssuesFound,
			TotalIssues:       sum.TotalIssues,
			Accuracy:          sum.Accuracy,
			UILanguage:        sess.uiLanguage,
			CodeLanguage:      sess.codeLanguage,
		})
	}
}
