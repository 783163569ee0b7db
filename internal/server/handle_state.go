package server

import (
	"net/http"
	"slices"

	"github.com/bughunt/backend/internal/engine"
)

// ProblemView is what the client sees of the current problem: the
// code and how many issues it hides, never where they are.
type ProblemView struct {
	ID         string   `json:"id"`
	Language   string   `json:"language"`
	Level      int      `json:"level"`
	Code       []string `json:"code"`
	IssueCount int      `json:"issueCount"`
	FoundCount int      `json:"foundCount"`
}

// IssueView describes an already-solved issue, including its lines.
type IssueView struct {
	ID          string `json:"id"`
	Lines       []int  `json:"lines"`
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	BaseScore   int    `json:"baseScore"`
	Description string `json:"description"`
}

type StateResponse struct {
	Status            string       `json:"status"`
	Score             int          `json:"score"`
	Combo             int          `json:"combo"`
	TimeLeft          int          `json:"timeLeft"`
	Level             int          `json:"level"`
	ProblemsCompleted int          `json:"problemsCompleted"`
	Problem           *ProblemView `json:"problem"`
	TappedLines       []int        `json:"tappedLines"`
	SolvedIssues      []IssueView  `json:"solvedIssues"`
}

func handleState(sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}
		writeJSON(w, http.StatusOK, stateView(sess.snapshot(), sess.uiLanguage))
	}
}

func stateView(st engine.State, uiLanguage string) StateResponse {
	resp := StateResponse{
		Status:            string(st.Status),
		Score:             st.Score,
		Combo:             st.Combo,
		TimeLeft:          st.TimeLeft,
		Level:             st.Level,
		ProblemsCompleted: st.Completed,
		TappedLines:       []int{},
		SolvedIssues:      []IssueView{},
	}

	for line := range st.Tapped {
		resp.TappedLines = append(resp.TappedLines, line)
	}
	slices.Sort(resp.TappedLines)

	if st.Current != nil {
		resp.Problem = problemView(*st.Current, len(st.Solved))
		for _, iss := range st.Current.Issues {
			if st.Solved[iss.ID] {
				resp.SolvedIssues = append(resp.SolvedIssues, issueView(iss, uiLanguage))
			}
		}
	}
	return resp
}

func problemView(p engine.Problem, found int) *ProblemView {
	return &ProblemView{
		ID:         p.ID,
		Language:   p.Language,
		Level:      p.Level,
		Code:       p.Code,
		IssueCount: len(p.Issues),
		FoundCount: found,
	}
}

func issueView(iss engine.Issue, uiLanguage string) IssueView {
	return IssueView{
		ID:          iss.ID,
		Lines:       iss.Lines,
		Category:    string(iss.Category),
		Severity:    string(iss.Severity),
		BaseScore:   iss.BaseScore,
		Description: iss.Description(uiLanguage),
	}
}
