package server

import (
	"net/http"

	"github.com/bughunt/backend/internal/engine"
)

type TapRequest struct {
	Line int `json:"line"`
}

type TapResponse struct {
	Hit bool `json:"hit"`
	// Duplicate is true when the line was tapped before; such taps
	// change nothing.
	Duplicate bool       `json:"duplicate"`
	Awarded   int        `json:"awarded"`
	Score     int        `json:"score"`
	Combo     int        `json:"combo"`
	TimeLeft  int        `json:"timeLeft"`
	AllFound  bool       `json:"allFound"`
	Issue     *IssueView `json:"issue,omitempty"`
}

func handleTap(sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req TapRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		before, after := sess.apply(engine.Tap{Line: req.Line})
		if before.Status == engine.StatusEnded {
			writeError(w, http.StatusConflict, "game has ended")
			return
		}

		resp := TapResponse{
			Hit:       len(after.SolvedAll) > len(before.SolvedAll),
			Duplicate: len(after.Tapped) == len(before.Tapped),
			Awarded:   after.Score - before.Score,
			Score:     after.Score,
			Combo:     after.Combo,
			TimeLeft:  after.TimeLeft,
			AllFound:  after.AllFound(),
		}

		if resp.Hit {
			if iss, ok := solvedByTap(before, after); ok {
				v := issueView(iss, sess.uiLanguage)
				resp.Issue = &v
			}
		}

		if !resp.Duplicate {
			sessions.broker.Publish(sess.token, GameEvent{
				Type:     "tap",
				Hit:      resp.Hit,
				Line:     req.Line,
				Score:    after.Score,
				Combo:    after.Combo,
				TimeLeft: after.TimeLeft,
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// solvedByTap finds the issue whose ID entered the solved set between
// the two states.
func solvedByTap(before, after engine.State) (engine.Issue, bool) {
	if before.Current == nil {
		return engine.Issue{}, false
	}
	for _, iss := range before.Current.Issues {
		if after.Solved[iss.ID] && !before.Solved[iss.ID] {
			return iss, true
		}
	}
	return engine.Issue{}, false
}
