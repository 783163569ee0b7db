package server

import (
	"net/http"

	"github.com/bughunt/backend/internal/engine"
)

type SkipResponse struct {
	// Bonus is the all-issues-found award paid when leaving the
	// previous problem, zero otherwise.
	Bonus             int          `json:"bonus"`
	Score             int          `json:"score"`
	TimeLeft          int          `json:"timeLeft"`
	ProblemsCompleted int          `json:"problemsCompleted"`
	Ended             bool         `json:"ended"`
	Problem           *ProblemView `json:"problem"`
}

func handleSkip(sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromRequest(r, sessions)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		before, after := sess.apply(engine.Skip{})
		if before.Status == engine.StatusEnded {
			writeError(w, http.StatusConflict, "game has ended")
			return
		}

		resp := SkipResponse{
			Bonus:             after.Score - before.Score,
			Score:             after.Score,
			TimeLeft:          after.TimeLeft,
			ProblemsCompleted: after.Completed,
			Ended:             after.Status == engine.StatusEnded,
		}
		if after.Current != nil {
			resp.Problem = problemView(*after.Current, 0)
		}

		ev := GameEvent{
			Type:     "problem",
			Score:    after.Score,
			Combo:    after.Combo,
			TimeLeft: after.TimeLeft,
		}
		if resp.Ended {
			// Pool exhaustion ends the session here; the timer
			// goroutine notices on its next tick and stops silently.
			ev.Type = "ended"
		} else {
			ev.ProblemID = after.Current.ID
		}
		sessions.broker.Publish(sess.token, ev)

		writeJSON(w, http.StatusOK, resp)
	}
}
