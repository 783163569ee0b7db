package engine

// Summary is the terminal record of one session, the only artifact
// handed to persistence. Accuracy is issues found over issues seen,
// zero when the session never saw an issue.
type Summary struct {
	Score             int     `json:"score"`
	ProblemsCompleted int     `json:"problemsCompleted"`
	IssuesFound       int     `json:"issuesFound"`
	TotalIssues       int     `json:"totalIssues"`
	Accuracy          float64 `json:"accuracy"`
}

// Summarize reduces a finished session to its Summary. The caller is
// responsible for invoking it only once the state is Ended.
func Summarize(s State) Summary {
	sum := Summary{
		Score:             s.Score,
		ProblemsCompleted: s.Completed,
		IssuesFound:       len(s.SolvedAll),
		TotalIssues:       s.TotalIssues,
	}
	if sum.TotalIssues > 0 {
		sum.Accuracy = float64(sum.IssuesFound) / float64(sum.TotalIssues)
	}
	return sum
}
