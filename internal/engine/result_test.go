package engine

import "testing"

func TestSummarizeAccuracyZeroWithoutIssues(t *testing.T) {
	noIssues := Problem{ID: "p0", Language: "go", Level: 1, Code: []string{"x"}}
	s := NewState([]Problem{noIssues}, DefaultConfig())
	s = s.Apply(Skip{})

	sum := Summarize(s)
	if sum.Accuracy != 0 {
		t.Errorf("accuracy = %v, want 0 when no issues were seen", sum.Accuracy)
	}
	if sum.ProblemsCompleted != 1 {
		t.Errorf("completed = %d, want 1", sum.ProblemsCompleted)
	}
}

func TestSummarizeCountsUnfinishedProblem(t *testing.T) {
	p2 := twoIssueProblem()
	p2.ID = "p2"
	cfg := DefaultConfig()
	cfg.GameTimeSeconds = 1

	s := NewState([]Problem{twoIssueProblem(), p2}, cfg)
	s = s.Apply(Tap{Line: 2})
	s = s.Apply(Skip{}) // p2 becomes current
	s = s.Apply(Tick{}) // time out with p2 unfinished

	sum := Summarize(s)
	if sum.TotalIssues != 4 {
		t.Errorf("total issues = %d, want 4 (final problem counts)", sum.TotalIssues)
	}
	if sum.IssuesFound != 1 {
		t.Errorf("issues found = %d, want 1", sum.IssuesFound)
	}
	if sum.Accuracy != 0.25 {
		t.Errorf("accuracy = %v, want 0.25", sum.Accuracy)
	}
}
