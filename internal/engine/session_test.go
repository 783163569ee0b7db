package engine

import "testing"

func twoIssueProblem() Problem {
	return Problem{
		ID:       "p1",
		Language: "go",
		Level:    1,
		Code: []string{
			"func handler(w http.ResponseWriter, r *http.Request) {",
			"	q := r.URL.Query().Get(\"id\")",
			"	db.Exec(\"DELETE FROM users WHERE id = \" + q)",
			"}",
		},
		Issues: []Issue{
			{ID: "i1", Lines: []int{2}, Category: CategoryBug, Severity: SeverityNormal, BaseScore: 4},
			{ID: "i2", Lines: []int{3}, Category: CategorySecurity, Severity: SeverityCritical, BaseScore: 3},
		},
	}
}

func TestEmptyPoolEndsImmediately(t *testing.T) {
	s := NewState(nil, DefaultConfig())
	if s.Status != StatusEnded {
		t.Fatalf("status = %q, want ended", s.Status)
	}
	if s.Current != nil {
		t.Fatal("expected no current problem")
	}
}

// Walks the full worked example: two hits, then a skip that pays the
// all-found bonus and ends the session on pool exhaustion.
func TestHitComboSkipBonusFlow(t *testing.T) {
	s := NewState([]Problem{twoIssueProblem()}, DefaultConfig())

	s = s.Apply(Tap{Line: 2})
	if s.Combo != 1 || s.Score != 4 {
		t.Fatalf("after first hit: combo=%d score=%d, want 1/4", s.Combo, s.Score)
	}

	s = s.Apply(Tap{Line: 3})
	if s.Combo != 2 || s.Score != 7 { // 4 + floor(3*1.2)
		t.Fatalf("after second hit: combo=%d score=%d, want 2/7", s.Combo, s.Score)
	}
	if !s.AllFound() {
		t.Fatal("expected all issues found")
	}

	s = s.Apply(Skip{})
	if s.Score != 10 {
		t.Errorf("score after bonus = %d, want 10", s.Score)
	}
	if s.Completed != 1 {
		t.Errorf("completed = %d, want 1", s.Completed)
	}
	if s.Status != StatusEnded || s.Current != nil {
		t.Errorf("expected ended with nil problem, got %q", s.Status)
	}

	sum := Summarize(s)
	if sum.IssuesFound != 2 || sum.TotalIssues != 2 || sum.Accuracy != 1.0 {
		t.Errorf("summary = %+v, want 2 found / 2 total / accuracy 1.0", sum)
	}
}

func TestScoreNeverNegative(t *testing.T) {
	s := NewState([]Problem{twoIssueProblem()}, DefaultConfig())

	s = s.Apply(Tap{Line: 1}) // miss
	s = s.Apply(Tap{Line: 4}) // miss
	if s.Score != 0 {
		t.Errorf("score = %d, want clamped at 0", s.Score)
	}
	if s.Combo != 0 {
		t.Errorf("combo = %d, want 0", s.Combo)
	}
}

func TestMissResetsCombo(t *testing.T) {
	s := NewState([]Problem{twoIssueProblem()}, DefaultConfig())

	s = s.Apply(Tap{Line: 2}) // hit
	s = s.Apply(Tap{Line: 1}) // miss
	if s.Combo != 0 {
		t.Fatalf("combo = %d, want 0 after miss", s.Combo)
	}
	if s.Score != 3 { // 4 - 1
		t.Fatalf("score = %d, want 3", s.Score)
	}

	// Next hit starts a fresh streak at combo 1.
	s = s.Apply(Tap{Line: 3})
	if s.Combo != 1 || s.Score != 6 {
		t.Errorf("combo=%d score=%d, want 1/6", s.Combo, s.Score)
	}
}

func TestRepeatedTapIsNoOp(t *testing.T) {
	s := NewState([]Problem{twoIssueProblem()}, DefaultConfig())

	s = s.Apply(Tap{Line: 2})
	again := s.Apply(Tap{Line: 2})

	if again.Score != s.Score || again.Combo != s.Combo {
		t.Errorf("repeat tap changed score/combo: %d/%d -> %d/%d",
			s.Score, s.Combo, again.Score, again.Combo)
	}
	if len(again.Solved) != len(s.Solved) {
		t.Error("repeat tap changed solved set")
	}

	// Same for a repeated missed line: tapped once, never penalized twice.
	s = s.Apply(Tap{Line: 1})
	scoreAfterMiss := s.Score
	s = s.Apply(Tap{Line: 1})
	if s.Score != scoreAfterMiss {
		t.Errorf("repeat miss re-penalized: %d -> %d", scoreAfterMiss, s.Score)
	}
}

func TestOutOfRangeTapIsMiss(t *testing.T) {
	s := NewState([]Problem{twoIssueProblem()}, DefaultConfig())
	s = s.Apply(Tap{Line: 2}) // hit, score 4, combo 1

	s = s.Apply(Tap{Line: 99})
	if s.Score != 3 || s.Combo != 0 {
		t.Errorf("score=%d combo=%d, want 3/0 after out-of-range tap", s.Score, s.Combo)
	}
	s = s.Apply(Tap{Line: -5})
	if s.Score != 2 {
		t.Errorf("score=%d, want 2 after negative line tap", s.Score)
	}
}

func TestBonusNotPaidTwiceNorWithoutIssues(t *testing.T) {
	solved := twoIssueProblem()
	fresh := twoIssueProblem()
	fresh.ID = "p2"

	s := NewState([]Problem{solved, fresh}, DefaultConfig())
	s = s.Apply(Tap{Line: 2})
	s = s.Apply(Tap{Line: 3})
	s = s.Apply(Skip{}) // bonus paid here, moves to p2
	scoreAfterBonus := s.Score

	// Skipping the fresh problem without finds pays nothing.
	s = s.Apply(Skip{})
	if s.Score != scoreAfterBonus {
		t.Errorf("score = %d, want %d (no re-award)", s.Score, scoreAfterBonus)
	}
	if s.Completed != 2 {
		t.Errorf("completed = %d, want 2", s.Completed)
	}
}

func TestSkipAdvancesLevelAndResetsPerProblemState(t *testing.T) {
	p2 := twoIssueProblem()
	p2.ID = "p2"
	p2.Level = 3

	s := NewState([]Problem{twoIssueProblem(), p2}, DefaultConfig())
	s = s.Apply(Tap{Line: 2})
	s = s.Apply(Skip{})

	if s.Level != 3 {
		t.Errorf("level = %d, want 3", s.Level)
	}
	if len(s.Tapped) != 0 || len(s.Solved) != 0 {
		t.Error("per-problem state not reset on skip")
	}
	if len(s.SolvedAll) != 1 {
		t.Errorf("session-wide solved = %d, want 1", len(s.SolvedAll))
	}
	if s.TotalIssues != 4 {
		t.Errorf("total issues = %d, want 4", s.TotalIssues)
	}
}

func TestTickCountsDownToEnded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GameTimeSeconds = 3

	s := NewState([]Problem{twoIssueProblem()}, cfg)
	for i := 0; i < 3; i++ {
		if s.Status != StatusInProgress {
			t.Fatalf("ended after %d ticks", i)
		}
		s = s.Apply(Tick{})
	}
	if s.Status != StatusEnded || s.TimeLeft != 0 {
		t.Fatalf("status=%q timeLeft=%d, want ended/0", s.Status, s.TimeLeft)
	}
}

func TestEndedAbsorbsAllEvents(t *testing.T) {
	s := NewState(nil, DefaultConfig())
	for _, ev := range []Event{Tick{}, Tap{Line: 1}, Skip{}} {
		after := s.Apply(ev)
		if after.Status != StatusEnded || after.Score != s.Score || after.TimeLeft != s.TimeLeft {
			t.Errorf("event %T changed an ended session", ev)
		}
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	s0 := NewState([]Problem{twoIssueProblem()}, DefaultConfig())
	_ = s0.Apply(Tap{Line: 2})

	if s0.Score != 0 || s0.Combo != 0 {
		t.Errorf("input state mutated: score=%d combo=%d", s0.Score, s0.Combo)
	}
	if len(s0.Tapped) != 0 || len(s0.Solved) != 0 || len(s0.SolvedAll) != 0 {
		t.Error("input state maps mutated")
	}
}

// Replaying the same event log over the same pool must produce
// bit-identical summaries.
func TestReplayIsDeterministic(t *testing.T) {
	pool := []Problem{twoIssueProblem()}
	events := []Event{Tick{}, Tap{Line: 1}, Tap{Line: 2}, Tick{}, Tap{Line: 3}, Skip{}}

	run := func() Summary {
		s := NewState(pool, DefaultConfig())
		for _, ev := range events {
			s = s.Apply(ev)
		}
		return Summarize(s)
	}

	if a, b := run(), run(); a != b {
		t.Errorf("replays diverged: %+v vs %+v", a, b)
	}
}
