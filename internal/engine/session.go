package engine

import (
	"maps"
	"slices"
)

// Status is the lifecycle phase of a session. There is no explicit
// "not started": NewState draws the first problem immediately, so a
// freshly built state is already InProgress (or Ended when the pool
// was empty).
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusEnded      Status = "ended"
)

// Config holds the tunable game parameters.
type Config struct {
	// GameTimeSeconds is the countdown the session starts with.
	GameTimeSeconds int
	// AllFoundBonus is paid once per problem, on leaving it, when all
	// of its issues were found.
	AllFoundBonus int
}

// DefaultConfig returns the standard 60-second game.
func DefaultConfig() Config {
	return Config{GameTimeSeconds: 60, AllFoundBonus: DefaultAllFoundBonus}
}

// Event is one player or timer input. Exactly one event is applied at
// a time; the reducer never blocks.
type Event interface{ isEvent() }

// Tick is the one-second timer event, driven by the host.
type Tick struct{}

// Tap marks a 1-based line of the current problem.
type Tap struct{ Line int }

// Skip leaves the current problem and pulls the next from the pool.
type Skip struct{}

func (Tick) isEvent() {}
func (Tap) isEvent()  {}
func (Skip) isEvent() {}

// State is the full session state. It is treated as a value: Apply
// returns a new State and never mutates its input, so any prefix of an
// event log can be replayed deterministically.
type State struct {
	Cfg    Config
	Status Status

	// Current is nil before a problem is assigned (empty pool at
	// construction) or after the pool ran out.
	Current *Problem
	Level   int

	Score    int
	Combo    int
	TimeLeft int

	// Tapped and Solved are per current problem and reset on skip.
	Tapped map[int]bool
	Solved map[string]bool

	// SolvedAll accumulates every find across the session, keyed
	// problemID+"/"+issueID since issue IDs are only unique per problem.
	SolvedAll map[string]bool

	// Completed counts problems the player moved past via Skip.
	Completed int

	// TotalIssues sums issue counts over every problem ever made
	// current, including the final unfinished one.
	TotalIssues int

	// Pool is the remaining problem sequence, consumed from the front.
	Pool []Problem
}

// NewState builds a session over pool and draws the first problem. An
// empty pool yields an immediately Ended session with no current
// problem.
func NewState(pool []Problem, cfg Config) State {
	s := State{
		Cfg:       cfg,
		Status:    StatusInProgress,
		TimeLeft:  cfg.GameTimeSeconds,
		Tapped:    map[int]bool{},
		Solved:    map[string]bool{},
		SolvedAll: map[string]bool{},
		Pool:      slices.Clone(pool),
	}
	if len(s.Pool) == 0 {
		s.Status = StatusEnded
		return s
	}
	next := s.Pool[0]
	s.Pool = s.Pool[1:]
	s.Current = &next
	s.Level = next.Level
	s.TotalIssues += len(next.Issues)
	return s
}

// Apply advances the session by one event and returns the new state.
// Events applied to an Ended session are ignored and return the state
// unchanged, which lets the host race a final tick against a tap
// without corrupting anything.
func (s State) Apply(ev Event) State {
	if s.Status == StatusEnded {
		return s
	}
	switch ev := ev.(type) {
	case Tick:
		return s.tick()
	case Tap:
		return s.tap(ev.Line)
	case Skip:
		return s.skip()
	}
	return s
}

func (s State) tick() State {
	s.TimeLeft--
	if s.TimeLeft <= 0 {
		s.TimeLeft = 0
		s.Status = StatusEnded
	}
	return s
}

func (s State) tap(line int) State {
	if s.Current == nil || s.Tapped[line] {
		// Repeated taps on the same line never re-score.
		return s
	}

	s.Tapped = maps.Clone(s.Tapped)
	s.Tapped[line] = true

	iss, ok := s.Current.issueAt(line, s.Solved)
	if !ok {
		// Miss: flat penalty, clamped at zero, combo resets. Taps on
		// lines outside the code range land here too, since no issue
		// can cover a line that does not exist.
		s.Score -= MissPenalty
		if s.Score < 0 {
			s.Score = 0
		}
		s.Combo = 0
		return s
	}

	s.Combo++
	s.Score += AwardFor(iss.BaseScore, s.Combo)

	s.Solved = maps.Clone(s.Solved)
	s.Solved[iss.ID] = true
	s.SolvedAll = maps.Clone(s.SolvedAll)
	s.SolvedAll[s.Current.ID+"/"+iss.ID] = true
	return s
}

func (s State) skip() State {
	if s.Current == nil {
		return s
	}

	if n := len(s.Current.Issues); n > 0 && len(s.Solved) == n {
		s.Score += s.Cfg.AllFoundBonus
	}
	s.Completed++

	if len(s.Pool) == 0 {
		s.Current = nil
		s.Status = StatusEnded
		return s
	}

	next := s.Pool[0]
	s.Pool = slices.Clone(s.Pool[1:])
	s.Current = &next
	s.Level = next.Level
	s.Tapped = map[int]bool{}
	s.Solved = map[string]bool{}
	s.TotalIssues += len(next.Issues)
	return s
}

// AllFound reports whether every issue of the current problem is
// solved. False when there is no current problem or it has no issues.
func (s State) AllFound() bool {
	if s.Current == nil || len(s.Current.Issues) == 0 {
		return false
	}
	return len(s.Solved) == len(s.Current.Issues)
}
