package engine

import (
	"context"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
)

// LanguageAll matches problems in every code language.
const LanguageAll = "all"

// Repository supplies problems for pool construction. Implementations
// must return problems whose issue lines are 1-based and within the
// code range; the engine does not re-validate them.
type Repository interface {
	FetchProblems(ctx context.Context, language string, level int) ([]Problem, error)
}

// BuildPool draws one session's problem sequence: for each level in
// perLevel it selects up to the configured count uniformly at random
// without replacement from the matching problems (fewer available is
// fine — it takes them all), then shuffles the combined sequence once
// more. The same rng seed over the same repository contents yields the
// same pool, which is what makes sessions replayable in tests.
func BuildPool(ctx context.Context, repo Repository, language string, perLevel map[int]int, rng *rand.Rand) ([]Problem, error) {
	levels := slices.Sorted(maps.Keys(perLevel))

	var pool []Problem
	for _, level := range levels {
		count := perLevel[level]
		if count <= 0 {
			continue
		}
		candidates, err := repo.FetchProblems(ctx, language, level)
		if err != nil {
			return nil, fmt.Errorf("fetching level %d problems: %w", level, err)
		}
		rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
		if count > len(candidates) {
			count = len(candidates)
		}
		pool = append(pool, candidates[:count]...)
	}

	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return pool, nil
}
