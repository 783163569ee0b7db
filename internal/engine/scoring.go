package engine

// Combo multipliers in tenths, indexed by the streak value after the
// current hit. Integer math keeps floor(base * multiplier) exact:
// base*tenths/10 truncates toward zero, which is floor for positive
// operands.
//
//	combo 1 -> x1.0
//	combo 2 -> x1.2
//	combo 3 -> x1.5
//	combo 4+ -> x2.0
var comboTenths = [...]int{0, 10, 12, 15, 20}

// MissPenalty is the flat cost of tapping a line with no unsolved
// issue. The cumulative score is clamped at zero.
const MissPenalty = 1

// DefaultAllFoundBonus is awarded once per problem, on leaving it,
// when every one of its issues was found.
const DefaultAllFoundBonus = 3

// AwardFor returns the points for a hit worth base, where combo is the
// streak count after incrementing for this hit.
func AwardFor(base, combo int) int {
	if combo < 1 {
		combo = 1
	}
	if combo >= len(comboTenths) {
		combo = len(comboTenths) - 1
	}
	return base * comboTenths[combo] / 10
}
