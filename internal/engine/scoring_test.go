package engine

import "testing"

func TestAwardForMultiplierTable(t *testing.T) {
	tests := []struct {
		base, combo, want int
	}{
		{base: 10, combo: 1, want: 10},
		{base: 10, combo: 2, want: 12},
		{base: 10, combo: 3, want: 15},
		{base: 10, combo: 4, want: 20},
		{base: 10, combo: 9, want: 20}, // 4+ caps at x2.0
		{base: 4, combo: 3, want: 6},   // floor(4 * 1.5)
		{base: 5, combo: 5, want: 10},  // floor(5 * 2.0)
		{base: 3, combo: 2, want: 3},   // floor(3 * 1.2) = floor(3.6)
		{base: 7, combo: 3, want: 10},  // floor(7 * 1.5) = floor(10.5)
		{base: 1, combo: 2, want: 1},   // floor(1.2)
	}
	for _, tt := range tests {
		if got := AwardFor(tt.base, tt.combo); got != tt.want {
			t.Errorf("AwardFor(%d, %d) = %d, want %d", tt.base, tt.combo, got, tt.want)
		}
	}
}

func TestAwardForClampsComboBelowOne(t *testing.T) {
	if got := AwardFor(10, 0); got != 10 {
		t.Errorf("AwardFor(10, 0) = %d, want 10", got)
	}
}
