package calculator

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func TestDistributeRemainderRandomly(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		count int
		want  []int64 // sorted descending; nil means only check invariants
	}{
		{name: "100 across 3 is a permutation of 34,33,33", total: 100, count: 3, want: []int64{34, 33, 33}},
		{name: "90 across 3 divides evenly", total: 90, count: 3, want: []int64{30, 30, 30}},
		{name: "zero total", total: 0, count: 4, want: []int64{0, 0, 0, 0}},
		{name: "single purchaser gets everything", total: 1234, count: 1, want: []int64{1234}},
		{name: "total smaller than count", total: 2, count: 5, want: []int64{1, 1, 0, 0, 0}},
		{name: "large remainder", total: 1999, count: 7},
	}

	rng := rand.New(rand.NewPCG(1, 2))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistributeRemainderRandomly(tt.total, tt.count, rng)
			assertDistribution(t, got, tt.total, tt.count)

			if tt.want != nil {
				sorted := slices.Clone(got)
				slices.Sort(sorted)
				slices.Reverse(sorted)
				if !slices.Equal(sorted, tt.want) {
					t.Errorf("DistributeRemainderRandomly(%d, %d) = %v, want permutation of %v", tt.total, tt.count, got, tt.want)
				}
			}
		})
	}
}

func TestDistributeRemainderRandomly_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	for total := int64(0); total <= 250; total += 7 {
		for count := 1; count <= 9; count++ {
			got := DistributeRemainderRandomly(total, count, rng)
			assertDistribution(t, got, total, count)
		}
	}
}

func TestDistributeRemainderRandomly_RemainderPlacementVaries(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	seen := make(map[int]bool)
	for range 200 {
		got := DistributeRemainderRandomly(100, 3, rng)
		assertDistribution(t, got, 100, 3)
		seen[slices.Index(got, 34)] = true
	}
	if len(seen) < 2 {
		t.Errorf("remainder always landed on the same purchaser: %v", seen)
	}
}

func TestDistributeRemainderRandomly_SeededIsReproducible(t *testing.T) {
	a := DistributeRemainderRandomly(1001, 6, rand.New(rand.NewPCG(9, 9)))
	b := DistributeRemainderRandomly(1001, 6, rand.New(rand.NewPCG(9, 9)))
	if !slices.Equal(a, b) {
		t.Errorf("same seed produced %v and %v", a, b)
	}
}

func TestDistributeRemainderRandomly_NilSource(t *testing.T) {
	got := DistributeRemainderRandomly(10, 3, nil)
	assertDistribution(t, got, 10, 3)
}

func TestDistributeRemainderRandomly_CoercesBadInput(t *testing.T) {
	if got := DistributeRemainderRandomly(10, 0, nil); len(got) != 0 {
		t.Errorf("count 0: got %v, want empty", got)
	}
	got := DistributeRemainderRandomly(-5, 2, nil)
	if !slices.Equal(got, []int64{0, 0}) {
		t.Errorf("negative total: got %v, want [0 0]", got)
	}
}

func TestFillRemainder(t *testing.T) {
	tests := []struct {
		name   string
		total  int64
		others []int64
		want   int64
	}{
		{name: "no other shares", total: 500, others: nil, want: 500},
		{name: "two others", total: 1000, others: []int64{300, 200}, want: 500},
		{name: "others already cover total", total: 100, others: []int64{60, 40}, want: 0},
		{name: "others exceed total", total: 100, others: []int64{80, 40}, want: -20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FillRemainder(tt.total, tt.others)
			if got != tt.want {
				t.Errorf("FillRemainder(%d, %v) = %d, want %d", tt.total, tt.others, got, tt.want)
			}
			if got+Sum(tt.others) != tt.total {
				t.Errorf("FillRemainder(%d, %v) + sum(others) = %d, want %d", tt.total, tt.others, got+Sum(tt.others), tt.total)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw        string
		want       int64
		wantStrict bool
	}{
		{"1200", 1200, true},
		{" 42 ", 42, true},
		{"0", 0, true},
		{"-3", -3, true},
		{"", 0, false},
		{"12a", 0, false},
		{"1.5", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParseAmount(tt.raw); got != tt.want {
				t.Errorf("ParseAmount(%q) = %d, want %d", tt.raw, got, tt.want)
			}
			if _, ok := ParseAmountStrict(tt.raw); ok != tt.wantStrict {
				t.Errorf("ParseAmountStrict(%q) ok = %v, want %v", tt.raw, ok, tt.wantStrict)
			}
		})
	}
}

func assertDistribution(t *testing.T, got []int64, total int64, count int) {
	t.Helper()

	if len(got) != count {
		t.Fatalf("got %d shares, want %d", len(got), count)
	}
	if Sum(got) != total {
		t.Errorf("shares %v sum to %d, want %d", got, Sum(got), total)
	}
	base := total / int64(count)
	for i, v := range got {
		if v != base && v != base+1 {
			t.Errorf("share %d = %d, want %d or %d", i, v, base, base+1)
		}
	}
}
