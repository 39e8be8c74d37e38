package calculator

import (
	"math/rand/v2"
	"strconv"
	"strings"
)

// DistributeRemainderRandomly splits total into count equal shares.
// Every share is total/count; the remainder is handed out as +1 to
// remainder distinct shares picked by rng without replacement, so the
// shares always sum to total and differ by at most 1.
//
// A nil rng uses the auto-seeded global source. count < 1 yields an empty
// slice and a negative total is treated as 0; the function never fails.
func DistributeRemainderRandomly(total int64, count int, rng *rand.Rand) []int64 {
	if count < 1 {
		return []int64{}
	}
	if total < 0 {
		total = 0
	}

	base := total / int64(count)
	remainder := int(total - base*int64(count))

	shares := make([]int64, count)
	for i := range shares {
		shares[i] = base
	}
	if remainder == 0 {
		return shares
	}

	var order []int
	if rng != nil {
		order = rng.Perm(count)
	} else {
		order = rand.Perm(count)
	}
	for _, i := range order[:remainder] {
		shares[i]++
	}
	return shares
}

// FillRemainder solves one purchaser's share residually: whatever part of
// total the other shares do not cover.
func FillRemainder(total int64, otherShares []int64) int64 {
	return total - Sum(otherShares)
}

// Sum adds up values.
func Sum(values []int64) int64 {
	var sum int64
	for _, v := range values {
		sum += v
	}
	return sum
}

// ParseAmount coerces form text to an amount. Text that is not an integer
// counts as 0.
func ParseAmount(raw string) int64 {
	v, _ := ParseAmountStrict(raw)
	return v
}

// ParseAmountStrict parses form text as an integer amount and reports
// whether the whole text was a valid integer.
func ParseAmountStrict(raw string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
