package lotto

import "sort"

// NumberSet is a pick of exactly NumbersPerTicket distinct numbers in
// [MinNumber, MaxNumber], kept sorted ascending. A NumberSet attached to a
// ticket or to a draw's winning numbers is never mutated afterwards.
type NumberSet []int

// GenerateNumberSet draws NumbersPerTicket distinct numbers uniformly at
// random from [MinNumber, MaxNumber] using crypto/rand, rejecting duplicates
// until the set is full, and returns them sorted ascending.
//
// The same routine backs winning-number generation and quick picks; only the
// purpose differs.
func GenerateNumberSet() (NumberSet, error) {
	generator := NewSecureRandomGenerator()

	seen := make(map[int]bool, NumbersPerTicket)
	numbers := make(NumberSet, 0, NumbersPerTicket)

	for len(numbers) < NumbersPerTicket {
		n, err := generator.GenerateInRange(MinNumber, MaxNumber)
		if err != nil {
			return nil, err
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		numbers = append(numbers, n)
	}

	sort.Ints(numbers)
	return numbers, nil
}

// Valid reports whether the set is a legal pick: exactly NumbersPerTicket
// values, each within [MinNumber, MaxNumber], all pairwise distinct.
func (ns NumberSet) Valid() bool {
	if len(ns) != NumbersPerTicket {
		return false
	}

	seen := make(map[int]bool, NumbersPerTicket)
	for _, n := range ns {
		if n < MinNumber || n > MaxNumber {
			return false
		}
		if seen[n] {
			return false
		}
		seen[n] = true
	}

	return true
}

// Sorted returns a sorted copy of the set. The receiver is not modified.
func (ns NumberSet) Sorted() NumberSet {
	out := make(NumberSet, len(ns))
	copy(out, ns)
	sort.Ints(out)
	return out
}

// MatchCount returns the size of the intersection with other. Membership is
// by value, irrespective of order on either side.
func (ns NumberSet) MatchCount(other NumberSet) int {
	inOther := make(map[int]bool, len(other))
	for _, n := range other {
		inOther[n] = true
	}

	count := 0
	for _, n := range ns {
		if inOther[n] {
			count++
		}
	}
	return count
}

// ValidateNumberSet reports whether numbers form a legal pick
func ValidateNumberSet(numbers []int) bool {
	return NumberSet(numbers).Valid()
}
