package lotto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNumberSet(t *testing.T) {
	t.Run("produces a valid sorted set", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			numbers, err := GenerateNumberSet()
			require.NoError(t, err)

			assert.Len(t, numbers, NumbersPerTicket)
			assert.True(t, numbers.Valid())

			for j := 1; j < len(numbers); j++ {
				assert.Less(t, numbers[j-1], numbers[j], "numbers must be strictly ascending")
			}
		}
	})

	t.Run("covers the full range over many draws", func(t *testing.T) {
		seen := make(map[int]int)
		for i := 0; i < 10000; i++ {
			numbers, err := GenerateNumberSet()
			require.NoError(t, err)
			for _, n := range numbers {
				seen[n]++
			}
		}

		// 60000 draws over 50 values: every value should appear, and no
		// value should dominate. Expected count per value is 1200; a value
		// below 800 or above 1600 indicates a biased generator.
		assert.Len(t, seen, MaxNumber)
		for n := MinNumber; n <= MaxNumber; n++ {
			count := seen[n]
			assert.Greater(t, count, 800, "number %d drawn too rarely: %d", n, count)
			assert.Less(t, count, 1600, "number %d drawn too often: %d", n, count)
		}
	})
}

func TestNumberSetValid(t *testing.T) {
	tests := []struct {
		name    string
		numbers NumberSet
		want    bool
	}{
		{"valid unsorted set", NumberSet{50, 1, 25, 10, 30, 45}, true},
		{"valid boundary values", NumberSet{1, 2, 3, 48, 49, 50}, true},
		{"too few numbers", NumberSet{1, 2, 3, 4, 5}, false},
		{"too many numbers", NumberSet{1, 2, 3, 4, 5, 6, 7}, false},
		{"duplicate numbers", NumberSet{1, 2, 3, 4, 5, 5}, false},
		{"below minimum", NumberSet{0, 2, 3, 4, 5, 6}, false},
		{"above maximum", NumberSet{1, 2, 3, 4, 5, 51}, false},
		{"empty set", NumberSet{}, false},
		{"nil set", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.numbers.Valid())
		})
	}
}

func TestValidateNumberSet(t *testing.T) {
	assert.True(t, ValidateNumberSet([]int{3, 9, 17, 28, 41, 50}))
	assert.False(t, ValidateNumberSet([]int{3, 9, 17, 28, 41}))
	assert.False(t, ValidateNumberSet(nil))
}

func TestNumberSetSorted(t *testing.T) {
	original := NumberSet{50, 1, 25, 10, 30, 45}
	sorted := original.Sorted()

	assert.Equal(t, NumberSet{1, 10, 25, 30, 45, 50}, sorted)
	assert.Equal(t, NumberSet{50, 1, 25, 10, 30, 45}, original, "Sorted must not mutate the receiver")
}

func TestNumberSetMatchCount(t *testing.T) {
	winning := NumberSet{5, 12, 23, 34, 45, 50}

	tests := []struct {
		name   string
		ticket NumberSet
		want   int
	}{
		{"all six match", NumberSet{5, 12, 23, 34, 45, 50}, 6},
		{"order does not matter", NumberSet{50, 45, 34, 23, 12, 5}, 6},
		{"three match", NumberSet{5, 12, 23, 1, 2, 3}, 3},
		{"no match", NumberSet{1, 2, 3, 4, 6, 7}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ticket.MatchCount(winning))
		})
	}
}
