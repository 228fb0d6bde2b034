package lotto

import (
	"fmt"
	"math"
	"strconv"
)

// PrizeLevel identifies the tier a ticket wins
type PrizeLevel string

const (
	PrizeLevelJackpot PrizeLevel = "jackpot"
	PrizeLevelSecond  PrizeLevel = "second"
	PrizeLevelThird   PrizeLevel = "third"
	PrizeLevelFourth  PrizeLevel = "fourth"
	PrizeLevelNone    PrizeLevel = "none"
)

// Prize pool shares per tier
const (
	jackpotShare = 0.60
	secondShare  = 0.20
	thirdShare   = 0.15
	fourthShare  = 0.05
)

// WinnerValidation is the outcome of scoring one ticket against a draw's
// winning numbers. It is derived on demand and never persisted on its own.
type WinnerValidation struct {
	IsWinner    bool       `json:"is_winner"`
	MatchCount  int        `json:"match_count"`
	PrizeLevel  PrizeLevel `json:"prize_level"`
	PrizeAmount float64    `json:"prize_amount"`
}

// ScoreTicket scores ticketNumbers against winningNumbers for a draw with the
// given prize pool. Malformed input on either side degrades to the "none"
// result rather than an error: scoring runs over persisted data and must not
// fail on a stale or corrupt row.
func ScoreTicket(ticketNumbers, winningNumbers NumberSet, totalPrize float64) WinnerValidation {
	if !ticketNumbers.Valid() || !winningNumbers.Valid() {
		return WinnerValidation{PrizeLevel: PrizeLevelNone}
	}

	matchCount := ticketNumbers.MatchCount(winningNumbers)

	var level PrizeLevel
	var amount float64

	switch matchCount {
	case 6:
		level = PrizeLevelJackpot
		amount = totalPrize * jackpotShare
	case 5:
		level = PrizeLevelSecond
		amount = totalPrize * secondShare
	case 4:
		level = PrizeLevelThird
		amount = totalPrize * thirdShare
	case 3:
		level = PrizeLevelFourth
		amount = totalPrize * fourthShare
	default:
		level = PrizeLevelNone
		amount = 0
	}

	return WinnerValidation{
		IsWinner:    matchCount >= 3,
		MatchCount:  matchCount,
		PrizeLevel:  level,
		PrizeAmount: roundToCents(amount),
	}
}

// roundToCents rounds a currency amount to 2 decimal places, half away from
// zero. Amounts here are never negative, so this is plain round-half-up.
func roundToCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// Odds returns the winning odds per prize tier as human-readable strings.
// The jackpot denominator is C(MaxNumber, NumbersPerTicket). The lower tiers
// divide the jackpot count by fixed empirical divisors (6, 30, 200); these
// are a deliberate simplification, not exact hypergeometric odds.
func Odds() map[string]string {
	total := combinations(MaxNumber, NumbersPerTicket)

	return map[string]string{
		string(PrizeLevelJackpot): "1 in " + groupThousands(total),
		string(PrizeLevelSecond):  "1 in " + groupThousands(int64(math.Round(float64(total)/6))),
		string(PrizeLevelThird):   "1 in " + groupThousands(int64(math.Round(float64(total)/30))),
		string(PrizeLevelFourth):  "1 in " + groupThousands(int64(math.Round(float64(total)/200))),
	}
}

// combinations computes C(n, r) without overflowing for the ranges used here
func combinations(n, r int) int64 {
	if r > n {
		return 0
	}

	result := 1.0
	for i := 0; i < r; i++ {
		result = result * float64(n-i) / float64(i+1)
	}
	return int64(math.Round(result))
}

// groupThousands renders n with comma thousands separators
func groupThousands(n int64) string {
	if n < 0 {
		return "-" + groupThousands(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

// FormatPrizeAmount renders a prize amount with two decimals for display
func FormatPrizeAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
